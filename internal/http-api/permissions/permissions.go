// Package permissions holds the access predicates for the API. Each predicate
// is a pure function of the request method, the authenticated user (nil for
// anonymous requests) and, for object-level checks, the target.
//
// Predicates are evaluated in two layers: the general check runs in route
// middleware before the handler, the object-level check runs in the service
// once the target row has been loaded.
package permissions

import (
	"net/http"

	"reviewhub/internal/http-api/models"
)

// SafeMethod reports whether the method is read-only.
func SafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// SelfOrAdmin allows reads to everyone and writes to admins/superusers or to
// the user acting on their own record.
func SelfOrAdmin(method string, actor *models.User, target *models.User) bool {
	if SafeMethod(method) {
		return true
	}
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return target != nil && actor.ID == target.ID
}

// AdminOnly allows both reads and writes only to authenticated admins or
// superusers.
func AdminOnly(actor *models.User) bool {
	return actor != nil && actor.IsAdmin()
}

// AdminOrReadOnly allows reads to anyone, including anonymous requests, and
// writes to authenticated admins or superusers.
func AdminOrReadOnly(method string, actor *models.User) bool {
	if SafeMethod(method) {
		return true
	}
	return AdminOnly(actor)
}

// OwnerModeratorOrReadOnly is the general (non-object) check for reviews and
// comments: reads are public, any write needs an authenticated actor.
func OwnerModeratorOrReadOnly(method string, actor *models.User) bool {
	if SafeMethod(method) {
		return true
	}
	return actor != nil
}

// CanModifyObject is the object-level half of OwnerModeratorOrReadOnly: the
// author of the object or anyone with moderator rights may change it.
func CanModifyObject(actor *models.User, authorID int64) bool {
	if actor == nil {
		return false
	}
	return actor.ID == authorID || actor.IsModerator()
}
