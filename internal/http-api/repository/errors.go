package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// Unique indexes on the users table. AutoMigrate derives the first two from
// the model tags; the folded one is created by hand in the migration step.
const (
	UserEmailIndex        = "idx_users_email"
	UserUsernameIndex     = "idx_users_username"
	UserUsernameFoldIndex = "idx_users_username_lower"
)

// IsUniqueViolation reports whether err is a unique-constraint violation from
// the database. The constraint is the source of truth for uniqueness rules
// (duplicate reviews, duplicate signup fields); callers turn this into the
// same validation error as the early existence check.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// UniqueConstraint returns the name of the violated constraint when err is a
// unique violation surfaced by the postgres driver, or "" otherwise. Callers
// branch on it to report which field collided.
func UniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}

// IsNotFound reports whether err is gorm's missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
