package models

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleModerator || role == RoleAdmin
}

type User struct {
	ID        int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string  `json:"username" gorm:"uniqueIndex;not null;size:150"`
	Email     string  `json:"email" gorm:"uniqueIndex;not null;size:254"`
	FirstName *string `json:"first_name,omitempty" gorm:"size:150"`
	LastName  *string `json:"last_name,omitempty" gorm:"size:150"`
	Bio       *string `json:"bio,omitempty" gorm:"type:text"`
	Role      string  `json:"role" gorm:"default:'user';not null;size:10"`
	// superuser overrides the role column for admin checks
	IsSuperuser bool `json:"-" gorm:"default:false;not null"`
	// bcrypt hash of the signup confirmation code, never serialized
	ConfirmationCode string    `json:"-" gorm:"column:confirmation_code_hash;not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsAdmin is true for role=admin or any superuser.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperuser
}

// IsModerator is true for role=moderator or anyone passing IsAdmin.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator || u.IsAdmin()
}

func (User) TableName() string {
	return "users"
}
