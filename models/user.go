package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated actor. The role stored here is the
// actor's actual role; the effective role for a request may be downgraded
// by the acting-role selector but is never persisted.
type User struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Phone       string    `json:"phone" db:"phone"`
	IdentitySub string    `json:"identity_sub" db:"identity_sub"` // identity-provider subject
	Role        Role      `json:"role" db:"role"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(email, displayName, identitySub string, role Role) *User {
	now := time.Now()
	return &User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: displayName,
		IdentitySub: identitySub,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsSuperAdmin returns true if the user holds the unconditionally trusted role
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}
