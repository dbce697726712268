package models

import (
	"time"

	"github.com/lib/pq"
)

// StaffUser is the session principal. Presence of an it_staff row for the
// authenticated email is the authorization check.
type StaffUser struct {
	ID           int            `json:"id" db:"id"`
	Email        string         `json:"email" db:"email"`
	Name         string         `json:"name" db:"name"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Role         string         `json:"role" db:"role"`
	Permissions  pq.StringArray `json:"permissions" db:"permissions"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
	LastLogin    *time.Time     `json:"lastLogin,omitempty" db:"last_login"`
}

type CreateStaffRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Name        string   `json:"name" binding:"required"`
	Password    string   `json:"password" binding:"required,min=8"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}
