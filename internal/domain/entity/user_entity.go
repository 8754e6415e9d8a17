package entity

import (
	"time"
)

// User is the aggregate root for the credential domain
// Passwords are stored as bcrypt hashes in Password field and never leave the service layer.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
