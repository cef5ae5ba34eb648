package models

import "time"

// Schema limits for user fields
const (
	MaxLoginLen    = 20
	MinPasswordLen = 8
	MaxPasswordLen = 20
)

// User represents an account principal. Password always holds the bcrypt
// digest, never plaintext, and is excluded from JSON serialization.
type User struct {
	ID       int64     `json:"id" db:"id"`
	Login    string    `json:"login" db:"login"`
	Password string    `json:"-" db:"password"`
	Created  time.Time `json:"created" db:"created"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance with the given login and password digest
func NewUser(login, passwordDigest string) *User {
	return &User{
		Login:    login,
		Password: passwordDigest,
		Created:  time.Now(),
	}
}
