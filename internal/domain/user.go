package domain

import "time"

// User represents a registered account. Email and phone are each globally
// unique; the password is stored only as an argon2id hash.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
