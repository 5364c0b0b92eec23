package models

import "fmt"

// User is an account that owns songs and friendship edges.
type User struct {
	record
	username     string
	passwordHash string
}

var _ Model = (*User)(nil)

// NewUser creates a [User] with the given sequence, username and password hash.
func NewUser(sequence int, username, passwordHash string) *User {
	return &User{record: newRecord(sequence), username: username, passwordHash: passwordHash}
}

func (u *User) Username() string     { return u.username }
func (u *User) PasswordHash() string { return u.passwordHash }

// Validate requires an ID and a stored hash. Any username, blank included, is accepted.
func (u *User) Validate() error {
	if u.id == "" {
		return fmt.Errorf("user ID is required")
	}
	if u.passwordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	return nil
}
