package domain

import (
	"errors"
	"time"
)

type ID string

// User is owned by the credential store; records are never mutated after
// creation within this system.
type User struct {
	ID           ID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

var (
	ErrMissingID           = errors.New("user id is required")
	ErrMissingUsername     = errors.New("username is required")
	ErrMissingPasswordHash = errors.New("password hash is required")
)

// New validates required fields explicitly instead of relying on the store
// schema to reject incomplete records.
func New(id, username, passwordHash string, createdAt time.Time) (User, error) {
	if id == "" {
		return User{}, ErrMissingID
	}
	if username == "" {
		return User{}, ErrMissingUsername
	}
	if passwordHash == "" {
		return User{}, ErrMissingPasswordHash
	}
	return User{
		ID:           ID(id),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}
