// Package auth implements user accounts: bcrypt password storage and HS256
// token issuance.
package auth

import (
	"context"
	"errors"
	"time"
)

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

var (
	// ErrEmailTaken is returned when signing up with an existing email.
	ErrEmailTaken = errors.New("user already exists")
	// ErrInvalidCredentials is returned for a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Repository persists user accounts.
type Repository interface {
	CreateUser(ctx context.Context, email, passwordHash string) (int64, error)
	UserByEmail(ctx context.Context, email string) (User, error)
}
