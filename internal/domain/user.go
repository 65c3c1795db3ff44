package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain entity for an account. Users are created on first sign-in.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string // empty for accounts created through an OAuth provider
	CreatedAt    time.Time
}
