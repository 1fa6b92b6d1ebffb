package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users. The verification
// path is read-only: Create exists only for out-of-band seeding.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored login principal.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	Name         string
	CreatedAt    time.Time
}
