package model

import (
	"context"

	"github.com/google/uuid"
)

// TokenManager issues and validates session tokens.
type TokenManager interface {
	GenerateSessionToken(userID uuid.UUID) (string, error)
	ParseSessionToken(token string) (uuid.UUID, error)
}

// ContextManager carries the authenticated user identity through a
// request context. A context without a user ID is anonymous; operations
// that require identity check it themselves.
type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  User
}
