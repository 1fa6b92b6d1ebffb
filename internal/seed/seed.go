// Package seed creates the out-of-band login principal used by local
// development and the end-to-end tests.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/model"
)

// Params are the credentials of the seeded user.
type Params struct {
	Email    string
	Password string
	Name     string
}

// Run creates the user described by params unless it already exists. The
// password is stored only as a bcrypt hash.
func Run(ctx context.Context, userStore model.UserStore, params Params, logger *logger.Logger) error {
	_, err := userStore.GetByEmail(ctx, params.Email)
	if err == nil {
		logger.Info("seed: user already exists", "email", params.Email)
		return nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to check for existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        params.Email,
		PasswordHash: hash,
		Name:         params.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("seed: user created", "email", user.Email, "user_id", user.ID)
	return nil
}
