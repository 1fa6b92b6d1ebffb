package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/filevault/filevault-server/internal/apperrors"
	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/model"
)

// Auth verifies credentials and issues session tokens.
type Auth struct {
	userStore    model.UserStore
	tokenManager model.TokenManager
	logger       *logger.Logger
}

// NewAuth creates an Auth service.
func NewAuth(userStore model.UserStore, tokenManager model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// Login checks email/password against the stored hash and returns a
// session token with the user. An unknown email and a wrong password fail
// with the same error so callers cannot enumerate accounts.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login attempt for unknown email", "email", email)
		return model.Session{}, apperrors.NewInvalidCredentials()
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: password mismatch", "user_id", user.ID)
		return model.Session{}, apperrors.NewInvalidCredentials()
	}

	token, err := a.tokenManager.GenerateSessionToken(user.ID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	a.logger.Info("Auth service: login completed", "user_id", user.ID)

	return model.Session{Token: token, User: user}, nil
}
