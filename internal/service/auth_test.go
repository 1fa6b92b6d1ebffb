package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/filevault/filevault-server/internal/apperrors"
	"github.com/filevault/filevault-server/internal/mocks"
	"github.com/filevault/filevault-server/internal/model"
	"github.com/filevault/filevault-server/internal/testutil"
)

func hashPassword(t *testing.T, password string) []byte {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func TestAuth_Login_Success(t *testing.T) {
	ctx := context.Background()
	userStore := &mocks.UserStore{}
	tokMan := &mocks.TokenManager{}
	log := testutil.MakeNoopLogger()

	user := model.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: hashPassword(t, "password123"),
		Name:         "Test User",
	}
	userStore.On("GetByEmail", mock.Anything, "test@example.com").Return(user, nil)
	tokMan.On("GenerateSessionToken", user.ID).Return("signed-token", nil)

	a := NewAuth(userStore, tokMan, log)

	session, err := a.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", session.Token)
	assert.Equal(t, user.Email, session.User.Email)
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	userStore := &mocks.UserStore{}
	tokMan := &mocks.TokenManager{}
	log := testutil.MakeNoopLogger()

	user := model.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: hashPassword(t, "password123"),
	}
	userStore.On("GetByEmail", mock.Anything, "test@example.com").Return(user, nil)

	a := NewAuth(userStore, tokMan, log)

	_, err := a.Login(ctx, "test@example.com", "wrongpass")
	require.Error(t, err)
	assert.True(t, apperrors.ErrInvalidCredentials.Has(err))
}

func TestAuth_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	userStore := &mocks.UserStore{}
	tokMan := &mocks.TokenManager{}
	log := testutil.MakeNoopLogger()

	userStore.On("GetByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, model.ErrNotFound)

	a := NewAuth(userStore, tokMan, log)

	_, err := a.Login(ctx, "nobody@example.com", "password123")
	require.Error(t, err)
	assert.True(t, apperrors.ErrInvalidCredentials.Has(err))
}

// Unknown email and wrong password must be indistinguishable by case.
func TestAuth_Login_FailuresIndistinguishable(t *testing.T) {
	ctx := context.Background()
	log := testutil.MakeNoopLogger()
	tokMan := &mocks.TokenManager{}

	unknownStore := &mocks.UserStore{}
	unknownStore.On("GetByEmail", mock.Anything, mock.Anything).Return(model.User{}, model.ErrNotFound)
	_, errUnknown := NewAuth(unknownStore, tokMan, log).Login(ctx, "nobody@example.com", "pw")

	mismatchStore := &mocks.UserStore{}
	mismatchStore.On("GetByEmail", mock.Anything, mock.Anything).Return(model.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: hashPassword(t, "right"),
	}, nil)
	_, errMismatch := NewAuth(mismatchStore, tokMan, log).Login(ctx, "test@example.com", "wrong")

	require.Error(t, errUnknown)
	require.Error(t, errMismatch)
	assert.Equal(t, errUnknown.Error(), errMismatch.Error())
}

func TestAuth_Login_StoreError(t *testing.T) {
	ctx := context.Background()
	userStore := &mocks.UserStore{}
	tokMan := &mocks.TokenManager{}
	log := testutil.MakeNoopLogger()

	userStore.On("GetByEmail", mock.Anything, mock.Anything).Return(model.User{}, errors.New("connection refused"))

	a := NewAuth(userStore, tokMan, log)

	_, err := a.Login(ctx, "test@example.com", "password123")
	require.Error(t, err)
	assert.False(t, apperrors.ErrInvalidCredentials.Has(err))
}
