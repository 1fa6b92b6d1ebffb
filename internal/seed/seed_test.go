package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/filevault/filevault-server/internal/mocks"
	"github.com/filevault/filevault-server/internal/model"
	"github.com/filevault/filevault-server/internal/testutil"
)

var testParams = Params{
	Email:    "test@example.com",
	Password: "password123",
	Name:     "Test User",
}

func TestRun_CreatesUser(t *testing.T) {
	userStore := &mocks.UserStore{}
	userStore.On("GetByEmail", mock.Anything, testParams.Email).Return(model.User{}, model.ErrNotFound)

	var created model.User
	userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		created = u
		return u.Email == testParams.Email && u.Name == testParams.Name && u.ID != uuid.Nil
	})).Return(model.User{ID: uuid.New(), Email: testParams.Email}, nil)

	err := Run(context.Background(), userStore, testParams, testutil.MakeNoopLogger())
	require.NoError(t, err)
	userStore.AssertExpectations(t)

	// Only the bcrypt hash is persisted, and it verifies.
	assert.NotEqual(t, []byte(testParams.Password), created.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword(created.PasswordHash, []byte(testParams.Password)))
}

func TestRun_ExistingUserIsNoop(t *testing.T) {
	userStore := &mocks.UserStore{}
	userStore.On("GetByEmail", mock.Anything, testParams.Email).Return(model.User{
		ID:    uuid.New(),
		Email: testParams.Email,
	}, nil)

	err := Run(context.Background(), userStore, testParams, testutil.MakeNoopLogger())
	require.NoError(t, err)
	userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRun_StoreError(t *testing.T) {
	userStore := &mocks.UserStore{}
	userStore.On("GetByEmail", mock.Anything, testParams.Email).Return(model.User{}, errors.New("connection refused"))

	err := Run(context.Background(), userStore, testParams, testutil.MakeNoopLogger())
	require.Error(t, err)
	userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
