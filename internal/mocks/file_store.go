package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/filevault/filevault-server/internal/model"
)

// FileStore is a mock of model.FileStore.
type FileStore struct {
	mock.Mock
}

func (m *FileStore) Create(ctx context.Context, file model.File) (model.File, error) {
	args := m.Called(ctx, file)
	return args.Get(0).(model.File), args.Error(1)
}

func (m *FileStore) GetByID(ctx context.Context, id uuid.UUID) (model.File, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.File), args.Error(1)
}

func (m *FileStore) List(ctx context.Context) ([]model.File, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *FileStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
