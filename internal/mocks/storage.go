package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/filevault/filevault-server/internal/model"
)

// Storage is a mock of model.Storage.
type Storage struct {
	mock.Mock
}

func (m *Storage) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (model.StoredObject, error) {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Get(0).(model.StoredObject), args.Error(1)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
