package model

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileStore defines persistence operations for file metadata records.
type FileStore interface {
	Create(ctx context.Context, file File) (File, error)
	GetByID(ctx context.Context, id uuid.UUID) (File, error)
	// List returns records most recently uploaded first.
	List(ctx context.Context) ([]File, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// File represents a stored file's metadata. A row with a non-empty Key
// always references a live object in the store; the upload and deletion
// orderings in the file service keep it that way.
type File struct {
	ID         uuid.UUID
	Filename   string
	Mimetype   string
	Size       int64
	Key        string
	URL        string
	UploadedAt time.Time
}

// Upload is the canonical shape of an inbound file upload after intake
// normalization. Filename and Mimetype come from the client; Size never
// does, it is derived from the buffered content.
type Upload struct {
	Filename string
	Mimetype string
	Content  io.Reader
}
