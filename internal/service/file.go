package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/filevault/filevault-server/internal/apperrors"
	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/model"
)

// keyPrefix is the namespace all uploaded objects live under.
const keyPrefix = "uploads/"

// File ingests uploads into the object store, keeps their metadata
// records consistent with stored objects, and coordinates deletion.
type File struct {
	fileStore      model.FileStore
	storage        model.Storage
	contextManager model.ContextManager
	maxUploadSize  int64
	logger         *logger.Logger
	metrics        *Metrics
}

// NewFile creates a File service. maxUploadSize caps buffered upload
// bytes; 0 disables the cap.
func NewFile(
	fileStore model.FileStore,
	storage model.Storage,
	contextManager model.ContextManager,
	maxUploadSize int64,
	logger *logger.Logger,
) *File {
	return &File{
		fileStore:      fileStore,
		storage:        storage,
		contextManager: contextManager,
		maxUploadSize:  maxUploadSize,
		logger:         logger,
		metrics:        InitMetrics(nil),
	}
}

// Upload buffers the upload's content, writes the object to storage and
// then records its metadata. The object write always precedes the record
// write: a failed record write leaves an orphan object (logged, never
// rolled back), never a record without an object.
//
// Unexpected failures reach the caller as the generic upload error; the
// cause stays in the logs.
func (s *File) Upload(ctx context.Context, upload model.Upload) (model.File, error) {
	userID, ok := s.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return model.File{}, apperrors.NewNotAuthorized()
	}

	file, err := s.ingest(ctx, upload)
	if err != nil {
		if apperrors.ErrMissingMetadata.Has(err) {
			return model.File{}, err
		}
		s.logger.Error("File service: upload failed",
			"user_id", userID,
			"filename", upload.Filename,
			"error", err.Error())
		return model.File{}, apperrors.NewUpload()
	}

	s.logger.Info("File service: upload completed",
		"user_id", userID,
		"file_id", file.ID,
		"key", file.Key,
		"size", file.Size)

	return file, nil
}

// ingest reads the content to completion, derives the storage key, puts
// the object and creates the metadata record. Errors keep their precise
// kind; Upload decides what the caller sees.
func (s *File) ingest(ctx context.Context, upload model.Upload) (model.File, error) {
	if upload.Filename == "" || upload.Mimetype == "" {
		return model.File{}, apperrors.ErrMissingMetadata.New("filename and mimetype are required")
	}

	buf, err := s.buffer(upload.Content)
	if err != nil {
		return model.File{}, fmt.Errorf("failed to read upload stream: %w", err)
	}

	key := keyPrefix + uuid.NewString() + path.Ext(upload.Filename)

	stored, err := s.storage.Put(ctx, key, bytes.NewReader(buf), int64(len(buf)), upload.Mimetype)
	if err != nil {
		return model.File{}, apperrors.ErrStorageWrite.Wrap(err)
	}
	s.metrics.BytesUploaded.Add(float64(len(buf)))

	file, err := s.fileStore.Create(ctx, model.File{
		ID:       uuid.New(),
		Filename: upload.Filename,
		Mimetype: upload.Mimetype,
		Size:     int64(len(buf)),
		Key:      stored.Key,
		URL:      stored.URL,
	})
	if err != nil {
		// The object is already written; it stays behind as an orphan.
		s.logger.Error("File service: record create failed after object write, object orphaned",
			"key", stored.Key,
			"error", err.Error())
		return model.File{}, fmt.Errorf("failed to create file record: %w", err)
	}

	return file, nil
}

// buffer reads the stream fully into memory, enforcing the size cap
// before the oversized tail is ever buffered.
func (s *File) buffer(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("upload content stream is nil")
	}
	if s.maxUploadSize <= 0 {
		return io.ReadAll(r)
	}

	buf, err := io.ReadAll(io.LimitReader(r, s.maxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) > s.maxUploadSize {
		return nil, fmt.Errorf("upload exceeds maximum size of %d bytes", s.maxUploadSize)
	}
	return buf, nil
}

// Get returns the file record by ID. A missing record is reported as
// model.ErrNotFound, not a failure; the API layer maps it to a null
// result.
func (s *File) Get(ctx context.Context, id uuid.UUID) (model.File, error) {
	file, err := s.fileStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.File{}, model.ErrNotFound
		}
		return model.File{}, fmt.Errorf("failed to get file by id: %w", err)
	}
	return file, nil
}

// List returns all file records, most recently uploaded first.
func (s *File) List(ctx context.Context) ([]model.File, error) {
	files, err := s.fileStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// Delete removes the stored object and then the metadata record, in that
// order. If the object delete fails the record is kept, so a record never
// points at a deleted object. A record-delete failure after a successful
// object delete is logged and reported; there is no compensating action.
func (s *File) Delete(ctx context.Context, id uuid.UUID) error {
	userID, ok := s.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return apperrors.NewNotAuthorized()
	}

	file, err := s.fileStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return apperrors.ErrFileNotFound.New("no file with id %s", id)
	}
	if err != nil {
		return fmt.Errorf("failed to get file by id: %w", err)
	}

	if err := s.storage.Delete(ctx, file.Key); err != nil {
		return apperrors.ErrStorageDelete.Wrap(err)
	}

	if err := s.fileStore.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// A concurrent delete got here first; the object is gone
			// either way.
			return apperrors.ErrFileNotFound.New("no file with id %s", id)
		}
		s.logger.Error("File service: record delete failed after object delete",
			"file_id", id,
			"key", file.Key,
			"error", err.Error())
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	s.logger.Info("File service: delete completed",
		"user_id", userID,
		"file_id", id,
		"key", file.Key)

	return nil
}
