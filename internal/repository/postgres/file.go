package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/filevault/filevault-server/internal/model"
)

var _ model.FileStore = (*FileRepository)(nil)

type FileRepository struct {
	db *Connection
}

func NewFileRepository(db *Connection) *FileRepository {
	return &FileRepository{
		db: db,
	}
}

func (r *FileRepository) Create(ctx context.Context, file model.File) (model.File, error) {
	query := `INSERT INTO files (id, filename, mimetype, size, key, url)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, filename, mimetype, size, key, url, uploaded_at`

	var saved model.File
	err := r.db.QueryRow(ctx, query,
		file.ID, file.Filename, file.Mimetype, file.Size, file.Key, file.URL,
	).Scan(
		&saved.ID, &saved.Filename, &saved.Mimetype, &saved.Size, &saved.Key, &saved.URL, &saved.UploadedAt,
	)
	if err != nil {
		return model.File{}, fmt.Errorf("failed to create file record: %w", err)
	}

	return saved, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (model.File, error) {
	query := `SELECT id, filename, mimetype, size, key, url, uploaded_at
			  FROM files WHERE id = $1`

	var file model.File
	err := r.db.QueryRow(ctx, query, id).Scan(
		&file.ID, &file.Filename, &file.Mimetype, &file.Size, &file.Key, &file.URL, &file.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.File{}, model.ErrNotFound
		}
		return model.File{}, fmt.Errorf("failed to get file by id: %w", err)
	}

	return file, nil
}

func (r *FileRepository) List(ctx context.Context) ([]model.File, error) {
	query := `SELECT id, filename, mimetype, size, key, url, uploaded_at
			  FROM files
			  ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []model.File
	for rows.Next() {
		var file model.File
		err := rows.Scan(
			&file.ID, &file.Filename, &file.Mimetype, &file.Size, &file.Key, &file.URL, &file.UploadedAt,
		)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return files, nil
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM files WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
