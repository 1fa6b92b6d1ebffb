package model

import (
	"context"
	"io"
)

// StoredObject is the stable reference returned by the object store on a
// successful put. URL is sufficient to retrieve the object later without
// further gateway state.
type StoredObject struct {
	Key string
	URL string
}

// Storage is a narrow gateway over a remote object store. Put is
// all-or-nothing from the caller's perspective.
type Storage interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (StoredObject, error)
	Delete(ctx context.Context, key string) error
}
