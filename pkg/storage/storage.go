package storage

import (
	"context"
	"io"
)

// Object describes a stored attachment.
type Object struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Size     int64  `json:"size"`
}

// ObjectStore abstracts the attachment store. Deletions are best-effort at
// call sites; a missing object is not an error the caller acts on.
type ObjectStore interface {
	Upload(ctx context.Context, r io.Reader, name string) (*Object, error)
	Delete(ctx context.Context, publicID string) error
}
