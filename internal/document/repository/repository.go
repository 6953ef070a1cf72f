package repository

import (
	"context"
	"errors"

	"github.com/gogotex/docstore/internal/document"
	"github.com/google/uuid"
)

// ErrBackend wraps failures reported by a remote store (Mongo, Redis).
// The in-memory repository never returns it.
var ErrBackend = errors.New("document backend")

// Repository is the storage contract every backend implements.
// FindByID returns (nil, nil) when the id is unknown.
type Repository interface {
	Save(ctx context.Context, d document.Document) (document.Document, error)
	Search(ctx context.Context, req document.SearchRequest) ([]document.Document, error)
	FindByID(ctx context.Context, id string) (*document.Document, error)
}

// NewID returns a random 128-bit identifier in canonical UUID form.
func NewID() string {
	return uuid.NewString()
}

// assignID gives d a fresh id when it has none; every other field is left as given.
func assignID(d document.Document) document.Document {
	if d.ID == "" {
		d.ID = NewID()
	}
	return d
}
