package interfaces

import (
	"context"

	"github.com/tobyvann/lectern/internal/models"
)

// VectorStorage persists embedded chunks and serves similarity queries
type VectorStorage interface {
	// Insert stores all records; partial writes are not committed
	Insert(ctx context.Context, records []*models.VectorRecord) error

	// Search returns up to k records ordered by descending cosine
	// similarity to the query embedding. A nil filter matches everything.
	Search(ctx context.Context, embedding []float32, k int, filter *models.SearchFilter) ([]models.ScoredRecord, error)

	// DeleteByDocument removes every record belonging to the document.
	// Returns the number of records removed; zero when none match.
	DeleteByDocument(ctx context.Context, documentID string) (int, error)

	// DropAll removes every record and leaves the store writable
	DropAll(ctx context.Context) error

	// Count returns the number of committed records
	Count(ctx context.Context) (int, error)
}

// StorageManager owns the database connection and its typed stores
type StorageManager interface {
	VectorStorage() VectorStorage
	Close() error
}
