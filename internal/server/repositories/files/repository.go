// Package files implements the original-file registry: records keyed by
// content hash, created once and never mutated.
package files

import (
	"context"

	"github.com/dmitrijs2005/artledger/internal/server/models"
)

type Repository interface {
	// Create stores a new record, assigns the next 1-based index and appends
	// the hash to the insertion-ordered enumeration list. A record with the
	// same hash must not already exist; callers check first, and the
	// repository reports common.ErrorDuplicateFile as a backstop.
	Create(ctx context.Context, file *models.OriginalFile) (*models.OriginalFile, error)

	// GetByHash returns the stored record or common.ErrorNotFound.
	GetByHash(ctx context.Context, hash string) (*models.OriginalFile, error)

	// GetIndex returns the record's sequence index, or 0 when absent.
	GetIndex(ctx context.Context, hash string) (int64, error)

	// ListHashes returns all registered hashes in insertion order.
	ListHashes(ctx context.Context) ([]string, error)
}
