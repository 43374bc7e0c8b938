// Package licenses implements the issued-license registry: records keyed by
// the minted license key, each embedding a snapshot of the purchased file.
package licenses

import (
	"context"

	"github.com/dmitrijs2005/artledger/internal/server/models"
)

type Repository interface {
	// Create stores a new license, assigns the next 1-based index and appends
	// the licensed file hash to the insertion-ordered enumeration list.
	Create(ctx context.Context, license *models.License) (*models.License, error)

	// GetByKey returns the stored license or common.ErrorNotFound.
	GetByKey(ctx context.Context, key string) (*models.License, error)

	// GetIndex returns the license's sequence index, or 0 when absent.
	GetIndex(ctx context.Context, key string) (int64, error)

	// ListHashes returns the file hashes of all issued licenses in issuance
	// order. A hash appears once per license sold.
	ListHashes(ctx context.Context) ([]string, error)
}
