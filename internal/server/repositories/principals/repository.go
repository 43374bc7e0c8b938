// Package principals stores the identities that can call the registry.
package principals

import (
	"context"

	"github.com/dmitrijs2005/artledger/internal/server/models"
)

type Repository interface {
	// Create stores a new principal. A taken username fails with
	// common.ErrorDuplicateName.
	Create(ctx context.Context, principal *models.Principal) (*models.Principal, error)

	// GetByUserName returns the principal or common.ErrorNotFound.
	GetByUserName(ctx context.Context, username string) (*models.Principal, error)

	// GetByID returns the principal or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Principal, error)
}
