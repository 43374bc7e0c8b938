// Package accounts implements the value ledger: one balance per principal,
// moved only by checked credits and debits.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/artledger/internal/server/models"
)

type Repository interface {
	// Create opens a zero-or-positive balance account for a principal.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// Get returns the account or common.ErrorNotFound.
	Get(ctx context.Context, principalID string) (*models.Account, error)

	// Credit adds amount (> 0) to the balance and returns the new balance.
	Credit(ctx context.Context, principalID string, amount int64) (int64, error)

	// Debit subtracts amount (> 0) from the balance and returns the new
	// balance. Overdrafts fail with common.ErrorInsufficientFunds and leave
	// the balance untouched.
	Debit(ctx context.Context, principalID string, amount int64) (int64, error)
}
