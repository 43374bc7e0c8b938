package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/dbx"
	"github.com/dmitrijs2005/artledger/internal/server/models"
)

// MemoryRepository keeps balances in a map; mutations register undo steps on
// the transaction journal so a failed settlement moves no value.
type MemoryRepository struct {
	byPrincipal map[string]*models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byPrincipal: make(map[string]*models.Account)}
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.Balance < 0 {
		return nil, fmt.Errorf("%w: negative opening balance", common.ErrorInvalidArgument)
	}
	if _, ok := r.byPrincipal[account.PrincipalID]; ok {
		return nil, fmt.Errorf("%w: account for %s already exists", common.ErrorInternal, account.PrincipalID)
	}

	stored := *account
	stored.CreatedAt = time.Now()
	r.byPrincipal[stored.PrincipalID] = &stored

	if j := dbx.JournalFrom(ctx); j != nil {
		id := stored.PrincipalID
		j.Record(func() { delete(r.byPrincipal, id) })
	}

	out := stored
	return &out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, principalID string) (*models.Account, error) {
	account, ok := r.byPrincipal[principalID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", common.ErrorNotFound, principalID)
	}
	out := *account
	return &out, nil
}

func (r *MemoryRepository) Credit(ctx context.Context, principalID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive", common.ErrorInvalidArgument)
	}
	account, ok := r.byPrincipal[principalID]
	if !ok {
		return 0, fmt.Errorf("%w: account %s", common.ErrorNotFound, principalID)
	}

	account.Balance += amount

	if j := dbx.JournalFrom(ctx); j != nil {
		j.Record(func() { account.Balance -= amount })
	}

	return account.Balance, nil
}

func (r *MemoryRepository) Debit(ctx context.Context, principalID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive", common.ErrorInvalidArgument)
	}
	account, ok := r.byPrincipal[principalID]
	if !ok {
		return 0, fmt.Errorf("%w: account %s", common.ErrorNotFound, principalID)
	}
	if account.Balance < amount {
		return 0, fmt.Errorf("%w: balance %d, debit %d", common.ErrorInsufficientFunds, account.Balance, amount)
	}

	account.Balance -= amount

	if j := dbx.JournalFrom(ctx); j != nil {
		j.Record(func() { account.Balance += amount })
	}

	return account.Balance, nil
}
