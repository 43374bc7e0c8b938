package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/dbx"
	"github.com/dmitrijs2005/artledger/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.Balance < 0 {
		return nil, fmt.Errorf("%w: negative opening balance", common.ErrorInvalidArgument)
	}

	query :=
		`INSERT INTO accounts (principal_id, balance)
		VALUES ($1, $2)
		RETURNING created_at;`

	stored := *account
	err := r.db.QueryRowContext(ctx, query, stored.PrincipalID, stored.Balance).Scan(&stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &stored, nil
}

func (r *PostgresRepository) Get(ctx context.Context, principalID string) (*models.Account, error) {
	query := `SELECT principal_id, balance, created_at FROM accounts WHERE principal_id=$1`

	result := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, principalID).Scan(
		&result.PrincipalID, &result.Balance, &result.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", common.ErrorNotFound, principalID)
		}
		return nil, fmt.Errorf("failed to select account: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Credit(ctx context.Context, principalID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive", common.ErrorInvalidArgument)
	}

	query := `UPDATE accounts SET balance = balance + $2 WHERE principal_id=$1 RETURNING balance`

	var balance int64
	err := r.db.QueryRowContext(ctx, query, principalID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: account %s", common.ErrorNotFound, principalID)
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return balance, nil
}

func (r *PostgresRepository) Debit(ctx context.Context, principalID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive", common.ErrorInvalidArgument)
	}

	// The WHERE clause keeps the CHECK constraint from firing; no row means
	// either a missing account or an overdraft, told apart below.
	query :=
		`UPDATE accounts SET balance = balance - $2
		WHERE principal_id=$1 AND balance >= $2
		RETURNING balance`

	var balance int64
	err := r.db.QueryRowContext(ctx, query, principalID, amount).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("db error: %w", err)
	}

	if _, getErr := r.Get(ctx, principalID); getErr != nil {
		return 0, getErr
	}
	return 0, fmt.Errorf("%w: debit %d", common.ErrorInsufficientFunds, amount)
}
