package principals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/dbx"
	"github.com/dmitrijs2005/artledger/internal/server/models"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, principal *models.Principal) (*models.Principal, error) {

	query :=
		`INSERT INTO principals (id, username, salt, verifier)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at;`

	stored := *principal
	err := r.db.QueryRowContext(ctx, query,
		stored.ID, stored.UserName, stored.Salt, stored.Verifier,
	).Scan(&stored.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("%w: %s", common.ErrorDuplicateName, stored.UserName)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &stored, nil
}

func (r *PostgresRepository) GetByUserName(ctx context.Context, username string) (*models.Principal, error) {
	query := `SELECT id, username, salt, verifier, created_at FROM principals WHERE username=$1`
	return r.get(ctx, query, username)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Principal, error) {
	query := `SELECT id, username, salt, verifier, created_at FROM principals WHERE id=$1`
	return r.get(ctx, query, id)
}

func (r *PostgresRepository) get(ctx context.Context, query, arg string) (*models.Principal, error) {
	result := &models.Principal{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&result.ID, &result.UserName, &result.Salt, &result.Verifier, &result.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: principal %s", common.ErrorNotFound, arg)
		}
		return nil, fmt.Errorf("failed to select principal: %w", err)
	}

	return result, nil
}
