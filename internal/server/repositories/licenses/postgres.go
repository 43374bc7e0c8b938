package licenses

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

func (r *PostgresRepository) Create(ctx context.Context, license *models.License) (*models.License, error) {

	query :=
		`INSERT INTO licenses (key, owner, file_hash, file_payload, file_author, file_price, file_storage_key, file_idx)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING idx, created_at;`

	stored := *license
	stored.File = license.File.Snapshot()

	err := r.db.QueryRowContext(ctx, query,
		stored.Key, stored.Owner, stored.File.Hash, stored.File.Payload,
		stored.File.Author, stored.File.Price, stored.File.StorageKey, stored.File.Index,
	).Scan(&stored.Index, &stored.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("%w: license key %s already issued", common.ErrorInternal, stored.Key)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &stored, nil
}

func (r *PostgresRepository) GetByKey(ctx context.Context, key string) (*models.License, error) {
	query :=
		`SELECT key, owner, file_hash, file_payload, file_author, file_price, file_storage_key, file_idx, idx, created_at
		FROM licenses WHERE key=$1`

	result := &models.License{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&result.Key, &result.Owner, &result.File.Hash, &result.File.Payload,
		&result.File.Author, &result.File.Price, &result.File.StorageKey,
		&result.File.Index, &result.Index, &result.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: license %s", common.ErrorNotFound, key)
		}
		return nil, fmt.Errorf("failed to select license: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetIndex(ctx context.Context, key string) (int64, error) {
	query := `SELECT COALESCE((SELECT idx FROM licenses WHERE key=$1), 0)`

	var idx int64
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&idx); err != nil {
		return 0, fmt.Errorf("failed to select license index: %w", err)
	}

	return idx, nil
}

func (r *PostgresRepository) ListHashes(ctx context.Context) ([]string, error) {
	query := `SELECT file_hash FROM licenses ORDER BY idx`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select licensed hashes: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, err
		}
		result = append(result, hash)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
