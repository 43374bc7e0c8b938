package files

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

func (r *PostgresRepository) Create(ctx context.Context, file *models.OriginalFile) (*models.OriginalFile, error) {

	query :=
		`INSERT INTO files (hash, payload, author, price, storage_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING idx, created_at;`

	stored := file.Snapshot()
	err := r.db.QueryRowContext(ctx, query,
		stored.Hash, stored.Payload, stored.Author, stored.Price, stored.StorageKey,
	).Scan(&stored.Index, &stored.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("%w: %s", common.ErrorDuplicateFile, stored.Hash)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &stored, nil
}

func (r *PostgresRepository) GetByHash(ctx context.Context, hash string) (*models.OriginalFile, error) {
	query := `SELECT hash, payload, author, price, storage_key, idx, created_at FROM files WHERE hash=$1`

	result := &models.OriginalFile{}
	err := r.db.QueryRowContext(ctx, query, hash).Scan(
		&result.Hash, &result.Payload, &result.Author, &result.Price,
		&result.StorageKey, &result.Index, &result.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: file %s", common.ErrorNotFound, hash)
		}
		return nil, fmt.Errorf("failed to select file: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetIndex(ctx context.Context, hash string) (int64, error) {
	query := `SELECT COALESCE((SELECT idx FROM files WHERE hash=$1), 0)`

	var idx int64
	if err := r.db.QueryRowContext(ctx, query, hash).Scan(&idx); err != nil {
		return 0, fmt.Errorf("failed to select file index: %w", err)
	}

	return idx, nil
}

func (r *PostgresRepository) ListHashes(ctx context.Context) ([]string, error) {
	query := `SELECT hash FROM files ORDER BY idx`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select hashes: %w", err)
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
