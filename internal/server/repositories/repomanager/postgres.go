package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/artledger/internal/dbx"
	"github.com/dmitrijs2005/artledger/internal/server/migrations"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/files"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/licenses"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/principals"
)

type txRepositories struct {
	db dbx.DBTX
}

func (r *txRepositories) Files() files.Repository           { return files.NewPostgresRepository(r.db) }
func (r *txRepositories) Licenses() licenses.Repository     { return licenses.NewPostgresRepository(r.db) }
func (r *txRepositories) Accounts() accounts.Repository     { return accounts.NewPostgresRepository(r.db) }
func (r *txRepositories) Principals() principals.Repository { return principals.NewPostgresRepository(r.db) }

// PostgresRepositoryManager is the durable backend. Update runs fn inside a
// serializable transaction; View inside a repeatable-read read-only one, so
// reads see a point-in-time snapshot.
type PostgresRepositoryManager struct {
	db *sql.DB
}

func NewPostgresRepositoryManager(dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return &PostgresRepositoryManager{db: db}, nil
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func (m *PostgresRepositoryManager) Update(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	return dbx.WithTx(ctx, m.db, opts, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &txRepositories{db: tx})
	})
}

func (m *PostgresRepositoryManager) View(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	return dbx.WithTx(ctx, m.db, opts, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &txRepositories{db: tx})
	})
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
