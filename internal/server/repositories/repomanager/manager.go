// Package repomanager wires the four registries behind a single transaction
// boundary. Every mutating operation runs inside Update — a single-writer
// critical section spanning existence checks, value transfers and registry
// writes — so either all effects become visible together or none do.
// Read-only operations run inside View and observe a point-in-time-consistent
// snapshot.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/artledger/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/files"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/licenses"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/principals"
)

// Repositories exposes the registries bound to the current transaction.
type Repositories interface {
	Files() files.Repository
	Licenses() licenses.Repository
	Accounts() accounts.Repository
	Principals() principals.Repository
}

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error

	// Update runs fn in an exclusive read-write transaction. If fn returns an
	// error, every mutation it performed is rolled back.
	Update(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error

	// View runs fn against a consistent read-only snapshot. Views may run
	// concurrently with each other.
	View(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error

	Close() error
}
