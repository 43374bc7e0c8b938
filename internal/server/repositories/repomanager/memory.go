package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/artledger/internal/dbx"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/files"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/licenses"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/principals"
)

type memoryRepositories struct {
	files      *files.MemoryRepository
	licenses   *licenses.MemoryRepository
	accounts   *accounts.MemoryRepository
	principals *principals.MemoryRepository
}

func (r *memoryRepositories) Files() files.Repository           { return r.files }
func (r *memoryRepositories) Licenses() licenses.Repository     { return r.licenses }
func (r *memoryRepositories) Accounts() accounts.Repository     { return r.accounts }
func (r *memoryRepositories) Principals() principals.Repository { return r.principals }

// MemoryRepositoryManager is the default storage backend: an in-memory keyed
// store guarded by one RWMutex. Update holds the write lock for the whole
// operation and attaches an undo journal to the context; repositories record
// compensating steps there, and a failed operation is rolled back before the
// lock is released. Views share the read lock.
type MemoryRepositoryManager struct {
	mu    sync.RWMutex
	repos *memoryRepositories
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		repos: &memoryRepositories{
			files:      files.NewMemoryRepository(),
			licenses:   licenses.NewMemoryRepository(),
			accounts:   accounts.NewMemoryRepository(),
			principals: principals.NewMemoryRepository(),
		},
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Update(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j := dbx.NewJournal()
	if err := fn(dbx.WithJournal(ctx, j), m.repos); err != nil {
		j.Rollback()
		return err
	}
	return nil
}

func (m *MemoryRepositoryManager) View(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fn(ctx, m.repos)
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
