package files

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/dbx"
	"github.com/dmitrijs2005/artledger/internal/server/models"
)

// MemoryRepository is the in-memory keyed store behind the default repository
// manager. It carries no lock of its own: the manager serializes writers and
// shares reads, and mutations register undo steps on the transaction journal
// so a failed operation leaves no trace.
type MemoryRepository struct {
	byHash map[string]*models.OriginalFile
	hashes []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byHash: make(map[string]*models.OriginalFile)}
}

func (r *MemoryRepository) Create(ctx context.Context, file *models.OriginalFile) (*models.OriginalFile, error) {
	if _, ok := r.byHash[file.Hash]; ok {
		return nil, fmt.Errorf("%w: %s", common.ErrorDuplicateFile, file.Hash)
	}

	stored := file.Snapshot()
	stored.Index = int64(len(r.hashes)) + 1
	stored.CreatedAt = time.Now()

	r.byHash[stored.Hash] = &stored
	r.hashes = append(r.hashes, stored.Hash)

	if j := dbx.JournalFrom(ctx); j != nil {
		hash := stored.Hash
		j.Record(func() {
			delete(r.byHash, hash)
			r.hashes = r.hashes[:len(r.hashes)-1]
		})
	}

	out := stored.Snapshot()
	return &out, nil
}

func (r *MemoryRepository) GetByHash(ctx context.Context, hash string) (*models.OriginalFile, error) {
	file, ok := r.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("%w: file %s", common.ErrorNotFound, hash)
	}
	out := file.Snapshot()
	return &out, nil
}

func (r *MemoryRepository) GetIndex(ctx context.Context, hash string) (int64, error) {
	file, ok := r.byHash[hash]
	if !ok {
		return 0, nil
	}
	return file.Index, nil
}

func (r *MemoryRepository) ListHashes(ctx context.Context) ([]string, error) {
	out := make([]string, len(r.hashes))
	copy(out, r.hashes)
	return out, nil
}
