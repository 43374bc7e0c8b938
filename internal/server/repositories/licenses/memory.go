package licenses

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/dbx"
	"github.com/dmitrijs2005/artledger/internal/server/models"
)

// MemoryRepository mirrors files.MemoryRepository: no internal lock, undo
// steps registered on the transaction journal.
type MemoryRepository struct {
	byKey  map[string]*models.License
	hashes []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byKey: make(map[string]*models.License)}
}

func (r *MemoryRepository) Create(ctx context.Context, license *models.License) (*models.License, error) {
	if _, ok := r.byKey[license.Key]; ok {
		return nil, fmt.Errorf("%w: license key %s already issued", common.ErrorInternal, license.Key)
	}

	stored := *license
	stored.File = license.File.Snapshot()
	stored.Index = int64(len(r.hashes)) + 1
	stored.CreatedAt = time.Now()

	r.byKey[stored.Key] = &stored
	r.hashes = append(r.hashes, stored.File.Hash)

	if j := dbx.JournalFrom(ctx); j != nil {
		key := stored.Key
		j.Record(func() {
			delete(r.byKey, key)
			r.hashes = r.hashes[:len(r.hashes)-1]
		})
	}

	out := stored
	out.File = stored.File.Snapshot()
	return &out, nil
}

func (r *MemoryRepository) GetByKey(ctx context.Context, key string) (*models.License, error) {
	license, ok := r.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: license %s", common.ErrorNotFound, key)
	}
	out := *license
	out.File = license.File.Snapshot()
	return &out, nil
}

func (r *MemoryRepository) GetIndex(ctx context.Context, key string) (int64, error) {
	license, ok := r.byKey[key]
	if !ok {
		return 0, nil
	}
	return license.Index, nil
}

func (r *MemoryRepository) ListHashes(ctx context.Context) ([]string, error) {
	out := make([]string, len(r.hashes))
	copy(out, r.hashes)
	return out, nil
}
