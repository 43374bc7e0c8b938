package principals

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/dbx"
	"github.com/dmitrijs2005/artledger/internal/server/models"
)

type MemoryRepository struct {
	byID   map[string]*models.Principal
	byName map[string]*models.Principal
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]*models.Principal),
		byName: make(map[string]*models.Principal),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, principal *models.Principal) (*models.Principal, error) {
	if _, ok := r.byName[principal.UserName]; ok {
		return nil, fmt.Errorf("%w: %s", common.ErrorDuplicateName, principal.UserName)
	}

	stored := *principal
	stored.CreatedAt = time.Now()
	r.byID[stored.ID] = &stored
	r.byName[stored.UserName] = &stored

	if j := dbx.JournalFrom(ctx); j != nil {
		id, name := stored.ID, stored.UserName
		j.Record(func() {
			delete(r.byID, id)
			delete(r.byName, name)
		})
	}

	out := stored
	return &out, nil
}

func (r *MemoryRepository) GetByUserName(ctx context.Context, username string) (*models.Principal, error) {
	principal, ok := r.byName[username]
	if !ok {
		return nil, fmt.Errorf("%w: principal %s", common.ErrorNotFound, username)
	}
	out := *principal
	return &out, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Principal, error) {
	principal, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: principal %s", common.ErrorNotFound, id)
	}
	out := *principal
	return &out, nil
}
