// Package services contains server-side business logic. This file implements
// RegistryService: artifact registration, license purchase, and rights
// verification.
package services

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/logging"
	sc "github.com/dmitrijs2005/artledger/internal/server/config"
	"github.com/dmitrijs2005/artledger/internal/server/events"
	"github.com/dmitrijs2005/artledger/internal/server/keygen"
	"github.com/dmitrijs2005/artledger/internal/server/models"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/repomanager"
)

const verifyCacheCleanup = 10 * time.Minute

// RegistryService owns the registration/licensing state machine. All
// mutations run through the repository manager's Update boundary; reads run
// through View. Positive rights verifications are cached: both entity kinds
// only ever move from absent to present, so a verification that held once
// holds forever.
type RegistryService struct {
	manager     repomanager.RepositoryManager
	keys        keygen.Generator
	bus         *events.Bus
	logger      logging.Logger
	verifyCache *gocache.Cache
}

func NewRegistryService(m repomanager.RepositoryManager, g keygen.Generator, bus *events.Bus, l logging.Logger, cfg *sc.Config) *RegistryService {
	return &RegistryService{
		manager:     m,
		keys:        g,
		bus:         bus,
		logger:      l.With("module", "registry"),
		verifyCache: gocache.New(cfg.VerifyCacheTTL, verifyCacheCleanup),
	}
}

// RegisterFile stores a new original-file record under its content hash.
// The author becomes the owner of authorship rights and the recipient of
// license payments. priceUnits is the license price in whole currency units.
// A hash that is already registered fails with common.ErrorDuplicateFile.
func (s *RegistryService) RegisterFile(ctx context.Context, author, hash string, payload []byte, priceUnits int64) (*models.OriginalFile, error) {
	if author == "" || hash == "" {
		return nil, fmt.Errorf("%w: author and hash are required", common.ErrorInvalidArgument)
	}
	if priceUnits < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", common.ErrorInvalidArgument)
	}

	var created *models.OriginalFile

	err := s.manager.Update(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		idx, err := r.Files().GetIndex(ctx, hash)
		if err != nil {
			return err
		}
		if idx > 0 {
			return fmt.Errorf("%w: %s", common.ErrorDuplicateFile, hash)
		}

		created, err = r.Files().Create(ctx, &models.OriginalFile{
			Hash:       hash,
			Payload:    payload,
			Author:     author,
			Price:      models.FromUnits(priceUnits),
			StorageKey: contentStorageKey(hash),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.RegisteredOriginalFile{Author: author, File: created})
	s.logger.Info(ctx, "file registered", "hash", hash, "index", created.Index)

	return created, nil
}

// GetFile returns the registered record or common.ErrorNotFound.
func (s *RegistryService) GetFile(ctx context.Context, hash string) (*models.OriginalFile, error) {
	var file *models.OriginalFile
	err := s.manager.View(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		file, err = r.Files().GetByHash(ctx, hash)
		return err
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// FileExists reports whether a record with the hash is registered.
func (s *RegistryService) FileExists(ctx context.Context, hash string) (bool, error) {
	var idx int64
	err := s.manager.View(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		idx, err = r.Files().GetIndex(ctx, hash)
		return err
	})
	if err != nil {
		return false, err
	}
	return idx > 0, nil
}

// ListFiles returns all registered hashes in insertion order.
func (s *RegistryService) ListFiles(ctx context.Context) ([]string, error) {
	var hashes []string
	err := s.manager.View(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		hashes, err = r.Files().ListHashes(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hashes, nil
}

// GetLicense returns the issued license or common.ErrorNotFound.
func (s *RegistryService) GetLicense(ctx context.Context, key string) (*models.License, error) {
	var license *models.License
	err := s.manager.View(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		license, err = r.Licenses().GetByKey(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return license, nil
}

// PurchaseLicense sells the buyer a usage license for the registered file.
// fundsUnits is the amount the buyer submits with the call, in whole units;
// the license price is taken from the record, the remainder is returned to
// the buyer, and the price is credited to the author. The lookup, the value
// transfers, the key mint and the license write form one atomic unit: any
// failure rolls everything back.
//
// It returns the minted license key and the change in whole units.
func (s *RegistryService) PurchaseLicense(ctx context.Context, buyer, hash string, fundsUnits int64) (string, int64, error) {
	if buyer == "" || hash == "" {
		return "", 0, fmt.Errorf("%w: buyer and hash are required", common.ErrorInvalidArgument)
	}
	if fundsUnits < 0 {
		return "", 0, fmt.Errorf("%w: funds must be non-negative", common.ErrorInvalidArgument)
	}

	var (
		key    string
		change int64
	)

	err := s.manager.Update(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		file, err := r.Files().GetByHash(ctx, hash)
		if err != nil {
			return err
		}

		change, err = Settle(ctx, r.Accounts(), buyer, file.Author, models.FromUnits(fundsUnits), file.Price)
		if err != nil {
			return err
		}

		key, err = s.keys.MintKey(ctx, buyer, func(ctx context.Context, candidate string) (bool, error) {
			idx, err := r.Licenses().GetIndex(ctx, candidate)
			if err != nil {
				return false, err
			}
			return idx > 0, nil
		})
		if err != nil {
			return err
		}

		_, err = r.Licenses().Create(ctx, &models.License{
			Key:   key,
			File:  file.Snapshot(),
			Owner: buyer,
		})
		return err
	})
	if err != nil {
		return "", 0, err
	}

	s.bus.Publish(events.RegisteredLicense{Owner: buyer, Key: key})
	s.logger.Info(ctx, "license issued", "hash", hash, "key", key)

	return key, models.ToUnits(change), nil
}

// VerifyAuthorRight reports whether the caller is the author of the
// registered file. An unregistered hash fails with common.ErrorNotFound.
func (s *RegistryService) VerifyAuthorRight(ctx context.Context, caller, hash string) (bool, error) {
	var file *models.OriginalFile
	err := s.manager.View(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		file, err = r.Files().GetByHash(ctx, hash)
		return err
	})
	if err != nil {
		return false, err
	}

	return file.Author == caller, nil
}

// VerifyLicenseRight checks that the caller holds a valid license for the
// file. It never returns false with a nil error: the outcome is true or an
// error — common.ErrorNotFound when the file or the license is missing
// (the message names which), common.ErrorOwnershipMismatch when the caller
// is not the license owner or when the license was issued for a different
// file. The hash comparison runs against the snapshot embedded in the
// license, not against a live registry lookup.
func (s *RegistryService) VerifyLicenseRight(ctx context.Context, caller, hash, licenseKey string) (bool, error) {
	cacheKey := verifyCacheKey(caller, hash, licenseKey)
	if _, ok := s.verifyCache.Get(cacheKey); ok {
		return true, nil
	}

	err := s.manager.View(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		fileIdx, err := r.Files().GetIndex(ctx, hash)
		if err != nil {
			return err
		}
		if fileIdx == 0 {
			return fmt.Errorf("%w: file %s", common.ErrorNotFound, hash)
		}

		licenseIdx, err := r.Licenses().GetIndex(ctx, licenseKey)
		if err != nil {
			return err
		}
		if licenseIdx == 0 {
			return fmt.Errorf("%w: license %s", common.ErrorNotFound, licenseKey)
		}

		license, err := r.Licenses().GetByKey(ctx, licenseKey)
		if err != nil {
			return err
		}

		if license.Owner != caller {
			return fmt.Errorf("%w: principal %s does not own license %s", common.ErrorOwnershipMismatch, caller, licenseKey)
		}
		if license.File.Hash != hash {
			return fmt.Errorf("%w: license %s was issued for file %s, not %s", common.ErrorOwnershipMismatch, licenseKey, license.File.Hash, hash)
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	s.verifyCache.SetDefault(cacheKey, true)

	return true, nil
}

// verifyCacheKey builds the composite cache key. Each part carries its own
// length: hashes and keys are format-unrestricted, so a plain separator would
// let two different (hash, key, caller) triples collide on the same key.
func verifyCacheKey(caller, hash, licenseKey string) string {
	return fmt.Sprintf("%d:%s|%d:%s|%d:%s", len(hash), hash, len(licenseKey), licenseKey, len(caller), caller)
}

// contentStorageKey derives the object-storage key content blobs are stored
// under when S3 is configured.
func contentStorageKey(hash string) string {
	d := time.Now()
	return fmt.Sprintf("artifacts/%d/%02d/%s", d.Year(), d.Month(), hash)
}
