package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/cryptox"
	"github.com/dmitrijs2005/artledger/internal/logging"
	"github.com/dmitrijs2005/artledger/internal/server/auth"
	sc "github.com/dmitrijs2005/artledger/internal/server/config"
	"github.com/dmitrijs2005/artledger/internal/server/models"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/repomanager"
)

// PrincipalService handles identity and the value ledger: registration,
// login, deposits, and balance queries.
type PrincipalService struct {
	manager                     repomanager.RepositoryManager
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewPrincipalService(m repomanager.RepositoryManager, l logging.Logger, cfg *sc.Config) *PrincipalService {
	return &PrincipalService{
		manager:                     m,
		logger:                      l.With("module", "principals"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a principal and its zero-balance ledger account in one
// transaction. The password is turned into a salt + Argon2id verifier and
// wiped from memory afterwards.
func (s *PrincipalService) Register(ctx context.Context, username string, password []byte) (*models.Principal, error) {
	if username == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorInvalidArgument)
	}
	defer common.WipeByteArray(password)

	salt := common.GenerateRandByteArray(32)

	principal := &models.Principal{
		ID:       uuid.NewString(),
		UserName: username,
		Salt:     salt,
		Verifier: cryptox.DeriveVerifier(password, salt),
	}

	var created *models.Principal
	err := s.manager.Update(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		created, err = r.Principals().Create(ctx, principal)
		if err != nil {
			return err
		}

		_, err = r.Accounts().Create(ctx, &models.Account{PrincipalID: created.ID})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "principal registered", "username", username)
	return created, nil
}

// Login verifies the credentials and mints an access token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *PrincipalService) Login(ctx context.Context, username string, password []byte) (string, error) {
	defer common.WipeByteArray(password)

	var principal *models.Principal
	err := s.manager.View(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		principal, err = r.Principals().GetByUserName(ctx, username)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	candidate := cryptox.DeriveVerifier(password, principal.Salt)
	if !cryptox.VerifierMatches(principal.Verifier, candidate) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(principal.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// Deposit credits the principal's account and returns the new balance in
// whole units.
func (s *PrincipalService) Deposit(ctx context.Context, principalID string, amountUnits int64) (int64, error) {
	if amountUnits <= 0 {
		return 0, fmt.Errorf("%w: deposit must be positive", common.ErrorInvalidArgument)
	}

	var balance int64
	err := s.manager.Update(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		balance, err = r.Accounts().Credit(ctx, principalID, models.FromUnits(amountUnits))
		return err
	})
	if err != nil {
		return 0, err
	}

	return models.ToUnits(balance), nil
}

// Balance returns the principal's balance in whole units.
func (s *PrincipalService) Balance(ctx context.Context, principalID string) (int64, error) {
	var account *models.Account
	err := s.manager.View(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		account, err = r.Accounts().Get(ctx, principalID)
		return err
	})
	if err != nil {
		return 0, err
	}

	return models.ToUnits(account.Balance), nil
}
