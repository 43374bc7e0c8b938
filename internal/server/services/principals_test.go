package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/logging"
	"github.com/dmitrijs2005/artledger/internal/server/auth"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/repomanager"
)

func newTestPrincipals(t *testing.T) (*PrincipalService, repomanager.RepositoryManager) {
	t.Helper()
	m := repomanager.NewMemoryRepositoryManager()
	return NewPrincipalService(m, logging.NopLogger{}, testConfig()), m
}

func TestRegisterCreatesPrincipalAndAccount(t *testing.T) {
	ctx := context.Background()
	s, m := newTestPrincipals(t)

	principal, err := s.Register(ctx, "alice", []byte("password123"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if principal.ID == "" {
		t.Fatalf("expected a generated principal ID")
	}
	if len(principal.Salt) == 0 || len(principal.Verifier) == 0 {
		t.Fatalf("expected salt and verifier to be set")
	}

	// the zero-balance ledger account exists from the same transaction
	if got := balanceUnits(t, m, principal.ID); got != 0 {
		t.Fatalf("expected zero opening balance, got %d", got)
	}
}

func TestRegisterWipesPassword(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestPrincipals(t)

	password := []byte("password123")
	if _, err := s.Register(ctx, "alice", password); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for _, b := range password {
		if b != 0 {
			t.Fatalf("password was not wiped: %v", password)
		}
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestPrincipals(t)

	if _, err := s.Register(ctx, "alice", []byte("password123")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := s.Register(ctx, "alice", []byte("otherpassword"))
	if !errors.Is(err, common.ErrorDuplicateName) {
		t.Fatalf("expected ErrorDuplicateName, got %v", err)
	}
}

func TestLoginIssuesValidToken(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestPrincipals(t)
	cfg := testConfig()

	principal, err := s.Register(ctx, "alice", []byte("password123"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := s.Login(ctx, "alice", []byte("password123"))
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	id, err := auth.GetPrincipalIDFromToken(token, []byte(cfg.SecretKey))
	if err != nil {
		t.Fatalf("token did not validate: %v", err)
	}
	if id != principal.ID {
		t.Fatalf("token carries %s, want %s", id, principal.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestPrincipals(t)

	if _, err := s.Register(ctx, "alice", []byte("password123")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := s.Login(ctx, "alice", []byte("wrongpassword"))
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestLoginUnknownUserLooksLikeWrongPassword(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestPrincipals(t)

	_, err := s.Login(ctx, "nobody", []byte("password123"))
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestDepositAndBalance(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestPrincipals(t)

	principal, err := s.Register(ctx, "alice", []byte("password123"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	balance, err := s.Deposit(ctx, principal.ID, 25)
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if balance != 25 {
		t.Fatalf("balance after deposit = %d, want 25", balance)
	}

	balance, err = s.Balance(ctx, principal.ID)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance != 25 {
		t.Fatalf("balance = %d, want 25", balance)
	}

	if _, err := s.Deposit(ctx, principal.ID, 0); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("expected ErrorInvalidArgument for zero deposit, got %v", err)
	}
}
