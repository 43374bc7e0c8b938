package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/dbx"
	"github.com/dmitrijs2005/artledger/internal/server/models"
)

func TestMemoryCreditAndDebit(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	if _, err := r.Create(ctx, &models.Account{PrincipalID: "p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	balance, err := r.Credit(ctx, "p1", 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 300 {
		t.Fatalf("expected balance 300, got %d", balance)
	}

	balance, err = r.Debit(ctx, "p1", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 200 {
		t.Fatalf("expected balance 200, got %d", balance)
	}
}

func TestMemoryDebitOverdraft(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	if _, err := r.Create(ctx, &models.Account{PrincipalID: "p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Credit(ctx, "p1", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := r.Debit(ctx, "p1", 200)
	if !errors.Is(err, common.ErrorInsufficientFunds) {
		t.Fatalf("expected ErrorInsufficientFunds, got %v", err)
	}

	account, _ := r.Get(ctx, "p1")
	if account.Balance != 100 {
		t.Fatalf("failed debit must not move value, balance %d", account.Balance)
	}
}

func TestMemoryNonPositiveAmountsRejected(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	if _, err := r.Create(ctx, &models.Account{PrincipalID: "p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := r.Credit(ctx, "p1", 0); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("expected ErrorInvalidArgument for zero credit, got %v", err)
	}
	if _, err := r.Debit(ctx, "p1", -5); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("expected ErrorInvalidArgument for negative debit, got %v", err)
	}
}

func TestMemoryUnknownAccount(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	if _, err := r.Get(ctx, "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
	if _, err := r.Credit(ctx, "missing", 10); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestMemoryJournalRestoresBalances(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	if _, err := r.Create(ctx, &models.Account{PrincipalID: "p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Credit(ctx, "p1", 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	j := dbx.NewJournal()
	txCtx := dbx.WithJournal(ctx, j)

	if _, err := r.Debit(txCtx, "p1", 300); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Credit(txCtx, "p1", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	j.Rollback()

	account, _ := r.Get(ctx, "p1")
	if account.Balance != 500 {
		t.Fatalf("expected balance restored to 500, got %d", account.Balance)
	}
}
