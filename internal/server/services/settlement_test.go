package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/server/models"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/accounts"
)

func newFundedAccounts(t *testing.T, buyerBalance int64) *accounts.MemoryRepository {
	t.Helper()
	ctx := context.Background()

	r := accounts.NewMemoryRepository()
	if _, err := r.Create(ctx, &models.Account{PrincipalID: "buyer"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Create(ctx, &models.Account{PrincipalID: "author"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buyerBalance > 0 {
		if _, err := r.Credit(ctx, "buyer", buyerBalance); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	return r
}

func TestSettleMovesPriceAndRefundsChange(t *testing.T) {
	ctx := context.Background()
	r := newFundedAccounts(t, 300)

	change, err := Settle(ctx, r, "buyer", "author", 300, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change != 100 {
		t.Fatalf("expected change 100, got %d", change)
	}

	buyer, _ := r.Get(ctx, "buyer")
	author, _ := r.Get(ctx, "author")
	if buyer.Balance != 100 {
		t.Fatalf("buyer balance = %d, want 100", buyer.Balance)
	}
	if author.Balance != 200 {
		t.Fatalf("author balance = %d, want 200", author.Balance)
	}
}

func TestSettleExactFundsNoChange(t *testing.T) {
	ctx := context.Background()
	r := newFundedAccounts(t, 200)

	change, err := Settle(ctx, r, "buyer", "author", 200, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change != 0 {
		t.Fatalf("expected no change, got %d", change)
	}

	buyer, _ := r.Get(ctx, "buyer")
	if buyer.Balance != 0 {
		t.Fatalf("buyer balance = %d, want 0", buyer.Balance)
	}
}

func TestSettleInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	r := newFundedAccounts(t, 100)

	_, err := Settle(ctx, r, "buyer", "author", 100, 200)
	if !errors.Is(err, common.ErrorInsufficientFunds) {
		t.Fatalf("expected ErrorInsufficientFunds, got %v", err)
	}

	buyer, _ := r.Get(ctx, "buyer")
	author, _ := r.Get(ctx, "author")
	if buyer.Balance != 100 || author.Balance != 0 {
		t.Fatalf("failed settlement moved value: buyer %d, author %d", buyer.Balance, author.Balance)
	}
}

func TestSettleFreeArtifactZeroFunds(t *testing.T) {
	ctx := context.Background()
	r := newFundedAccounts(t, 0)

	change, err := Settle(ctx, r, "buyer", "author", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change != 0 {
		t.Fatalf("expected no change, got %d", change)
	}
}
