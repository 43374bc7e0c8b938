package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/server/repositories/accounts"
)

// Settle validates the submitted funds against the price and moves value:
// the full fundsProvided are withdrawn from the buyer, change (if any) is
// returned to the buyer, and the price is credited to the author. It returns
// the change in base units.
//
// Settle must run inside a repository manager Update transaction together
// with the license write: a failure at any step rolls the whole purchase
// back, so no partial state (funds moved but no license issued, or vice
// versa) is ever observable.
func Settle(ctx context.Context, acc accounts.Repository, buyer, author string, fundsProvided, price int64) (int64, error) {
	if fundsProvided < price {
		return 0, fmt.Errorf("%w: provided %d, price %d", common.ErrorInsufficientFunds, fundsProvided, price)
	}

	// Zero amounts are legal (a free artifact bought with zero funds) but
	// the ledger only accepts positive movements.
	if fundsProvided > 0 {
		if _, err := acc.Debit(ctx, buyer, fundsProvided); err != nil {
			return 0, err
		}
	}

	change := fundsProvided - price
	if change > 0 {
		if _, err := acc.Credit(ctx, buyer, change); err != nil {
			return 0, err
		}
	}

	if price > 0 {
		if _, err := acc.Credit(ctx, author, price); err != nil {
			return 0, err
		}
	}

	return change, nil
}
