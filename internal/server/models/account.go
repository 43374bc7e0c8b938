package models

import "time"

// Account holds a principal's spendable balance in base units.
// Balances never go negative; debits are checked.
type Account struct {
	PrincipalID string
	Balance     int64
	CreatedAt   time.Time
}
