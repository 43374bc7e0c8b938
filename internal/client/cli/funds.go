package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"
)

// deposit credits the caller's account: deposit <amount>.
func (a *App) deposit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: deposit <amount>")
		return nil
	}

	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || amount <= 0 {
		fmt.Println("Amount must be a positive integer")
		return nil
	}

	balance, err := a.api.Deposit(ctx, amount)
	if err != nil {
		log.Printf("Deposit unsuccessfull: %s", err.Error())
		return err
	}

	fmt.Printf("Balance: %d\n", balance)
	return nil
}

// balance prints the caller's current balance.
func (a *App) balance(ctx context.Context) error {
	balance, err := a.api.Balance(ctx)
	if err != nil {
		log.Printf("Balance lookup unsuccessfull: %s", err.Error())
		return err
	}

	fmt.Printf("Balance: %d\n", balance)
	return nil
}
