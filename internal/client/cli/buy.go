package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"
)

// buy purchases a usage license: buy <hash> <funds>. The server settles the
// payment atomically and refunds any remainder above the listed price.
func (a *App) buy(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Println("Usage: buy <hash> <funds>")
		return nil
	}

	funds, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || funds < 0 {
		fmt.Println("Funds must be a non-negative integer")
		return nil
	}

	key, change, err := a.api.PurchaseLicense(ctx, args[0], funds)
	if err != nil {
		log.Printf("Purchase unsuccessfull: %s", err.Error())
		return err
	}

	fmt.Printf("License key: %s\n", key)
	if change > 0 {
		fmt.Printf("Change refunded: %d\n", change)
	}
	return nil
}
