package cli

import (
	"context"
	"fmt"
	"log"
)

// list prints all registered artifact hashes in insertion order.
func (a *App) list(ctx context.Context) error {
	hashes, err := a.api.ListFiles(ctx)
	if err != nil {
		log.Printf("List unsuccessfull: %s", err.Error())
		return err
	}

	if len(hashes) == 0 {
		fmt.Println("No artifacts registered")
		return nil
	}

	for i, h := range hashes {
		fmt.Printf("%d. %s\n", i+1, h)
	}
	return nil
}

// show prints a single artifact record: show <hash>.
func (a *App) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: show <hash>")
		return nil
	}

	f, err := a.api.GetFile(ctx, args[0])
	if err != nil {
		log.Printf("Lookup unsuccessfull: %s", err.Error())
		return err
	}

	fmt.Printf("Hash:    %s\n", f.Hash)
	fmt.Printf("Author:  %s\n", f.Author)
	fmt.Printf("Price:   %d\n", f.PriceUnits)
	fmt.Printf("Size:    %d bytes\n", f.PayloadSize)
	fmt.Printf("Index:   %d\n", f.Index)
	fmt.Printf("Created: %s\n", f.CreatedAt)
	return nil
}
