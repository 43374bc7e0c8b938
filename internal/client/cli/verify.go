package cli

import (
	"context"
	"fmt"
	"log"
)

// verify checks the caller's rights: verify <hash> checks authorship,
// verify <hash> <key> checks a usage license.
func (a *App) verify(ctx context.Context, args []string) error {
	switch len(args) {
	case 1:
		valid, err := a.api.VerifyAuthorRight(ctx, args[0])
		if err != nil {
			log.Printf("Verification failed: %s", err.Error())
			return err
		}
		fmt.Printf("Author right: %v\n", valid)
		return nil

	case 2:
		if _, err := a.api.VerifyLicenseRight(ctx, args[0], args[1]); err != nil {
			log.Printf("Verification failed: %s", err.Error())
			return err
		}
		fmt.Println("License right: true")
		return nil

	default:
		fmt.Println("Usage: verify <hash> [license-key]")
		return nil
	}
}

// license shows an issued license: license <key>.
func (a *App) license(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: license <key>")
		return nil
	}

	l, err := a.api.GetLicense(ctx, args[0])
	if err != nil {
		log.Printf("Lookup unsuccessfull: %s", err.Error())
		return err
	}

	fmt.Printf("Key:     %s\n", l.Key)
	fmt.Printf("Owner:   %s\n", l.Owner)
	fmt.Printf("File:    %s\n", l.FileHash)
	fmt.Printf("Index:   %d\n", l.Index)
	fmt.Printf("Issued:  %s\n", l.CreatedAt)
	return nil
}
