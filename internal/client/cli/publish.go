package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
)

// publish registers a new artifact. The content hash is computed locally
// from the payload, so the registry key is always the artifact's own digest.
func (a *App) publish(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Enter artifact content", os.Stdout)
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Println("Empty content, nothing to publish")
		return nil
	}

	priceText, err := getSimpleText(a.reader, "Enter license price (whole units)", os.Stdout)
	if err != nil {
		return err
	}
	price, err := strconv.ParseInt(priceText, 10, 64)
	if err != nil || price < 0 {
		fmt.Println("Price must be a non-negative integer")
		return nil
	}

	payload := []byte(text)
	digest := sha256.Sum256(payload)
	hash := hex.EncodeToString(digest[:])

	file, err := a.api.RegisterFile(ctx, hash, payload, price)
	if err != nil {
		log.Printf("Publish unsuccessfull: %s", err.Error())
		return err
	}

	fmt.Printf("Published! hash=%s index=%d price=%d\n", file.Hash, file.Index, file.PriceUnits)
	return nil
}
