package keygen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// maxMintAttempts bounds the collision-retry loop. With 128-bit keys a
// collision is astronomically unlikely; the bound exists so a broken taken
// check cannot spin forever.
const maxMintAttempts = 5

var errKeyCollision = errors.New("license key collision")

// Unique mints collision-checked keys: a fresh UUID, the caller identity and
// an entropy seed are hashed and truncated to KeyHexLen, and the candidate is
// rejected and re-minted if the registry already holds it.
type Unique struct {
	entropy EntropySource
}

func NewUnique(entropy EntropySource) *Unique {
	return &Unique{entropy: entropy}
}

func (g *Unique) MintKey(ctx context.Context, caller string, taken TakenFunc) (string, error) {
	var key string

	backoff := retry.WithMaxRetries(maxMintAttempts, retry.NewConstant(time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		seed, err := g.entropy.Seed(ctx)
		if err != nil {
			return err
		}

		h := sha256.New()
		h.Write([]byte(uuid.NewString()))
		h.Write([]byte(caller))
		h.Write(seed)
		candidate := hex.EncodeToString(h.Sum(nil))[:KeyHexLen]

		if taken != nil {
			inUse, err := taken(ctx, candidate)
			if err != nil {
				return err
			}
			if inUse {
				return retry.RetryableError(errKeyCollision)
			}
		}

		key = candidate
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("minting license key: %w", err)
	}

	return key, nil
}
