package keygen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Legacy reproduces the key scheme of the original ledger environment:
// a coarse wall-clock value is combined with the caller identity and the
// environment-supplied seed, hashed once and truncated to KeyHexLen.
//
// Known weakness, reproduced deliberately: the clock is truncated to whole
// minutes and the seed producer may be externally influenced, so two
// purchases within the same minute by the same caller with a colliding seed
// yield the same key. No collision check is performed against the license
// registry. Select this generator only when key-compatibility with the
// original environment matters; Unique is the default.
type Legacy struct {
	entropy EntropySource
	now     func() time.Time
}

func NewLegacy(entropy EntropySource) *Legacy {
	return &Legacy{entropy: entropy, now: time.Now}
}

// NewLegacyWithClock fixes the wall clock so key derivation is deterministic
// in tests.
func NewLegacyWithClock(entropy EntropySource, now func() time.Time) *Legacy {
	return &Legacy{entropy: entropy, now: now}
}

func (g *Legacy) MintKey(ctx context.Context, caller string, _ TakenFunc) (string, error) {
	seed, err := g.entropy.Seed(ctx)
	if err != nil {
		return "", err
	}

	coarse := g.now().Truncate(time.Minute).Unix()

	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(coarse, 10)))
	h.Write([]byte(caller))
	h.Write(seed)

	return hex.EncodeToString(h.Sum(nil))[:KeyHexLen], nil
}
