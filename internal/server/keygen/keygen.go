// Package keygen mints license keys. Two generators are provided: Unique,
// the default, which is collision-checked and cryptographically strong, and
// Legacy, which reproduces the weak scheme of the original ledger environment
// for key-compatibility.
package keygen

import "context"

// KeyHexLen is the fixed width of a license key: 32 lowercase hex characters
// (128 bits of the truncated digest).
const KeyHexLen = 32

// TakenFunc reports whether a candidate key is already in use. Generators
// that collision-check call it inside the purchase transaction, so the check
// and the subsequent insert are atomic.
type TakenFunc func(ctx context.Context, key string) (bool, error)

// Generator mints a license key for the calling principal.
type Generator interface {
	MintKey(ctx context.Context, caller string, taken TakenFunc) (string, error)
}

// EntropySource supplies the unpredictable seed consumed by generators.
// The original environment used a recent block hash here; the service injects
// a crypto/rand source, and tests inject a fixed one to force collisions.
type EntropySource interface {
	Seed(ctx context.Context) ([]byte, error)
}
