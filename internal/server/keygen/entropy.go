package keygen

import (
	"context"
	"crypto/rand"
)

// CryptoSource reads seeds from the operating system CSPRNG.
type CryptoSource struct{}

func (CryptoSource) Seed(ctx context.Context) ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// StaticSource always returns the same seed. Test use only: combined with the
// legacy generator it reproduces the documented key-collision weakness.
type StaticSource struct {
	B []byte
}

func (s StaticSource) Seed(ctx context.Context) ([]byte, error) {
	return s.B, nil
}
