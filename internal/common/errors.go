// Package common defines shared constants and sentinel errors used across
// client and server layers of ArtLedger. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Registry-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorDuplicateFile = errors.New("file already registered")

	// Settlement errors.
	ErrorInsufficientFunds = errors.New("insufficient funds")

	// Rights verification errors.
	ErrorOwnershipMismatch = errors.New("ownership mismatch")

	// Service-level errors (generic/internal flow control).
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorInvalidArgument = errors.New("invalid argument")
	ErrorDuplicateName   = errors.New("username already taken")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
