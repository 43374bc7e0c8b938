// Package cryptox holds the password-verifier primitives used for principal
// authentication. Passwords are never stored: the server keeps a random salt
// and an Argon2id-derived verifier, and compares candidates in constant time.
package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// DeriveVerifier derives a 32-byte verifier from a password and salt using
// Argon2id. Parameters follow the library's recommended interactive profile.
func DeriveVerifier(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// VerifierMatches compares a stored verifier with a candidate in constant time.
func VerifierMatches(stored, candidate []byte) bool {
	return subtle.ConstantTimeCompare(stored, candidate) == 1
}
