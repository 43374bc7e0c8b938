package models

import "time"

// Principal is an identity capable of initiating operations and holding
// value. The server stores a salt and an Argon2id verifier, never the
// password itself.
type Principal struct {
	ID        string
	UserName  string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}
