// Package models defines the persistent entities of the registry. Both
// entity kinds (OriginalFile and License) are created exactly once, never
// updated and never deleted.
package models

import "time"

// OriginalFile is a registered digital artifact, keyed by its content hash.
//
// Index is a 1-based sequence number assigned at insertion; 0 means
// "not present" and is the sentinel used by existence checks.
type OriginalFile struct {
	Hash       string
	Payload    []byte
	Author     string
	Price      int64 // smallest base units, see money.go
	StorageKey string
	Index      int64
	CreatedAt  time.Time
}

// Snapshot returns an owned copy of the record, payload included. Licenses
// embed such a copy taken at purchase time, not a live reference, so a
// hypothetical later mutation of the registry record cannot affect
// already-issued licenses.
func (f *OriginalFile) Snapshot() OriginalFile {
	c := *f
	c.Payload = make([]byte, len(f.Payload))
	copy(c.Payload, f.Payload)
	return c
}
