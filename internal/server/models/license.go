package models

import "time"

// License is a usage right sold for a registered artifact.
//
// File is a full copy of the OriginalFile as it existed at purchase time.
// Rights verification compares File.Hash against the queried hash; the
// snapshot, not a back-reference, is the basis of that check.
type License struct {
	Key       string
	File      OriginalFile
	Owner     string
	Index     int64 // 1-based, 0 = not present
	CreatedAt time.Time
}
