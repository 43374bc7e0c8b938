// Package events defines the domain events the registry emits after
// successful mutations. Events are notifications for external observers,
// never a state dependency: the registry commits first, publishes second.
package events

import "github.com/dmitrijs2005/artledger/internal/server/models"

// Event is implemented by all domain events.
type Event interface {
	Name() string
}

// RegisteredOriginalFile is published after a file registration commits.
type RegisteredOriginalFile struct {
	Author string
	File   *models.OriginalFile
}

func (RegisteredOriginalFile) Name() string { return "RegisteredOriginalFile" }

// RegisteredLicense is published after a license purchase commits.
type RegisteredLicense struct {
	Owner string
	Key   string
}

func (RegisteredLicense) Name() string { return "RegisteredLicense" }
