package faction

import (
	"fmt"

	"github.com/talgya/seven-ages/internal/world"
)

// BailiwickID identifies a divine domain of power.
type BailiwickID uint32

// BailiwickState tracks resolution. A bailiwick resolves exactly once,
// during the Age of Myth, and is immutable afterwards.
type BailiwickState uint8

const (
	BailiwickUnresolved BailiwickState = iota
	BailiwickClaimed
	BailiwickLostToChaos
)

var bailiwickStateNames = [...]string{"unresolved", "claimed", "lost to chaos"}

// String returns the state's display name.
func (s BailiwickState) String() string {
	if int(s) < len(bailiwickStateNames) {
		return bailiwickStateNames[s]
	}
	return "unknown"
}

// Bailiwick is a domain of divine power contested during the Age of Myth.
type Bailiwick struct {
	ID       BailiwickID     `json:"id"`
	Name     string          `json:"name"`
	State    BailiwickState  `json:"state"`
	Claimant world.FactionID `json:"claimant,omitempty"` // set only when State == BailiwickClaimed
}

// Resolved reports whether the bailiwick has reached a final state.
func (b *Bailiwick) Resolved() bool {
	return b.State != BailiwickUnresolved
}

// ClaimBy marks the bailiwick claimed by a faction. Resolution is final;
// re-resolving is a programming error.
func (b *Bailiwick) ClaimBy(f world.FactionID) error {
	if b.Resolved() {
		return fmt.Errorf("bailiwick %d already %s", b.ID, b.State)
	}
	b.State = BailiwickClaimed
	b.Claimant = f
	return nil
}

// LoseToChaos marks the bailiwick unclaimed forever.
func (b *Bailiwick) LoseToChaos() error {
	if b.Resolved() {
		return fmt.Errorf("bailiwick %d already %s", b.ID, b.State)
	}
	b.State = BailiwickLostToChaos
	return nil
}
