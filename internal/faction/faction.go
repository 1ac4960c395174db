// Package faction provides the faction data model: territory-holding agents,
// divine bailiwicks, and the registry that owns them.
package faction

import (
	"github.com/talgya/seven-ages/internal/world"
)

// Kind is the faction variant. Behavior is selected by (epoch, kind), not by
// subtyping.
type Kind uint8

const (
	KindTribe      Kind = iota // Wandering people seeking a promised land
	KindKingdom                // Settled nation expanding by claim
	KindEmpire                 // The dominant kingdom, designated once
	KindCityState              // Minor settled power, defensive posture
	KindBeastDomain            // Beast-of-legend territory, dormancy-gated
)

var kindNames = [...]string{"tribe", "kingdom", "empire", "city-state", "beast domain"}

// String returns the kind's display name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Nation reports whether the kind counts toward the fallen-nations metric.
// Beast domains are antagonists, not nations.
func (k Kind) Nation() bool {
	return k != KindBeastDomain
}

// Disposition is the aggregated hostility/cooperation summary produced by
// the external relationship system. The engine treats it as opaque numeric
// input to behavior policy.
type Disposition struct {
	Hostility   float64 `json:"hostility"`   // 0.0 (placid) to 1.0 (murderous)
	Cooperation float64 `json:"cooperation"` // 0.0 (isolationist) to 1.0 (federative)
}

// PromisedLand is a tribe's settlement criterion: an acceptable biome set
// and a minimum resource yield. Tribes migrate until their home region
// matches, then settle.
type PromisedLand struct {
	Biomes   []world.Biome `json:"biomes"`
	MinYield float64       `json:"min_yield"`
}

// Matches reports whether a region satisfies the criterion.
func (p PromisedLand) Matches(r world.Region) bool {
	if r.Yield < p.MinYield {
		return false
	}
	for _, b := range p.Biomes {
		if r.Biome == b {
			return true
		}
	}
	return false
}

// Faction is a territory-holding agent. Fallen factions are kept forever to
// preserve historical lineage; they own nothing and never act again.
// Region ownership itself lives in the TerritoryMap, which is the single
// source of truth for the owned-region sets.
type Faction struct {
	ID   world.FactionID `json:"id"`
	Name string          `json:"name"`
	Kind Kind            `json:"kind"`

	// Strength is the abstract aggregate of population and military power.
	// Never negative.
	Strength float64 `json:"strength"`

	Disposition Disposition `json:"disposition"`

	Alive    bool   `json:"alive"`
	FellTick uint64 `json:"fell_tick,omitempty"`

	// Home is the faction's seat: a tribe's current camp, a kingdom's
	// founding region, a beast's lair.
	Home world.RegionID `json:"home"`

	// Tribe-only settlement criterion.
	Promised PromisedLand `json:"promised,omitempty"`

	// Beast-domain state. Dormancy changes only at epoch boundaries.
	Dormant bool    `json:"dormant,omitempty"`
	Threat  float64 `json:"threat,omitempty"`
}

// Acts reports whether the faction takes part in intent collection.
func (f *Faction) Acts() bool {
	return f.Alive
}

// Damage reduces strength, clamping at zero.
func (f *Faction) Damage(amount float64) {
	f.Strength -= amount
	if f.Strength < 0 {
		f.Strength = 0
	}
}
