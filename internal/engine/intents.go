package engine

import (
	"github.com/talgya/seven-ages/internal/world"
)

// IntentKind enumerates the proposed state changes an agent can emit.
// Agents never mutate shared state directly; every mutation flows through an
// intent applied centrally by the scheduler, in faction-id order.
type IntentKind uint8

const (
	IntentClaimRegion   IntentKind = iota // Bid for a region (may open a contest)
	IntentAbandonRegion                   // Release a held region
	IntentMigrate                         // Move the faction's home (tribes)
	IntentSettle                          // Tribe founds a kingdom at its home
	IntentFall                            // The faction collapses
	IntentAttackFaction                   // Reduce a rival's strength
)

var intentNames = [...]string{
	"claim-region", "abandon-region", "migrate", "settle", "fall", "attack-faction",
}

// String returns the intent kind's display name.
func (k IntentKind) String() string {
	if int(k) < len(intentNames) {
		return intentNames[k]
	}
	return "unknown"
}

// Intent is one proposed action. Region is set for the region-directed
// kinds, Target for attacks.
type Intent struct {
	Faction world.FactionID
	Kind    IntentKind
	Region  world.RegionID
	Target  world.FactionID
}
