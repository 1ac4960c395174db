// Beast-of-legend behavior. Beasts raid the nations adjacent to their
// domain; dormancy is flipped only by epoch boundaries, never by the beast
// itself.
package engine

import (
	"math/rand"

	"github.com/talgya/seven-ages/internal/faction"
	"github.com/talgya/seven-ages/internal/world"
)

// beastRaidPolicy attacks the weakest nation adjacent to the beast's
// domain. A dormant beast emits nothing regardless of how tempting its
// neighbors look.
func beastRaidPolicy(v *View, f *faction.Faction, rng *rand.Rand) []Intent {
	if f.Dormant {
		return nil
	}

	owned := v.RegionsOwnedBy(f.ID)
	if len(owned) == 0 {
		owned = []world.RegionID{f.Home}
	}

	prey := world.Unowned
	preyStrength := 0.0
	for _, rid := range owned {
		neighbors, err := v.NeighborsOf(rid)
		if err != nil {
			continue
		}
		for _, nid := range neighbors {
			owner, err := v.OwnerOf(nid)
			if err != nil || owner == world.Unowned || owner == f.ID {
				continue
			}
			if !v.IsAlive(owner) {
				continue
			}
			s := v.Strength(owner)
			if prey == world.Unowned || s < preyStrength ||
				(s == preyStrength && owner < prey) {
				prey = owner
				preyStrength = s
			}
		}
	}
	if prey == world.Unowned {
		return nil
	}
	return []Intent{{Faction: f.ID, Kind: IntentAttackFaction, Target: prey}}
}
