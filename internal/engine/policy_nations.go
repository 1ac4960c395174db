// Nation behavior policies — tribes, kingdoms, the empire, city-states.
// Each policy is a pure decision function over the read-only view.
package engine

import (
	"math/rand"

	"github.com/talgya/seven-ages/internal/faction"
	"github.com/talgya/seven-ages/internal/world"
)

// tribePatienceTicks is how long a tribe chases its promised land within one
// age before settling for the ground it stands on. Some criteria are simply
// unreachable from a tribe's starting landmass; without the fallback those
// tribes wander forever and the Age of Dreams never ends.
const tribePatienceTicks = 60

// tribeMigrationPolicy walks a tribe toward its promised land, one region
// per tick, and settles when the home region matches the criterion — or when
// patience runs out.
func tribeMigrationPolicy(v *View, f *faction.Faction, rng *rand.Rand) []Intent {
	home, err := v.Region(f.Home)
	if err != nil {
		return nil
	}
	if f.Promised.Matches(home) {
		return []Intent{{Faction: f.ID, Kind: IntentSettle, Region: f.Home}}
	}
	if v.Record().TicksInEpoch >= tribePatienceTicks && home.Biome.Habitable() {
		return []Intent{{Faction: f.ID, Kind: IntentSettle, Region: f.Home}}
	}

	neighbors, err := v.NeighborsOf(f.Home)
	if err != nil {
		return nil
	}
	var habitable []world.RegionID
	best := world.RegionID(0)
	bestScore := -1.0
	for _, id := range neighbors {
		r, err := v.Region(id)
		if err != nil || !r.Biome.Habitable() {
			continue
		}
		habitable = append(habitable, id)
		score := r.Yield
		for _, b := range f.Promised.Biomes {
			if r.Biome == b {
				score += 1
				break
			}
		}
		if score > bestScore {
			bestScore = score
			best = id
		}
	}
	if len(habitable) == 0 {
		return nil
	}
	// Occasional exploration keeps tribes from shuttling between two local
	// maxima forever.
	if rng.Float64() < 0.25 {
		best = habitable[rng.Intn(len(habitable))]
	}
	return []Intent{{Faction: f.ID, Kind: IntentMigrate, Region: best}}
}

// expansionTargets scans the border of a faction's territory for claimable
// regions: habitable, and either unclaimed or held by a strictly weaker
// owner (when raids are allowed). Candidates come back ordered best-first by
// yield, ties by region id, so expansion is deterministic.
func expansionTargets(v *View, f *faction.Faction, raidWeaker bool, limit int) []world.RegionID {
	owned := v.RegionsOwnedBy(f.ID)
	if len(owned) == 0 {
		owned = []world.RegionID{f.Home}
	}

	type candidate struct {
		id    world.RegionID
		yield float64
	}
	seen := map[world.RegionID]bool{}
	var cands []candidate
	for _, rid := range owned {
		neighbors, err := v.NeighborsOf(rid)
		if err != nil {
			continue
		}
		for _, nid := range neighbors {
			if seen[nid] {
				continue
			}
			seen[nid] = true
			r, err := v.Region(nid)
			if err != nil || !r.Biome.Habitable() {
				continue
			}
			switch {
			case r.Owner == world.Unowned:
			case r.Owner == f.ID:
				continue
			case raidWeaker && v.Strength(r.Owner) < f.Strength:
			default:
				continue
			}
			cands = append(cands, candidate{id: nid, yield: r.Yield})
		}
	}

	// Selection sort on a handful of border candidates; best yield first,
	// lowest id on ties.
	out := make([]world.RegionID, 0, limit)
	for len(cands) > 0 && len(out) < limit {
		bi := 0
		for i := 1; i < len(cands); i++ {
			if cands[i].yield > cands[bi].yield ||
				(cands[i].yield == cands[bi].yield && cands[i].id < cands[bi].id) {
				bi = i
			}
		}
		out = append(out, cands[bi].id)
		cands = append(cands[:bi], cands[bi+1:]...)
	}
	return out
}

// modestClaimPolicy claims one adjacent unclaimed region per tick. Used by
// city-states and by nations outside their expansionist ages.
func modestClaimPolicy(v *View, f *faction.Faction, rng *rand.Rand) []Intent {
	targets := expansionTargets(v, f, false, 1)
	if len(targets) == 0 {
		return nil
	}
	return []Intent{{Faction: f.ID, Kind: IntentClaimRegion, Region: targets[0]}}
}

// kingdomExpansionPolicy claims one contiguous unclaimed or weaker-owned
// region per tick.
func kingdomExpansionPolicy(v *View, f *faction.Faction, rng *rand.Rand) []Intent {
	targets := expansionTargets(v, f, true, 1)
	if len(targets) == 0 {
		return nil
	}
	return []Intent{{Faction: f.ID, Kind: IntentClaimRegion, Region: targets[0]}}
}

// empireAggressionPolicy is the dominant kingdom's land hunger: up to three
// border claims per tick, weaker owners fair game.
func empireAggressionPolicy(v *View, f *faction.Faction, rng *rand.Rand) []Intent {
	targets := expansionTargets(v, f, true, 3)
	out := make([]Intent, 0, len(targets))
	for _, t := range targets {
		out = append(out, Intent{Faction: f.ID, Kind: IntentClaimRegion, Region: t})
	}
	return out
}

// corruptionRotPolicy is the rotting empire: outlying holdings are
// probabilistically abandoned, at most two per tick.
func corruptionRotPolicy(v *View, f *faction.Faction, rng *rand.Rand) []Intent {
	homeRegion, err := v.Region(f.Home)
	if err != nil {
		return nil
	}
	var out []Intent
	for _, rid := range v.RegionsOwnedBy(f.ID) {
		if rid == f.Home || len(out) >= 2 {
			continue
		}
		r, err := v.Region(rid)
		if err != nil {
			continue
		}
		if world.Distance(homeRegion.Coord, r.Coord) < 3 {
			continue
		}
		if rng.Float64() < 0.15 {
			out = append(out, Intent{Faction: f.ID, Kind: IntentAbandonRegion, Region: rid})
		}
	}
	return out
}

// collapsePolicy is the age of ruin: factions below the strength floor fall;
// everyone else turns on their nearest rival.
func collapsePolicy(v *View, f *faction.Faction, rng *rand.Rand) []Intent {
	if f.Strength < collapseStrengthFloor {
		return []Intent{{Faction: f.ID, Kind: IntentFall}}
	}
	rival := nearestRival(v, f)
	if rival == world.Unowned {
		return nil
	}
	return []Intent{{Faction: f.ID, Kind: IntentAttackFaction, Target: rival}}
}

// collapseStrengthFloor is the strength below which a nation falls during
// Collapse.
const collapseStrengthFloor = 5.0

// nearestRival finds the closest living nation by home-to-home hex
// distance; ties resolve to the lowest faction id.
func nearestRival(v *View, f *faction.Faction) world.FactionID {
	self, err := v.Region(f.Home)
	if err != nil {
		return world.Unowned
	}
	best := world.Unowned
	bestDist := int(^uint(0) >> 1)
	for _, other := range v.LiveFactions() {
		if other.ID == f.ID || !other.Kind.Nation() {
			continue
		}
		r, err := v.Region(other.Home)
		if err != nil {
			continue
		}
		d := world.Distance(self.Coord, r.Coord)
		if d < bestDist {
			bestDist = d
			best = other.ID
		}
	}
	return best
}
