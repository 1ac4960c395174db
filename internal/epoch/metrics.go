package epoch

import (
	"errors"
	"fmt"

	"github.com/talgya/seven-ages/internal/faction"
	"github.com/talgya/seven-ages/internal/world"
)

// ErrInconsistentMetric is returned when metrics are computed while claim
// contests are still pending. Resolve-then-measure is a hard precondition;
// violating it means the tick ordering is corrupt.
var ErrInconsistentMetric = errors.New("inconsistent metric: contests pending")

// Snapshot is the immutable per-tick summary of world state. All values are
// percentages in [0, 100].
type Snapshot struct {
	Tick uint64 `json:"tick"`

	PctTerritoryClaimed   float64 `json:"pct_territory_claimed"`
	PctBailiwicksResolved float64 `json:"pct_bailiwicks_resolved"`
	PctTribesSettled      float64 `json:"pct_tribes_settled"`
	PctDominantOwner      float64 `json:"pct_dominant_owner"`
	PctEmpireBalkanized   float64 `json:"pct_empire_balkanized"`
	PctNationsFallen      float64 `json:"pct_nations_fallen"`
}

// Counters are the per-epoch denominators recorded by the state machine's
// entry hooks. They reset only when the relevant epoch begins; history is
// otherwise cumulative.
type Counters struct {
	// TribeIDs is the Dreams settlement denominator: the tribes alive when
	// Dreams began. A tribe counts as settled once its kind is Kingdom.
	TribeIDs []world.FactionID `json:"tribe_ids"`

	// EmpireID and EmpireTerritory are recorded when Corruption begins: the
	// dominant kingdom and the regions it held at its height.
	EmpireID        world.FactionID  `json:"empire_id"`
	EmpireTerritory []world.RegionID `json:"empire_territory"`

	// NationIDs is the Collapse denominator: the nations alive when
	// Collapse began.
	NationIDs []world.FactionID `json:"nation_ids"`
}

// Compute produces a metric snapshot from the settled world state. It is a
// pure function of its inputs and runs in O(regions + factions). Calling it
// with unresolved contests is a fatal precondition violation.
func Compute(tick uint64, m *world.TerritoryMap, reg *faction.Registry, bailiwicks []*faction.Bailiwick, c Counters) (Snapshot, error) {
	if pending := m.PendingContests(); pending > 0 {
		return Snapshot{}, fmt.Errorf("%w: %d unresolved", ErrInconsistentMetric, pending)
	}

	snap := Snapshot{Tick: tick}

	// Territory claimed, and the largest single owner's share of it. Both
	// count only nation holdings over claimable (habitable) land: ocean and
	// frozen peaks can never be claimed, and beast lairs are occupations,
	// not claims. A world is "fully claimed" when the nations hold every
	// region a nation could hold.
	total := m.RegionCount()
	claimable := 0
	ownerCounts := make(map[world.FactionID]int)
	for id := world.RegionID(1); int(id) <= total; id++ {
		r, err := m.Region(id)
		if err != nil {
			return Snapshot{}, err
		}
		if r.Biome.Habitable() {
			claimable++
		}
		if r.Owner != world.Unowned {
			ownerCounts[r.Owner]++
		}
	}
	claimed, best := 0, 0
	for owner, n := range ownerCounts {
		f, err := reg.Get(owner)
		if err != nil {
			return Snapshot{}, err
		}
		if !f.Kind.Nation() {
			continue
		}
		claimed += n
		if n > best {
			best = n
		}
	}
	if claimable > 0 {
		snap.PctTerritoryClaimed = pct(claimed, claimable)
	}
	if claimed > 0 {
		snap.PctDominantOwner = pct(best, claimed)
	}

	// Bailiwicks resolved. No bailiwicks resolves vacuously.
	resolved := 0
	for _, b := range bailiwicks {
		if b.Resolved() {
			resolved++
		}
	}
	if len(bailiwicks) == 0 {
		snap.PctBailiwicksResolved = 100
	} else {
		snap.PctBailiwicksResolved = pct(resolved, len(bailiwicks))
	}

	// Tribes settled, against the Dreams-entry denominator.
	if n := len(c.TribeIDs); n > 0 {
		settled := 0
		for _, id := range c.TribeIDs {
			f, err := reg.Get(id)
			if err != nil {
				return Snapshot{}, err
			}
			if f.Kind != faction.KindTribe && f.Alive {
				settled++
			}
		}
		snap.PctTribesSettled = pct(settled, n)
	}

	// Empire balkanization: share of the empire's recorded territory no
	// longer held by it.
	if n := len(c.EmpireTerritory); n > 0 {
		lost := 0
		for _, id := range c.EmpireTerritory {
			owner, err := m.OwnerOf(id)
			if err != nil {
				return Snapshot{}, err
			}
			if owner != c.EmpireID {
				lost++
			}
		}
		snap.PctEmpireBalkanized = pct(lost, n)
	}

	// Nations fallen, against the Collapse-entry denominator.
	if n := len(c.NationIDs); n > 0 {
		fallen := 0
		for _, id := range c.NationIDs {
			f, err := reg.Get(id)
			if err != nil {
				return Snapshot{}, err
			}
			if !f.Alive {
				fallen++
			}
		}
		snap.PctNationsFallen = pct(fallen, n)
	}

	return snap, nil
}

func pct(n, d int) float64 {
	return 100 * float64(n) / float64(d)
}
