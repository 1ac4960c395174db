// Epoch entry hooks. Fired exactly once per transition, immediately after
// the state machine advances; they reset the per-epoch denominators and
// flip beast dormancy. Faction and region history is never reset.
package engine

import (
	"log/slog"
	"math/rand"

	"github.com/talgya/seven-ages/internal/epoch"
	"github.com/talgya/seven-ages/internal/faction"
)

func (s *Simulation) applyEpochEntry(to epoch.Epoch, tick uint64) {
	c := s.sm.Counters()

	switch to {
	case epoch.Dreams:
		// The settlement denominator: tribes alive as the age opens. Beasts
		// stir awake with the first mortals, though none raid until Kings.
		c.TribeIDs = s.reg.IDsOfKind(faction.KindTribe)
		s.setBeastDormancy(false, nil)

	case epoch.Kings:
		s.setBeastDormancy(false, nil)

	case epoch.Empire:
		// Designate the dominant kingdom; ties resolve to the lowest id via
		// StrongestLive. Beasts are forced dormant for the age.
		if dominant := s.reg.StrongestLive(faction.KindKingdom); dominant != nil {
			dominant.Kind = faction.KindEmpire
			slog.Info("empire designated", "faction", dominant.Name, "strength", dominant.Strength)
		}
		s.setBeastDormancy(true, nil)

	case epoch.Corruption:
		// Record the empire at its height for the balkanization metric.
		for _, f := range s.reg.Live() {
			if f.Kind == faction.KindEmpire {
				c.EmpireID = f.ID
				c.EmpireTerritory = s.tmap.RegionsOwnedBy(f.ID)
				break
			}
		}
		// A seed-derived fraction of beasts stirs awake.
		s.setBeastDormancy(true, func(f *faction.Faction, r *rand.Rand) bool {
			return r.Float64() < s.cfg.BeastWakeFraction
		})

	case epoch.Collapse:
		c.NationIDs = s.reg.LiveNationIDs()
		s.setBeastDormancy(false, nil)
	}

	s.sm.SetCounters(c)
}

// setBeastDormancy sets every living beast's dormancy. When wake is
// non-nil, a beast whose roll passes wakes despite the default.
func (s *Simulation) setBeastDormancy(dormant bool, wake func(*faction.Faction, *rand.Rand) bool) {
	for _, f := range s.reg.Live() {
		if f.Kind != faction.KindBeastDomain {
			continue
		}
		f.Dormant = dormant
		if dormant && wake != nil && wake(f, s.beastRNG(f)) {
			f.Dormant = false
		}
		slog.Debug("beast dormancy", "beast", f.Name, "dormant", f.Dormant)
	}
}

func (s *Simulation) beastRNG(f *faction.Faction) *rand.Rand {
	seed := s.cfg.Seed ^ int64(f.ID)*0x94d049bb ^ int64(s.tick)*0xbf58476d
	return rand.New(rand.NewSource(seed))
}
