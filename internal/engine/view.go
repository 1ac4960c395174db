package engine

import (
	"github.com/talgya/seven-ages/internal/epoch"
	"github.com/talgya/seven-ages/internal/faction"
	"github.com/talgya/seven-ages/internal/world"
)

// View is the read-only world projection handed to an agent during intent
// collection. It exposes territory queries, other factions' public state,
// and the current epoch record — never a mutation path, so independent act
// calls can safely run concurrently.
type View struct {
	tick uint64
	rec  epoch.Record
	tmap *world.TerritoryMap
	reg  *faction.Registry
}

// Tick returns the tick being simulated.
func (v *View) Tick() uint64 {
	return v.tick
}

// Epoch returns the current epoch.
func (v *View) Epoch() epoch.Epoch {
	return v.rec.Current
}

// Record returns a copy of the live epoch record.
func (v *View) Record() epoch.Record {
	return v.rec
}

// Region returns a copy of a region record.
func (v *View) Region(id world.RegionID) (world.Region, error) {
	return v.tmap.Region(id)
}

// OwnerOf returns the owner of a region, or Unowned.
func (v *View) OwnerOf(id world.RegionID) (world.FactionID, error) {
	return v.tmap.OwnerOf(id)
}

// NeighborsOf returns the adjacent regions in fixed direction order.
func (v *View) NeighborsOf(id world.RegionID) ([]world.RegionID, error) {
	return v.tmap.NeighborsOf(id)
}

// RegionsOwnedBy returns the regions held by a faction, sorted by id.
func (v *View) RegionsOwnedBy(f world.FactionID) []world.RegionID {
	return v.tmap.RegionsOwnedBy(f)
}

// Strength returns a faction's strength score, or 0 for unknown or fallen
// factions.
func (v *View) Strength(id world.FactionID) float64 {
	f, err := v.reg.Get(id)
	if err != nil || !f.Alive {
		return 0
	}
	return f.Strength
}

// IsAlive reports whether a faction is alive.
func (v *View) IsAlive(id world.FactionID) bool {
	f, err := v.reg.Get(id)
	return err == nil && f.Alive
}

// LiveFactions returns the living factions in id order. The faction records
// are shared; agents must treat them as read-only.
func (v *View) LiveFactions() []*faction.Faction {
	return v.reg.Live()
}
