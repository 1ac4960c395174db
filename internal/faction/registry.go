package faction

import (
	"errors"
	"fmt"
	"sort"

	"github.com/talgya/seven-ages/internal/world"
)

// ErrInvalidFaction is returned when an operation references a faction
// identifier that does not exist.
var ErrInvalidFaction = errors.New("invalid faction")

// Registry is the arena of all factions, living and fallen. Factions are
// added during setup (and when world events create them) and never removed.
type Registry struct {
	factions []*Faction
	byID     map[world.FactionID]*Faction
	nextID   world.FactionID
}

// NewRegistry creates an empty registry. IDs start at 1.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[world.FactionID]*Faction),
		nextID: 1,
	}
}

// Add assigns the next id to the faction and registers it.
func (r *Registry) Add(f *Faction) world.FactionID {
	f.ID = r.nextID
	r.nextID++
	r.factions = append(r.factions, f)
	r.byID[f.ID] = f
	return f.ID
}

// Restore registers a faction under its existing id, used when rebuilding a
// registry from saved state. IDs must be added in ascending order.
func (r *Registry) Restore(f *Faction) error {
	if f.ID == 0 || r.byID[f.ID] != nil {
		return fmt.Errorf("restore faction %d: %w", f.ID, ErrInvalidFaction)
	}
	r.factions = append(r.factions, f)
	r.byID[f.ID] = f
	if f.ID >= r.nextID {
		r.nextID = f.ID + 1
	}
	return nil
}

// Get returns the faction with the given id.
func (r *Registry) Get(id world.FactionID) (*Faction, error) {
	f, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("faction %d: %w", id, ErrInvalidFaction)
	}
	return f, nil
}

// All returns every faction in ascending id order. The slice is shared;
// callers must not reorder it.
func (r *Registry) All() []*Faction {
	return r.factions
}

// Live returns the living factions in ascending id order.
func (r *Registry) Live() []*Faction {
	out := make([]*Faction, 0, len(r.factions))
	for _, f := range r.factions {
		if f.Alive {
			out = append(out, f)
		}
	}
	return out
}

// Count returns the total number of factions, fallen included.
func (r *Registry) Count() int {
	return len(r.factions)
}

// StrongestLive returns the living faction of the given kind with the
// highest strength; ties resolve to the lowest id. Returns nil if none.
func (r *Registry) StrongestLive(kind Kind) *Faction {
	var best *Faction
	for _, f := range r.factions {
		if !f.Alive || f.Kind != kind {
			continue
		}
		if best == nil || f.Strength > best.Strength {
			best = f
		}
	}
	return best
}

// IDsOfKind returns ascending ids of living factions of a kind.
func (r *Registry) IDsOfKind(kind Kind) []world.FactionID {
	var out []world.FactionID
	for _, f := range r.factions {
		if f.Alive && f.Kind == kind {
			out = append(out, f.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LiveNationIDs returns ascending ids of living nation factions (every kind
// except beast domains).
func (r *Registry) LiveNationIDs() []world.FactionID {
	var out []world.FactionID
	for _, f := range r.factions {
		if f.Alive && f.Kind.Nation() {
			out = append(out, f.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
