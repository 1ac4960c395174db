package engine

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/talgya/seven-ages/internal/epoch"
	"github.com/talgya/seven-ages/internal/faction"
	"github.com/talgya/seven-ages/internal/world"
)

// Config holds the tunables of a simulation run. Everything stochastic
// derives from Seed, so two runs with equal configs and equal initial state
// produce identical event logs.
type Config struct {
	Seed int64 `json:"seed"`

	// GrowthRate scales per-tick strength accrual from owned-region yield.
	GrowthRate float64 `json:"growth_rate"`

	// BailiwickResolveChance is the per-tick chance that an unresolved
	// bailiwick resolves during Myth. Zero disables the built-in driver so
	// an external caller can mark bailiwicks directly between ticks.
	BailiwickResolveChance float64 `json:"bailiwick_resolve_chance"`

	// BeastWakeFraction is the chance each beast wakes when Corruption
	// begins.
	BeastWakeFraction float64 `json:"beast_wake_fraction"`

	// Workers > 1 fans intent collection out over a worker pool. Purely a
	// performance knob; results are identical to sequential execution.
	Workers int `json:"workers"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig(seed int64) Config {
	return Config{
		Seed:                   seed,
		GrowthRate:             0.02,
		BailiwickResolveChance: 0.05,
		BeastWakeFraction:      0.5,
		Workers:                1,
	}
}

// Simulation holds the complete world state: territory, factions,
// bailiwicks, the epoch machine, and the event log. All mutation happens
// inside Step; readers take the read lock, so external callers always see a
// fully settled tick boundary.
type Simulation struct {
	mu sync.RWMutex

	cfg        Config
	tmap       *world.TerritoryMap
	reg        *faction.Registry
	bailiwicks []*faction.Bailiwick
	sm         *epoch.StateMachine
	events     *EventLog
	policies   map[policyKey]PolicyFunc

	tick uint64
}

// NewSimulation wires a simulation from generated components and validates
// the behavior policy table. An incomplete table is a configuration error
// and fails here, never at runtime.
func NewSimulation(cfg Config, tmap *world.TerritoryMap, reg *faction.Registry, bailiwicks []*faction.Bailiwick) (*Simulation, error) {
	policies := defaultPolicyTable()
	if err := validatePolicyTable(policies); err != nil {
		return nil, err
	}
	return &Simulation{
		cfg:        cfg,
		tmap:       tmap,
		reg:        reg,
		bailiwicks: bailiwicks,
		sm:         epoch.NewStateMachine(),
		events:     NewEventLog(),
		policies:   policies,
	}, nil
}

// Restore rebuilds a simulation from externally persisted state. Every rng
// stream is derived from (seed, tick, id), so nothing stochastic survives
// outside the reconstruction set.
func Restore(cfg Config, tmap *world.TerritoryMap, reg *faction.Registry, bailiwicks []*faction.Bailiwick,
	rec epoch.Record, counters epoch.Counters, tick uint64, events []Event) (*Simulation, error) {

	s, err := NewSimulation(cfg, tmap, reg, bailiwicks)
	if err != nil {
		return nil, err
	}
	s.sm = epoch.RestoreStateMachine(rec, counters)
	s.tick = tick
	for _, e := range events {
		s.events.Append(e.Tick, e.Kind, e.Payload)
	}
	return s, nil
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// Config returns the run configuration.
func (s *Simulation) Config() Config {
	return s.cfg
}

// EpochRecord returns a copy of the live epoch record.
func (s *Simulation) EpochRecord() epoch.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sm.Record()
}

// Counters returns the epoch machine's per-epoch denominators.
func (s *Simulation) Counters() epoch.Counters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sm.Counters()
}

// Events returns a copy of the full event log.
func (s *Simulation) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.All()
}

// EventsSince returns the log entries at or after a tick.
func (s *Simulation) EventsSince(tick uint64) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.Since(tick)
}

// Factions returns every faction in id order, fallen included. Records are
// shared; callers outside the engine must treat them as read-only.
func (s *Simulation) Factions() []*faction.Faction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.All()
}

// Faction returns one faction by id.
func (s *Simulation) Faction(id world.FactionID) (*faction.Faction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Get(id)
}

// Bailiwicks returns the bailiwick list.
func (s *Simulation) Bailiwicks() []*faction.Bailiwick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bailiwicks
}

// Territory returns the territory map. Callers may query it only between
// ticks; mutation stays inside the engine.
func (s *Simulation) Territory() *world.TerritoryMap {
	return s.tmap
}

// TerritoryRegions returns a copy of every region record, taken under the
// read lock so concurrent readers see a settled tick.
func (s *Simulation) TerritoryRegions() []world.Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tmap.Regions()
}

// OwnedCount returns how many regions a faction holds.
func (s *Simulation) OwnedCount(id world.FactionID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tmap.OwnedCount(id)
}

// RegionsOwnedBy returns the regions a faction holds, sorted by id.
func (s *Simulation) RegionsOwnedBy(id world.FactionID) []world.RegionID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tmap.RegionsOwnedBy(id)
}

// SetDisposition feeds a faction's externally computed disposition summary
// into the next tick's behavior. Call between ticks.
func (s *Simulation) SetDisposition(id world.FactionID, d faction.Disposition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.reg.Get(id)
	if err != nil {
		return err
	}
	f.Disposition = d
	return nil
}

// ClaimBailiwick marks a bailiwick claimed by a faction and logs the event.
// Intended for external drivers of the Age of Myth; call between ticks.
func (s *Simulation) ClaimBailiwick(id faction.BailiwickID, claimant world.FactionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.reg.Get(claimant); err != nil {
		return err
	}
	b, err := s.bailiwick(id)
	if err != nil {
		return err
	}
	if err := b.ClaimBy(claimant); err != nil {
		return err
	}
	s.events.Append(s.tick, EventBailiwickClaimed, BailiwickClaimedPayload{
		Bailiwick: b.ID, Name: b.Name, Claimant: claimant,
	})
	return nil
}

// LoseBailiwickToChaos marks a bailiwick lost and logs the event.
func (s *Simulation) LoseBailiwickToChaos(id faction.BailiwickID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bailiwick(id)
	if err != nil {
		return err
	}
	if err := b.LoseToChaos(); err != nil {
		return err
	}
	s.events.Append(s.tick, EventBailiwickLostToChaos, BailiwickLostPayload{
		Bailiwick: b.ID, Name: b.Name,
	})
	return nil
}

func (s *Simulation) bailiwick(id faction.BailiwickID) (*faction.Bailiwick, error) {
	for _, b := range s.bailiwicks {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("bailiwick %d not found", id)
}

// factionRNG derives the per-faction, per-tick decision stream. Independent
// of iteration order, so parallel collection cannot change behavior.
func (s *Simulation) factionRNG(id world.FactionID, tick uint64) *rand.Rand {
	seed := s.cfg.Seed ^ int64(tick)*0x9e3779b9 ^ int64(id)*0x85ebca6b
	return rand.New(rand.NewSource(seed))
}

// bailiwickRNG derives the Myth-age resolution stream for one bailiwick.
func (s *Simulation) bailiwickRNG(id faction.BailiwickID, tick uint64) *rand.Rand {
	seed := s.cfg.Seed ^ int64(tick)*0x165667b1 ^ int64(id)*0xd3a2646c
	return rand.New(rand.NewSource(seed))
}

// jitteredStrength applies the seed-driven strength jitter used by claim
// contests: ±10%, derived from (seed, tick, faction), never from call
// order.
func (s *Simulation) jitteredStrength(f *faction.Faction, tick uint64) float64 {
	seed := s.cfg.Seed ^ int64(tick)*0xc2b2ae35 ^ int64(f.ID)*0x27d4eb2f
	r := rand.New(rand.NewSource(seed))
	return f.Strength * (0.9 + 0.2*r.Float64())
}
