// Package engine ties the territory map, faction registry, and epoch state
// machine together and advances them through the fixed six-phase tick.
package engine

import (
	"github.com/talgya/seven-ages/internal/epoch"
	"github.com/talgya/seven-ages/internal/faction"
	"github.com/talgya/seven-ages/internal/world"
)

// EventKind classifies a notable occurrence.
type EventKind string

const (
	EventBailiwickClaimed     EventKind = "BailiwickClaimed"
	EventBailiwickLostToChaos EventKind = "BailiwickLostToChaos"
	EventTribeSettled         EventKind = "TribeSettled"
	EventKingdomFormed        EventKind = "KingdomFormed"
	EventRegionClaimed        EventKind = "RegionClaimed"
	EventFactionFell          EventKind = "FactionFell"
	EventEpochTransition      EventKind = "EpochTransition"
)

// Event is one entry of the append-only log consumed by external story and
// save systems.
type Event struct {
	Tick    uint64    `json:"tick"`
	Kind    EventKind `json:"kind"`
	Payload any       `json:"payload"`
}

// Typed event payloads. All are JSON-serializable value objects.

type BailiwickClaimedPayload struct {
	Bailiwick faction.BailiwickID `json:"bailiwick"`
	Name      string              `json:"name"`
	Claimant  world.FactionID     `json:"claimant"`
}

type BailiwickLostPayload struct {
	Bailiwick faction.BailiwickID `json:"bailiwick"`
	Name      string              `json:"name"`
}

type TribeSettledPayload struct {
	Faction world.FactionID `json:"faction"`
	Tribe   string          `json:"tribe"`
	Region  world.RegionID  `json:"region"`
}

type KingdomFormedPayload struct {
	Faction world.FactionID `json:"faction"`
	Name    string          `json:"name"`
	Region  world.RegionID  `json:"region"`
}

type RegionClaimedPayload struct {
	Region    world.RegionID  `json:"region"`
	Faction   world.FactionID `json:"faction"`
	Contested bool            `json:"contested"`
}

type FactionFellPayload struct {
	Faction  world.FactionID `json:"faction"`
	Name     string          `json:"name"`
	Regions  int             `json:"regions"` // regions released by the fall
}

type EpochTransitionPayload struct {
	From     epoch.Epoch    `json:"from"`
	To       epoch.Epoch    `json:"to"`
	Snapshot epoch.Snapshot `json:"snapshot"`
}

// EventLog is the append-only record of notable occurrences. Entries are
// never mutated or removed; external consumers read suffixes by tick.
type EventLog struct {
	events []Event
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append adds an entry.
func (l *EventLog) Append(tick uint64, kind EventKind, payload any) {
	l.events = append(l.events, Event{Tick: tick, Kind: kind, Payload: payload})
}

// Len returns the number of entries.
func (l *EventLog) Len() int {
	return len(l.events)
}

// All returns a copy of every entry in append order.
func (l *EventLog) All() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Since returns a copy of the entries at or after the given tick.
func (l *EventLog) Since(tick uint64) []Event {
	var out []Event
	for _, e := range l.events {
		if e.Tick >= tick {
			out = append(out, e)
		}
	}
	return out
}
