// Package epoch provides the seven-age state machine, the world metric
// snapshot, and the aggregator that computes it.
package epoch

// Epoch is one of the seven ordered world-historical ages.
type Epoch uint8

const (
	Myth       Epoch = iota // Deities contest the bailiwicks
	Dreams                  // Tribes wander toward promised lands
	Kings                   // Kingdoms expand and beasts stir
	Empire                  // One kingdom dominates; beasts sleep
	Corruption              // The empire rots from its edges
	Collapse                // Every nation turns on its neighbor
	Shadow                  // The long dusk; absorbing, never exits
)

var epochNames = [...]string{
	"Myth", "Dreams", "Kings", "Empire", "Corruption", "Collapse", "Shadow",
}

// String returns the epoch's display name.
func (e Epoch) String() string {
	if int(e) < len(epochNames) {
		return epochNames[e]
	}
	return "unknown"
}

// Next returns the following epoch. Shadow is absorbing and returns itself.
func (e Epoch) Next() Epoch {
	if e >= Shadow {
		return Shadow
	}
	return e + 1
}

// Terminal reports whether the epoch has no exit condition.
func (e Epoch) Terminal() bool {
	return e == Shadow
}

// Record is the single live epoch record of a world: current epoch, ticks
// since it began, and the most recent metric snapshot. Mutated only by the
// state machine.
type Record struct {
	Current      Epoch    `json:"current"`
	TicksInEpoch uint64   `json:"ticks_in_epoch"`
	LastSnapshot Snapshot `json:"last_snapshot"`
}
