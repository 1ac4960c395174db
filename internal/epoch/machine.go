package epoch

// Threshold is the exit condition level shared by every gated epoch: the
// driving metric must reach at least this percentage.
const Threshold = 80.0

// exitMetric selects the metric that gates each epoch's exit. Myth requires
// full resolution of the bailiwicks; every later gated epoch uses the shared
// threshold. Shadow has no entry here: it is absorbing.
var exitPredicates = map[Epoch]func(Snapshot) bool{
	Myth:       func(s Snapshot) bool { return s.PctBailiwicksResolved >= 100 },
	Dreams:     func(s Snapshot) bool { return s.PctTribesSettled >= Threshold },
	Kings:      func(s Snapshot) bool { return s.PctTerritoryClaimed >= Threshold },
	Empire:     func(s Snapshot) bool { return s.PctDominantOwner >= Threshold },
	Corruption: func(s Snapshot) bool { return s.PctEmpireBalkanized >= Threshold },
	Collapse:   func(s Snapshot) bool { return s.PctNationsFallen >= Threshold },
}

// StateMachine holds the live epoch record and the per-epoch counters.
// Transitions are one-directional and permanent: once an epoch is left it is
// never revisited, even if its metric later drops back below threshold.
type StateMachine struct {
	rec      Record
	counters Counters
}

// NewStateMachine starts a world in the Age of Myth.
func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

// RestoreStateMachine rebuilds a machine from saved state.
func RestoreStateMachine(rec Record, counters Counters) *StateMachine {
	return &StateMachine{rec: rec, counters: counters}
}

// Record returns a copy of the live epoch record.
func (sm *StateMachine) Record() Record {
	return sm.rec
}

// Counters returns the current per-epoch denominators.
func (sm *StateMachine) Counters() Counters {
	return sm.counters
}

// SetCounters replaces the denominators. Called by epoch entry hooks.
func (sm *StateMachine) SetCounters(c Counters) {
	sm.counters = c
}

// Observe records the tick's metric snapshot and reports whether the exit
// condition of the current epoch is met. It does not transition; the caller
// drives the transition so entry hooks and event logging happen in the right
// order.
func (sm *StateMachine) Observe(snap Snapshot) bool {
	sm.rec.LastSnapshot = snap
	pred, gated := exitPredicates[sm.rec.Current]
	if !gated {
		return false
	}
	return pred(snap)
}

// Advance moves to the next epoch and resets the in-epoch tick count.
// Returns the old and new epochs.
func (sm *StateMachine) Advance() (from, to Epoch) {
	from = sm.rec.Current
	to = from.Next()
	sm.rec.Current = to
	sm.rec.TicksInEpoch = 0
	return from, to
}

// TickElapsed bumps the in-epoch tick counter.
func (sm *StateMachine) TickElapsed() {
	sm.rec.TicksInEpoch++
}
