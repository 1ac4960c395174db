package epoch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/seven-ages/internal/epoch"
)

func TestEpochOrderAndNames(t *testing.T) {
	order := []epoch.Epoch{
		epoch.Myth, epoch.Dreams, epoch.Kings, epoch.Empire,
		epoch.Corruption, epoch.Collapse, epoch.Shadow,
	}
	names := []string{"Myth", "Dreams", "Kings", "Empire", "Corruption", "Collapse", "Shadow"}
	for i, e := range order {
		assert.Equal(t, names[i], e.String())
		if i < len(order)-1 {
			assert.Equal(t, order[i+1], e.Next())
		}
	}
	assert.Equal(t, epoch.Shadow, epoch.Shadow.Next())
	assert.True(t, epoch.Shadow.Terminal())
	assert.False(t, epoch.Collapse.Terminal())
}

func TestExitPredicatesPerEpoch(t *testing.T) {
	cases := []struct {
		epoch epoch.Epoch
		below epoch.Snapshot
		meets epoch.Snapshot
	}{
		{epoch.Myth,
			epoch.Snapshot{PctBailiwicksResolved: 99.9},
			epoch.Snapshot{PctBailiwicksResolved: 100}},
		{epoch.Dreams,
			epoch.Snapshot{PctTribesSettled: 79.9},
			epoch.Snapshot{PctTribesSettled: 80}},
		{epoch.Kings,
			epoch.Snapshot{PctTerritoryClaimed: 79.9},
			epoch.Snapshot{PctTerritoryClaimed: 80}},
		{epoch.Empire,
			epoch.Snapshot{PctDominantOwner: 79.9},
			epoch.Snapshot{PctDominantOwner: 80}},
		{epoch.Corruption,
			epoch.Snapshot{PctEmpireBalkanized: 79.9},
			epoch.Snapshot{PctEmpireBalkanized: 80}},
		{epoch.Collapse,
			epoch.Snapshot{PctNationsFallen: 79.9},
			epoch.Snapshot{PctNationsFallen: 80}},
	}

	for _, tc := range cases {
		sm := epoch.NewStateMachine()
		for sm.Record().Current != tc.epoch {
			sm.Advance()
		}
		assert.False(t, sm.Observe(tc.below), "%s below threshold", tc.epoch)
		assert.True(t, sm.Observe(tc.meets), "%s at threshold", tc.epoch)
	}
}

func TestShadowIsAbsorbing(t *testing.T) {
	sm := epoch.NewStateMachine()
	for sm.Record().Current != epoch.Shadow {
		sm.Advance()
	}
	// Nothing exits the long dusk, no matter how the metrics look.
	assert.False(t, sm.Observe(epoch.Snapshot{
		PctTerritoryClaimed:   100,
		PctBailiwicksResolved: 100,
		PctTribesSettled:      100,
		PctDominantOwner:      100,
		PctEmpireBalkanized:   100,
		PctNationsFallen:      100,
	}))
	from, to := sm.Advance()
	assert.Equal(t, epoch.Shadow, from)
	assert.Equal(t, epoch.Shadow, to)
}

func TestAdvanceResetsTickCount(t *testing.T) {
	sm := epoch.NewStateMachine()
	sm.TickElapsed()
	sm.TickElapsed()
	assert.Equal(t, uint64(2), sm.Record().TicksInEpoch)

	from, to := sm.Advance()
	assert.Equal(t, epoch.Myth, from)
	assert.Equal(t, epoch.Dreams, to)
	assert.Equal(t, uint64(0), sm.Record().TicksInEpoch)
}

func TestObserveStoresSnapshot(t *testing.T) {
	sm := epoch.NewStateMachine()
	snap := epoch.Snapshot{Tick: 9, PctTerritoryClaimed: 12.5}
	sm.Observe(snap)
	assert.Equal(t, snap, sm.Record().LastSnapshot)
}

func TestRestoreStateMachine(t *testing.T) {
	rec := epoch.Record{Current: epoch.Corruption, TicksInEpoch: 41}
	counters := epoch.Counters{EmpireID: 3}
	sm := epoch.RestoreStateMachine(rec, counters)
	assert.Equal(t, rec, sm.Record())
	assert.Equal(t, counters, sm.Counters())
}
