package epoch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/seven-ages/internal/epoch"
	"github.com/talgya/seven-ages/internal/faction"
	"github.com/talgya/seven-ages/internal/world"
)

func flatMap(n int) *world.TerritoryMap {
	regions := make([]world.Region, n)
	for i := range regions {
		regions[i] = world.Region{
			Coord: world.HexCoord{Q: i, R: 0},
			Biome: world.BiomeGrassland,
			Yield: 0.5,
		}
	}
	return world.NewTerritoryMap(regions)
}

func TestComputeTerritoryAndDominance(t *testing.T) {
	tmap := flatMap(10)
	reg := faction.NewRegistry()
	a := reg.Add(&faction.Faction{Name: "A", Kind: faction.KindKingdom, Alive: true})
	b := reg.Add(&faction.Faction{Name: "B", Kind: faction.KindKingdom, Alive: true})

	// A holds 3 regions, B holds 1: 40% claimed, dominant share 75%.
	for _, id := range []world.RegionID{1, 2, 3} {
		_, err := tmap.Claim(id, a, 10)
		require.NoError(t, err)
	}
	_, err := tmap.Claim(4, b, 10)
	require.NoError(t, err)

	snap, err := epoch.Compute(5, tmap, reg, nil, epoch.Counters{})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), snap.Tick)
	assert.InDelta(t, 40.0, snap.PctTerritoryClaimed, 1e-9)
	assert.InDelta(t, 75.0, snap.PctDominantOwner, 1e-9)
	// No bailiwicks resolves vacuously.
	assert.Equal(t, 100.0, snap.PctBailiwicksResolved)
}

func TestComputeClaimedCountsOnlyHabitableGround(t *testing.T) {
	// Ten regions: three ocean, one snow peak, six grassland. Only habitable
	// ground can be claimed, so six is the denominator; the beast's lair is
	// an occupation, not a claim, and stays out of the numerator.
	regions := make([]world.Region, 10)
	for i := range regions {
		biome := world.BiomeGrassland
		switch {
		case i < 3:
			biome = world.BiomeOcean
		case i == 3:
			biome = world.BiomeSnowPeaks
		}
		regions[i] = world.Region{Coord: world.HexCoord{Q: i, R: 0}, Biome: biome, Yield: 0.5}
	}
	tmap := world.NewTerritoryMap(regions)

	reg := faction.NewRegistry()
	kingdom := reg.Add(&faction.Faction{Name: "A", Kind: faction.KindKingdom, Alive: true})
	beast := reg.Add(&faction.Faction{Name: "Vorgul", Kind: faction.KindBeastDomain, Alive: true})

	for _, id := range []world.RegionID{5, 6, 7} {
		_, err := tmap.Claim(id, kingdom, 10)
		require.NoError(t, err)
	}
	_, err := tmap.Claim(8, beast, 10)
	require.NoError(t, err)

	snap, err := epoch.Compute(1, tmap, reg, nil, epoch.Counters{})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, snap.PctTerritoryClaimed, 1e-9) // 3 of 6 habitable
	assert.InDelta(t, 100.0, snap.PctDominantOwner, 1e-9)   // share of nation land only
}

func TestComputeBailiwicksResolved(t *testing.T) {
	tmap := flatMap(1)
	reg := faction.NewRegistry()
	id := reg.Add(&faction.Faction{Name: "A", Kind: faction.KindKingdom, Alive: true})

	bailiwicks := []*faction.Bailiwick{
		{ID: 1, Name: "Bailiwick of Storms"},
		{ID: 2, Name: "Bailiwick of Tides"},
		{ID: 3, Name: "Bailiwick of Graves"},
		{ID: 4, Name: "Bailiwick of Dawn"},
	}
	require.NoError(t, bailiwicks[0].ClaimBy(id))
	require.NoError(t, bailiwicks[1].LoseToChaos())

	snap, err := epoch.Compute(1, tmap, reg, bailiwicks, epoch.Counters{})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, snap.PctBailiwicksResolved, 1e-9)
}

func TestComputeTribesSettled(t *testing.T) {
	tmap := flatMap(1)
	reg := faction.NewRegistry()
	settled := reg.Add(&faction.Faction{Name: "A", Kind: faction.KindKingdom, Alive: true})
	wandering := reg.Add(&faction.Faction{Name: "B", Kind: faction.KindTribe, Alive: true})
	perished := reg.Add(&faction.Faction{Name: "C", Kind: faction.KindKingdom, Alive: false})
	late := reg.Add(&faction.Faction{Name: "D", Kind: faction.KindTribe, Alive: true})

	c := epoch.Counters{TribeIDs: []world.FactionID{settled, wandering, perished, late}}
	snap, err := epoch.Compute(1, tmap, reg, nil, c)
	require.NoError(t, err)
	// Only the living settled tribe counts: 1 of 4.
	assert.InDelta(t, 25.0, snap.PctTribesSettled, 1e-9)
}

func TestComputeEmpireBalkanized(t *testing.T) {
	tmap := flatMap(5)
	reg := faction.NewRegistry()
	empire := reg.Add(&faction.Faction{Name: "E", Kind: faction.KindEmpire, Alive: true})
	rebel := reg.Add(&faction.Faction{Name: "R", Kind: faction.KindKingdom, Alive: true})

	// The empire held 1..4 at its height; it retains 1, region 2 fell to a
	// rebel, regions 3 and 4 lapsed to wilderness.
	_, err := tmap.Claim(1, empire, 10)
	require.NoError(t, err)
	_, err = tmap.Claim(2, rebel, 10)
	require.NoError(t, err)

	c := epoch.Counters{
		EmpireID:        empire,
		EmpireTerritory: []world.RegionID{1, 2, 3, 4},
	}
	snap, err := epoch.Compute(1, tmap, reg, nil, c)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, snap.PctEmpireBalkanized, 1e-9)
}

func TestComputeNationsFallen(t *testing.T) {
	tmap := flatMap(1)
	reg := faction.NewRegistry()
	alive := reg.Add(&faction.Faction{Name: "A", Kind: faction.KindKingdom, Alive: true})
	dead1 := reg.Add(&faction.Faction{Name: "B", Kind: faction.KindKingdom, Alive: false})
	dead2 := reg.Add(&faction.Faction{Name: "C", Kind: faction.KindCityState, Alive: false})

	c := epoch.Counters{NationIDs: []world.FactionID{alive, dead1, dead2}}
	snap, err := epoch.Compute(1, tmap, reg, nil, c)
	require.NoError(t, err)
	assert.InDelta(t, 100.0*2/3, snap.PctNationsFallen, 1e-9)
}

func TestComputeRejectsPendingContests(t *testing.T) {
	tmap := flatMap(2)
	reg := faction.NewRegistry()
	a := reg.Add(&faction.Faction{Name: "A", Kind: faction.KindKingdom, Alive: true})
	b := reg.Add(&faction.Faction{Name: "B", Kind: faction.KindKingdom, Alive: true})

	_, err := tmap.Claim(1, a, 10)
	require.NoError(t, err)
	_, err = tmap.Claim(1, b, 12)
	require.NoError(t, err)
	require.Equal(t, 1, tmap.PendingContests())

	_, err = epoch.Compute(1, tmap, reg, nil, epoch.Counters{})
	assert.ErrorIs(t, err, epoch.ErrInconsistentMetric)
}
