package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/seven-ages/internal/world"
)

// lineMap builds a territory map of n grassland regions laid out in a row,
// so region i+1 neighbors region i and i+2.
func lineMap(n int) *world.TerritoryMap {
	regions := make([]world.Region, n)
	for i := range regions {
		regions[i] = world.Region{
			Coord: world.HexCoord{Q: i, R: 0},
			Biome: world.BiomeGrassland,
			Yield: 0.6,
		}
	}
	return world.NewTerritoryMap(regions)
}

func TestClaimUnclaimedCommits(t *testing.T) {
	tmap := lineMap(3)

	res, err := tmap.Claim(1, 7, 50)
	require.NoError(t, err)
	assert.Equal(t, world.ClaimCommitted, res)

	owner, err := tmap.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, world.FactionID(7), owner)
	assert.Equal(t, 1, tmap.OwnedCount(7))
	assert.Equal(t, 0, tmap.PendingContests())
}

func TestClaimOwnedRegionOpensContest(t *testing.T) {
	tmap := lineMap(3)
	_, err := tmap.Claim(2, 1, 40)
	require.NoError(t, err)
	tmap.BeginTick()

	res, err := tmap.Claim(2, 9, 55)
	require.NoError(t, err)
	assert.Equal(t, world.ClaimContested, res)
	assert.Equal(t, 1, tmap.PendingContests())

	// The incumbent keeps ownership until resolution commits a winner.
	owner, err := tmap.OwnerOf(2)
	require.NoError(t, err)
	assert.Equal(t, world.FactionID(1), owner)

	r, err := tmap.Region(2)
	require.NoError(t, err)
	assert.True(t, r.Contested)

	contests := tmap.Contests()
	require.Len(t, contests, 1)
	assert.Equal(t, world.RegionID(2), contests[0].Region)
	require.Len(t, contests[0].Claims, 1)
	assert.Equal(t, world.FactionID(9), contests[0].Claims[0].Faction)

	require.NoError(t, tmap.ResolveContest(2, 9))
	owner, err = tmap.OwnerOf(2)
	require.NoError(t, err)
	assert.Equal(t, world.FactionID(9), owner)
	assert.Equal(t, 0, tmap.OwnedCount(1))
	assert.Equal(t, 0, tmap.PendingContests())

	r, err = tmap.Region(2)
	require.NoError(t, err)
	assert.False(t, r.Contested)
}

func TestSameTickDoubleClaimDemotesToContest(t *testing.T) {
	tmap := lineMap(3)

	res, err := tmap.Claim(1, 3, 30)
	require.NoError(t, err)
	assert.Equal(t, world.ClaimCommitted, res)

	// A rival claim in the same tick demotes the provisional commit: the
	// region reverts to unowned and both bids go to contest.
	res, err = tmap.Claim(1, 4, 45)
	require.NoError(t, err)
	assert.Equal(t, world.ClaimContested, res)

	owner, err := tmap.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, world.Unowned, owner)
	assert.Equal(t, 0, tmap.OwnedCount(3))

	contests := tmap.Contests()
	require.Len(t, contests, 1)
	require.Len(t, contests[0].Claims, 2)
	assert.Equal(t, world.FactionID(3), contests[0].Claims[0].Faction)
	assert.Equal(t, world.FactionID(4), contests[0].Claims[1].Faction)

	// A third claim piles onto the open contest.
	res, err = tmap.Claim(1, 5, 60)
	require.NoError(t, err)
	assert.Equal(t, world.ClaimContested, res)
	require.Len(t, tmap.Contests()[0].Claims, 3)

	require.NoError(t, tmap.ResolveContest(1, 5))
	owner, err = tmap.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, world.FactionID(5), owner)
}

func TestRepeatClaimBySameFactionStaysCommitted(t *testing.T) {
	tmap := lineMap(2)

	res, err := tmap.Claim(1, 2, 30)
	require.NoError(t, err)
	assert.Equal(t, world.ClaimCommitted, res)

	res, err = tmap.Claim(1, 2, 30)
	require.NoError(t, err)
	assert.Equal(t, world.ClaimCommitted, res)
	assert.Equal(t, 0, tmap.PendingContests())
}

func TestBeginTickClosesDemotionWindow(t *testing.T) {
	tmap := lineMap(2)
	_, err := tmap.Claim(1, 2, 30)
	require.NoError(t, err)
	tmap.BeginTick()

	// Next tick the region is simply owned: a rival claim opens an
	// incumbent contest rather than unseating the commit.
	res, err := tmap.Claim(1, 6, 90)
	require.NoError(t, err)
	assert.Equal(t, world.ClaimContested, res)

	owner, err := tmap.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, world.FactionID(2), owner)
	require.Len(t, tmap.Contests()[0].Claims, 1)
}

func TestInvalidRegionErrors(t *testing.T) {
	tmap := lineMap(2)

	_, err := tmap.Claim(0, 1, 10)
	assert.ErrorIs(t, err, world.ErrInvalidRegion)
	_, err = tmap.Claim(3, 1, 10)
	assert.ErrorIs(t, err, world.ErrInvalidRegion)
	_, err = tmap.OwnerOf(99)
	assert.ErrorIs(t, err, world.ErrInvalidRegion)
	assert.ErrorIs(t, tmap.Release(0), world.ErrInvalidRegion)
	_, err = tmap.Region(3)
	assert.ErrorIs(t, err, world.ErrInvalidRegion)

	// Resolving a region without a pending contest is also invalid.
	assert.ErrorIs(t, tmap.ResolveContest(1, 1), world.ErrInvalidRegion)
}

func TestReleaseAllReturnsSortedIDs(t *testing.T) {
	tmap := lineMap(5)
	for _, id := range []world.RegionID{4, 1, 3} {
		_, err := tmap.Claim(id, 8, 20)
		require.NoError(t, err)
	}

	released := tmap.ReleaseAll(8)
	assert.Equal(t, []world.RegionID{1, 3, 4}, released)
	assert.Equal(t, 0, tmap.OwnedCount(8))
	for _, id := range released {
		owner, err := tmap.OwnerOf(id)
		require.NoError(t, err)
		assert.Equal(t, world.Unowned, owner)
	}
}

func TestRegionsOwnedBySorted(t *testing.T) {
	tmap := lineMap(6)
	for _, id := range []world.RegionID{5, 2, 6} {
		_, err := tmap.Claim(id, 1, 20)
		require.NoError(t, err)
	}
	assert.Equal(t, []world.RegionID{2, 5, 6}, tmap.RegionsOwnedBy(1))
}

func TestNeighborsFollowDirectionOrder(t *testing.T) {
	// A center hex with all six neighbors present.
	center := world.HexCoord{Q: 0, R: 0}
	regions := []world.Region{{Coord: center, Biome: world.BiomeGrassland}}
	for _, c := range center.Neighbors() {
		regions = append(regions, world.Region{Coord: c, Biome: world.BiomeGrassland})
	}
	tmap := world.NewTerritoryMap(regions)

	neighbors, err := tmap.NeighborsOf(1)
	require.NoError(t, err)
	// Regions were appended in direction order, so ids 2..7 must come back
	// in exactly that order.
	assert.Equal(t, []world.RegionID{2, 3, 4, 5, 6, 7}, neighbors)
}

func TestNewTerritoryMapIndexesPresetOwners(t *testing.T) {
	regions := []world.Region{
		{Coord: world.HexCoord{Q: 0, R: 0}, Biome: world.BiomeGrassland, Owner: 3},
		{Coord: world.HexCoord{Q: 1, R: 0}, Biome: world.BiomeGrassland},
	}
	tmap := world.NewTerritoryMap(regions)
	assert.Equal(t, []world.RegionID{1}, tmap.RegionsOwnedBy(3))
	assert.Equal(t, 1, tmap.OwnedCount(3))
}

func TestHexDistance(t *testing.T) {
	a := world.HexCoord{Q: 0, R: 0}
	assert.Equal(t, 0, world.Distance(a, a))
	assert.Equal(t, 1, world.Distance(a, world.HexCoord{Q: 1, R: 0}))
	assert.Equal(t, 2, world.Distance(a, world.HexCoord{Q: 1, R: 1}))
	assert.Equal(t, 3, world.Distance(a, world.HexCoord{Q: -3, R: 0}))
	assert.Equal(t, 0, a.S())
}
