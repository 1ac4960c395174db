package faction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/seven-ages/internal/faction"
	"github.com/talgya/seven-ages/internal/world"
)

func TestDamageClampsAtZero(t *testing.T) {
	f := &faction.Faction{Strength: 10}
	f.Damage(4)
	assert.Equal(t, 6.0, f.Strength)
	f.Damage(100)
	assert.Equal(t, 0.0, f.Strength)
}

func TestPromisedLandMatches(t *testing.T) {
	p := faction.PromisedLand{
		Biomes:   []world.Biome{world.BiomeGrassland, world.BiomeSavanna},
		MinYield: 0.5,
	}
	assert.True(t, p.Matches(world.Region{Biome: world.BiomeGrassland, Yield: 0.6}))
	assert.False(t, p.Matches(world.Region{Biome: world.BiomeGrassland, Yield: 0.4}))
	assert.False(t, p.Matches(world.Region{Biome: world.BiomeDesert, Yield: 0.9}))
}

func TestKindNation(t *testing.T) {
	assert.True(t, faction.KindTribe.Nation())
	assert.True(t, faction.KindEmpire.Nation())
	assert.False(t, faction.KindBeastDomain.Nation())
	assert.Equal(t, "beast domain", faction.KindBeastDomain.String())
}

func TestRegistryAddAssignsSequentialIDs(t *testing.T) {
	reg := faction.NewRegistry()
	a := reg.Add(&faction.Faction{Name: "A", Alive: true})
	b := reg.Add(&faction.Faction{Name: "B", Alive: true})
	assert.Equal(t, world.FactionID(1), a)
	assert.Equal(t, world.FactionID(2), b)
	assert.Equal(t, 2, reg.Count())

	got, err := reg.Get(b)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)

	_, err = reg.Get(99)
	assert.ErrorIs(t, err, faction.ErrInvalidFaction)
}

func TestRegistryLiveExcludesFallen(t *testing.T) {
	reg := faction.NewRegistry()
	reg.Add(&faction.Faction{Name: "A", Alive: true})
	reg.Add(&faction.Faction{Name: "B", Alive: false})
	reg.Add(&faction.Faction{Name: "C", Alive: true})

	live := reg.Live()
	require.Len(t, live, 2)
	assert.Equal(t, "A", live[0].Name)
	assert.Equal(t, "C", live[1].Name)
	assert.Len(t, reg.All(), 3)
}

func TestStrongestLiveTieGoesToLowestID(t *testing.T) {
	reg := faction.NewRegistry()
	reg.Add(&faction.Faction{Name: "A", Kind: faction.KindKingdom, Strength: 50, Alive: true})
	reg.Add(&faction.Faction{Name: "B", Kind: faction.KindKingdom, Strength: 50, Alive: true})
	reg.Add(&faction.Faction{Name: "C", Kind: faction.KindKingdom, Strength: 80, Alive: false})
	reg.Add(&faction.Faction{Name: "D", Kind: faction.KindTribe, Strength: 90, Alive: true})

	best := reg.StrongestLive(faction.KindKingdom)
	require.NotNil(t, best)
	assert.Equal(t, "A", best.Name)

	assert.Nil(t, reg.StrongestLive(faction.KindEmpire))
}

func TestRegistryKindAndNationQueries(t *testing.T) {
	reg := faction.NewRegistry()
	t1 := reg.Add(&faction.Faction{Name: "T1", Kind: faction.KindTribe, Alive: true})
	reg.Add(&faction.Faction{Name: "K", Kind: faction.KindKingdom, Alive: true})
	reg.Add(&faction.Faction{Name: "Beast", Kind: faction.KindBeastDomain, Alive: true})
	t2 := reg.Add(&faction.Faction{Name: "T2", Kind: faction.KindTribe, Alive: true})
	reg.Add(&faction.Faction{Name: "Gone", Kind: faction.KindTribe, Alive: false})

	assert.Equal(t, []world.FactionID{t1, t2}, reg.IDsOfKind(faction.KindTribe))
	assert.Equal(t, []world.FactionID{1, 2, 4}, reg.LiveNationIDs())
}

func TestRegistryRestore(t *testing.T) {
	reg := faction.NewRegistry()
	require.NoError(t, reg.Restore(&faction.Faction{ID: 3, Name: "A", Alive: true}))
	require.NoError(t, reg.Restore(&faction.Faction{ID: 5, Name: "B", Alive: true}))

	// Duplicate and zero ids are rejected.
	assert.ErrorIs(t, reg.Restore(&faction.Faction{ID: 3, Name: "dup"}), faction.ErrInvalidFaction)
	assert.ErrorIs(t, reg.Restore(&faction.Faction{ID: 0, Name: "zero"}), faction.ErrInvalidFaction)

	// New additions continue past the highest restored id.
	next := reg.Add(&faction.Faction{Name: "C", Alive: true})
	assert.Equal(t, world.FactionID(6), next)
}

func TestBailiwickResolutionIsFinal(t *testing.T) {
	b := &faction.Bailiwick{ID: 1, Name: "Bailiwick of Storms"}
	assert.False(t, b.Resolved())

	require.NoError(t, b.ClaimBy(4))
	assert.True(t, b.Resolved())
	assert.Equal(t, faction.BailiwickClaimed, b.State)
	assert.Equal(t, world.FactionID(4), b.Claimant)

	assert.Error(t, b.ClaimBy(5))
	assert.Error(t, b.LoseToChaos())

	c := &faction.Bailiwick{ID: 2, Name: "Bailiwick of Dusk"}
	require.NoError(t, c.LoseToChaos())
	assert.Equal(t, faction.BailiwickLostToChaos, c.State)
	assert.Error(t, c.ClaimBy(4))
	assert.Equal(t, "lost to chaos", c.State.String())
}
