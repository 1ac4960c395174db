package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/seven-ages/internal/world"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := world.SmallTestConfig()
	a := world.Generate(cfg).Regions()
	b := world.Generate(cfg).Regions()
	assert.Equal(t, a, b)
}

func TestGenerateSeedChangesWorld(t *testing.T) {
	cfg := world.SmallTestConfig()
	a := world.Generate(cfg).Regions()
	cfg.Seed++
	b := world.Generate(cfg).Regions()
	assert.NotEqual(t, a, b)
}

func TestGenerateWellFormed(t *testing.T) {
	cfg := world.SmallTestConfig()
	tmap := world.Generate(cfg)
	regions := tmap.Regions()
	require.NotEmpty(t, regions)

	habitable := 0
	for i, r := range regions {
		assert.Equal(t, world.RegionID(i+1), r.ID)
		assert.LessOrEqual(t, world.Distance(world.HexCoord{}, r.Coord), cfg.Radius)
		assert.GreaterOrEqual(t, r.Yield, 0.0)
		assert.LessOrEqual(t, r.Yield, 1.0)
		assert.GreaterOrEqual(t, r.Ruggedness, 0.0)
		assert.LessOrEqual(t, r.Ruggedness, 1.0)
		assert.Equal(t, world.Unowned, r.Owner)
		assert.False(t, r.Contested)
		if r.Biome.Habitable() {
			habitable++
		}
	}
	// A generated world always has somewhere to live.
	assert.Greater(t, habitable, 0)
}

func TestBiomeHabitability(t *testing.T) {
	assert.False(t, world.BiomeOcean.Habitable())
	assert.False(t, world.BiomeShallowOcean.Habitable())
	assert.False(t, world.BiomeSnowPeaks.Habitable())
	assert.True(t, world.BiomeGrassland.Habitable())
	assert.True(t, world.BiomeMountain.Habitable())
	assert.Equal(t, "grassland", world.BiomeGrassland.String())
}
