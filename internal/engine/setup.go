// World setup: places the initial tribe roster, beast lairs, and bailiwick
// list onto a generated territory map. Everything derives from the seed.
package engine

import (
	"fmt"
	"math/rand"

	"github.com/talgya/seven-ages/internal/faction"
	"github.com/talgya/seven-ages/internal/names"
	"github.com/talgya/seven-ages/internal/world"
)

// SetupConfig sizes the initial world.
type SetupConfig struct {
	MapRadius  int
	Tribes     int
	Bailiwicks int
	Beasts     int
}

// DefaultSetupConfig returns the standard world shape.
func DefaultSetupConfig() SetupConfig {
	return SetupConfig{
		MapRadius:  18,
		Tribes:     20,
		Bailiwicks: 10,
		Beasts:     4,
	}
}

// Promised-land archetypes rotated across the tribe roster. Each tribe
// dreams of a different country.
var promisedArchetypes = []faction.PromisedLand{
	{Biomes: []world.Biome{world.BiomeGrassland, world.BiomeSavanna}, MinYield: 0.55},
	{Biomes: []world.Biome{world.BiomeTemperateForest, world.BiomeTemperateRainforest}, MinYield: 0.5},
	{Biomes: []world.Biome{world.BiomeTropicalRainforest}, MinYield: 0.6},
	{Biomes: []world.Biome{world.BiomeGrassland, world.BiomeBeach}, MinYield: 0.45},
	{Biomes: []world.Biome{world.BiomeTemperateForest, world.BiomeGrassland}, MinYield: 0.5},
}

// NewWorld generates a map and seeds the tribes, beasts, and bailiwicks of
// a fresh Age of Myth.
func NewWorld(cfg Config, setup SetupConfig) (*Simulation, error) {
	tmap := world.Generate(world.GenConfig{
		Radius:      setup.MapRadius,
		Seed:        cfg.Seed,
		SeaLevel:    0.25,
		MountainLvl: 0.72,
	})

	rng := rand.New(rand.NewSource(cfg.Seed ^ 0x7ebe5))
	namegen := names.New(cfg.Seed ^ 0x7ebe5)

	// Candidate sites in id order, split by character: open land for
	// tribes, rugged country for beast lairs.
	var habitable, wilds []world.RegionID
	for id := world.RegionID(1); int(id) <= tmap.RegionCount(); id++ {
		r, err := tmap.Region(id)
		if err != nil {
			return nil, err
		}
		if !r.Biome.Habitable() {
			continue
		}
		habitable = append(habitable, id)
		if r.Ruggedness > 0.5 {
			wilds = append(wilds, id)
		}
	}
	if len(habitable) < setup.Tribes+setup.Beasts {
		return nil, fmt.Errorf("world too small: %d habitable regions for %d starting factions",
			len(habitable), setup.Tribes+setup.Beasts)
	}

	reg := faction.NewRegistry()
	taken := map[world.RegionID]bool{}
	pickSite := func(pool []world.RegionID) world.RegionID {
		for {
			id := pool[rng.Intn(len(pool))]
			if !taken[id] {
				taken[id] = true
				return id
			}
		}
	}

	for i := 0; i < setup.Tribes; i++ {
		reg.Add(&faction.Faction{
			Name:     namegen.Tribe(),
			Kind:     faction.KindTribe,
			Strength: 20 + 40*rng.Float64(),
			Alive:    true,
			Home:     pickSite(habitable),
			Promised: promisedArchetypes[i%len(promisedArchetypes)],
			Disposition: faction.Disposition{
				Hostility:   0.2 + 0.4*rng.Float64(),
				Cooperation: 0.3 + 0.4*rng.Float64(),
			},
		})
	}

	beastSites := wilds
	if len(beastSites) == 0 {
		beastSites = habitable
	}
	for i := 0; i < setup.Beasts; i++ {
		b := &faction.Faction{
			Name:     namegen.Beast(),
			Kind:     faction.KindBeastDomain,
			Strength: 60 + 60*rng.Float64(),
			Alive:    true,
			Home:     pickSite(beastSites),
			Dormant:  true, // beasts sleep through the Age of Myth
			Threat:   0.5 + 0.5*rng.Float64(),
			Disposition: faction.Disposition{
				Hostility: 0.8 + 0.2*rng.Float64(),
			},
		}
		reg.Add(b)
	}

	var bailiwicks []*faction.Bailiwick
	for i := 0; i < setup.Bailiwicks; i++ {
		bailiwicks = append(bailiwicks, &faction.Bailiwick{
			ID:   faction.BailiwickID(i + 1),
			Name: namegen.Bailiwick(),
		})
	}

	sim, err := NewSimulation(cfg, tmap, reg, bailiwicks)
	if err != nil {
		return nil, err
	}

	// Beast lairs are claimed from the start so raids have a border.
	for _, f := range reg.All() {
		if f.Kind == faction.KindBeastDomain {
			if _, err := tmap.Claim(f.Home, f.ID, f.Strength); err != nil {
				return nil, err
			}
		}
	}
	tmap.BeginTick()

	return sim, nil
}
