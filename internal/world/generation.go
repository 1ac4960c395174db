// World generation using layered simplex noise.
// Generates elevation, rainfall, and temperature fields, then derives the
// biome, ruggedness, and resource yield of every region. The finished map is
// static input to the simulation: the engine never changes terrain.
package world

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Radius      int     // Hex grid radius (~18 for ~1000 regions)
	Seed        int64   // Random seed; the whole map is a pure function of it
	SeaLevel    float64 // Elevation threshold for ocean (0.0–1.0)
	MountainLvl float64 // Elevation threshold for mountains (0.0–1.0)
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:      18,
		Seed:        1,
		SeaLevel:    0.25,
		MountainLvl: 0.72,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Radius:      5,
		Seed:        42,
		SeaLevel:    0.30,
		MountainLvl: 0.75,
	}
}

// Generate creates a complete territory map with biomes and yields.
func Generate(cfg GenConfig) *TerritoryMap {
	elevNoise := opensimplex.NewNormalized(cfg.Seed)
	rainNoise := opensimplex.NewNormalized(cfg.Seed + 1)
	tempNoise := opensimplex.NewNormalized(cfg.Seed + 2)
	rugNoise := opensimplex.NewNormalized(cfg.Seed + 3)

	var regions []Region
	for q := -cfg.Radius; q <= cfg.Radius; q++ {
		for r := -cfg.Radius; r <= cfg.Radius; r++ {
			s := -q - r
			// Cube coordinate constraint: max(|q|,|r|,|s|) <= radius.
			maxCoord := abs(q)
			if abs(r) > maxCoord {
				maxCoord = abs(r)
			}
			if abs(s) > maxCoord {
				maxCoord = abs(s)
			}
			if maxCoord > cfg.Radius {
				continue
			}

			coord := HexCoord{Q: q, R: r}

			// Hex axial → cartesian for noise sampling.
			x := float64(q) + float64(r)*0.5
			y := float64(r) * math.Sqrt(3.0) / 2.0

			elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
			rain := octaveNoise(rainNoise, x, y, 3, 0.06, 0.5)
			temp := octaveNoise(tempNoise, x, y, 3, 0.05, 0.5)

			// Continental shaping: lower elevation toward the rim so the
			// world ends in ocean.
			distFromCenter := math.Sqrt(x*x+y*y) / float64(cfg.Radius)
			edgeFalloff := 1.0 - math.Pow(distFromCenter, 3.5)
			if edgeFalloff < 0 {
				edgeFalloff = 0
			}
			elev *= edgeFalloff

			// Latitude cools temperature toward the map edge.
			temp *= 1.0 - 0.4*distFromCenter

			biome := classifyBiome(cfg, elev, rain, temp)

			rug := octaveNoise(rugNoise, x, y, 3, 0.10, 0.5)
			regions = append(regions, Region{
				Coord:      coord,
				Biome:      biome,
				Ruggedness: ruggedness(biome, elev, rug),
				Yield:      baseYield(biome, rain),
			})
		}
	}
	return NewTerritoryMap(regions)
}

// classifyBiome maps the climate fields onto the biome vocabulary.
func classifyBiome(cfg GenConfig, elev, rain, temp float64) Biome {
	switch {
	case elev < cfg.SeaLevel*0.8:
		return BiomeOcean
	case elev < cfg.SeaLevel:
		return BiomeShallowOcean
	case elev < cfg.SeaLevel+0.03:
		return BiomeBeach
	case elev > cfg.MountainLvl+0.12:
		return BiomeSnowPeaks
	case elev > cfg.MountainLvl:
		return BiomeMountain
	}

	// Lowland: climate matrix over temperature and rainfall.
	switch {
	case temp < 0.25:
		if rain < 0.35 {
			return BiomeColdDesert
		}
		return BiomeTundra
	case temp < 0.6:
		switch {
		case rain < 0.3:
			return BiomeGrassland
		case rain < 0.65:
			return BiomeTemperateForest
		default:
			return BiomeTemperateRainforest
		}
	default:
		switch {
		case rain < 0.3:
			return BiomeDesert
		case rain < 0.6:
			return BiomeSavanna
		default:
			return BiomeTropicalRainforest
		}
	}
}

// baseYield assigns the abstract resource value of a biome, nudged by
// rainfall.
func baseYield(b Biome, rain float64) float64 {
	var base float64
	switch b {
	case BiomeGrassland, BiomeSavanna:
		base = 0.7
	case BiomeTemperateForest:
		base = 0.6
	case BiomeTemperateRainforest, BiomeTropicalRainforest:
		base = 0.75
	case BiomeBeach:
		base = 0.45
	case BiomeMountain:
		base = 0.35
	case BiomeTundra, BiomeColdDesert, BiomeDesert:
		base = 0.2
	default:
		return 0
	}
	y := base + 0.2*(rain-0.5)
	return clamp01(y)
}

// ruggedness combines biome baseline with local noise.
func ruggedness(b Biome, elev, noise float64) float64 {
	var base float64
	switch b {
	case BiomeMountain:
		base = 0.8
	case BiomeSnowPeaks:
		base = 0.95
	case BiomeTemperateRainforest, BiomeTropicalRainforest:
		base = 0.5
	case BiomeTemperateForest:
		base = 0.4
	case BiomeTundra, BiomeColdDesert:
		base = 0.35
	case BiomeOcean, BiomeShallowOcean:
		return 1
	default:
		base = 0.2
	}
	return clamp01(base + 0.2*(noise-0.5) + 0.1*elev)
}

// octaveNoise samples multiple noise octaves for natural-looking fields.
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxValue := 0.0
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		freq *= 2
	}
	return total / maxValue
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
