package world

// RegionID is a stable identifier for a region. IDs start at 1; 0 is never a
// valid region.
type RegionID uint32

// FactionID is a stable identifier for a territory-holding faction. Defined
// here (rather than in the faction package) because region ownership is the
// leaf of the dependency graph. 0 means unowned.
type FactionID uint32

// Unowned is the zero owner: the region is unclaimed.
const Unowned FactionID = 0

// Biome classifies a region's terrain. The vocabulary follows the world
// generator's climate matrix.
type Biome uint8

const (
	BiomeOcean              Biome = iota // Impassable, never claimable
	BiomeShallowOcean                    // Coastal water
	BiomeBeach                           // Shoreline strip
	BiomeTundra                          // Cold, sparse yield
	BiomeColdDesert                      // Cold and dry
	BiomeGrassland                       // Fertile plains
	BiomeTemperateForest                 // Timber and game
	BiomeTemperateRainforest             // Wet forest, rich yield
	BiomeSavanna                         // Warm grassland
	BiomeDesert                          // Hot and dry
	BiomeTropicalRainforest              // Hot and wet, dense yield
	BiomeMountain                        // Rugged highland
	BiomeSnowPeaks                       // Frozen summits
)

var biomeNames = [...]string{
	"ocean", "shallow ocean", "beach", "tundra", "cold desert", "grassland",
	"temperate forest", "temperate rainforest", "savanna", "desert",
	"tropical rainforest", "mountain", "snow peaks",
}

// String returns the biome's display name.
func (b Biome) String() string {
	if int(b) < len(biomeNames) {
		return biomeNames[b]
	}
	return "unknown"
}

// Habitable reports whether factions can claim and settle the biome.
func (b Biome) Habitable() bool {
	switch b {
	case BiomeOcean, BiomeShallowOcean, BiomeSnowPeaks:
		return false
	}
	return true
}

// Region is the atomic territorial cell. Regions are created once during
// world generation and never destroyed; ownership is mutated only through
// the TerritoryMap.
type Region struct {
	ID    RegionID `json:"id"`
	Coord HexCoord `json:"coord"`
	Biome Biome    `json:"biome"`

	// Ruggedness raises movement and combat cost. 0.0 (open) to 1.0 (harsh).
	Ruggedness float64 `json:"ruggedness"`

	// Yield is the abstract resource value of the region. 0.0–1.0.
	Yield float64 `json:"yield"`

	// Owner is the faction holding the region, or Unowned.
	Owner FactionID `json:"owner"`

	// Contested is set while a claim contest is pending for this region.
	// It is always false at a tick boundary.
	Contested bool `json:"contested"`
}
