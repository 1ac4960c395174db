// Package names generates epoch-flavored names for kingdoms, tribes,
// bailiwicks, and beasts of legend. Generation is deterministic for a given
// seed, so two identically seeded runs name everything identically.
package names

import (
	"math/rand"
	"strings"

	"github.com/talgya/seven-ages/internal/epoch"
)

// Generator produces names from a private random stream.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator seeded independently of the simulation's jitter
// stream.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Syllable pools, flavored per epoch family. The mythic pool leans on open
// vowels and liquids, the imperial pool on hard stops.
var (
	mythicOnsets  = []string{"ae", "il", "or", "ul", "va", "my", "the", "ny", "el"}
	mythicCores   = []string{"lor", "rian", "thal", "mir", "dre", "vien", "sil"}
	regalOnsets   = []string{"bel", "cor", "dra", "gar", "hal", "kad", "mor", "tor", "val"}
	regalCores    = []string{"an", "eth", "ia", "on", "ur", "eld", "ath", "im"}
	regalEndings  = []string{"ia", "or", "heim", "mark", "gard", "wick", "fell", "dor"}
	tribePrefixes = []string{"Ash", "Elk", "Fen", "Oak", "Raven", "Stone", "Wolf", "Red", "Gray", "Thorn"}
	tribeSuffixes = []string{"kin", "folk", "clan", "tribe", "born", "walkers"}
	beastEpithets = []string{"the Devourer", "of the Deep Wood", "the Unsleeping", "of Ash and Bone", "the Hollow", "Worldgnawer"}
	domains       = []string{"Storms", "Harvest", "the Forge", "the Hunt", "Tides", "Dusk", "Dawn", "Graves", "Oaths", "Embers", "the Hearth", "Winter"}
)

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

// Kingdom names a newly settled kingdom, flavored by the epoch it was
// founded in.
func (g *Generator) Kingdom(e epoch.Epoch) string {
	var name string
	switch e {
	case epoch.Myth, epoch.Dreams:
		name = g.pick(mythicOnsets) + g.pick(mythicCores)
	default:
		name = g.pick(regalOnsets) + g.pick(regalCores) + g.pick(regalEndings)
	}
	return title(name)
}

// Tribe names a wandering tribe.
func (g *Generator) Tribe() string {
	return g.pick(tribePrefixes) + g.pick(tribeSuffixes)
}

// Bailiwick names a divine domain of power.
func (g *Generator) Bailiwick() string {
	return "Bailiwick of " + g.pick(domains)
}

// Beast names a beast of legend.
func (g *Generator) Beast() string {
	base := title(g.pick(regalOnsets) + g.pick(mythicCores))
	return base + " " + g.pick(beastEpithets)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
