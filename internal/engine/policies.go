package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/talgya/seven-ages/internal/epoch"
	"github.com/talgya/seven-ages/internal/faction"
)

// ErrNoActiveEpochPolicy is returned at startup validation when some
// (epoch, faction kind) pair has no registered behavior policy. This is a
// configuration error; a simulation is never constructed with gaps in the
// policy table.
var ErrNoActiveEpochPolicy = errors.New("no active epoch policy")

// PolicyFunc decides what a faction does this tick. It reads only the view
// and its own faction record, and reports proposed changes as intents. The
// rng is a per-faction, per-tick stream derived from the world seed, so
// policies stay deterministic whether act calls run sequentially or in
// parallel.
type PolicyFunc func(v *View, f *faction.Faction, rng *rand.Rand) []Intent

type policyKey struct {
	Epoch epoch.Epoch
	Kind  faction.Kind
}

var allKinds = []faction.Kind{
	faction.KindTribe, faction.KindKingdom, faction.KindEmpire,
	faction.KindCityState, faction.KindBeastDomain,
}

var allEpochs = []epoch.Epoch{
	epoch.Myth, epoch.Dreams, epoch.Kings, epoch.Empire,
	epoch.Corruption, epoch.Collapse, epoch.Shadow,
}

// idle is the empty policy: a valid, common outcome (dormant beasts, waiting
// deities). An empty intent list is not an error.
func idle(v *View, f *faction.Faction, rng *rand.Rand) []Intent {
	return nil
}

// defaultPolicyTable wires the per-epoch behavior of every faction kind.
// Shadow deliberately repeats the Kings-era survival behavior: the epoch is
// terminal and agents simply endure.
func defaultPolicyTable() map[policyKey]PolicyFunc {
	t := map[policyKey]PolicyFunc{}

	// Myth: history has not begun. Mortal agents wait while the bailiwicks
	// resolve.
	for _, k := range allKinds {
		t[policyKey{epoch.Myth, k}] = idle
	}

	// Dreams: tribes wander toward their promised lands; early-settled
	// kingdoms expand gently; beasts are awake but only stir.
	t[policyKey{epoch.Dreams, faction.KindTribe}] = tribeMigrationPolicy
	t[policyKey{epoch.Dreams, faction.KindKingdom}] = modestClaimPolicy
	t[policyKey{epoch.Dreams, faction.KindEmpire}] = modestClaimPolicy
	t[policyKey{epoch.Dreams, faction.KindCityState}] = modestClaimPolicy
	t[policyKey{epoch.Dreams, faction.KindBeastDomain}] = idle

	// Kings: kingdoms expand onto unclaimed or weaker-owned neighbors;
	// beasts raid adjacent kingdoms; straggler tribes keep migrating.
	t[policyKey{epoch.Kings, faction.KindTribe}] = tribeMigrationPolicy
	t[policyKey{epoch.Kings, faction.KindKingdom}] = kingdomExpansionPolicy
	t[policyKey{epoch.Kings, faction.KindEmpire}] = empireAggressionPolicy
	t[policyKey{epoch.Kings, faction.KindCityState}] = modestClaimPolicy
	t[policyKey{epoch.Kings, faction.KindBeastDomain}] = beastRaidPolicy

	// Empire: the designated empire claims aggressively, other nations hold
	// to open land, beasts are forced dormant.
	t[policyKey{epoch.Empire, faction.KindTribe}] = tribeMigrationPolicy
	t[policyKey{epoch.Empire, faction.KindKingdom}] = modestClaimPolicy
	t[policyKey{epoch.Empire, faction.KindEmpire}] = empireAggressionPolicy
	t[policyKey{epoch.Empire, faction.KindCityState}] = modestClaimPolicy
	t[policyKey{epoch.Empire, faction.KindBeastDomain}] = idle

	// Corruption: the empire sheds outlying holdings, rival kingdoms pick
	// at the edges, a woken fraction of beasts raids again.
	t[policyKey{epoch.Corruption, faction.KindTribe}] = tribeMigrationPolicy
	t[policyKey{epoch.Corruption, faction.KindKingdom}] = kingdomExpansionPolicy
	t[policyKey{epoch.Corruption, faction.KindEmpire}] = corruptionRotPolicy
	t[policyKey{epoch.Corruption, faction.KindCityState}] = modestClaimPolicy
	t[policyKey{epoch.Corruption, faction.KindBeastDomain}] = beastRaidPolicy

	// Collapse: every survivor turns on its nearest rival; the weak fall.
	t[policyKey{epoch.Collapse, faction.KindTribe}] = collapsePolicy
	t[policyKey{epoch.Collapse, faction.KindKingdom}] = collapsePolicy
	t[policyKey{epoch.Collapse, faction.KindEmpire}] = collapsePolicy
	t[policyKey{epoch.Collapse, faction.KindCityState}] = collapsePolicy
	t[policyKey{epoch.Collapse, faction.KindBeastDomain}] = beastRaidPolicy

	// Shadow: terminal. Kings-era survival behavior, forever.
	t[policyKey{epoch.Shadow, faction.KindTribe}] = tribeMigrationPolicy
	t[policyKey{epoch.Shadow, faction.KindKingdom}] = kingdomExpansionPolicy
	t[policyKey{epoch.Shadow, faction.KindEmpire}] = kingdomExpansionPolicy
	t[policyKey{epoch.Shadow, faction.KindCityState}] = modestClaimPolicy
	t[policyKey{epoch.Shadow, faction.KindBeastDomain}] = beastRaidPolicy

	return t
}

// validatePolicyTable checks the table is total over epochs × kinds.
func validatePolicyTable(t map[policyKey]PolicyFunc) error {
	for _, e := range allEpochs {
		for _, k := range allKinds {
			if t[policyKey{e, k}] == nil {
				return fmt.Errorf("%w: epoch %s, kind %s", ErrNoActiveEpochPolicy, e, k)
			}
		}
	}
	return nil
}
