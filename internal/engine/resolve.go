package engine

import (
	"github.com/talgya/seven-ages/internal/world"
)

// resolveContest adjudicates a contested region. Highest (jittered) strength
// wins; exactly equal strengths resolve by faction id ascending, so the
// outcome is a pure, reproducible function of the contest records. The
// random seed only ever enters through the jitter already baked into each
// claim's strength, never through the tie-break.
func resolveContest(claims []world.ContestClaim) world.FactionID {
	winner := claims[0]
	for _, c := range claims[1:] {
		if c.Strength > winner.Strength ||
			(c.Strength == winner.Strength && c.Faction < winner.Faction) {
			winner = c
		}
	}
	return winner.Faction
}
