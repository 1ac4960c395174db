// The six-phase tick. The order is fixed and load-bearing:
//
//	1. collect intents from every live agent, in faction-id order
//	2. apply non-contested intents to the territory map
//	3. resolve contested claims
//	4. compute the metric snapshot (requires zero pending contests)
//	5. evaluate the epoch transition predicate
//	6. advance the tick counter
//
// One full tick completes before the next begins; the tick boundary is the
// only safe suspension point.
package engine

import (
	"log/slog"
	"sync"

	"github.com/talgya/seven-ages/internal/epoch"
	"github.com/talgya/seven-ages/internal/faction"
	"github.com/talgya/seven-ages/internal/names"
	"github.com/talgya/seven-ages/internal/world"
)

// Step advances the simulation by exactly one tick. Errors indicate engine
// state corruption (invalid identifiers, metrics before settlement); the
// simulation offers no recovery path for them and the caller decides
// whether to abort or reload a persisted tick.
func (s *Simulation) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tick := s.tick + 1
	s.tmap.BeginTick()

	// Myth has no mortal agency: the bailiwick contest among the gods is
	// driven here, before intent collection, when the built-in driver is
	// enabled.
	if s.sm.Record().Current == epoch.Myth && s.cfg.BailiwickResolveChance > 0 {
		s.resolveBailiwicks(tick)
	}

	intents := s.collectIntents(tick) // phase 1

	if err := s.applyIntents(tick, intents); err != nil { // phase 2
		return err
	}
	s.accrueStrength()

	if err := s.resolveContests(tick); err != nil { // phase 3
		return err
	}
	s.logCommittedClaims(tick)

	snap, err := epoch.Compute(tick, s.tmap, s.reg, s.bailiwicks, s.sm.Counters()) // phase 4
	if err != nil {
		return err
	}

	if s.sm.Observe(snap) { // phase 5
		from, to := s.sm.Advance()
		s.applyEpochEntry(to, tick)
		s.events.Append(tick, EventEpochTransition, EpochTransitionPayload{
			From: from, To: to, Snapshot: snap,
		})
		slog.Info("epoch transition",
			"from", from.String(),
			"to", to.String(),
			"tick", tick,
		)
	}

	s.sm.TickElapsed() // phase 6
	s.tick = tick
	return nil
}

// StepN advances n ticks, stopping at the first error.
func (s *Simulation) StepN(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// collectIntents gathers intents from every live faction. The output order
// is faction-id ascending regardless of worker count: results land in
// per-faction slots and are flattened afterwards.
func (s *Simulation) collectIntents(tick uint64) []Intent {
	live := s.reg.Live()
	rec := s.sm.Record()
	slots := make([][]Intent, len(live))

	act := func(i int, f *faction.Faction) {
		policy := s.policies[policyKey{rec.Current, f.Kind}]
		v := &View{tick: tick, rec: rec, tmap: s.tmap, reg: s.reg}
		slots[i] = policy(v, f, s.factionRNG(f.ID, tick))
	}

	if s.cfg.Workers > 1 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, s.cfg.Workers)
		for i, f := range live {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, f *faction.Faction) {
				defer wg.Done()
				act(i, f)
				<-sem
			}(i, f)
		}
		wg.Wait()
	} else {
		for i, f := range live {
			act(i, f)
		}
	}

	var out []Intent
	for _, batch := range slots {
		out = append(out, batch...)
	}
	return out
}

// applyIntents is phase 2: non-contested intents take effect directly;
// conflicting claims open contest records consumed by phase 3.
func (s *Simulation) applyIntents(tick uint64, intents []Intent) error {
	for _, in := range intents {
		f, err := s.reg.Get(in.Faction)
		if err != nil {
			return err
		}
		if !f.Alive {
			continue
		}

		switch in.Kind {
		case IntentClaimRegion:
			// Claim events are logged after phase 3: a commit can still be
			// demoted into a contest by a later rival claim this tick, and a
			// discarded loser must leave no log entry.
			if _, err := s.tmap.Claim(in.Region, f.ID, s.jitteredStrength(f, tick)); err != nil {
				return err
			}

		case IntentAbandonRegion:
			owner, err := s.tmap.OwnerOf(in.Region)
			if err != nil {
				return err
			}
			if owner == f.ID {
				if err := s.tmap.Release(in.Region); err != nil {
					return err
				}
			}

		case IntentMigrate:
			if _, err := s.tmap.Region(in.Region); err != nil {
				return err
			}
			f.Home = in.Region

		case IntentSettle:
			if err := s.settleTribe(tick, f); err != nil {
				return err
			}

		case IntentFall:
			s.fellFaction(tick, f)

		case IntentAttackFaction:
			if err := s.applyAttack(f, in.Target); err != nil {
				return err
			}
		}
	}
	return nil
}

// accrueStrength grows each living faction from the yield of its holdings.
// Part of phase 2: the upkeep applied alongside intents.
func (s *Simulation) accrueStrength() {
	for _, f := range s.reg.Live() {
		total := 0.0
		for _, rid := range s.tmap.RegionsOwnedBy(f.ID) {
			r, err := s.tmap.Region(rid)
			if err == nil {
				total += r.Yield
			}
		}
		f.Strength += s.cfg.GrowthRate * total
	}
}

// resolveContests is phase 3. Contests are independent per region and are
// walked in region-id order; the incumbent owner (if any) defends with its
// own jittered strength without having emitted an intent.
func (s *Simulation) resolveContests(tick uint64) error {
	for _, contest := range s.tmap.Contests() {
		prev, err := s.tmap.OwnerOf(contest.Region)
		if err != nil {
			return err
		}
		claims := contest.Claims
		if prev != world.Unowned {
			if defender, err := s.reg.Get(prev); err == nil && defender.Alive {
				claims = append(claims, world.ContestClaim{
					Faction:  prev,
					Strength: s.jitteredStrength(defender, tick),
				})
			}
		}
		winner := resolveContest(claims)
		if err := s.tmap.ResolveContest(contest.Region, winner); err != nil {
			return err
		}
		if winner != prev {
			s.events.Append(tick, EventRegionClaimed, RegionClaimedPayload{
				Region: contest.Region, Faction: winner, Contested: true,
			})
		}
	}
	return nil
}

// logCommittedClaims records the tick's clean claims once contests are
// settled. A claim demoted into a contest never shows up here; the contest
// winner was already logged by resolveContests.
func (s *Simulation) logCommittedClaims(tick uint64) {
	for _, rid := range s.tmap.CommittedClaims() {
		owner, err := s.tmap.OwnerOf(rid)
		if err != nil || owner == world.Unowned {
			// The claimant fell later in the tick and the region lapsed.
			continue
		}
		s.events.Append(tick, EventRegionClaimed, RegionClaimedPayload{
			Region: rid, Faction: owner,
		})
	}
}

// settleTribe converts a tribe into a kingdom at its home region.
func (s *Simulation) settleTribe(tick uint64, f *faction.Faction) error {
	if f.Kind != faction.KindTribe {
		return nil
	}
	tribeName := f.Name
	f.Kind = faction.KindKingdom
	// The name derives from (seed, faction), not from a shared stream, so a
	// restored run names late settlers identically.
	f.Name = names.New(s.cfg.Seed^0x5eed^int64(f.ID)*0x9e3779b9).Kingdom(s.sm.Record().Current)

	if _, err := s.tmap.Claim(f.Home, f.ID, s.jitteredStrength(f, tick)); err != nil {
		return err
	}
	s.events.Append(tick, EventTribeSettled, TribeSettledPayload{
		Faction: f.ID, Tribe: tribeName, Region: f.Home,
	})
	s.events.Append(tick, EventKingdomFormed, KingdomFormedPayload{
		Faction: f.ID, Name: f.Name, Region: f.Home,
	})
	slog.Debug("tribe settled", "tribe", tribeName, "kingdom", f.Name, "region", f.Home, "tick", tick)
	return nil
}

// fellFaction marks a faction fallen. The record survives forever for the
// historical lineage; only its territory is released.
func (s *Simulation) fellFaction(tick uint64, f *faction.Faction) {
	if !f.Alive {
		return
	}
	f.Alive = false
	f.FellTick = tick
	f.Strength = 0
	released := s.tmap.ReleaseAll(f.ID)
	s.events.Append(tick, EventFactionFell, FactionFellPayload{
		Faction: f.ID, Name: f.Name, Regions: len(released),
	})
	slog.Debug("faction fell", "faction", f.Name, "regions_released", len(released), "tick", tick)
}

// applyAttack transfers strength loss onto the target. The minimal combat
// rule: damage scales with attacker strength and hostility, discounted by
// the ruggedness of the defender's seat. Beasts hit harder with threat.
func (s *Simulation) applyAttack(attacker *faction.Faction, target world.FactionID) error {
	t, err := s.reg.Get(target)
	if err != nil {
		return err
	}
	if !t.Alive {
		return nil
	}
	damage := attacker.Strength * 0.08 * (0.5 + attacker.Disposition.Hostility)
	if attacker.Kind == faction.KindBeastDomain {
		damage = attacker.Strength * 0.1 * (1 + attacker.Threat)
	}
	if home, err := s.tmap.Region(t.Home); err == nil {
		damage *= 1 - 0.4*home.Ruggedness
	}
	t.Damage(damage)
	return nil
}

// resolveBailiwicks is the built-in Myth driver: each unresolved bailiwick
// has a per-tick chance to resolve, claimed by a living faction or lost to
// chaos outright. The rolls derive from (seed, tick, bailiwick), so a
// reconstructed run replays identically without hidden rng state.
func (s *Simulation) resolveBailiwicks(tick uint64) {
	live := s.reg.Live()
	for _, b := range s.bailiwicks {
		if b.Resolved() {
			continue
		}
		roll := s.bailiwickRNG(b.ID, tick)
		if roll.Float64() >= s.cfg.BailiwickResolveChance {
			continue
		}
		if len(live) > 0 && roll.Float64() < 0.7 {
			claimant := live[roll.Intn(len(live))]
			if err := b.ClaimBy(claimant.ID); err == nil {
				s.events.Append(tick, EventBailiwickClaimed, BailiwickClaimedPayload{
					Bailiwick: b.ID, Name: b.Name, Claimant: claimant.ID,
				})
			}
		} else {
			if err := b.LoseToChaos(); err == nil {
				s.events.Append(tick, EventBailiwickLostToChaos, BailiwickLostPayload{
					Bailiwick: b.ID, Name: b.Name,
				})
			}
		}
	}
}
