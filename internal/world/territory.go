package world

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidRegion is returned when an operation references a region
// identifier that does not exist. It signals engine state corruption, not a
// recoverable runtime condition.
var ErrInvalidRegion = errors.New("invalid region")

// ClaimResult tells a caller whether a claim committed immediately or joined
// a contest awaiting resolution.
type ClaimResult uint8

const (
	ClaimCommitted ClaimResult = iota // Region was unclaimed; ownership took effect
	ClaimContested                    // Claim joined a contest record for this tick
)

// ContestClaim is one faction's bid on a contested region. Strength is the
// jittered strength recorded at claim time, so resolution is a pure function
// of the contest records themselves.
type ContestClaim struct {
	Faction  FactionID `json:"faction"`
	Strength float64   `json:"strength"`
}

// Contest is the full set of competing claims on one region.
type Contest struct {
	Region RegionID       `json:"region"`
	Claims []ContestClaim `json:"claims"`
}

// TerritoryMap owns the spatial grid of regions and all ownership state.
// Regions live in a dense arena indexed by RegionID; ownership is mutated
// only through Claim/Release/ResolveContest so every change flows through
// the contest discipline.
type TerritoryMap struct {
	regions []Region // arena; RegionID = index + 1
	byCoord map[HexCoord]RegionID
	owned   map[FactionID]map[RegionID]struct{}

	// contests holds pending claims for the current tick. A region appears
	// here from the first conflicting claim until ResolveContest commits a
	// winner.
	contests map[RegionID][]ContestClaim

	// firstClaim tracks regions provisionally committed this tick, so a
	// second claim on the same region can demote the first into a contest.
	firstClaim map[RegionID]ContestClaim
}

// NewTerritoryMap builds a map from generated regions. Region IDs are
// assigned sequentially from 1 in the order given.
func NewTerritoryMap(regions []Region) *TerritoryMap {
	t := &TerritoryMap{
		regions:    make([]Region, len(regions)),
		byCoord:    make(map[HexCoord]RegionID, len(regions)),
		owned:      make(map[FactionID]map[RegionID]struct{}),
		contests:   make(map[RegionID][]ContestClaim),
		firstClaim: make(map[RegionID]ContestClaim),
	}
	copy(t.regions, regions)
	for i := range t.regions {
		id := RegionID(i + 1)
		t.regions[i].ID = id
		t.byCoord[t.regions[i].Coord] = id
		if o := t.regions[i].Owner; o != Unowned {
			t.index(o, id)
		}
	}
	return t
}

func (t *TerritoryMap) index(f FactionID, r RegionID) {
	set := t.owned[f]
	if set == nil {
		set = make(map[RegionID]struct{})
		t.owned[f] = set
	}
	set[r] = struct{}{}
}

func (t *TerritoryMap) unindex(f FactionID, r RegionID) {
	if set := t.owned[f]; set != nil {
		delete(set, r)
	}
}

// Regions returns a copy of every region record in id order. Used by save
// reconstruction and read-only exports.
func (t *TerritoryMap) Regions() []Region {
	out := make([]Region, len(t.regions))
	copy(out, t.regions)
	return out
}

// RegionCount returns the total number of regions.
func (t *TerritoryMap) RegionCount() int {
	return len(t.regions)
}

// Region returns a copy of the region record.
func (t *TerritoryMap) Region(id RegionID) (Region, error) {
	if id == 0 || int(id) > len(t.regions) {
		return Region{}, fmt.Errorf("region %d: %w", id, ErrInvalidRegion)
	}
	return t.regions[id-1], nil
}

// RegionAt returns the region at a hex coordinate, or false if none exists.
func (t *TerritoryMap) RegionAt(coord HexCoord) (Region, bool) {
	id, ok := t.byCoord[coord]
	if !ok {
		return Region{}, false
	}
	return t.regions[id-1], true
}

// OwnerOf returns the owning faction of a region, or Unowned.
func (t *TerritoryMap) OwnerOf(id RegionID) (FactionID, error) {
	if id == 0 || int(id) > len(t.regions) {
		return Unowned, fmt.Errorf("region %d: %w", id, ErrInvalidRegion)
	}
	return t.regions[id-1].Owner, nil
}

// RegionsOwnedBy returns the regions held by a faction, sorted by id.
func (t *TerritoryMap) RegionsOwnedBy(f FactionID) []RegionID {
	set := t.owned[f]
	out := make([]RegionID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OwnedCount returns how many regions a faction holds without allocating.
func (t *TerritoryMap) OwnedCount(f FactionID) int {
	return len(t.owned[f])
}

// NeighborsOf returns the existing adjacent regions of a region, in the
// fixed hex direction order. Off-map directions are skipped.
func (t *TerritoryMap) NeighborsOf(id RegionID) ([]RegionID, error) {
	r, err := t.Region(id)
	if err != nil {
		return nil, err
	}
	out := make([]RegionID, 0, 6)
	for _, c := range r.Coord.Neighbors() {
		if nid, ok := t.byCoord[c]; ok {
			out = append(out, nid)
		}
	}
	return out, nil
}

// BeginTick clears per-tick claim tracking. The scheduler calls this at the
// start of every tick; pending contests must already be empty.
func (t *TerritoryMap) BeginTick() {
	t.firstClaim = make(map[RegionID]ContestClaim)
}

// Claim registers a faction's bid on a region with its (jittered) strength.
// An unclaimed, uncontested region commits immediately. A claim on an owned
// region, or a second claim on a region already claimed this tick, opens a
// contest instead; the contest must be resolved before the tick's metrics
// are computed.
func (t *TerritoryMap) Claim(id RegionID, f FactionID, strength float64) (ClaimResult, error) {
	if id == 0 || int(id) > len(t.regions) {
		return ClaimContested, fmt.Errorf("claim region %d: %w", id, ErrInvalidRegion)
	}
	region := &t.regions[id-1]
	bid := ContestClaim{Faction: f, Strength: strength}

	// Already contested this tick: join the pile.
	if _, open := t.contests[id]; open {
		t.contests[id] = append(t.contests[id], bid)
		return ClaimContested, nil
	}

	// Owned from a previous tick: the claim opens a contest the incumbent
	// will defend during resolution.
	if region.Owner != Unowned {
		t.contests[id] = []ContestClaim{bid}
		region.Contested = true
		return ClaimContested, nil
	}

	// Unclaimed, but another faction already claimed it this tick: demote
	// the provisional commit into a contest between both claimants.
	if prior, dup := t.firstClaim[id]; dup {
		if prior.Faction == f {
			return ClaimCommitted, nil
		}
		t.unindex(prior.Faction, id)
		region.Owner = Unowned
		region.Contested = true
		delete(t.firstClaim, id)
		t.contests[id] = []ContestClaim{prior, bid}
		return ClaimContested, nil
	}

	// Clean claim on open land.
	region.Owner = f
	t.index(f, id)
	t.firstClaim[id] = bid
	return ClaimCommitted, nil
}

// Release clears ownership of a region.
func (t *TerritoryMap) Release(id RegionID) error {
	if id == 0 || int(id) > len(t.regions) {
		return fmt.Errorf("release region %d: %w", id, ErrInvalidRegion)
	}
	region := &t.regions[id-1]
	if region.Owner != Unowned {
		t.unindex(region.Owner, id)
		region.Owner = Unowned
	}
	return nil
}

// CommittedClaims returns the regions whose claims committed cleanly this
// tick, sorted by id. Claims demoted into contests are excluded, so the list
// never names a faction that later lost the region.
func (t *TerritoryMap) CommittedClaims() []RegionID {
	out := make([]RegionID, 0, len(t.firstClaim))
	for id := range t.firstClaim {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PendingContests returns the number of unresolved contests. Metrics may
// only be computed when this is zero.
func (t *TerritoryMap) PendingContests() int {
	return len(t.contests)
}

// Contests returns the pending contests sorted by region id. The slices are
// copies; resolution state changes only through ResolveContest.
func (t *TerritoryMap) Contests() []Contest {
	out := make([]Contest, 0, len(t.contests))
	for id, claims := range t.contests {
		cc := make([]ContestClaim, len(claims))
		copy(cc, claims)
		out = append(out, Contest{Region: id, Claims: cc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}

// ResolveContest commits the winning faction for a contested region and
// clears the contest record. Losing claims are simply dropped.
func (t *TerritoryMap) ResolveContest(id RegionID, winner FactionID) error {
	if id == 0 || int(id) > len(t.regions) {
		return fmt.Errorf("resolve region %d: %w", id, ErrInvalidRegion)
	}
	if _, open := t.contests[id]; !open {
		return fmt.Errorf("resolve region %d: no pending contest: %w", id, ErrInvalidRegion)
	}
	region := &t.regions[id-1]
	if region.Owner != winner {
		if region.Owner != Unowned {
			t.unindex(region.Owner, id)
		}
		region.Owner = winner
		if winner != Unowned {
			t.index(winner, id)
		}
	}
	region.Contested = false
	delete(t.contests, id)
	return nil
}

// ReleaseAll releases every region held by a faction and returns the
// released ids, sorted. Used when a faction falls.
func (t *TerritoryMap) ReleaseAll(f FactionID) []RegionID {
	ids := t.RegionsOwnedBy(f)
	for _, id := range ids {
		t.regions[id-1].Owner = Unowned
	}
	delete(t.owned, f)
	return ids
}
