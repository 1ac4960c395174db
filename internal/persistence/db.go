// Package persistence provides SQLite-based storage of the engine's
// reconstruction set: territory ownership, the faction registry, the
// bailiwick list, the epoch record, the tick counter, and the event log.
// The engine itself carries no hidden state beyond these.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/seven-ages/internal/engine"
	"github.com/talgya/seven-ages/internal/epoch"
	"github.com/talgya/seven-ages/internal/faction"
	"github.com/talgya/seven-ages/internal/world"
)

// ErrNoSavedRun is returned by LoadLatest when the database holds no runs.
var ErrNoSavedRun = errors.New("no saved run")

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		saved_at TEXT NOT NULL,
		tick INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		setup_json TEXT NOT NULL,
		epoch_json TEXT NOT NULL,
		counters_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS regions (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		owner INTEGER NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS factions (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		strength REAL NOT NULL,
		alive INTEGER NOT NULL,
		fell_tick INTEGER NOT NULL,
		home INTEGER NOT NULL,
		dormant INTEGER NOT NULL,
		threat REAL NOT NULL,
		disposition_json TEXT NOT NULL,
		promised_json TEXT NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS bailiwicks (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		state INTEGER NOT NULL,
		claimant INTEGER NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS events (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		kind TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// NewRunID mints an identifier for a fresh run.
func NewRunID() string {
	return uuid.NewString()
}

// SaveWorld writes a complete snapshot of the simulation under the run id,
// replacing any previous snapshot for that run. Call between ticks only.
func (db *DB) SaveWorld(runID string, setup engine.SetupConfig, sim *engine.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	cfgJSON, err := json.Marshal(sim.Config())
	if err != nil {
		return err
	}
	setupJSON, err := json.Marshal(setup)
	if err != nil {
		return err
	}
	rec := sim.EpochRecord()
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	countersJSON, err := json.Marshal(sim.Counters())
	if err != nil {
		return err
	}

	_, err = tx.Exec(`INSERT INTO runs (id, created_at, saved_at, tick, config_json, setup_json, epoch_json, counters_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET saved_at=excluded.saved_at, tick=excluded.tick,
			epoch_json=excluded.epoch_json, counters_json=excluded.counters_json`,
		runID, now, now, sim.Tick(), string(cfgJSON), string(setupJSON), string(recJSON), string(countersJSON))
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	for _, table := range []string{"regions", "factions", "bailiwicks", "events"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE run_id = ?", runID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	// Only ownership is saved per region; terrain regenerates from the seed.
	for _, r := range sim.Territory().Regions() {
		if r.Owner == world.Unowned {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO regions (run_id, id, owner) VALUES (?, ?, ?)`,
			runID, r.ID, r.Owner); err != nil {
			return fmt.Errorf("save region %d: %w", r.ID, err)
		}
	}

	for _, f := range sim.Factions() {
		dispJSON, err := json.Marshal(f.Disposition)
		if err != nil {
			return err
		}
		promJSON, err := json.Marshal(f.Promised)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`INSERT INTO factions
			(run_id, id, name, kind, strength, alive, fell_tick, home, dormant, threat, disposition_json, promised_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, f.ID, f.Name, f.Kind, f.Strength, boolInt(f.Alive), f.FellTick,
			f.Home, boolInt(f.Dormant), f.Threat, string(dispJSON), string(promJSON))
		if err != nil {
			return fmt.Errorf("save faction %d: %w", f.ID, err)
		}
	}

	for _, b := range sim.Bailiwicks() {
		if _, err := tx.Exec(`INSERT INTO bailiwicks (run_id, id, name, state, claimant) VALUES (?, ?, ?, ?, ?)`,
			runID, b.ID, b.Name, b.State, b.Claimant); err != nil {
			return fmt.Errorf("save bailiwick %d: %w", b.ID, err)
		}
	}

	for seq, e := range sim.Events() {
		payloadJSON, err := json.Marshal(e.Payload)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO events (run_id, seq, tick, kind, payload_json) VALUES (?, ?, ?, ?, ?)`,
			runID, seq, e.Tick, string(e.Kind), string(payloadJSON)); err != nil {
			return fmt.Errorf("save event %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	slog.Debug("world saved", "run", runID, "tick", sim.Tick(), "events", len(sim.Events()))
	return nil
}

// LoadLatest restores the most recently saved run.
func (db *DB) LoadLatest() (string, *engine.Simulation, engine.SetupConfig, error) {
	var runID string
	err := db.conn.Get(&runID, `SELECT id FROM runs ORDER BY saved_at DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, engine.SetupConfig{}, ErrNoSavedRun
	}
	if err != nil {
		return "", nil, engine.SetupConfig{}, fmt.Errorf("find latest run: %w", err)
	}
	sim, setup, err := db.LoadWorld(runID)
	return runID, sim, setup, err
}

// LoadWorld reconstructs a simulation from a saved run. Terrain is
// regenerated from the saved seed; ownership, factions, bailiwicks, epoch
// state, and the event log come from the tables.
func (db *DB) LoadWorld(runID string) (*engine.Simulation, engine.SetupConfig, error) {
	var run struct {
		Tick         uint64 `db:"tick"`
		ConfigJSON   string `db:"config_json"`
		SetupJSON    string `db:"setup_json"`
		EpochJSON    string `db:"epoch_json"`
		CountersJSON string `db:"counters_json"`
	}
	err := db.conn.Get(&run, `SELECT tick, config_json, setup_json, epoch_json, counters_json FROM runs WHERE id = ?`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, engine.SetupConfig{}, ErrNoSavedRun
	}
	if err != nil {
		return nil, engine.SetupConfig{}, fmt.Errorf("load run %s: %w", runID, err)
	}

	var cfg engine.Config
	if err := json.Unmarshal([]byte(run.ConfigJSON), &cfg); err != nil {
		return nil, engine.SetupConfig{}, fmt.Errorf("decode config: %w", err)
	}
	var setup engine.SetupConfig
	if err := json.Unmarshal([]byte(run.SetupJSON), &setup); err != nil {
		return nil, engine.SetupConfig{}, fmt.Errorf("decode setup: %w", err)
	}
	var rec epoch.Record
	if err := json.Unmarshal([]byte(run.EpochJSON), &rec); err != nil {
		return nil, engine.SetupConfig{}, fmt.Errorf("decode epoch record: %w", err)
	}
	var counters epoch.Counters
	if err := json.Unmarshal([]byte(run.CountersJSON), &counters); err != nil {
		return nil, engine.SetupConfig{}, fmt.Errorf("decode counters: %w", err)
	}

	// Regenerate terrain, then lay saved ownership over it.
	regions := world.Generate(world.GenConfig{
		Radius:      setup.MapRadius,
		Seed:        cfg.Seed,
		SeaLevel:    0.25,
		MountainLvl: 0.72,
	}).Regions()

	type regionRow struct {
		ID    uint32 `db:"id"`
		Owner uint32 `db:"owner"`
	}
	var regionRows []regionRow
	if err := db.conn.Select(&regionRows, `SELECT id, owner FROM regions WHERE run_id = ? ORDER BY id`, runID); err != nil {
		return nil, engine.SetupConfig{}, fmt.Errorf("load regions: %w", err)
	}
	for _, row := range regionRows {
		if int(row.ID) < 1 || int(row.ID) > len(regions) {
			return nil, engine.SetupConfig{}, fmt.Errorf("saved region %d outside regenerated map: %w", row.ID, world.ErrInvalidRegion)
		}
		regions[row.ID-1].Owner = world.FactionID(row.Owner)
	}
	tmap := world.NewTerritoryMap(regions)

	type factionRow struct {
		ID              uint32  `db:"id"`
		Name            string  `db:"name"`
		Kind            uint8   `db:"kind"`
		Strength        float64 `db:"strength"`
		Alive           int     `db:"alive"`
		FellTick        uint64  `db:"fell_tick"`
		Home            uint32  `db:"home"`
		Dormant         int     `db:"dormant"`
		Threat          float64 `db:"threat"`
		DispositionJSON string  `db:"disposition_json"`
		PromisedJSON    string  `db:"promised_json"`
	}
	var factionRows []factionRow
	if err := db.conn.Select(&factionRows, `SELECT id, name, kind, strength, alive, fell_tick, home, dormant, threat, disposition_json, promised_json
		FROM factions WHERE run_id = ? ORDER BY id`, runID); err != nil {
		return nil, engine.SetupConfig{}, fmt.Errorf("load factions: %w", err)
	}
	reg := faction.NewRegistry()
	for _, row := range factionRows {
		f := &faction.Faction{
			ID:       world.FactionID(row.ID),
			Name:     row.Name,
			Kind:     faction.Kind(row.Kind),
			Strength: row.Strength,
			Alive:    row.Alive != 0,
			FellTick: row.FellTick,
			Home:     world.RegionID(row.Home),
			Dormant:  row.Dormant != 0,
			Threat:   row.Threat,
		}
		if err := json.Unmarshal([]byte(row.DispositionJSON), &f.Disposition); err != nil {
			return nil, engine.SetupConfig{}, fmt.Errorf("decode faction %d disposition: %w", row.ID, err)
		}
		if err := json.Unmarshal([]byte(row.PromisedJSON), &f.Promised); err != nil {
			return nil, engine.SetupConfig{}, fmt.Errorf("decode faction %d promise: %w", row.ID, err)
		}
		if err := reg.Restore(f); err != nil {
			return nil, engine.SetupConfig{}, err
		}
	}

	type bailiwickRow struct {
		ID       uint32 `db:"id"`
		Name     string `db:"name"`
		State    uint8  `db:"state"`
		Claimant uint32 `db:"claimant"`
	}
	var bailiwickRows []bailiwickRow
	if err := db.conn.Select(&bailiwickRows, `SELECT id, name, state, claimant FROM bailiwicks WHERE run_id = ? ORDER BY id`, runID); err != nil {
		return nil, engine.SetupConfig{}, fmt.Errorf("load bailiwicks: %w", err)
	}
	var bailiwicks []*faction.Bailiwick
	for _, row := range bailiwickRows {
		bailiwicks = append(bailiwicks, &faction.Bailiwick{
			ID:       faction.BailiwickID(row.ID),
			Name:     row.Name,
			State:    faction.BailiwickState(row.State),
			Claimant: world.FactionID(row.Claimant),
		})
	}

	type eventRow struct {
		Tick        uint64 `db:"tick"`
		Kind        string `db:"kind"`
		PayloadJSON string `db:"payload_json"`
	}
	var eventRows []eventRow
	if err := db.conn.Select(&eventRows, `SELECT tick, kind, payload_json FROM events WHERE run_id = ? ORDER BY seq`, runID); err != nil {
		return nil, engine.SetupConfig{}, fmt.Errorf("load events: %w", err)
	}
	events := make([]engine.Event, 0, len(eventRows))
	for _, row := range eventRows {
		events = append(events, engine.Event{
			Tick:    row.Tick,
			Kind:    engine.EventKind(row.Kind),
			Payload: json.RawMessage(row.PayloadJSON),
		})
	}

	sim, err := engine.Restore(cfg, tmap, reg, bailiwicks, rec, counters, run.Tick, events)
	if err != nil {
		return nil, engine.SetupConfig{}, err
	}
	slog.Info("world restored", "run", runID, "tick", run.Tick, "factions", reg.Count(), "events", len(events))
	return sim, setup, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
