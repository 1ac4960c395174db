// Command epochsim runs the seven-ages world simulation: a generated
// territory map advanced tick by tick from the Age of Myth toward the long
// Shadow, with a read-only HTTP API and periodic SQLite snapshots.
package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dustin/go-humanize"

	"github.com/talgya/seven-ages/internal/api"
	"github.com/talgya/seven-ages/internal/engine"
	"github.com/talgya/seven-ages/internal/persistence"
)

type config struct {
	Seed       int64 `env:"EPOCHSIM_SEED" envDefault:"1"`
	MapRadius  int   `env:"EPOCHSIM_MAP_RADIUS" envDefault:"18"`
	Tribes     int   `env:"EPOCHSIM_TRIBES" envDefault:"20"`
	Bailiwicks int   `env:"EPOCHSIM_BAILIWICKS" envDefault:"10"`
	Beasts     int   `env:"EPOCHSIM_BEASTS" envDefault:"4"`

	TickInterval time.Duration `env:"EPOCHSIM_TICK_INTERVAL" envDefault:"100ms"`
	Speed        float64       `env:"EPOCHSIM_SPEED" envDefault:"1.0"`
	Workers      int           `env:"EPOCHSIM_WORKERS" envDefault:"1"`
	MaxTicks     uint64        `env:"EPOCHSIM_MAX_TICKS" envDefault:"0"`

	APIPort   int    `env:"EPOCHSIM_API_PORT" envDefault:"8080"`
	AdminKey  string `env:"EPOCHSIM_ADMIN_KEY"`
	RateLimit int    `env:"EPOCHSIM_API_RATE_LIMIT" envDefault:"240"` // reads per client per minute

	DBPath    string `env:"EPOCHSIM_DB_PATH" envDefault:"data/seven-ages.db"`
	SaveEvery uint64 `env:"EPOCHSIM_SAVE_EVERY" envDefault:"500"`

	ReportEvery uint64 `env:"EPOCHSIM_REPORT_EVERY" envDefault:"100"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	slog.Info("seven ages — historical epoch simulation",
		"seed", cfg.Seed,
		"radius", cfg.MapRadius,
		"tribes", cfg.Tribes,
		"bailiwicks", cfg.Bailiwicks,
		"beasts", cfg.Beasts,
	)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or Generate World State ─────────────────────────────────
	simCfg := engine.DefaultConfig(cfg.Seed)
	simCfg.Workers = cfg.Workers
	setup := engine.SetupConfig{
		MapRadius:  cfg.MapRadius,
		Tribes:     cfg.Tribes,
		Bailiwicks: cfg.Bailiwicks,
		Beasts:     cfg.Beasts,
	}

	var sim *engine.Simulation
	runID, restored, savedSetup, err := db.LoadLatest()
	switch {
	case err == nil:
		sim = restored
		setup = savedSetup
		rec := sim.EpochRecord()
		slog.Info("resuming saved world",
			"run", runID,
			"tick", sim.Tick(),
			"epoch", rec.Current.String(),
		)
	case errors.Is(err, persistence.ErrNoSavedRun):
		sim, err = engine.NewWorld(simCfg, setup)
		if err != nil {
			slog.Error("world setup failed", "error", err)
			os.Exit(1)
		}
		runID = persistence.NewRunID()
		slog.Info("new world generated",
			"run", runID,
			"regions", sim.Territory().RegionCount(),
			"factions", len(sim.Factions()),
		)
	default:
		slog.Error("failed to load saved world", "error", err)
		os.Exit(1)
	}

	// ── Runner ────────────────────────────────────────────────────────
	runner := engine.NewRunner(sim)
	runner.Speed = cfg.Speed
	runner.Interval = cfg.TickInterval
	runner.OnTick = func(tick uint64) {
		if cfg.ReportEvery > 0 && tick%cfg.ReportEvery == 0 {
			report(sim)
		}
		if cfg.SaveEvery > 0 && tick%cfg.SaveEvery == 0 {
			if err := db.SaveWorld(runID, setup, sim); err != nil {
				slog.Error("periodic save failed", "error", err)
			}
		}
		if cfg.MaxTicks > 0 && tick >= cfg.MaxTicks {
			runner.Stop()
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	server := &api.Server{
		Sim:       sim,
		Runner:    runner,
		Port:      cfg.APIPort,
		AdminKey:  cfg.AdminKey,
		RateLimit: cfg.RateLimit,
	}
	server.Start()

	// ── Signals ───────────────────────────────────────────────────────
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		slog.Info("shutdown signal received", "signal", sig.String())
		runner.Stop()
	}()

	runner.Run()

	// Final snapshot at the last settled tick boundary.
	if err := db.SaveWorld(runID, setup, sim); err != nil {
		slog.Error("final save failed", "error", err)
	}
	report(sim)
}

// report logs a one-line summary of the world.
func report(sim *engine.Simulation) {
	rec := sim.EpochRecord()
	snap := rec.LastSnapshot
	live, fallen := 0, 0
	for _, f := range sim.Factions() {
		if f.Alive {
			live++
		} else {
			fallen++
		}
	}
	slog.Info("world report",
		"tick", humanize.Comma(int64(sim.Tick())),
		"epoch", rec.Current.String(),
		"claimed_pct", snap.PctTerritoryClaimed,
		"dominant_pct", snap.PctDominantOwner,
		"live_factions", live,
		"fallen_factions", fallen,
		"events", humanize.Comma(int64(len(sim.Events()))),
	)
}
