// Package api serves read-only world state over HTTP for external
// consumers: status bars, map renderers, story generators. Every handler
// reads at a tick boundary, so responses always describe a fully settled
// world. The single POST endpoint (speed) requires a bearer token.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/seven-ages/internal/engine"
	"github.com/talgya/seven-ages/internal/faction"
	"github.com/talgya/seven-ages/internal/world"
)

// Server serves the world state over HTTP.
type Server struct {
	Sim       *engine.Simulation
	Runner    *engine.Runner
	Port      int
	AdminKey  string // Bearer token for POST endpoints. Empty = POST disabled.
	RateLimit int    // Read requests per client per minute. 0 uses the default.
}

const defaultRateLimit = 240

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	rate := s.RateLimit
	if rate <= 0 {
		rate = defaultRateLimit
	}
	rl := newLimiter(rate, time.Minute)

	mux.HandleFunc("/api/v1/status", rl.rateLimited(s.handleStatus))
	mux.HandleFunc("/api/v1/metrics", rl.rateLimited(s.handleMetrics))
	mux.HandleFunc("/api/v1/factions", rl.rateLimited(s.handleFactions))
	mux.HandleFunc("/api/v1/faction/", rl.rateLimited(s.handleFactionDetail))
	mux.HandleFunc("/api/v1/bailiwicks", rl.rateLimited(s.handleBailiwicks))
	mux.HandleFunc("/api/v1/events", rl.rateLimited(s.handleEvents))
	mux.HandleFunc("/api/v1/territory", rl.rateLimited(s.handleTerritory))

	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "error", err)
	}
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rec := s.Sim.EpochRecord()
	live := 0
	for _, f := range s.Sim.Factions() {
		if f.Alive {
			live++
		}
	}
	writeJSON(w, map[string]any{
		"tick":           s.Sim.Tick(),
		"epoch":          rec.Current.String(),
		"ticks_in_epoch": rec.TicksInEpoch,
		"live_factions":  live,
		"events":         len(s.Sim.Events()),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.EpochRecord().LastSnapshot)
}

type factionSummary struct {
	ID       world.FactionID `json:"id"`
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Strength float64         `json:"strength"`
	Alive    bool            `json:"alive"`
	Regions  int             `json:"regions"`
	Dormant  bool            `json:"dormant,omitempty"`
}

func (s *Server) handleFactions(w http.ResponseWriter, r *http.Request) {
	var out []factionSummary
	for _, f := range s.Sim.Factions() {
		out = append(out, factionSummary{
			ID:       f.ID,
			Name:     f.Name,
			Kind:     f.Kind.String(),
			Strength: f.Strength,
			Alive:    f.Alive,
			Regions:  s.Sim.OwnedCount(f.ID),
			Dormant:  f.Kind == faction.KindBeastDomain && f.Dormant,
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleFactionDetail(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/faction/")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		http.Error(w, "bad faction id", http.StatusBadRequest)
		return
	}
	f, err := s.Sim.Faction(world.FactionID(id))
	if err != nil {
		http.Error(w, "faction not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"faction": f,
		"regions": s.Sim.RegionsOwnedBy(f.ID),
	})
}

func (s *Server) handleBailiwicks(w http.ResponseWriter, r *http.Request) {
	type row struct {
		ID       faction.BailiwickID `json:"id"`
		Name     string              `json:"name"`
		State    string              `json:"state"`
		Claimant world.FactionID     `json:"claimant,omitempty"`
	}
	var out []row
	for _, b := range s.Sim.Bailiwicks() {
		out = append(out, row{ID: b.ID, Name: b.Name, State: b.State.String(), Claimant: b.Claimant})
	}
	writeJSON(w, out)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	since := uint64(0)
	if v := r.URL.Query().Get("since"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "bad since tick", http.StatusBadRequest)
			return
		}
		since = parsed
	}
	events := s.Sim.EventsSince(since)
	if events == nil {
		events = []engine.Event{}
	}
	writeJSON(w, events)
}

func (s *Server) handleTerritory(w http.ResponseWriter, r *http.Request) {
	type cell struct {
		ID    world.RegionID  `json:"id"`
		Q     int             `json:"q"`
		R     int             `json:"r"`
		Biome string          `json:"biome"`
		Owner world.FactionID `json:"owner,omitempty"`
	}
	regions := s.Sim.TerritoryRegions()
	out := make([]cell, 0, len(regions))
	for _, reg := range regions {
		out = append(out, cell{
			ID:    reg.ID,
			Q:     reg.Coord.Q,
			R:     reg.Coord.R,
			Biome: reg.Biome.String(),
			Owner: reg.Owner,
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Speed < 0 {
		http.Error(w, "bad speed", http.StatusBadRequest)
		return
	}
	s.Runner.Speed = req.Speed
	slog.Info("speed changed", "speed", req.Speed)
	writeJSON(w, map[string]any{"speed": req.Speed})
}
