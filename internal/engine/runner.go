package engine

import (
	"log/slog"
	"time"
)

// Runner drives a simulation in wall-clock time. The tick boundary is the
// only suspension point: Stop takes effect between ticks, never mid-tick.
type Runner struct {
	Sim      *Simulation
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval
	Running  bool

	// OnTick runs after every completed tick — report logging, periodic
	// saves. It sees a fully settled world.
	OnTick func(tick uint64)
}

// NewRunner creates a runner with default pacing.
func NewRunner(sim *Simulation) *Runner {
	return &Runner{
		Sim:      sim,
		Speed:    1.0,
		Interval: 100 * time.Millisecond,
	}
}

// Run starts the loop. Blocks until Stop() is called or a tick fails.
func (r *Runner) Run() {
	r.Running = true
	slog.Info("simulation started", "tick", r.Sim.Tick(), "speed", r.Speed)

	for r.Running {
		if r.Speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		if err := r.Sim.Step(); err != nil {
			slog.Error("tick failed, halting", "tick", r.Sim.Tick(), "error", err)
			r.Running = false
			break
		}
		if r.OnTick != nil {
			r.OnTick(r.Sim.Tick())
		}

		elapsed := time.Since(start)
		target := time.Duration(float64(r.Interval) / r.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation stopped", "tick", r.Sim.Tick())
}

// Stop halts the loop at the next tick boundary.
func (r *Runner) Stop() {
	r.Running = false
}
