// Package game owns the bubble world and drives the frame loop.
package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/components"
	"github.com/pthm-cable/bubbles/config"
	"github.com/pthm-cable/bubbles/renderer"
	"github.com/pthm-cable/bubbles/telemetry"
)

// Options configures a Game.
type Options struct {
	Seed      int64
	MaxFrames int    // stop after N frames (0 = unlimited)
	OutputDir string // directory for CSV logs and config snapshot ("" = disabled)
}

// Game holds the bubble set and the frame-loop state. The bubble entities
// are created once and never mutated afterward; the displayed positions are
// a pure function of the frame counter, evaluated by the backend.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	bubbleMapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Tint,
	]
	bubbleFilter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Tint,
	]

	backend renderer.Backend
	perf    *telemetry.FrameCollector
	output  *telemetry.OutputManager

	frame      int
	maxFrames  int
	count      int
	lastWidth  int
	lastHeight int
}

// regenerateSource is implemented by backends whose window input can
// request a fresh bubble set.
type regenerateSource interface {
	ConsumeRegenerate() bool
}

// NewGame creates the world, spawns the bubble set and uploads it to the
// backend.
func NewGame(backend renderer.Backend, opts Options) (*Game, error) {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	g := &Game{
		world:   world,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		backend: backend,
		bubbleMapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Tint,
		](world),
		bubbleFilter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Tint,
		](world),
		maxFrames: opts.MaxFrames,
		perf: telemetry.NewFrameCollector(
			cfg.Telemetry.Window,
			time.Duration(cfg.Telemetry.ReportInterval*float64(time.Second)),
		),
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	g.spawnBubbles()
	g.backend.Upload(g.Instances())

	return g, nil
}

// Run drives the frame loop until the backend requests shutdown or the
// frame limit is reached. Each iteration: resize check, one instanced draw
// at the current frame counter, present, frame timing.
func (g *Game) Run() {
	for !g.backend.ShouldClose() {
		width, height := g.backend.FramebufferSize()
		if width != g.lastWidth || height != g.lastHeight {
			slog.Info("rendering bubbles", "count", g.count, "width", width, "height", height)
			g.backend.Resize(width, height)
			g.lastWidth = width
			g.lastHeight = height
		}

		if src, ok := g.backend.(regenerateSource); ok && src.ConsumeRegenerate() {
			g.Regenerate()
		}

		g.backend.Draw(float32(g.frame))
		g.frame++
		g.backend.Present()

		if stats, ok := g.perf.RecordFrame(); ok {
			stats.LogStats()
			if err := g.output.WritePerf(stats); err != nil {
				slog.Error("writing perf output", "error", err)
			}
		}

		if g.maxFrames > 0 && g.frame >= g.maxFrames {
			break
		}
	}
}

// Frame returns the number of frames rendered so far.
func (g *Game) Frame() int {
	return g.frame
}

// Count returns the number of bubbles in the set.
func (g *Game) Count() int {
	return g.count
}

// Unload releases output files.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}
