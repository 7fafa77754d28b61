package main

import (
	"flag"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/bubbles/config"
	"github.com/pthm-cable/bubbles/game"
	"github.com/pthm-cable/bubbles/renderer"
)

func init() {
	// glfw event handling must run on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	backendName := flag.String("backend", "gl", "Rendering backend: gl or software")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")

	// Unrecognized flags are discarded rather than fatal.
	flag.CommandLine.Parse(filterArgs(os.Args[1:]))

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	clearColor := mgl32.Vec4{
		float32(cfg.Clear.R),
		float32(cfg.Clear.G),
		float32(cfg.Clear.B),
		float32(cfg.Clear.A),
	}

	var backend renderer.Backend
	switch *backendName {
	case "gl":
		b, err := renderer.NewGL(cfg.Screen.Title, cfg.Screen.Width, cfg.Screen.Height, clearColor)
		if err != nil {
			slog.Error("failed to create gl backend", "error", err)
			os.Exit(1)
		}
		backend = b
	case "software":
		backend = renderer.NewSoftware(cfg.Screen.Width, cfg.Screen.Height, clearColor)
	default:
		slog.Error("unknown backend", "backend", *backendName)
		os.Exit(1)
	}
	defer backend.Close()

	slog.Info("starting", "backend", *backendName, "seed", rngSeed, "bubbles", cfg.Bubbles.Count)

	g, err := game.NewGame(backend, game.Options{
		Seed:      rngSeed,
		MaxFrames: *maxFrames,
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	g.Run()
}

// filterArgs drops flags that were never registered, so stray options
// aimed at other tooling don't abort startup.
func filterArgs(args []string) []string {
	known := make(map[string]bool)
	flag.VisitAll(func(f *flag.Flag) { known[f.Name] = true })

	out := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			name := strings.TrimLeft(arg, "-")
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				name = name[:eq]
			}
			if !known[name] {
				continue
			}
		}
		out = append(out, arg)
	}
	return out
}
