// Command boids3d opens a window on a live 3D flock.
//
// Drag to orbit, scroll or use the arrow keys to zoom, right click a boid to
// inspect it, space to pause.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-boids3d/internal/cli"
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/simulation"
)

func main() {
	configPath := flag.String("config", "", "JSON or YAML configuration file")
	var o cli.Overrides
	o.Register(flag.CommandLine)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			logger.Error("failed to load config", slog.String("path", *configPath), slog.Any("error", err))
			os.Exit(1)
		}
	}
	cfg = o.Apply(cfg)

	if err := run(context.Background(), cfg, logger, runWindow); err != nil {
		logger.Error("boids3d stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// run starts the actor system and the flock, hands the game to show and
// stops the system before returning, whatever the outcome.
func run(ctx context.Context, cfg simulation.Config, logger *slog.Logger, show func(*Game) error) error {
	system, err := actor.NewActorSystem("BoidsWorld",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(1))
	if err != nil {
		return fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return fmt.Errorf("failed to start actor system: %w", err)
	}
	defer func() {
		if err := system.Stop(ctx); err != nil {
			logger.Warn("actor system did not stop cleanly", slog.Any("error", err))
		}
	}()

	game, err := NewGame(ctx, cfg, system, logger)
	if err != nil {
		return fmt.Errorf("failed to start the flock: %w", err)
	}
	return show(game)
}

func runWindow(game *Game) error {
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Boids 3D")
	return ebiten.RunGame(game)
}
