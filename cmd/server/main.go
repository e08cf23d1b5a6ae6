package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/OCharnyshevich/voxelworld/internal/server"
	"github.com/OCharnyshevich/voxelworld/internal/server/config"
	"github.com/OCharnyshevich/voxelworld/internal/server/storage"
)

func main() {
	cfg := config.DefaultConfig()

	dataDir := flag.String("data", "./data", "data directory holding config.json")
	saveConfig := flag.Bool("save-config", false, "write the effective config to the data directory")
	debug := flag.Bool("debug", false, "enable debug logging")

	flag.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "terrain seed")
	flag.BoolVar(&cfg.RandomSeed, "random-seed", cfg.RandomSeed, "ignore -seed and shuffle terrain noise randomly")
	flag.StringVar(&cfg.GeneratorType, "generator", cfg.GeneratorType, "terrain generator: default, flat or city")
	flag.IntVar(&cfg.RenderDistance, "render-distance", cfg.RenderDistance, "resident chunk radius")
	flag.IntVar(&cfg.EvictHysteresis, "evict-hysteresis", cfg.EvictHysteresis, "extra chunks kept before eviction")
	flag.IntVar(&cfg.StreamEvery, "stream-every", cfg.StreamEvery, "ticks between chunk streaming passes")
	flag.IntVar(&cfg.GenBudget, "gen-budget", cfg.GenBudget, "chunks generated per streaming pass, 0 for all")
	flag.IntVar(&cfg.TickRate, "tick-rate", cfg.TickRate, "simulation ticks per second")
	flag.IntVar(&cfg.DayLengthTicks, "day-length", cfg.DayLengthTicks, "day length in ticks")
	flag.StringVar(&cfg.Clock, "clock", cfg.Clock, "day/night clock: tick or wall")
	flag.BoolVar(&cfg.TrackPlayerSky, "track-player-sky", cfg.TrackPlayerSky, "center the sun and moon on the player")
	flag.StringVar(&cfg.ViewerDir, "viewer-dir", cfg.ViewerDir, "directory of viewer files to serve")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	store, err := storage.New(*dataDir, log)
	if err != nil {
		log.Error("open data directory", "error", err)
		os.Exit(1)
	}

	fromFile := config.DefaultConfig()
	found, err := store.LoadConfig(fromFile)
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	if found {
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(cfg, fromFile, explicit)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("validate config", "error", err)
		os.Exit(1)
	}

	if *saveConfig {
		if err := store.SaveConfig(cfg); err != nil {
			log.Error("save config", "error", err)
			os.Exit(1)
		}
		log.Info("config saved", "dir", store.Dir())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(cfg, log)
	if err := srv.Start(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
