package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nissyi-gh/duedeck/internal/config"
	"github.com/nissyi-gh/duedeck/internal/logging"
	"github.com/nissyi-gh/duedeck/internal/store"
	"github.com/nissyi-gh/duedeck/internal/ui"
)

func main() {
	var envFile string
	var memory, debug bool

	flag.StringVar(&envFile, "env", ".env", "Environment variables file")
	flag.BoolVar(&memory, "memory", false, "Keep tasks in memory only")
	flag.BoolVar(&debug, "debug", false, "Log at debug level")
	flag.Parse()

	if err := run(envFile, memory, debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string, memory, debug bool) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}

	cfg, err := config.LoadOrCreate(config.ResolveConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	tick, err := cfg.Tick()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogPath, debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var blobs store.BlobStore
	if memory {
		blobs = store.NewMemoryBlobStore()
	} else {
		db, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		blobs = db
	}
	defer blobs.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tasks, err := store.NewTaskStore(ctx, store.NewAdapter(blobs, cfg.StorageKey), store.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	logger.Info("started", zap.Int("tasks", len(tasks.Tasks())), zap.Bool("memory", memory))

	return ui.Run(ctx, tasks, ui.Options{
		Criteria: cfg.Criteria(),
		Strict:   cfg.StrictDates,
		Labels:   cfg.CountdownLabels(),
		Tick:     tick,
		Logger:   logger,
	})
}
