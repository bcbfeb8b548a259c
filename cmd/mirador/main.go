package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/mirador-lab/project-mirador/internal/core/config"
	"github.com/mirador-lab/project-mirador/internal/core/dataset"
	"github.com/mirador-lab/project-mirador/internal/core/profile"
	"github.com/mirador-lab/project-mirador/internal/dashboard"
	"github.com/mirador-lab/project-mirador/internal/server"
)

func main() {
	configPath := flag.String("config", "mirador.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "config", cfg)

	// 2. Initialize Profile Repository (built-ins + YAML overrides)
	profiles, err := profile.NewRepository(cfg.Profiles.Dir)
	if err != nil {
		slog.Error("Failed to load profiles", "error", err)
		os.Exit(1)
	}
	slog.Info("Profiles loaded", "names", profiles.Names())

	// 3. Initialize Dataset Registry and Dashboard Service
	registry := dashboard.NewRegistry(cfg.Registry.Capacity)
	svc := dashboard.NewService(registry, profiles, cfg.Server.MaxUploadMB)

	// 4. Register the boot-time dataset
	if err := registerBootDataset(cfg, profiles, registry); err != nil {
		slog.Error("Failed to register boot dataset", "error", err)
		os.Exit(1)
	}

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), registry, cfg.Server.Mode)
	svc.RegisterRoutes(srv.Engine)

	// 6. Start
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// registerBootDataset loads the configured startup dataset: a simulated
// sales ledger, a CSV file, or nothing.
func registerBootDataset(cfg *corecfg.Config, profiles *profile.Repository, registry *dashboard.Registry) error {
	if cfg.Dataset.Source == "none" {
		slog.Info("No boot dataset configured")
		return nil
	}

	prof, err := profiles.Get(cfg.Dataset.Profile)
	if err != nil {
		return err
	}

	var ds *dashboard.Dataset
	switch cfg.Dataset.Source {
	case "simulate":
		store := dataset.SimulateSalesLedger(dataset.SimulateOptions{
			Rows: cfg.Dataset.Simulate.Rows,
			Days: cfg.Dataset.Simulate.Days,
			Seed: cfg.Dataset.Simulate.Seed,
		})
		ds = registry.RegisterStore("simulated-sales", prof, store, dataset.BuildReport{Rows: store.Len()})
	case "csv":
		raw, err := os.ReadFile(cfg.Dataset.CSVPath)
		if err != nil {
			return fmt.Errorf("read boot csv: %w", err)
		}
		if ds, _, err = registry.Register(cfg.Dataset.CSVPath, prof, raw); err != nil {
			return fmt.Errorf("build boot dataset: %w", err)
		}
	}

	slog.Info("Boot dataset registered",
		"dataset_id", ds.ID,
		"profile", ds.Profile.Name,
		"rows", ds.Store.Len(),
		"skipped_rows", ds.Report.Skipped,
		"min_date", ds.Store.MinDate(),
		"max_date", ds.Store.MaxDate(),
	)
	return nil
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
