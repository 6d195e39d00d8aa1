// Package cmd implements the CLI commands for pagasapipe using Cobra.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagasapipe/core/config"
	"github.com/gaurav-prasanna/pagasapipe/core/fetch"
	"github.com/gaurav-prasanna/pagasapipe/core/logging"
	"github.com/gaurav-prasanna/pagasapipe/core/metrics"
	"github.com/gaurav-prasanna/pagasapipe/core/output"
	"github.com/gaurav-prasanna/pagasapipe/core/pipeline"
	"github.com/gaurav-prasanna/pagasapipe/core/warehouse"
)

const appName = "pagasapipe"

var flagEnvFile string

var rootCmd = &cobra.Command{
	Use:   "pagasapipe",
	Short: "pagasapipe — scrape PAGASA weather pages into tiered datasets",
	Long: `pagasapipe is a batch ETL pipeline for the PAGASA weather website.
Each page is fetched, decoded into raw JSON topics, cleaned into stage CSV,
enriched with its issue timestamp into processed CSV and optionally loaded
into a SQL warehouse.

Usage:
  pagasapipe ingest|stage|process|load <page>
  pagasapipe run [page...]
  pagasapipe report [page] [flags]`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env_file", ".env", "Environment file to load before reading the environment")
}

// Execute runs the root command.
// Interrupts cancel the running step.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the wired pipeline for one CLI invocation.
type app struct {
	cfg       config.Config
	log       *slog.Logger
	runner    *pipeline.Runner
	metrics   *metrics.Metrics
	warehouse *warehouse.Warehouse
}

// newApp loads configuration and wires every pipeline component.
func newApp() (*app, error) {
	cfg, err := config.Load(flagEnvFile)
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg, os.Stderr, appName)

	store, err := output.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing data store: %w", err)
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
	}
	a.runner = &pipeline.Runner{
		Fetcher: fetch.New(fetch.Options{
			Timeout:    cfg.FetchTimeout,
			Retries:    cfg.FetchRetries,
			RetryDelay: cfg.RetryDelay,
			UserAgent:  cfg.UserAgent,
		}),
		Store:   store,
		Schema:  cfg.WarehouseSchema,
		Logger:  log,
		RunLog:  logging.NewRunLog(cfg.RunLogPath, cfg.AppEnv, nil),
		Metrics: a.metrics,
	}
	return a, nil
}

// openWarehouse connects the warehouse sink when it is enabled.
func (a *app) openWarehouse() error {
	if !a.cfg.WarehouseEnabled {
		return nil
	}
	w, err := warehouse.Open(a.cfg.WarehousePath, a.cfg.WarehouseDatabase)
	if err != nil {
		return err
	}
	a.warehouse = w
	a.runner.Warehouse = w
	a.log.Info("warehouse connected", "path", a.cfg.WarehousePath, "database", a.cfg.WarehouseDatabase)
	return nil
}

// close flushes metrics and releases the warehouse.
func (a *app) close() {
	if a.cfg.MetricsTextfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			a.log.Warn("metrics not written", "err", err)
		}
	}
	if err := a.warehouse.Close(); err != nil {
		a.log.Warn("closing warehouse", "err", err)
	}
}
