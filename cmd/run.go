// Package cmd — run command.
// Runs ingest → stage → process → load for every page (or the named ones).
// A page that fails is reported and the run continues with the next.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/output"
	"github.com/gaurav-prasanna/pagasapipe/core/pages"
)

var runCmd = &cobra.Command{
	Use:   "run [page...]",
	Short: "Run the full pipeline for every page",
	Long: `Run fetches every PAGASA page and carries it through the raw, stage and
processed tiers, loading the warehouse when WAREHOUSE_ENABLED is set.

Examples:
  pagasapipe run
  pagasapipe run daily_weather_forecast weather_advisory`,
	Args:      cobra.OnlyValidArgs,
	ValidArgs: pages.Names,
	RunE:      runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.openWarehouse(); err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = pages.Names
	}

	var errCount int
	for i, name := range names {
		page, err := pages.New(name, a.cfg.URLs)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "[%d/%d] Processing %s\n", i+1, len(names), page.Name)

		if err := a.runner.Run(cmd.Context(), []core.Page{page}); err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error: %v\n", err)
			errCount++
			continue
		}
		fmt.Fprintf(os.Stdout, "  ✓ Written: %s\n", a.runner.Store.Dir(output.TierProcessed, page.Name))
	}

	if errCount > 0 {
		return fmt.Errorf("%d/%d pages failed", errCount, len(names))
	}
	return nil
}
