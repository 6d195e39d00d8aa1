// Package cmd — single-step commands.
// Each step runs for one page and reads only the previous step's files.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/pages"
	"github.com/gaurav-prasanna/pagasapipe/core/pipeline"
)

// stepFunc runs one pipeline step for a page.
type stepFunc func(ctx context.Context, a *app, page core.Page) error

func newStepCmd(use, short string, needsWarehouse bool, run stepFunc) *cobra.Command {
	return &cobra.Command{
		Use:       use + " <page>",
		Short:     short,
		Long:      fmt.Sprintf("%s\n\nPages:\n  %s", short, strings.Join(pages.Names, "\n  ")),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: pages.Names,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if needsWarehouse {
				if err := a.openWarehouse(); err != nil {
					return err
				}
			}

			page, err := pages.New(args[0], a.cfg.URLs)
			if err != nil {
				return err
			}
			if err := run(cmd.Context(), a, page); err != nil {
				fmt.Fprintf(os.Stderr, "✗ Error: %v\n", err)
				return fmt.Errorf("%s %s failed", use, page.Name)
			}
			fmt.Fprintf(os.Stdout, "✓ %s: %s\n", use, page.Name)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(
		newStepCmd(pipeline.StepIngest, "Fetch a page and write its raw JSON topics", false,
			func(ctx context.Context, a *app, page core.Page) error { return a.runner.Ingest(ctx, page) }),
		newStepCmd(pipeline.StepStage, "Clean raw topics of a page into stage CSV", false,
			func(_ context.Context, a *app, page core.Page) error { return a.runner.Stage(page) }),
		newStepCmd(pipeline.StepProcess, "Enrich staged topics of a page into processed CSV", false,
			func(_ context.Context, a *app, page core.Page) error { return a.runner.Process(page) }),
		newStepCmd(pipeline.StepLoad, "Load processed topics of a page into the warehouse", true,
			func(ctx context.Context, a *app, page core.Page) error {
				if a.runner.Warehouse == nil {
					return fmt.Errorf("warehouse disabled (set WAREHOUSE_ENABLED=true)")
				}
				return a.runner.Load(ctx, page)
			}),
	)
}
