// Package cmd — report command.
// Renders a page's processed tables as Markdown, PDF or JSON.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/pages"
	"github.com/gaurav-prasanna/pagasapipe/core/render"
)

// Output format flags.
var (
	flagPDF      bool
	flagMarkdown bool
	flagJSON     bool
)

var reportCmd = &cobra.Command{
	Use:   "report [page]",
	Short: "Render a page's processed data as a report",
	Long: `Report reads the processed tier of a page (the daily weather forecast by
default) and writes a report to <DATA_DIR>/reports. Without a format flag both
Markdown and PDF are written.

Examples:
  pagasapipe report
  pagasapipe report weather_outlook_for_ph_cities --pdf
  pagasapipe report tropical_cyclone_bulletin --json`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: pages.Names,
	RunE:      runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	reportCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	reportCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	name := pages.DailyWeatherForecast
	if len(args) == 1 {
		name = args[0]
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	page, err := pages.New(name, a.cfg.URLs)
	if err != nil {
		return err
	}

	var errCount int
	for _, renderer := range selectRenderers() {
		path, err := a.runner.Report(page, renderer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ Error: %v\n", err)
			errCount++
			continue
		}
		fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	}
	if errCount > 0 {
		return fmt.Errorf("%d report(s) failed", errCount)
	}
	return nil
}

// selectRenderers returns the renderers chosen by flags, defaulting to
// Markdown and PDF.
func selectRenderers() []core.Renderer {
	var out []core.Renderer
	if flagMarkdown {
		out = append(out, render.NewMarkdownRenderer())
	}
	if flagPDF {
		out = append(out, render.NewPDFRenderer())
	}
	if flagJSON {
		out = append(out, render.NewJSONRenderer())
	}
	if len(out) == 0 {
		out = []core.Renderer{render.NewMarkdownRenderer(), render.NewPDFRenderer()}
	}
	return out
}
