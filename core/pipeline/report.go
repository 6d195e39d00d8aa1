// Package pipeline — report step.
package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/output"
	"github.com/gaurav-prasanna/pagasapipe/core/render"
)

// StepReport is the step name of Report.
const StepReport = "report"

// Report renders the page's processed topics with renderer and writes the
// result to the reports tier. It returns the written path.
func (r *Runner) Report(page core.Page, renderer core.Renderer) (string, error) {
	var path string
	err := r.step(page.Name, StepReport, func(log *slog.Logger) error {
		var datasets []core.Dataset
		for _, topic := range page.Topics {
			t, err := output.ReadCSV(r.Store.Path(output.TierProcessed, page.Name, topic.Name))
			if errors.Is(err, fs.ErrNotExist) {
				log.Warn("no processed data, leaving topic out of report", "topic", topic.Name)
				continue
			}
			if err != nil {
				return err
			}
			datasets = append(datasets, core.Dataset{Topic: topic.Name, Table: t})
		}
		if len(datasets) == 0 {
			return fmt.Errorf("no processed data for %s (run process first)", page.Name)
		}

		meta := core.NewReportMetadata(render.Title(page.Name), page.URL, page.Name, r.clock().Now())
		data, err := renderer.Render(render.BuildReport(meta, datasets), meta)
		if err != nil {
			return fmt.Errorf("rendering %s report: %w", page.Name, err)
		}

		path, err = r.Store.WriteReport(page.Name, data, renderer.Extension())
		return err
	})
	return path, err
}
