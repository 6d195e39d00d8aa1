// Package pipeline runs pages through the tiers:
// fetch → extract → raw JSON → stage CSV → processed CSV → warehouse.
//
// Each step reads only what the previous step wrote to disk, so a step can
// be re-run on its own. A failure in one page never stops the others.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/enrich"
	"github.com/gaurav-prasanna/pagasapipe/core/logging"
	"github.com/gaurav-prasanna/pagasapipe/core/metrics"
	"github.com/gaurav-prasanna/pagasapipe/core/output"
	"github.com/gaurav-prasanna/pagasapipe/core/transform"
)

// Step names, used in logs, the run log and metrics.
const (
	StepIngest  = "ingest"
	StepStage   = "stage"
	StepProcess = "process"
	StepLoad    = "load"
)

// Loader receives processed tables. *warehouse.Warehouse implements it.
type Loader interface {
	LoadTable(ctx context.Context, schema, table string, t core.Table) (int, error)
}

// Runner wires the pipeline components. Fetcher and Store are required;
// everything else is optional.
type Runner struct {
	Fetcher core.Fetcher
	Store   *output.Store

	// Warehouse is nil when loading is disabled.
	Warehouse Loader
	Schema    string

	Logger  *slog.Logger
	RunLog  *logging.RunLog
	Metrics *metrics.Metrics
	Clock   clockwork.Clock
}

// Ingest fetches the page, extracts its topics and writes one raw JSON file
// per topic. A failed fetch is logged and treated as an absent page, which
// still writes empty topics.
func (r *Runner) Ingest(ctx context.Context, page core.Page) error {
	return r.step(page.Name, StepIngest, func(log *slog.Logger) error {
		doc, err := r.Fetcher.Fetch(ctx, page.URL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			log.Warn("fetch failed, treating page as absent", "url", page.URL, "err", err)
			r.count(func(m *metrics.Metrics) { m.FetchFailures.WithLabelValues(page.Name).Inc() })
		}

		ext, err := page.Extractor.Extract(doc)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", page.Name, err)
		}

		for _, w := range ext.Warnings {
			log.Warn("skipped record", "err", w)
			var shape *core.RowShapeError
			if errors.As(w, &shape) {
				r.count(func(m *metrics.Metrics) { m.RowsSkipped.WithLabelValues(page.Name).Inc() })
			}
		}

		for _, ds := range ext.Datasets {
			path := r.Store.Path(output.TierRaw, page.Name, ds.Topic)
			if err := output.WriteRaw(path, ds.Table); err != nil {
				return err
			}
			r.rowsWritten(page.Name, output.TierRaw, ds.Table.Len())
			log.Debug("wrote raw topic", "topic", ds.Topic, "rows", ds.Table.Len(), "path", path)
		}
		return nil
	})
}

// Stage trims every raw topic, applies the topic's transform and writes the
// stage CSV. A topic without a raw file is skipped with a warning.
func (r *Runner) Stage(page core.Page) error {
	return r.step(page.Name, StepStage, func(log *slog.Logger) error {
		for _, topic := range page.Topics {
			t, err := output.ReadRawAsTable(r.Store.Path(output.TierRaw, page.Name, topic.Name))
			if errors.Is(err, fs.ErrNotExist) {
				log.Warn("no raw data, skipping topic", "topic", topic.Name)
				continue
			}
			if err != nil {
				return err
			}

			t = transform.Strip(t)
			if topic.Stage != nil {
				var errs []error
				t, errs = topic.Stage(t)
				for _, e := range errs {
					log.Warn("unparseable value left empty", "topic", topic.Name, "err", e)
				}
				if len(errs) > 0 {
					r.count(func(m *metrics.Metrics) { m.ParseErrors.WithLabelValues(page.Name).Add(float64(len(errs))) })
				}
			}

			if err := output.WriteCSV(r.Store.Path(output.TierStage, page.Name, topic.Name), t); err != nil {
				return err
			}
			r.rowsWritten(page.Name, output.TierStage, t.Len())
		}
		return nil
	})
}

// Process appends the page's issued date and time to every enriched topic
// and writes the processed CSV. Without an issued timestamp the enrichment
// columns are left empty.
func (r *Runner) Process(page core.Page) error {
	return r.step(page.Name, StepProcess, func(log *slog.Logger) error {
		var issued *core.IssuedDateTime
		if page.IssuedTopic != "" {
			t, err := output.ReadCSV(r.Store.Path(output.TierStage, page.Name, page.IssuedTopic))
			switch {
			case errors.Is(err, fs.ErrNotExist):
				log.Warn("no staged issue timestamp", "topic", page.IssuedTopic)
			case err != nil:
				return err
			default:
				issued = enrich.IssuedFromTable(t)
			}
		}

		for _, topic := range page.Topics {
			t, err := output.ReadCSV(r.Store.Path(output.TierStage, page.Name, topic.Name))
			if errors.Is(err, fs.ErrNotExist) {
				log.Warn("no staged data, skipping topic", "topic", topic.Name)
				continue
			}
			if err != nil {
				return err
			}

			if topic.Enrich {
				t = enrich.Broadcast(t, issued)
			}
			if err := output.WriteCSV(r.Store.Path(output.TierProcessed, page.Name, topic.Name), t); err != nil {
				return err
			}
			r.rowsWritten(page.Name, output.TierProcessed, t.Len())
		}
		return nil
	})
}

// Load replaces each processed topic's warehouse table. It is a no-op when
// no warehouse is configured.
func (r *Runner) Load(ctx context.Context, page core.Page) error {
	if r.Warehouse == nil {
		r.logger().Debug("warehouse disabled, skipping load", "page", page.Name)
		return nil
	}
	return r.step(page.Name, StepLoad, func(log *slog.Logger) error {
		for _, topic := range page.Topics {
			t, err := output.ReadCSV(r.Store.Path(output.TierProcessed, page.Name, topic.Name))
			if errors.Is(err, fs.ErrNotExist) {
				log.Warn("no processed data, skipping topic", "topic", topic.Name)
				continue
			}
			if err != nil {
				return err
			}
			n, err := r.Warehouse.LoadTable(ctx, r.Schema, TableName(page.Name, topic.Name), t)
			if err != nil {
				return err
			}
			log.Debug("loaded topic", "topic", topic.Name, "rows", n)
		}
		return nil
	})
}

// RunPage runs every step for one page, stopping at the first failed step.
func (r *Runner) RunPage(ctx context.Context, page core.Page) error {
	if err := r.Ingest(ctx, page); err != nil {
		return err
	}
	if err := r.Stage(page); err != nil {
		return err
	}
	if err := r.Process(page); err != nil {
		return err
	}
	if err := r.Load(ctx, page); err != nil {
		return err
	}
	r.count(func(m *metrics.Metrics) {
		m.LastSuccess.WithLabelValues(page.Name).Set(float64(r.clock().Now().Unix()))
	})
	return nil
}

// Run runs every page in order. A failed page is logged and the run moves
// on; the returned error joins every page failure.
func (r *Runner) Run(ctx context.Context, pages []core.Page) error {
	var errs []error
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := r.RunPage(ctx, page); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", page.Name, err))
		}
	}
	return errors.Join(errs...)
}

// TableName is the warehouse table of a page topic.
func TableName(page, topic string) string {
	return page + "__" + topic
}

// step times fn and reports its outcome to the logger, run log and metrics.
func (r *Runner) step(page, step string, fn func(log *slog.Logger) error) error {
	log := r.logger().With("page", page, "step", step)
	start := r.clock().Now()

	err := fn(log)

	elapsed := r.clock().Since(start)
	outcome := "success"
	if err != nil {
		outcome = "error"
		log.Error("step failed", "err", err, "elapsed", elapsed)
		r.record("Failed to %s %s: %v", step, page, err)
	} else {
		log.Info("step complete", "elapsed", elapsed)
		r.record("Successfully ran %s for %s", step, page)
	}

	r.count(func(m *metrics.Metrics) {
		m.PageRuns.WithLabelValues(page, step, outcome).Inc()
		m.StepDuration.WithLabelValues(step).Observe(elapsed.Seconds())
	})
	return err
}

func (r *Runner) record(format string, args ...any) {
	if r.RunLog == nil {
		return
	}
	if err := r.RunLog.Record(format, args...); err != nil {
		r.logger().Warn("run log write failed", "path", r.RunLog.Path(), "err", err)
	}
}

func (r *Runner) rowsWritten(page string, tier output.Tier, n int) {
	r.count(func(m *metrics.Metrics) { m.RowsWritten.WithLabelValues(page, string(tier)).Add(float64(n)) })
}

func (r *Runner) count(fn func(m *metrics.Metrics)) {
	if r.Metrics != nil {
		fn(r.Metrics)
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func (r *Runner) clock() clockwork.Clock {
	if r.Clock == nil {
		return clockwork.NewRealClock()
	}
	return r.Clock
}
