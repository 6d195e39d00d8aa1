package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/extract"
	"github.com/gaurav-prasanna/pagasapipe/core/fetch"
	"github.com/gaurav-prasanna/pagasapipe/core/logging"
	"github.com/gaurav-prasanna/pagasapipe/core/metrics"
	"github.com/gaurav-prasanna/pagasapipe/core/output"
	"github.com/gaurav-prasanna/pagasapipe/core/pages"
	"github.com/gaurav-prasanna/pagasapipe/core/render"
)

const forecastHTML = `<html><body><div class="container">
<div class="col-md-12 col-lg-12 issue"><b>Issued at: 3:00 PM, Jan 15, 2024</b></div>
<div class="col-md-12 col-lg-12"><h3>Synopsis</h3><p>  Northeast monsoon affecting Luzon.  </p></div>
<div class="col-md-12 col-lg-12"><h3>Forecast Weather Conditions</h3><table><tbody>
<tr><td> Metro Manila and Rizal </td><td>Cloudy</td><td>Monsoon</td><td>Minor flooding</td></tr>
</tbody></table></div>
<div class="col-md-12 col-lg-12"><h3>Forecast Wind and Coastal Water Conditions</h3><table><tbody>
<tr><td>Luzon</td><td>Moderate to Strong</td><td>Northeast</td><td>Moderate to rough</td></tr>
</tbody></table></div>
<div class="col-md-12 col-lg-12"><h3>Temperature and Relative Humidity</h3><table><tbody>
<tr><td>Temperature</td><td>32 °C</td><td>2:00 PM</td><td>24 °C</td><td>6:00 AM</td></tr>
<tr><td>Relative Humidity</td><td>95 %</td><td>6:00 AM</td><td>60 %</td><td>2:00 PM</td></tr>
</tbody></table></div>
</div></body></html>`

const advisoryHTML = `<html><body><nav>Menu</nav><div class="article-content"><h3>Heavy Rainfall Advisory</h3><p>Moderate to heavy rains over Luzon.</p></div></body></html>`

// brokenHTML has two section blocks, which matches no known layout.
const brokenHTML = `<html><body>
<div class="col-md-12 col-lg-12"><p>one</p></div>
<div class="col-md-12 col-lg-12"><p>two</p></div>
</body></html>`

type fakeLoader struct {
	tables map[string]core.Table
}

func (f *fakeLoader) LoadTable(_ context.Context, schema, table string, t core.Table) (int, error) {
	if f.tables == nil {
		f.tables = map[string]core.Table{}
	}
	f.tables[schema+"."+table] = t
	return t.Len(), nil
}

type harness struct {
	runner *Runner
	store  *output.Store
	urls   map[string]string
}

func newHarness(t *testing.T, routes map[string]string) harness {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	store, err := output.New(t.TempDir())
	require.NoError(t, err)

	urls := map[string]string{}
	for _, name := range pages.Names {
		urls[name] = srv.URL + "/" + name
	}

	return harness{
		runner: &Runner{
			Fetcher: fetch.New(fetch.Options{Timeout: 5 * time.Second}),
			Store:   store,
			Metrics: metrics.New(),
		},
		store: store,
		urls:  urls,
	}
}

func (h harness) page(t *testing.T, name string) core.Page {
	t.Helper()
	p, err := pages.New(name, h.urls)
	require.NoError(t, err)
	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunPage_DailyForecast(t *testing.T) {
	h := newHarness(t, map[string]string{"/" + pages.DailyWeatherForecast: forecastHTML})
	page := h.page(t, pages.DailyWeatherForecast)

	require.NoError(t, h.runner.RunPage(context.Background(), page))

	raw := readFile(t, h.store.Path(output.TierRaw, page.Name, extract.TopicForecastConditions))
	assert.Contains(t, raw, `"Metro Manila and Rizal"`)

	got := readFile(t, h.store.Path(output.TierProcessed, page.Name, extract.TopicForecastConditions))
	want := "place,weather_condition,caused_by,impact,issued_date,issued_time\n" +
		"Metro Manila,Cloudy,Monsoon,Minor flooding,2024-01-15,15:00:00\n" +
		"Rizal,Cloudy,Monsoon,Minor flooding,2024-01-15,15:00:00\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("processed conditions mismatch (-want +got):\n%s", diff)
	}

	issued := readFile(t, h.store.Path(output.TierStage, page.Name, extract.TopicIssuedDateTime))
	assert.Equal(t, "issued_datetime,issued_date,issued_time\n\"Issued at: 3:00 PM, Jan 15, 2024\",2024-01-15,15:00:00\n", issued)

	winds, err := output.ReadCSV(h.store.Path(output.TierProcessed, page.Name, extract.TopicWindConditions))
	require.NoError(t, err)
	assert.Equal(t, "Strong", winds.Value(0, "speed_category"))

	temps, err := output.ReadCSV(h.store.Path(output.TierProcessed, page.Name, extract.TopicTemperatureHumidity))
	require.NoError(t, err)
	assert.Equal(t, "14:00:00", temps.Value(0, "time_of_max_temperature"))

	m := h.runner.Metrics
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PageRuns.WithLabelValues(page.Name, StepProcess, "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FetchFailures.WithLabelValues(page.Name)))
}

func TestRunPage_Idempotent(t *testing.T) {
	h := newHarness(t, map[string]string{"/" + pages.DailyWeatherForecast: forecastHTML})
	page := h.page(t, pages.DailyWeatherForecast)
	ctx := context.Background()

	snapshot := func() map[string]string {
		out := map[string]string{}
		for _, tier := range []output.Tier{output.TierRaw, output.TierStage, output.TierProcessed} {
			for _, topic := range page.Topics {
				path := h.store.Path(tier, page.Name, topic.Name)
				out[path] = readFile(t, path)
			}
		}
		return out
	}

	require.NoError(t, h.runner.RunPage(ctx, page))
	first := snapshot()
	require.NoError(t, h.runner.RunPage(ctx, page))
	assert.Equal(t, first, snapshot())
}

func TestIngest_FetchFailureWritesEmptyTopics(t *testing.T) {
	h := newHarness(t, nil)
	page := h.page(t, pages.DailyWeatherForecast)

	require.NoError(t, h.runner.RunPage(context.Background(), page))

	got := readFile(t, h.store.Path(output.TierProcessed, page.Name, extract.TopicForecastConditions))
	assert.Equal(t, "place,weather_condition,caused_by,impact,issued_date,issued_time\n", got)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.runner.Metrics.FetchFailures.WithLabelValues(page.Name)))
}

func TestRun_IsolatesPageFailures(t *testing.T) {
	h := newHarness(t, map[string]string{
		"/" + pages.DailyWeatherForecast: brokenHTML,
		"/" + pages.WeatherAdvisory:      advisoryHTML,
	})
	forecast := h.page(t, pages.DailyWeatherForecast)
	advisory := h.page(t, pages.WeatherAdvisory)

	err := h.runner.Run(context.Background(), []core.Page{forecast, advisory})
	require.Error(t, err)

	var mismatch *core.StructureMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 2, mismatch.Got)

	processed, err := output.ReadCSV(h.store.Path(output.TierProcessed, advisory.Name, extract.TopicWeatherAdvisory))
	require.NoError(t, err)
	assert.Equal(t, "Heavy Rainfall Advisory", processed.Value(0, "title"))

	_, err = os.Stat(h.store.Path(output.TierRaw, forecast.Name, extract.TopicSynopsis))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.runner.Metrics.PageRuns.WithLabelValues(forecast.Name, StepIngest, "error")))
}

func TestStage_MissingRawIsSkipped(t *testing.T) {
	h := newHarness(t, nil)
	page := h.page(t, pages.WeatherAdvisory)

	require.NoError(t, h.runner.Stage(page))
	_, err := os.Stat(h.store.Path(output.TierStage, page.Name, extract.TopicWeatherAdvisory))
	assert.True(t, os.IsNotExist(err))
}

func TestProcess_WithoutIssuedLeavesColumnsEmpty(t *testing.T) {
	h := newHarness(t, nil)
	page := h.page(t, pages.DailyWeatherForecast)

	synopsis := core.NewRecord([]string{core.ColSynopsis}, []string{"Fair weather."})
	require.NoError(t, output.WriteCSV(h.store.Path(output.TierStage, page.Name, extract.TopicSynopsis), synopsis))

	require.NoError(t, h.runner.Process(page))
	got := readFile(t, h.store.Path(output.TierProcessed, page.Name, extract.TopicSynopsis))
	assert.Equal(t, "synopsis,issued_date,issued_time\nFair weather.,,\n", got)
}

func TestLoad_SendsProcessedTables(t *testing.T) {
	h := newHarness(t, map[string]string{"/" + pages.WeatherAdvisory: advisoryHTML})
	loader := &fakeLoader{}
	h.runner.Warehouse = loader
	h.runner.Schema = "weather"
	page := h.page(t, pages.WeatherAdvisory)

	require.NoError(t, h.runner.RunPage(context.Background(), page))

	table, ok := loader.tables["weather."+TableName(page.Name, extract.TopicWeatherAdvisory)]
	require.True(t, ok)
	assert.Equal(t, []string{"title", "content"}, table.Columns)
	assert.Equal(t, 1, table.Len())
}

func TestRunLog_RecordsSteps(t *testing.T) {
	h := newHarness(t, map[string]string{"/" + pages.WeatherAdvisory: advisoryHTML})
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 15, 30, 0, 0, time.UTC))
	logPath := filepath.Join(h.store.Root, "logs", "logs.csv")
	h.runner.RunLog = logging.NewRunLog(logPath, "test", clock)
	h.runner.Clock = clock
	page := h.page(t, pages.WeatherAdvisory)

	require.NoError(t, h.runner.RunPage(context.Background(), page))

	lines := strings.Split(strings.TrimSpace(readFile(t, logPath)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "messages,timestamps", lines[0])
	for i, step := range []string{StepIngest, StepStage, StepProcess} {
		assert.Equal(t, fmt.Sprintf("(TEST): Successfully ran %s for %s,2024-01-15 15:30:00", step, page.Name), lines[i+1])
	}
	assert.Equal(t, float64(clock.Now().Unix()), testutil.ToFloat64(h.runner.Metrics.LastSuccess.WithLabelValues(page.Name)))
}

func TestRun_StopsWhenCancelled(t *testing.T) {
	h := newHarness(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.runner.Run(ctx, []core.Page{h.page(t, pages.WeatherAdvisory)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReport_WritesMarkdown(t *testing.T) {
	h := newHarness(t, map[string]string{"/" + pages.DailyWeatherForecast: forecastHTML})
	page := h.page(t, pages.DailyWeatherForecast)
	require.NoError(t, h.runner.RunPage(context.Background(), page))

	path, err := h.runner.Report(page, render.NewMarkdownRenderer())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(h.store.Root, "reports", page.Name+".md"), path)

	md := readFile(t, path)
	assert.True(t, strings.HasPrefix(md, "# Daily Weather Forecast\n"))
	assert.Contains(t, md, "| Metro Manila | Cloudy | Monsoon | Minor flooding | 2024-01-15 | 15:00:00 |")
}

func TestReport_NothingProcessed(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.runner.Report(h.page(t, pages.WeatherAdvisory), render.NewMarkdownRenderer())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run process first")
}
