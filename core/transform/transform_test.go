package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagasapipe/core"
)

func TestStrip(t *testing.T) {
	in := core.NewTable("a", "b")
	in.Append("  x ", "\ty\n")
	assert.Equal(t, [][]string{{"x", "y"}}, Strip(in).Rows)
	assert.Equal(t, [][]string{{"  x ", "\ty\n"}}, in.Rows)
}

func TestIssuedDateTime(t *testing.T) {
	in := core.NewRecord([]string{core.ColIssuedDateTime}, []string{"3:00 PM, Jan 15, 2024"})
	out, errs := IssuedDateTime(in)
	assert.Empty(t, errs)
	assert.True(t, out.Single)
	assert.Equal(t, []string{core.ColIssuedDateTime, core.ColIssuedDate, core.ColIssuedTime}, out.Columns)
	assert.Equal(t, [][]string{{"3:00 PM, Jan 15, 2024", "2024-01-15", "15:00:00"}}, out.Rows)
}

func TestIssuedDateTime_EmptyAndInvalid(t *testing.T) {
	empty, errs := IssuedDateTime(core.NewRecord([]string{core.ColIssuedDateTime}, []string{""}))
	assert.Empty(t, errs)
	assert.Equal(t, [][]string{{"", "", ""}}, empty.Rows)

	bad, errs := IssuedDateTime(core.NewRecord([]string{core.ColIssuedDateTime}, []string{"sometime soon"}))
	assert.Len(t, errs, 1)
	assert.Equal(t, [][]string{{"sometime soon", "", ""}}, bad.Rows)
}

func TestExplodePlaces(t *testing.T) {
	in := core.NewTable(core.ForecastConditionColumns...)
	in.Append("Metro Manila and Rizal", "Cloudy", "Monsoon", "Minor flooding")
	in.Append("Cebu", "Rainy", "LPA", "Landslides")
	in.Append("", "Fair", "Ridge", "None")

	out, errs := ExplodePlaces(in)
	require.Empty(t, errs)

	want := [][]string{
		{"Metro Manila", "Cloudy", "Monsoon", "Minor flooding"},
		{"Rizal", "Cloudy", "Monsoon", "Minor flooding"},
		{"Cebu", "Rainy", "LPA", "Landslides"},
		{"", "Fair", "Ridge", "None"},
	}
	if diff := cmp.Diff(want, out.Rows); diff != "" {
		t.Errorf("exploded rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWindCategories(t *testing.T) {
	in := core.NewTable(core.WindConditionColumns...)
	in.Append("Luzon", "Moderate to Strong", "Northeast", "Rough")
	in.Append("Mindanao", "Light", "Variable", "Slight")

	out, _ := WindCategories(in)
	assert.Equal(t, "Strong", out.Value(0, ColSpeedCategory))
	assert.Equal(t, "Light", out.Value(1, ColSpeedCategory))
}

func TestTimes24Hour(t *testing.T) {
	in := core.TemperatureHumidity{
		MaxTemperature:      core.Reading{Value: "32", Time: "2:00 PM"},
		MinTemperature:      core.Reading{Value: "24", Time: "6:00 AM"},
		MaxRelativeHumidity: core.Reading{Value: "95", Time: "12:00 AM"},
		MinRelativeHumidity: core.Reading{Value: "60", Time: "afternoon"},
	}.Table()

	out, errs := Times24Hour(in)
	assert.Len(t, errs, 1)
	assert.Equal(t, [][]string{{"32", "14:00:00", "24", "06:00:00", "95", "00:00:00", "60", ""}}, out.Rows)
}
