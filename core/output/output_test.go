package output

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagasapipe/core"
)

func TestStore_Paths(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "raw", "daily_weather_forecast", "synopsis.json"),
		s.Path(TierRaw, "daily_weather_forecast", "synopsis"))
	assert.Equal(t, filepath.Join(root, "processed", "daily_weather_forecast", "synopsis.csv"),
		s.Path(TierProcessed, "daily_weather_forecast", "synopsis"))
	assert.Equal(t, filepath.Join(root, "stage", "a_b"), s.Dir(TierStage, "a/b"))
}

func TestRaw_RoundTripMultiRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw", "conditions.json")
	in := core.NewTable("place", "weather_condition", "caused_by", "impact")
	in.Append("Metro Manila and Rizal", "Cloudy", "Monsoon", "Minor flooding")
	in.Append("Cebu", "Rain <heavy>", "LPA", "Flash floods & landslides")

	require.NoError(t, WriteRaw(path, in))
	out, err := ReadRawAsTable(path)
	require.NoError(t, err)

	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"place": [`)
	assert.Contains(t, string(data), "Rain <heavy>")
	assert.Less(t, strings.Index(string(data), `"place"`), strings.Index(string(data), `"impact"`))
}

func TestRaw_RoundTripSingle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issued.json")
	in := core.NewRecord([]string{"issued_datetime"}, []string{"3:00 PM, Jan 15, 2024"})

	require.NoError(t, WriteRaw(path, in))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"issued_datetime\": \"3:00 PM, Jan 15, 2024\"\n}\n", string(data))

	out, err := ReadRawAsTable(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRaw_RoundTripEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "winds.json")
	in := core.NewTable(core.WindConditionColumns...)

	require.NoError(t, WriteRaw(path, in))
	out, err := ReadRawAsTable(path)
	require.NoError(t, err)
	assert.Equal(t, in.Columns, out.Columns)
	assert.Zero(t, out.Len())
}

func TestDecodeRaw_Shapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want core.Table
	}{
		{
			name: "dict of scalars with coercions",
			in:   `{"max_temperature": 32.5, "confirmed": true, "movement": null}`,
			want: core.Table{Columns: []string{"max_temperature", "confirmed", "movement"}, Rows: [][]string{{"32.5", "true", ""}}, Single: true},
		},
		{
			name: "ragged dict of lists",
			in:   `{"place": ["Luzon", "Visayas"], "speed": ["Strong"]}`,
			want: core.Table{Columns: []string{"place", "speed"}, Rows: [][]string{{"Luzon", "Strong"}, {"Visayas", ""}}},
		},
		{
			name: "list of records",
			in:   `[{"area": "Baguio", "min": 14}, {"area": "Cebu", "max": 31}]`,
			want: core.Table{Columns: []string{"area", "min", "max"}, Rows: [][]string{{"Baguio", "14", ""}, {"Cebu", "", "31"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRaw(strings.NewReader(tt.in))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeRaw mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeRaw_Rejects(t *testing.T) {
	for _, in := range []string{`"text"`, `{"a": {"b": 1}}`, `{"a": [1, [2]]}`, `{`} {
		_, err := DecodeRaw(strings.NewReader(in))
		assert.Error(t, err, in)
	}
}

func TestCSV_HeaderAlwaysWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage", "empty.csv")
	require.NoError(t, WriteCSV(path, core.NewTable("place", "speed")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "place,speed\n", string(data))

	out, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"place", "speed"}, out.Columns)
	assert.Zero(t, out.Len())
}

func TestCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	in := core.NewTable("place", "impact")
	in.Append("Metro Manila", "Flooding, landslides")
	in.Append("Rizal", `"Minor" flooding`)

	require.NoError(t, WriteCSV(path, in))
	out, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadCSV_Missing(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWriteReport(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	path, err := s.WriteReport("daily_weather_forecast", []byte("# Report"), ".md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root, "reports", "daily_weather_forecast.md"), path)
}
