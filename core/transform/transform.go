// Package transform turns raw topic tables into their staged form.
// Every function takes an already trimmed table and returns a new one.
package transform

import (
	"slices"
	"strings"

	"github.com/gaurav-prasanna/pagasapipe/core"
	"github.com/gaurav-prasanna/pagasapipe/core/normalize"
)

// ColSpeedCategory is appended to wind condition tables.
const ColSpeedCategory = "speed_category"

// timePrefix marks temperature/humidity columns holding a clock reading.
const timePrefix = "time_of_"

// Strip trims every cell of t.
func Strip(t core.Table) core.Table {
	return t.Map(func(_, v string) string { return normalize.StripAndDefault(v) })
}

// IssuedDateTime appends issued_date and issued_time parsed from the
// issued_datetime column. Unparseable values leave the new fields empty.
func IssuedDateTime(t core.Table) (core.Table, []error) {
	var errs []error
	out := t.WithColumns([]string{core.ColIssuedDate, core.ColIssuedTime}, func(row []string) []string {
		c := t.Index(core.ColIssuedDateTime)
		if c < 0 || row[c] == "" {
			return nil
		}
		date, clock, err := normalize.IssuedDateTime(row[c])
		if err != nil {
			errs = append(errs, err)
		}
		return []string{date, clock}
	})
	return out, errs
}

// ExplodePlaces emits one row per place listed in the place column; the
// other fields are copied to every exploded row.
func ExplodePlaces(t core.Table) (core.Table, []error) {
	c := t.Index(core.ColPlace)
	if c < 0 {
		return t, nil
	}
	out := core.NewTable(t.Columns...)
	out.Single = t.Single
	for _, row := range t.Rows {
		places := normalize.ExplodePlaces(row[c])
		if len(places) == 0 {
			out.Append(row...)
			continue
		}
		for _, p := range places {
			exploded := slices.Clone(row)
			exploded[c] = p
			out.Append(exploded...)
		}
	}
	return out, nil
}

// WindCategories appends the strongest wind speed category of each row.
func WindCategories(t core.Table) (core.Table, []error) {
	c := t.Index("speed")
	return t.WithColumns([]string{ColSpeedCategory}, func(row []string) []string {
		if c < 0 {
			return nil
		}
		return []string{normalize.WindSpeedCategory(row[c])}
	}), nil
}

// Times24Hour converts every time_of_* column to HH:MM:SS. Unparseable
// readings become "".
func Times24Hour(t core.Table) (core.Table, []error) {
	var errs []error
	out := t.Map(func(column, v string) string {
		if !strings.HasPrefix(column, timePrefix) || v == "" {
			return v
		}
		clock, err := normalize.To24Hour(v)
		if err != nil {
			errs = append(errs, err)
			return ""
		}
		return clock
	})
	return out, errs
}
