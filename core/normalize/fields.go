// Package normalize — pure field normalizers. No I/O.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gaurav-prasanna/pagasapipe/core"
)

var months = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

var (
	issuedPrefix = regexp.MustCompile(`(?i)^issued\s*(at|on)?\s*:?\s*`)
	clock12      = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*([ap])\.?\s*m\.?$`)
	clock24      = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	andToken     = regexp.MustCompile(`(?:^|\s+)and(?:\s+|$)`)
)

// MonthNumber maps a full or three-letter month name, in any case, to its
// two-digit number.
func MonthNumber(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if n, ok := months[key]; ok {
		return fmt.Sprintf("%02d", n), true
	}
	if len(key) >= 3 {
		for full, n := range months {
			if strings.HasPrefix(full, key) {
				return fmt.Sprintf("%02d", n), true
			}
		}
	}
	return "", false
}

// IssuedDateTime splits "H:MM AM/PM, Month D, YYYY" into an ISO date
// (YYYY-MM-DD) and a 24-hour time (HH:MM:SS). A leading "Issued at:" label,
// a weekday and the day-first "D Month YYYY" order are tolerated. Whatever
// part parses is returned alongside a *core.ParseValueError for the rest.
func IssuedDateTime(raw string) (date, clock string, err error) {
	s := issuedPrefix.ReplaceAllString(CollapseSpaces(raw), "")
	if s == "" {
		return "", "", &core.ParseValueError{Field: core.ColIssuedDateTime, Value: raw}
	}

	timePart, datePart, found := strings.Cut(s, ",")
	if !found {
		return "", "", &core.ParseValueError{Field: core.ColIssuedDateTime, Value: raw, Err: fmt.Errorf("missing \", \" separator")}
	}

	clock, timeErr := To24Hour(timePart)
	date, dateErr := isoDate(datePart)
	switch {
	case dateErr != nil:
		return date, clock, &core.ParseValueError{Field: core.ColIssuedDate, Value: raw, Err: dateErr}
	case timeErr != nil:
		return date, clock, &core.ParseValueError{Field: core.ColIssuedTime, Value: raw, Err: timeErr}
	}
	return date, clock, nil
}

func isoDate(s string) (string, error) {
	var month, day, year string
	for _, tok := range strings.Fields(strings.ReplaceAll(s, ",", " ")) {
		lower := strings.ToLower(tok)
		switch {
		case weekdays[lower]:
		case isDigits(tok) && len(tok) == 4:
			year = tok
		case isDigits(tok) && len(tok) <= 2:
			day = tok
		default:
			if m, ok := MonthNumber(tok); ok {
				month = m
			} else {
				return "", fmt.Errorf("unexpected token %q", tok)
			}
		}
	}
	if month == "" || day == "" || year == "" {
		return "", fmt.Errorf("incomplete date %q", strings.TrimSpace(s))
	}
	d, _ := strconv.Atoi(day)
	iso := fmt.Sprintf("%s-%s-%02d", year, month, d)
	if _, err := time.Parse(time.DateOnly, iso); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", iso, err)
	}
	return iso, nil
}

// To24Hour converts a 12-hour clock reading ("3 PM", "3:00 PM", "12 a.m.")
// into "HH:MM:SS". Values already in 24-hour form pass through normalized.
func To24Hour(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if m := clock24.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		sec := 0
		if m[3] != "" {
			sec, _ = strconv.Atoi(m[3])
		}
		if h > 23 || mins > 59 || sec > 59 {
			return "", &core.ParseValueError{Field: "time", Value: raw}
		}
		return fmt.Sprintf("%02d:%02d:%02d", h, mins, sec), nil
	}

	m := clock12.FindStringSubmatch(s)
	if m == nil {
		return "", &core.ParseValueError{Field: "time", Value: raw}
	}
	h, _ := strconv.Atoi(m[1])
	mins := 0
	if m[2] != "" {
		mins, _ = strconv.Atoi(m[2])
	}
	if h < 1 || h > 12 || mins > 59 {
		return "", &core.ParseValueError{Field: "time", Value: raw}
	}
	pm := strings.EqualFold(m[3], "p")
	switch {
	case pm && h != 12:
		h += 12
	case !pm && h == 12:
		h = 0
	}
	return fmt.Sprintf("%02d:%02d:00", h, mins), nil
}

// ExplodePlaces splits a compound place list on commas and the word "and".
// A non-empty input always yields at least one place.
func ExplodePlaces(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	var places []string
	for _, p := range strings.Split(andToken.ReplaceAllString(s, ","), ",") {
		if p = strings.TrimSpace(p); p != "" {
			places = append(places, p)
		}
	}
	if len(places) == 0 {
		return []string{s}
	}
	return places
}

// StripAndDefault coerces v to trimmed text. Nil becomes "".
func StripAndDefault(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case fmt.Stringer:
		return strings.TrimSpace(x.String())
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// CollapseSpaces trims s and folds every whitespace run into one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// windScale is ordered strongest first.
var windScale = []struct{ word, category string }{
	{"storm", "Storm"},
	{"gale", "Gale"},
	{"strong", "Strong"},
	{"moderate", "Moderate"},
	{"light", "Light"},
}

// WindSpeedCategory returns the strongest Beaufort descriptor mentioned in a
// wind speed description, or "" when none is present.
func WindSpeedCategory(speed string) string {
	lower := strings.ToLower(speed)
	for _, w := range windScale {
		if strings.Contains(lower, w.word) {
			return w.category
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
