// Package dates normalizes the heterogeneous date strings found in baseline
// and report payloads into local calendar dates.
package dates

import (
	"strconv"
	"strings"
	"time"
)

// Fallback layouts tried after the two exact forms. All are parsed in the
// local location so a date never shifts across a day boundary.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParseFlexible parses a date string into a local calendar date.
// Strings matching DD-MM-YYYY or YYYY-MM-DD exactly are constructed from
// their explicit components, never through a generic timestamp parse.
// Anything else falls through to a list of common layouts. The second
// return value is false when the input is unparseable.
func ParseFlexible(v string) (time.Time, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return time.Time{}, false
	}

	if d, m, y, ok := splitDashed(s, 2, 2, 4); ok {
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local), true
	}
	if y, m, d, ok := splitDashed(s, 4, 2, 2); ok {
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local), true
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// splitDashed matches a three-part dash-separated numeric string with the
// given digit widths and returns the parts in input order.
func splitDashed(s string, w1, w2, w3 int) (int, int, int, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != w1 || len(parts[1]) != w2 || len(parts[2]) != w3 {
		return 0, 0, 0, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, false
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], true
}

// CanonicalKey formats a date as a sortable YYYY-MM-DD key using local
// calendar fields.
func CanonicalKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ShortLabel formats a date as the DD-MM-YY display form.
func ShortLabel(t time.Time) string {
	return t.Format("02-01-06")
}

// Compare orders two raw date strings. Both parseable: by calendar instant.
// Only one parseable: it sorts first. Neither: lexicographic.
func Compare(a, b string) int {
	ta, okA := ParseFlexible(a)
	tb, okB := ParseFlexible(b)

	switch {
	case okA && okB:
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(a, b)
}

// Truncate drops the time-of-day component, leaving local midnight.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the whole-day distance from 'from' to 'to', both
// truncated to local midnight. Negative when 'to' is in the past.
func DaysUntil(from, to time.Time) int {
	return int(Truncate(to).Sub(Truncate(from)).Hours() / 24)
}
