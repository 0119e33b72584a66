package util

import (
	"strconv"
	"time"
)

// ParsePeriod tries "2006-01" (monthly), "2006" (annual), RFC3339, and unix
// seconds. Returns (t, true) if any worked.
func ParsePeriod(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParsePeriodDefault parses a period or returns default if empty/invalid.
func ParsePeriodDefault(s string, def time.Time) time.Time {
	if t, ok := ParsePeriod(s); ok {
		return t
	}
	return def
}

// FormatPeriod renders a period label for the frequency string
// ("annual" gives "2006", everything else "2006-01").
func FormatPeriod(t time.Time, freq string) string {
	if freq == "annual" {
		return t.UTC().Format("2006")
	}
	return t.UTC().Format("2006-01")
}
