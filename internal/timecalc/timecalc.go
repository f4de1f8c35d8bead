package timecalc

import (
	"fmt"
	"time"
)

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Parse reads a punch stamp in any of the accepted layouts. An empty value
// yields the zero time with no error.
func Parse(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, nil
	}
	for _, layout := range localLayouts {
		parsed, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return parsed, nil
		}
	}
	if parsed, err := time.Parse("15:04", value); err == nil {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location()), nil
	}
	return time.Time{}, fmt.Errorf("invalid time format")
}

// Hours returns the elapsed time between punch-in and punch-out in fractional
// hours. Either stamp missing or unparseable yields 0. A punch-out before
// punch-in yields a negative value; the result is never clamped.
func Hours(punchIn, punchOut string) float64 {
	in, err := Parse(punchIn)
	if err != nil || in.IsZero() {
		return 0
	}
	out, err := Parse(punchOut)
	if err != nil || out.IsZero() {
		return 0
	}
	return out.Sub(in).Hours()
}
