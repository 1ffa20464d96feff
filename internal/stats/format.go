package stats

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNegativeMinutes rejects durations the formatter has no rendering for.
var ErrNegativeMinutes = errors.New("minutes must not be negative")

const (
	minsPerHour = 60
	minsPerDay  = 60 * 24
)

// FormatMinutes renders a minute count as a compact duration string, e.g.
// "1 day 2 hrs 5 mins". Zero components are omitted except for the
// all-zero input, which renders as "0 mins".
func FormatMinutes(minutes int) (string, error) {
	if minutes < 0 {
		return "", ErrNegativeMinutes
	}
	if minutes == 0 {
		return "0 mins", nil
	}

	days := minutes / minsPerDay
	hours := (minutes % minsPerDay) / minsPerHour
	mins := minutes % minsPerHour

	var parts []string
	for _, c := range []struct {
		value int
		unit  string
	}{
		{days, "day"},
		{hours, "hr"},
		{mins, "min"},
	} {
		if c.value == 0 {
			continue
		}
		if c.value == 1 {
			parts = append(parts, fmt.Sprintf("1 %s", c.unit))
		} else {
			parts = append(parts, fmt.Sprintf("%d %ss", c.value, c.unit))
		}
	}

	return strings.Join(parts, " "), nil
}
