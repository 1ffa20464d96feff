package stats_test

import (
	"errors"
	"testing"

	"task-time-tracker/backend/internal/stats"
)

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "0 mins"},
		{1, "1 min"},
		{2, "2 mins"},
		{35, "35 mins"},
		{59, "59 mins"},
		{60, "1 hr"},
		{61, "1 hr 1 min"},
		{65, "1 hr 5 mins"},
		{120, "2 hrs"},
		{150, "2 hrs 30 mins"},
		{60 * 24, "1 day"},
		{60*24 + 1, "1 day 1 min"},
		{60*24 + 60, "1 day 1 hr"},
		{60*48 + 125, "2 days 2 hrs 5 mins"},
	}

	for _, tc := range cases {
		got, err := stats.FormatMinutes(tc.minutes)
		if err != nil {
			t.Fatalf("FormatMinutes(%d): unexpected error: %v", tc.minutes, err)
		}
		if got != tc.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestFormatMinutes_Negative(t *testing.T) {
	_, err := stats.FormatMinutes(-1)
	if !errors.Is(err, stats.ErrNegativeMinutes) {
		t.Errorf("FormatMinutes(-1) error = %v, want ErrNegativeMinutes", err)
	}
}
