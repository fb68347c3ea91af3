package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func span(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestParseTimeSpan(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		start time.Time
		end   time.Time
	}{
		{
			name:  "same day end time only",
			in:    "2024.05.01 18:00 - 20:00",
			start: span(2024, time.May, 1, 18, 0),
			end:   span(2024, time.May, 1, 20, 0),
		},
		{
			name:  "short end date inherits year",
			in:    "2024.05.01 18:00 - 05.02 01:00",
			start: span(2024, time.May, 1, 18, 0),
			end:   span(2024, time.May, 2, 1, 0),
		},
		{
			name:  "full end date",
			in:    "2024.12.30 10:00 - 2025.01.02 17:00",
			start: span(2024, time.December, 30, 10, 0),
			end:   span(2025, time.January, 2, 17, 0),
		},
		{
			name:  "weekday noise stripped",
			in:    "2024.05.01(Wed) 18:00 - 2024.05.01(Wed) 20:00",
			start: span(2024, time.May, 1, 18, 0),
			end:   span(2024, time.May, 1, 20, 0),
		},
		{
			name:  "ragged internal whitespace",
			in:    "2024.05.01  18:00  -  20:00",
			start: span(2024, time.May, 1, 18, 0),
			end:   span(2024, time.May, 1, 20, 0),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end, ok := ParseTimeSpan(tc.in)
			assert.True(t, ok)
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
		})
	}
}

func TestParseTimeSpanRejectsFreeForm(t *testing.T) {
	inputs := []string{
		"",
		"TBD",
		"每日 10:00 - 18:00",
		"2024.5.1 18:00 - 20:00",
		"18:00 - 20:00",
		"2024.05.01 18:00",
	}

	for _, in := range inputs {
		_, _, ok := ParseTimeSpan(in)
		assert.False(t, ok, "input %q", in)
	}
}
