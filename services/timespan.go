package services

import (
	"regexp"
	"strings"
	"time"
)

var (
	// a leading 3-letter weekday parenthetical, e.g. "(Sat)", is noise
	weekdayPattern = regexp.MustCompile(`\([A-Za-z]{3}\)`)

	// the three end shapes are tried in priority order: full date+time,
	// short date+time (year inherited), time-only (full date inherited)
	spanPattern = regexp.MustCompile(
		`^(?P<startDate>\d{4}\.\d{2}\.\d{2}\s*)` +
			`(?P<startTime>\d{2}:\d{2})` +
			`\s*-\s*` +
			`(?:` +
			`(?P<endFull>\d{4}\.\d{2}\.\d{2}\s*\d{2}:\d{2})` +
			`|(?P<endShort>\d{2}\.\d{2}\s*\d{2}:\d{2})` +
			`|(?P<endTime>\d{2}:\d{2})` +
			`)`)

	spaceRun     = regexp.MustCompile(`\s+`)
	shortRewrite = regexp.MustCompile(`(\d{4}) (\d{2}\.\d{2})`)
)

const spanLayout = "2006.01.02 15:04"

// ParseTimeSpan extracts the (start, end) pair from a compound range string.
// ok is false when the text matches none of the recognized shapes; that is
// an expected outcome for free-form rows, not an error. All string rewriting
// finishes before any structured parsing starts.
func ParseTimeSpan(text string) (start, end time.Time, ok bool) {
	text = weekdayPattern.ReplaceAllString(text, "")

	m := spanPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}

	group := func(name string) string {
		return m[spanPattern.SubexpIndex(name)]
	}

	startDate := group("startDate")
	startText := normalizeSpanText(startDate + " " + group("startTime"))

	var endText string
	switch {
	case group("endFull") != "":
		endText = group("endFull")
	case group("endShort") != "":
		endText = startDate[:4] + " " + group("endShort")
	default:
		endText = startDate + " " + group("endTime")
	}
	endText = normalizeSpanText(endText)
	endText = shortRewrite.ReplaceAllString(endText, "$1.$2")

	startTime, startErr := time.Parse(spanLayout, startText)
	endTime, endErr := time.Parse(spanLayout, endText)
	if startErr != nil || endErr != nil {
		return time.Time{}, time.Time{}, false
	}
	return startTime, endTime, true
}

// normalizeSpanText collapses internal whitespace runs to single spaces.
func normalizeSpanText(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
