package normalize

import (
	"strings"
	"time"
)

// TimeLayout is the canonical timestamp layout: a UTC instant with millisecond
// precision, e.g. 2021-03-04T05:06:07.000Z.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Accepted ISO-8601 input forms. Inputs without a zone are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseTime parses an ISO-8601 date or date-time string.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// CanonicalTime converts an ISO-8601 string to TimeLayout. It reports false
// when s is empty or not a date.
func CanonicalTime(s string) (string, bool) {
	t, ok := ParseTime(s)
	if !ok {
		return "", false
	}
	return FormatTime(t), true
}
