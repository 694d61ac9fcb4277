package qbank

import (
	"regexp"
	"strings"
	"time"
)

var (
	unsafeChars    = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// SanitizeName turns an arbitrary name into a safe, stable directory
// segment: every character outside [A-Za-z0-9_-] becomes an underscore,
// runs of underscores collapse to one, and leading/trailing underscores
// are stripped. The transformation is idempotent.
func SanitizeName(name string) string {
	s := unsafeChars.ReplaceAllString(name, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// isoLayouts are the timestamp shapes the userscript has been observed to
// send, most specific first.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp (a trailing "Z" is
// accepted as UTC). Missing or unparseable input falls back to the
// current wall-clock time; ParseTimestamp never fails.
func ParseTimestamp(timestamp string) time.Time {
	if timestamp != "" {
		for _, layout := range isoLayouts {
			if parsed, err := time.Parse(layout, timestamp); err == nil {
				return parsed
			}
		}
	}
	return time.Now()
}

// YearMonth returns the four-digit year and zero-padded month of an
// ISO-8601 timestamp, for use as path segments.
func YearMonth(timestamp string) (year, month string) {
	t := ParseTimestamp(timestamp)
	return t.Format("2006"), t.Format("01")
}
