package timeago

import (
	"strconv"
	"strings"
	"time"
)

// Unknown is returned for missing or unparseable timestamps.
const Unknown = "Unknown"

// JustNow covers anything under a minute, including timestamps slightly in the future.
const JustNow = "Just now"

// Layouts accepted by Parse, tried in order.
var Layouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Label returns a relative label for ts as seen at now:
// "N day(s) ago", "N hour(s) ago", "N minute(s) ago" or "Just now".
func Label(ts, now time.Time) string {
	if ts.IsZero() {
		return Unknown
	}
	d := now.Sub(ts)
	switch {
	case d >= 24*time.Hour:
		return ago(int(d/(24*time.Hour)), "day")
	case d >= time.Hour:
		return ago(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return ago(int(d/time.Minute), "minute")
	default:
		return JustNow
	}
}

// Parse reads s with Layouts. Naive layouts are read as UTC.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range Layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func ago(n int, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return strconv.Itoa(n) + " " + unit + " ago"
}
