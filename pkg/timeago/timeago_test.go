package timeago

import (
	"testing"
	"time"
)

func TestLabel(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "Just now"},
		{59 * time.Second, "Just now"},
		{time.Minute, "1 minute ago"},
		{2*time.Minute + 30*time.Second, "2 minutes ago"},
		{59 * time.Minute, "59 minutes ago"},
		{time.Hour, "1 hour ago"},
		{23*time.Hour + 59*time.Minute, "23 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{72*time.Hour + time.Hour, "3 days ago"},
		{-5 * time.Minute, "Just now"},
	}
	for _, tt := range tests {
		if got := Label(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("Label(now-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestLabelIsStable(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	ts := now.Add(-90 * time.Minute)
	first := Label(ts, now)
	for i := 0; i < 3; i++ {
		if got := Label(ts, now); got != first {
			t.Fatalf("Label changed between calls: %q then %q", first, got)
		}
	}
}

func TestLabelZeroIsUnknown(t *testing.T) {
	if got := Label(time.Time{}, time.Now()); got != Unknown {
		t.Errorf("got %q, want %q", got, Unknown)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2025-06-10 11:00:00", time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC), true},
		{"2025-06-10 11:00:00.25", time.Date(2025, 6, 10, 11, 0, 0, 250000000, time.UTC), true},
		{"2025-06-10T13:58:00+02:00", time.Date(2025, 6, 10, 11, 58, 0, 0, time.UTC), true},
		{" 2025-06-08 ", time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
