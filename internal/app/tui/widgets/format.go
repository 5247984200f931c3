package widgets

import (
	"fmt"
	"strings"
	"time"
)

// FormatAgo formats a duration as a human-readable age string
func FormatAgo(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	if hours > 0 {
		return fmt.Sprintf("%dd%dh", days, hours)
	}
	return fmt.Sprintf("%dd", days)
}

// FormatSince renders ts relative to now, e.g. "3h ago".
func FormatSince(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return FormatAgo(now.Sub(ts)) + " ago"
}

// FormatTime formats a timestamp for display
func FormatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format("2006-01-02 15:04")
}

// FormatDate formats a timestamp as a calendar date.
func FormatDate(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format("2006-01-02")
}

// TruncateString truncates a string to a maximum length
func TruncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

// Humanize turns identifiers like "training_center" into "training center".
func Humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// ClampInt clamps a value between min and max
func ClampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Safe returns the first non-empty string
func Safe(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
