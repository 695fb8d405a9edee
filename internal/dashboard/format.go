package dashboard

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatUptime renders a duration as "1d 02h 03m", dropping leading zero units.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	mins := (total % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %02dh %02dm", days, hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh %02dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// FormatRate formats a bytes-per-second rate, e.g. "1.2 MB/s".
func FormatRate(bytesPerSecond float64) string {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}
	return humanize.Bytes(uint64(bytesPerSecond)) + "/s"
}

// FormatBytes formats a byte count with SI units, matching docker's own output.
func FormatBytes(n uint64) string {
	return humanize.Bytes(n)
}

// FormatAgo renders how long ago t was, or "-" for the zero time.
func FormatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
