package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTime formats seconds as H:MM:SS (e.g. 0:01:30, 1:11:22).
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	mins := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
}

// FormatPrecise formats seconds as M:SS.mmm, with a leading H: once the value
// reaches an hour. Trim boundaries need the milliseconds.
func FormatPrecise(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	hours := ms / 3_600_000
	mins := (ms % 3_600_000) / 60_000
	secs := (ms % 60_000) / 1000
	frac := ms % 1000
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", hours, mins, secs, frac)
	}
	return fmt.Sprintf("%d:%02d.%03d", mins, secs, frac)
}

// ParseTimeToSeconds parses a time string in H:MM:SS, MM:SS, or raw seconds
// format. The last component may carry a fraction ("1:02.5"). Colon count
// decides the format: 2 colons = H:M:S, 1 colon = M:S, 0 colons = seconds.
func ParseTimeToSeconds(timeStr string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) > 3 {
		return 0, parseError(timeStr)
	}

	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || secs < 0 || math.IsInf(secs, 0) || math.IsNaN(secs) {
		return 0, parseError(timeStr)
	}
	if len(parts) > 1 && secs >= 60 {
		return 0, parseError(timeStr)
	}

	total := secs
	multiplier := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return 0, parseError(timeStr)
		}
		if i > 0 && n >= 60 {
			return 0, parseError(timeStr)
		}
		total += float64(n) * multiplier
		multiplier *= 60
	}
	return total, nil
}

func parseError(timeStr string) error {
	return fmt.Errorf("expected HH:MM:SS, MM:SS, or seconds, got '%s'", timeStr)
}
