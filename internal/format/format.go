package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// isoDuration matches the subset of ISO-8601 durations the Data API emits
// for contentDetails.duration (days are rare but possible for live streams).
var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

type durationParts struct {
	hours, minutes, seconds int
}

func parseDuration(iso string) (durationParts, bool) {
	m := isoDuration.FindStringSubmatch(strings.TrimSpace(iso))
	if m == nil {
		return durationParts{}, false
	}
	atoi := func(s string) int {
		if s == "" {
			return 0
		}
		n, _ := strconv.Atoi(s)
		return n
	}
	return durationParts{
		hours:   atoi(m[1])*24 + atoi(m[2]),
		minutes: atoi(m[3]),
		seconds: atoi(m[4]),
	}, true
}

// Duration converts an ISO-8601 duration such as "PT1H2M3S" into "1h 2m 3s".
// Zero components are omitted; a duration of zero renders as "0s". Empty or
// unparseable input yields "unknown".
func Duration(iso string) string {
	if iso == "" {
		return "unknown"
	}
	d, ok := parseDuration(iso)
	if !ok {
		return "unknown"
	}

	var parts []string
	if d.hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", d.hours))
	}
	if d.minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", d.minutes))
	}
	if d.seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", d.seconds))
	}
	return strings.Join(parts, " ")
}

// Count abbreviates large counters: 1500 -> "1.5K", 2300000 -> "2.3M".
func Count(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1e9)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1e3)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// IsLikelyShort guesses whether a video is a Short from its duration alone.
// Anything with an hour component, or without a duration, is not a Short.
func IsLikelyShort(iso string) bool {
	if iso == "" {
		return false
	}
	d, ok := parseDuration(iso)
	if !ok || d.hours > 0 {
		return false
	}
	return d.minutes*60+d.seconds <= 60
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
