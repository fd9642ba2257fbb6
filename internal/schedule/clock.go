package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether s is a well-formed 24-hour "HH:mm" string.
// Callers that accept clock strings from the outside should reject bad
// input here; the arithmetic below stays total and lenient.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// MinutesOfDay converts an "HH:mm" string to minutes since midnight.
// Malformed input yields 0 by convention.
func MinutesOfDay(clock string) int {
	h, m, ok := splitClock(clock)
	if !ok {
		return 0
	}
	return h*60 + m
}

// ClockOfMinutes is the inverse of MinutesOfDay. Values outside a single
// day are wrapped modulo 24h; appointments are intra-day so this only
// matters for defensive callers.
func ClockOfMinutes(m int) string {
	m %= minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Duration returns end minus start in minutes. A non-positive result means
// the interval is invalid and must be rejected by the caller.
func Duration(start, end string) int {
	return MinutesOfDay(end) - MinutesOfDay(start)
}

// AddMinutes returns the clock string d minutes after start.
func AddMinutes(start string, d int) string {
	return ClockOfMinutes(MinutesOfDay(start) + d)
}

// HourLabel formats an (hour, minute) pair as a grid label.
func HourLabel(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func splitClock(clock string) (h, m int, ok bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err = strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
