package schedule

import (
	"fmt"
	"testing"
)

func TestMinutesOfDay(t *testing.T) {
	tests := []struct {
		clock string
		want  int
	}{
		{"00:00", 0},
		{"07:00", 420},
		{"09:30", 570},
		{"17:45", 1065},
		{"23:59", 1439},
		// malformed input degrades to midnight
		{"", 0},
		{"nonsense", 0},
		{"25:00", 0},
		{"12:75", 0},
	}
	for _, tt := range tests {
		if got := MinutesOfDay(tt.clock); got != tt.want {
			t.Errorf("MinutesOfDay(%q) = %d, want %d", tt.clock, got, tt.want)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	// every valid HH:mm survives the round trip
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			clock := fmt.Sprintf("%02d:%02d", h, m)
			if got := ClockOfMinutes(MinutesOfDay(clock)); got != clock {
				t.Fatalf("round trip %q -> %q", clock, got)
			}
		}
	}
}

func TestClockOfMinutesWraps(t *testing.T) {
	tests := []struct {
		m    int
		want string
	}{
		{0, "00:00"},
		{570, "09:30"},
		{1440, "00:00"},
		{1500, "01:00"},
		{-30, "23:30"},
	}
	for _, tt := range tests {
		if got := ClockOfMinutes(tt.m); got != tt.want {
			t.Errorf("ClockOfMinutes(%d) = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestDurationConsistency(t *testing.T) {
	pairs := [][2]string{
		{"09:00", "10:00"},
		{"07:30", "07:31"},
		{"00:00", "23:59"},
		{"13:15", "14:45"},
	}
	for _, p := range pairs {
		d := Duration(p[0], p[1])
		if got := AddMinutes(p[0], d); got != p[1] {
			t.Errorf("AddMinutes(%q, Duration(%q, %q)) = %q, want %q", p[0], p[0], p[1], got, p[1])
		}
	}
}

func TestValidClock(t *testing.T) {
	valid := []string{"00:00", "07:30", "23:59", "18:00"}
	invalid := []string{"24:00", "7:30", "12:60", "12:3", "ab:cd", "", "12-30"}

	for _, s := range valid {
		if !ValidClock(s) {
			t.Errorf("ValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if ValidClock(s) {
			t.Errorf("ValidClock(%q) = true, want false", s)
		}
	}
}
