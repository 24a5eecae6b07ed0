package timeutil

import (
	"testing"
	"time"
)

func TestNicely(t *testing.T) {
	testCases := []struct {
		D    time.Duration
		Want string
	}{
		{D: 0, Want: "0 seconds"},
		{D: time.Second, Want: "1 second"},
		{D: 8 * time.Second, Want: "8 seconds"},
		{D: 8250 * time.Millisecond, Want: "8.25 seconds"},
		{D: 72 * time.Second, Want: "1 minute 12 seconds"},
		{D: 2 * time.Minute, Want: "2 minutes"},
		{D: time.Hour + 3*time.Minute + 1500*time.Millisecond, Want: "1 hour 3 minutes 1 second"},
		{D: -time.Second, Want: "0 seconds"},
	}

	for _, tc := range testCases {
		got := Nicely(tc.D)
		if got != tc.Want {
			t.Errorf("Nicely(%v): expected %q, but got %q", tc.D, tc.Want, got)
		}
	}
}

func TestMillisRoundTrip(t *testing.T) {
	d := 12345 * time.Millisecond

	if got := FromMillis(Millis(d)); got != d {
		t.Errorf("expected %v, but got %v", d, got)
	}
}

func TestMinsToHoursAndMins(t *testing.T) {
	hrs, mins := MinsToHoursAndMins(135)
	if hrs != 2 || mins != 15 {
		t.Errorf("expected 2h15m, but got %dh%dm", hrs, mins)
	}
}
