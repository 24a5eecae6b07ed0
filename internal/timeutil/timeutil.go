// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	minutesInAnHour   = 60
	secondsInAMinute  = 60
	millisInASecond   = 1000
	pluralSuffixCount = 1
)

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = int(math.Floor(float64(val) / float64(minutesInAnHour)))
	mins = val % minutesInAnHour

	return
}

// Millis converts d to whole milliseconds.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}

// FromMillis converts a millisecond count back to a duration.
func FromMillis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Nicely renders d for people, e.g. "1 minute 12 seconds" or "8.25 seconds".
// Fractions of a second are only shown below one minute.
func Nicely(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	d = d.Truncate(time.Millisecond)

	totalSecs := int(d / time.Second)
	hrs, mins := MinsToHoursAndMins(totalSecs / secondsInAMinute)
	secs := totalSecs % secondsInAMinute

	var parts []string

	if hrs > 0 {
		parts = append(parts, unit(hrs, "hour"))
	}

	if mins > 0 {
		parts = append(parts, unit(mins, "minute"))
	}

	if hrs == 0 && mins == 0 {
		ms := d.Milliseconds() % millisInASecond
		if ms == 0 {
			return unit(secs, "second")
		}

		f := float64(secs) + float64(ms)/millisInASecond

		return strconv.FormatFloat(f, 'f', -1, 64) + " seconds"
	}

	if secs > 0 {
		parts = append(parts, unit(secs, "second"))
	}

	return strings.Join(parts, " ")
}

func unit(n int, name string) string {
	if n == pluralSuffixCount {
		return fmt.Sprintf("%d %s", n, name)
	}

	return fmt.Sprintf("%d %ss", n, name)
}
