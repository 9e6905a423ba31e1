// Package duration provides the Duration value type and its arithmetic.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
)

// Duration represents a video length as an hours/minutes/seconds triple.
// A normalized Duration keeps minutes and seconds in [0, 60); hours is
// unbounded and absorbs the overflow.
type Duration struct {
	Hours   int
	Minutes int
	Seconds int
}

// Zero is the zero-length duration, substituted for missing or
// unparseable source data.
var Zero = Duration{}

// ptPattern matches the ISO 8601 time notation used by the YouTube API,
// e.g. "PT1H2M10S". Every component is optional.
var ptPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// Parse converts a PT-notation string into a Duration. It is a total
// function: any input that does not conform yields Zero, never an error.
func Parse(text string) Duration {
	m := ptPattern.FindStringSubmatch(text)
	if m == nil {
		return Zero
	}
	return Duration{
		Hours:   atoiOrZero(m[1]),
		Minutes: atoiOrZero(m[2]),
		Seconds: atoiOrZero(m[3]),
	}
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Normalize carries seconds into minutes and minutes into hours so that
// both end up in [0, 60). Normalizing an already-normalized Duration is
// a no-op.
func (d Duration) Normalize() Duration {
	d.Minutes += d.Seconds / 60
	d.Seconds %= 60
	d.Hours += d.Minutes / 60
	d.Minutes %= 60
	return d
}

// Add returns the field-wise sum of two durations without normalizing.
func (d Duration) Add(other Duration) Duration {
	return Duration{
		Hours:   d.Hours + other.Hours,
		Minutes: d.Minutes + other.Minutes,
		Seconds: d.Seconds + other.Seconds,
	}
}

// IsZero reports whether the duration is exactly zero.
func (d Duration) IsZero() bool {
	return d == Zero
}

// Sum folds the given durations into a single normalized total.
// Normalization happens once at the end; the result is the same as
// normalizing after every step.
func Sum(durations ...Duration) Duration {
	total := Zero
	for _, d := range durations {
		total = total.Add(d)
	}
	return total.Normalize()
}

// Format renders the duration as "1h 2m 10s", omitting the hour segment
// when it is zero.
func (d Duration) Format() string {
	if d.Hours == 0 {
		return fmt.Sprintf("%dm %ds", d.Minutes, d.Seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", d.Hours, d.Minutes, d.Seconds)
}
