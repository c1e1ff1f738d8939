// Package dailycode derives the six-digit attendance code shown on the admin screen.
//
// The code is a pure function of the calendar date so every node agrees on it
// without coordination. It is an anti-casual-misuse measure, not a secret.
package dailycode

import (
	"fmt"
	"math"
	"time"
)

// Length is the number of digits in a code.
const Length = 6

// Generate returns the code for the calendar date of t, read in t's own location.
func Generate(t time.Time) string {
	year, month, day := t.Date()
	seed := day * int(month) * (year % 100)
	value := int(math.Floor((math.Sin(float64(seed))*0.5 + 0.5) * 1_000_000))
	return fmt.Sprintf("%06d", value)
}

// Validate reports whether input equals the code for t's calendar date.
func Validate(input string, t time.Time) bool {
	return input == Generate(t)
}

// ExpiresAt returns the next local midnight after t, when the code for t stops being valid.
func ExpiresAt(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, t.Location())
}
