// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package timecode holds optional speech times in seconds.
package timecode

import (
	"fmt"
	"math"
)

// Time is a point on the speech timeline that may be unset.
// The zero value is unset.
type Time struct {
	sec   float64
	valid bool
}

// None is the unset time.
var None = Time{}

// At returns a set time at sec seconds.
func At(sec float64) Time {
	return Time{sec: sec, valid: true}
}

// Valid reports whether the time is set.
func (t Time) Valid() bool { return t.valid }

// Seconds returns the time in seconds and whether it is set.
func (t Time) Seconds() (float64, bool) { return t.sec, t.valid }

// Equal reports whether both times are unset or both are set to the same
// instant.
func (t Time) Equal(o Time) bool {
	if t.valid != o.valid {
		return false
	}
	return !t.valid || t.sec == o.sec
}

// Format renders a set time with one decimal place. Unset times render empty.
func (t Time) Format() string {
	if !t.valid {
		return ""
	}
	// Avoid "-0.0" for tiny negative rounding noise.
	if math.Abs(t.sec) < 0.05 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", t.sec)
}

// String implements fmt.Stringer.
func (t Time) String() string {
	if !t.valid {
		return "none"
	}
	return t.Format()
}

// Ptr converts an optional float (as decoded from YAML) into a Time.
func Ptr(sec *float64) Time {
	if sec == nil {
		return None
	}
	return At(*sec)
}
