// Package gain provides amplitude and gain-related DSP operations.
package gain

import (
	"math"
)

// MinDB is the minimum dB value (effectively -infinity)
const MinDB = -200.0

// VelocityTaper maps a combined velocity*envelope level in 0..1 to an
// exponential loudness curve: 10^(level-1), so 0 gives 0.1 and 1 gives unity.
func VelocityTaper(level float64) float64 {
	return math.Pow(10, level-1)
}

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return MinDB
	}
	return 20.0 * math.Log10(linear)
}

// HardClip applies hard clipping to limit signal amplitude.
func HardClip(input, threshold float32) float32 {
	if input > threshold {
		return threshold
	}
	if input < -threshold {
		return -threshold
	}
	return input
}
