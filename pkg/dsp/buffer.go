// Package dsp provides digital signal processing utilities for audio
package dsp

import "math"

// Buffer utilities for common audio operations

// Clear zeroes a buffer - no allocations
func Clear(buffer []float32) {
	for i := range buffer {
		buffer[i] = 0
	}
}

// Interleave writes left and right into dst as L,R frames - no allocations.
// It returns the number of frames written.
func Interleave(dst, left, right []float32) int {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	if len(dst)/2 < n {
		n = len(dst) / 2
	}
	for i := 0; i < n; i++ {
		dst[2*i] = left[i]
		dst[2*i+1] = right[i]
	}
	return n
}

// Peak finds the maximum absolute value in a buffer
func Peak(buffer []float32) float32 {
	peak := float32(0)
	for _, sample := range buffer {
		abs := float32(math.Abs(float64(sample)))
		if abs > peak {
			peak = abs
		}
	}
	return peak
}

// RMS calculates the root mean square of a buffer
func RMS(buffer []float32) float32 {
	if len(buffer) == 0 {
		return 0
	}

	sum := float64(0)
	for _, sample := range buffer {
		sum += float64(sample) * float64(sample)
	}

	return float32(math.Sqrt(sum / float64(len(buffer))))
}
