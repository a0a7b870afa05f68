// Package oscillator provides audio oscillators for synthesis
package oscillator

import "math"

// Oscillator is a sine phase accumulator. The phase is the position within
// one cycle and stays in [0, 1).
type Oscillator struct {
	frequency float64
	phase     float64
}

// New creates an oscillator at the given frequency, starting at phase 0.
func New(frequency float64) Oscillator {
	return Oscillator{frequency: frequency}
}

// Frequency returns the oscillator frequency in Hz
func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

// Phase returns the current phase (0-1)
func (o *Oscillator) Phase() float64 {
	return o.phase
}

// updatePhase advances the phase and wraps it
func (o *Oscillator) updatePhase(increment float64) {
	o.phase += increment
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}
}

// Sine returns sin(2π·phase) and advances the phase by frequency/sampleRate.
// No band limiting is applied.
func (o *Oscillator) Sine(sampleRate float64) float32 {
	sample := float32(math.Sin(2.0 * math.Pi * o.phase))
	o.updatePhase(o.frequency / sampleRate)
	return sample
}
