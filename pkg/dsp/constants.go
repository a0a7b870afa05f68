// Package dsp provides digital signal processing utilities and algorithms.
package dsp

// Common audio constants used by the synth and its hosts.
const (
	// Channel counts
	Mono   = 1
	Stereo = 2

	// Common sample rates
	SampleRate44k1 = 44100.0
	SampleRate48k  = 48000.0
	SampleRate96k  = 96000.0

	// Buffer sizes
	MinBufferSize     = 32
	DefaultBufferSize = 512
	MaxBufferSize     = 8192

	// Clipping threshold used when converting to fixed-point output
	ClipThreshold = 0.999
)
