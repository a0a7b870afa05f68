package debug

import (
	"fmt"
	"math"

	"github.com/justyntemme/polysynth/pkg/dsp/gain"
)

// AudioAnalyzer accumulates level statistics over any number of buffers.
// Feed it with Add and read the totals with Result.
type AudioAnalyzer struct {
	clippingThreshold float32
	silenceThreshold  float32

	count      int
	peak       float32
	sum        float64
	sumSquares float64
	clipped    int
	nonFinite  int
	crossings  int
	last       float32
}

// NewAudioAnalyzer creates an analyzer that flags samples at or above 0.99
// as clipping and an RMS below 0.0001 as silence.
func NewAudioAnalyzer() *AudioAnalyzer {
	return &AudioAnalyzer{
		clippingThreshold: 0.99,
		silenceThreshold:  0.0001,
	}
}

// AnalysisResult contains the results of audio buffer analysis.
type AnalysisResult struct {
	Samples        int
	Peak           float32
	RMS            float32
	DC             float32
	Clipping       bool
	ClippedSamples int
	Silent         bool
	// NaN or infinite samples; they are excluded from the other figures
	NonFinite     int
	ZeroCrossings int
}

// String summarizes the result on one line.
func (r AnalysisResult) String() string {
	peakDB := gain.LinearToDb(float64(r.Peak))
	return fmt.Sprintf("samples=%d peak=%.4f (%.1f dBFS) rms=%.4f dc=%.5f clipped=%d nonfinite=%d",
		r.Samples, r.Peak, peakDB, r.RMS, r.DC, r.ClippedSamples, r.NonFinite)
}

// Add folds buffer into the running statistics.
func (a *AudioAnalyzer) Add(buffer []float32) {
	for _, sample := range buffer {
		s := float64(sample)
		if math.IsNaN(s) || math.IsInf(s, 0) {
			a.nonFinite++
			continue
		}

		abs := sample
		if abs < 0 {
			abs = -abs
		}
		if abs > a.peak {
			a.peak = abs
		}
		if abs >= a.clippingThreshold {
			a.clipped++
		}

		a.sum += s
		a.sumSquares += s * s

		if a.count > 0 && (a.last < 0) != (sample < 0) {
			a.crossings++
		}
		a.last = sample
		a.count++
	}
}

// Result returns the statistics of everything added since the last Reset.
func (a *AudioAnalyzer) Result() AnalysisResult {
	r := AnalysisResult{
		Samples:        a.count + a.nonFinite,
		Peak:           a.peak,
		ClippedSamples: a.clipped,
		Clipping:       a.clipped > 0,
		NonFinite:      a.nonFinite,
		ZeroCrossings:  a.crossings,
	}
	if a.count > 0 {
		r.RMS = float32(math.Sqrt(a.sumSquares / float64(a.count)))
		r.DC = float32(a.sum / float64(a.count))
	}
	r.Silent = r.RMS < a.silenceThreshold
	return r
}

// Reset clears the running statistics.
func (a *AudioAnalyzer) Reset() {
	*a = AudioAnalyzer{
		clippingThreshold: a.clippingThreshold,
		silenceThreshold:  a.silenceThreshold,
	}
}

// Analyze returns the statistics of buffer alone.
func (a *AudioAnalyzer) Analyze(buffer []float32) AnalysisResult {
	a.Reset()
	a.Add(buffer)
	return a.Result()
}

// CheckBuffer reports problems that should never reach an output device.
func CheckBuffer(buffer []float32, name string) []string {
	var issues []string
	result := NewAudioAnalyzer().Analyze(buffer)

	if result.NonFinite > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d non-finite values", name, result.NonFinite))
	}
	if result.Peak > 1.0 {
		issues = append(issues, fmt.Sprintf("%s: peak exceeds 1.0 (%.3f)", name, result.Peak))
	}
	return issues
}
