// Package envelope provides the per-voice ADSR amplitude envelope.
package envelope

import "math"

// Stage represents the current envelope stage
type Stage int

const (
	// StageAttack ramps linearly from 0 to 1
	StageAttack Stage = iota
	// StageDecay ramps linearly from 1 to the sustain level
	StageDecay
	// StageSustain holds the sustain level until release
	StageSustain
	// StageRelease ramps from the sustain level to 0
	StageRelease
	// StageEnded is terminal and always yields 0
	StageEnded
)

func (s Stage) String() string {
	switch s {
	case StageAttack:
		return "Attack"
	case StageDecay:
		return "Decay"
	case StageSustain:
		return "Sustain"
	case StageRelease:
		return "Release"
	case StageEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// Settings is a frozen envelope configuration. Times are in seconds, Sustain is a gain level.
// Fields are float32 because that is the width the parameters are persisted at.
type Settings struct {
	Attack  float32
	Decay   float32
	Sustain float32
	Release float32
}

// DefaultSettings returns 10ms attack, 100ms decay, 0.8 sustain and 100ms release.
func DefaultSettings() Settings {
	return Settings{
		Attack:  0.01,
		Decay:   0.1,
		Sustain: 0.8,
		Release: 0.1,
	}
}

// StageSamples converts a stage time to a whole number of samples, at least one,
// so zero or negative times never divide by zero and every ramp lands exactly
// on its end value. The count is rounded and so differs from the raw
// seconds*sampleRate. A non-finite count is treated as one sample.
func StageSamples(seconds float32, sampleRate float64) float64 {
	n := math.Round(float64(seconds) * sampleRate)
	if !(n >= 1) || math.IsInf(n, 1) {
		return 1
	}
	return n
}

// Finite reports whether no field is NaN or infinite
func (s Settings) Finite() bool {
	for _, v := range [...]float32{s.Attack, s.Decay, s.Sustain, s.Release} {
		if !finite(v) {
			return false
		}
	}
	return true
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ADSR is a linear Attack-Decay-Sustain-Release state machine. The stage and
// its elapsed sample counter form the state; it is a plain value so voices can
// embed it without allocation.
type ADSR struct {
	settings Settings
	stage    Stage
	elapsed  float64
}

// New returns an envelope at the start of its attack stage.
func New(settings Settings) ADSR {
	return ADSR{
		settings: settings,
		stage:    StageAttack,
	}
}

// Settings returns the configuration the envelope was created with.
func (e *ADSR) Settings() Settings {
	return e.settings
}

// Stage returns the current envelope stage
func (e *ADSR) Stage() Stage {
	return e.stage
}

// Elapsed returns the sample counter of the current stage.
func (e *ADSR) Elapsed() float64 {
	return e.elapsed
}

// IsEnded reports whether the envelope has finished its release.
func (e *ADSR) IsEnded() bool {
	return e.stage == StageEnded
}

// Release restarts the release stage from the sustain level. Calling it again
// restarts the ramp; it is not idempotent.
func (e *ADSR) Release() {
	e.stage = StageRelease
	e.elapsed = 0
}

// Process advances the envelope by one sample and returns the gain for that sample.
func (e *ADSR) Process(sampleRate float64) float64 {
	sustain := float64(e.settings.Sustain)

	switch e.stage {
	case StageAttack:
		n := StageSamples(e.settings.Attack, sampleRate)
		out := e.elapsed / n
		e.advance(n, StageDecay)
		return out

	case StageDecay:
		n := StageSamples(e.settings.Decay, sampleRate)
		out := 1 - (1-sustain)*(e.elapsed/n)
		e.advance(n, StageSustain)
		return out

	case StageSustain:
		return sustain

	case StageRelease:
		n := StageSamples(e.settings.Release, sampleRate)
		out := sustain * (1 - e.elapsed/n)
		e.advance(n, StageEnded)
		return out
	}

	return 0
}

// advance moves to next once the counter has reached n, otherwise counts one more sample.
func (e *ADSR) advance(n float64, next Stage) {
	if e.elapsed >= n {
		e.stage = next
		e.elapsed = 0
		return
	}
	e.elapsed++
}
