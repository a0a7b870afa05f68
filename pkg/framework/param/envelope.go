package param

import (
	"errors"
	"math"
	"sync"

	"github.com/justyntemme/polysynth/pkg/dsp/envelope"
)

// Envelope parameter ids, in persisted order
const (
	ParamAttack uint32 = iota
	ParamDecay
	ParamSustain
	ParamRelease

	// EnvelopeParamCount is the number of envelope parameters
	EnvelopeParamCount = 4
)

// EnvelopeModule groups the envelope parameters for hosts
const EnvelopeModule = "envelope"

// ErrNonFinite is returned for a NaN or infinite envelope value
var ErrNonFinite = errors.New("non-finite envelope value")

// Envelope is the shared attack/decay/sustain/release configuration. It is
// written by parameter events and read when a voice starts. The lock is only
// ever held to copy four scalars.
type Envelope struct {
	mu       sync.RWMutex
	settings envelope.Settings
}

// NewEnvelope returns a store holding settings
func NewEnvelope(settings envelope.Settings) *Envelope {
	return &Envelope{settings: settings}
}

// Update sets the field addressed by id. Unknown ids and values that are
// not finite at float32 width are ignored and reported as false.
func (e *Envelope) Update(id uint32, value float64) bool {
	v := float32(value)
	if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch id {
	case ParamAttack:
		e.settings.Attack = v
	case ParamDecay:
		e.settings.Decay = v
	case ParamSustain:
		e.settings.Sustain = v
	case ParamRelease:
		e.settings.Release = v
	default:
		return false
	}
	return true
}

// Snapshot returns a copy of the current settings
func (e *Envelope) Snapshot() envelope.Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// Set replaces all four settings at once. Settings with a non-finite field
// are rejected and nothing changes.
func (e *Envelope) Set(settings envelope.Settings) error {
	if !settings.Finite() {
		return ErrNonFinite
	}
	e.mu.Lock()
	e.settings = settings
	e.mu.Unlock()
	return nil
}

// Value returns the field addressed by id
func (e *Envelope) Value(id uint32) (float64, bool) {
	s := e.Snapshot()
	switch id {
	case ParamAttack:
		return float64(s.Attack), true
	case ParamDecay:
		return float64(s.Decay), true
	case ParamSustain:
		return float64(s.Sustain), true
	case ParamRelease:
		return float64(s.Release), true
	}
	return 0, false
}

// NewEnvelopeRegistry describes the four envelope parameters: times in
// seconds and sustain as a level, all ranging 0..1.
func NewEnvelopeRegistry() *Registry {
	d := envelope.DefaultSettings()
	r := NewRegistry()

	// Ids are fixed constants; Add cannot fail here.
	_ = r.Add(
		envelopeParam(ParamAttack, "Attack", d.Attack).Formatter(SecondsFormatter, SecondsParser).Build(),
		envelopeParam(ParamDecay, "Decay", d.Decay).Formatter(SecondsFormatter, SecondsParser).Build(),
		envelopeParam(ParamSustain, "Sustain", d.Sustain).Formatter(PercentFormatter, PercentParser).Build(),
		envelopeParam(ParamRelease, "Release", d.Release).Formatter(SecondsFormatter, SecondsParser).Build(),
	)
	return r
}

func envelopeParam(id uint32, name string, def float32) *Builder {
	return New(id, name).Module(EnvelopeModule).Range(0, 1).Default(float64(def))
}
