// Package plugin holds the metadata and shared state every synth instance carries.
package plugin

import (
	"github.com/justyntemme/polysynth/pkg/dsp/envelope"
	"github.com/justyntemme/polysynth/pkg/framework/bus"
	"github.com/justyntemme/polysynth/pkg/framework/param"
	"github.com/justyntemme/polysynth/pkg/framework/state"
)

// Base provides the pieces shared between the main and audio threads: the
// parameter metadata, the envelope store, state persistence and port layout.
type Base struct {
	Info     Info
	params   *param.Registry
	envelope *param.Envelope
	state    *state.Manager
	buses    *bus.Configuration

	sampleRate float64
}

// NewBase creates a new plugin base with default envelope settings
func NewBase(info Info) *Base {
	b := &Base{
		Info:     info,
		params:   param.NewEnvelopeRegistry(),
		envelope: param.NewEnvelope(envelope.DefaultSettings()),
		buses:    bus.NewInstrument(),
	}

	// Initialize state manager with the envelope store
	b.state = state.NewManager(b.envelope)

	return b
}

// Parameters returns the parameter registry
func (b *Base) Parameters() *param.Registry {
	return b.params
}

// Envelope returns the shared envelope store
func (b *Base) Envelope() *param.Envelope {
	return b.envelope
}

// State returns the state manager
func (b *Base) State() *state.Manager {
	return b.state
}

// Buses returns the port layout
func (b *Base) Buses() *bus.Configuration {
	return b.buses
}

// SampleRate returns the rate set by the last activation, 0 before that
func (b *Base) SampleRate() float64 {
	return b.sampleRate
}

// SetSampleRate records the rate the host activated the plugin at
func (b *Base) SetSampleRate(sampleRate float64) {
	b.sampleRate = sampleRate
}
