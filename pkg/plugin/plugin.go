// Package plugin is the boundary between a host and the synth core.
package plugin

import (
	"io"

	"github.com/justyntemme/polysynth/pkg/framework/bus"
	"github.com/justyntemme/polysynth/pkg/framework/param"
	"github.com/justyntemme/polysynth/pkg/framework/plugin"
	"github.com/justyntemme/polysynth/pkg/framework/process"
	"github.com/justyntemme/polysynth/pkg/midi"
)

// Status tells the host whether the next block must be rendered.
type Status int

const (
	// StatusContinue means at least one voice is sounding
	StatusContinue Status = iota
	// StatusSleep means the output is silent until the next note-on
	StatusSleep
)

func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "Continue"
	case StatusSleep:
		return "Sleep"
	default:
		return "Unknown"
	}
}

// Instrument is what a host drives: lifecycle, events, rendering, parameters
// and state. Process, NoteOn, NoteOff and IsActive belong to the audio
// thread; the rest may be called from any goroutine.
type Instrument interface {
	// GetInfo returns plugin metadata
	GetInfo() plugin.Info

	// Activate prepares rendering at sampleRate
	Activate(sampleRate float64) error

	// Process renders one block - ZERO ALLOCATIONS!
	Process(ctx *process.Context) (Status, error)

	NoteOn(event midi.NoteOnEvent) bool
	NoteOff(event midi.NoteOffEvent) bool
	IsActive() bool

	// QueueParam hands a parameter change to the audio thread
	QueueParam(id uint32, value float64) bool
	// ApplyParam changes a parameter immediately
	ApplyParam(id uint32, value float64) bool
	// Flush applies parameter events while not processing
	Flush(events []midi.Event)

	GetParameters() *param.Registry
	GetValue(id uint32) (float64, bool)
	ValueToText(id uint32, value float64) (string, error)
	TextToValue(id uint32, text string) (float64, error)

	GetBuses() *bus.Configuration

	SaveState(w io.Writer) error
	LoadState(r io.Reader) error
}
