package plugin

import (
	"errors"
	"fmt"
	"io"

	"github.com/justyntemme/polysynth/pkg/dsp"
	"github.com/justyntemme/polysynth/pkg/framework/bus"
	"github.com/justyntemme/polysynth/pkg/framework/debug"
	"github.com/justyntemme/polysynth/pkg/framework/param"
	"github.com/justyntemme/polysynth/pkg/framework/plugin"
	"github.com/justyntemme/polysynth/pkg/framework/process"
	"github.com/justyntemme/polysynth/pkg/framework/voice"
	"github.com/justyntemme/polysynth/pkg/midi"
)

// ParamQueueSize is the number of parameter changes that can wait for the
// next block.
const ParamQueueSize = 256

var (
	// ErrNotActivated is returned by Process before Activate
	ErrNotActivated = errors.New("synth not activated")
	// ErrNoStereoOutput is returned when the context has fewer than two channels
	ErrNoStereoOutput = errors.New("stereo output required")
)

// DefaultInfo describes the polyphonic sine synth
func DefaultInfo() plugin.Info {
	return plugin.Info{
		ID:       "com.justyntemme.polysynth",
		Name:     "PolySynth",
		Version:  "1.0.0",
		Vendor:   "justyntemme",
		Features: []string{plugin.FeatureInstrument, plugin.FeatureSynthesizer, plugin.FeatureStereo},
	}
}

// Synth is a 16-voice sine synthesizer with a shared ADSR envelope.
type Synth struct {
	*plugin.Base

	engine *voice.Engine
	queue  *midi.EventQueue
	// pending receives queued parameter changes at the start of each block
	pending *midi.EventList
	log     *debug.Logger

	activated bool
}

var _ Instrument = (*Synth)(nil)

// NewSynth creates a synth with default envelope settings. It must be
// activated before it renders.
func NewSynth(info plugin.Info) *Synth {
	return &Synth{
		Base:    plugin.NewBase(info),
		engine:  voice.NewEngine(0),
		queue:   midi.NewEventQueue(ParamQueueSize),
		pending: midi.NewEventList(ParamQueueSize),
		log:     debug.Default().With("synth"),
	}
}

// SetLogger replaces the logger used for lifecycle messages
func (s *Synth) SetLogger(l *debug.Logger) {
	s.log = l
}

func (s *Synth) GetInfo() plugin.Info {
	return s.Info
}

func (s *Synth) GetParameters() *param.Registry {
	return s.Parameters()
}

func (s *Synth) GetBuses() *bus.Configuration {
	return s.Buses()
}

// Activate sets the render rate. Sounding voices are kept.
func (s *Synth) Activate(sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("activate: invalid sample rate %v", sampleRate)
	}
	s.SetSampleRate(sampleRate)
	s.engine.SetSampleRate(sampleRate)
	s.activated = true
	s.log.Debug("activated at %.0f Hz", sampleRate)
	return nil
}

// Deactivate stops rendering until the next Activate
func (s *Synth) Deactivate() {
	s.activated = false
}

// Process renders one block. Queued parameter changes are applied first,
// then the block's events are applied at their sample offsets, rendering
// the samples between them.
func (s *Synth) Process(ctx *process.Context) (Status, error) {
	if !s.activated {
		ctx.Clear()
		return StatusSleep, ErrNotActivated
	}
	if ctx.NumOutputChannels() < dsp.Stereo {
		ctx.Clear()
		return StatusSleep, ErrNoStereoOutput
	}

	s.drainParams()

	n := ctx.NumSamples()
	left, right := ctx.Output[0][:n], ctx.Output[1][:n]

	it := ctx.Batches()
	for {
		events, start, end, ok := it.Next()
		if !ok {
			break
		}
		for _, event := range events {
			s.HandleEvent(event)
		}
		s.engine.Render(left[start:end], right[start:end])
	}

	// Channels past the stereo pair stay silent.
	for _, ch := range ctx.Output[dsp.Stereo:] {
		dsp.Clear(ch)
	}

	if s.engine.IsActive() {
		return StatusContinue, nil
	}
	return StatusSleep, nil
}

// drainParams applies parameter changes queued by other goroutines. When a
// producer holds the queue the changes wait for the next block.
func (s *Synth) drainParams() {
	s.pending.Reset()
	if n, _ := s.queue.TryDrain(s.pending); n == 0 {
		return
	}
	for _, event := range s.pending.Events() {
		if p, ok := event.(midi.ParamValueEvent); ok {
			s.ApplyParam(p.ParamID, p.Value)
		}
	}
	s.pending.Reset()
}

// HandleEvent applies one event. Unknown event types are ignored.
func (s *Synth) HandleEvent(event midi.Event) {
	switch e := event.(type) {
	case midi.NoteOnEvent:
		s.NoteOn(e)
	case midi.NoteOffEvent:
		s.NoteOff(e)
	case midi.ParamValueEvent:
		s.ApplyParam(e.ParamID, e.Value)
	}
}

// NoteOn starts a voice with the envelope settings current at this instant.
func (s *Synth) NoteOn(event midi.NoteOnEvent) bool {
	return s.engine.NoteOn(s.Envelope().Snapshot(), event)
}

// NoteOff releases the voice with the event's exact identity
func (s *Synth) NoteOff(event midi.NoteOffEvent) bool {
	return s.engine.NoteOff(event)
}

// IsActive reports whether any voice is sounding
func (s *Synth) IsActive() bool {
	return s.engine.IsActive()
}

// ActiveVoices returns the number of sounding voices
func (s *Synth) ActiveVoices() int {
	return s.engine.ActiveVoiceCount()
}

// QueueParam schedules a parameter change for the start of the next block.
// It returns false when the queue is full.
func (s *Synth) QueueParam(id uint32, value float64) bool {
	return s.queue.Add(midi.ParamValueEvent{ParamID: id, Value: value})
}

// ApplyParam sets a parameter now. Voices already sounding keep the settings
// they started with. Unknown ids are ignored and reported as false.
func (s *Synth) ApplyParam(id uint32, value float64) bool {
	return s.Envelope().Update(id, value)
}

// Flush applies the parameter events in events, ignoring everything else.
func (s *Synth) Flush(events []midi.Event) {
	for _, event := range events {
		if p, ok := event.(midi.ParamValueEvent); ok {
			s.ApplyParam(p.ParamID, p.Value)
		}
	}
}

func (s *Synth) GetValue(id uint32) (float64, bool) {
	return s.Envelope().Value(id)
}

func (s *Synth) ValueToText(id uint32, value float64) (string, error) {
	return s.Parameters().FormatValue(id, value)
}

func (s *Synth) TextToValue(id uint32, text string) (float64, error) {
	return s.Parameters().ParseValue(id, text)
}

// SaveState writes the envelope settings
func (s *Synth) SaveState(w io.Writer) error {
	return s.State().Save(w)
}

// LoadState replaces the envelope settings; on error nothing changes.
func (s *Synth) LoadState(r io.Reader) error {
	if err := s.State().Load(r); err != nil {
		return err
	}
	s.log.Debug("state loaded: %+v", s.Envelope().Snapshot())
	return nil
}

// DroppedNotes returns how many note-ons found no free voice
func (s *Synth) DroppedNotes() uint64 {
	return s.engine.Dropped()
}

// DroppedParams returns how many queued parameter changes were rejected
func (s *Synth) DroppedParams() uint64 {
	return s.queue.Dropped()
}
