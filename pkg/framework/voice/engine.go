// Package voice provides the fixed-size voice pool of the synth.
package voice

import (
	"sync/atomic"

	"github.com/justyntemme/polysynth/pkg/dsp"
	"github.com/justyntemme/polysynth/pkg/dsp/envelope"
	"github.com/justyntemme/polysynth/pkg/dsp/gain"
	"github.com/justyntemme/polysynth/pkg/dsp/oscillator"
	"github.com/justyntemme/polysynth/pkg/midi"
)

// MaxVoices is the number of voice slots in an Engine
const MaxVoices = 16

// Voice is one sounding note: a sine oscillator, its own envelope and the
// identity it was started with.
type Voice struct {
	Channel  int16
	Key      int16
	NoteID   int32
	Velocity float64

	osc oscillator.Oscillator
	env envelope.ADSR
}

func newVoice(settings envelope.Settings, event midi.NoteOnEvent) Voice {
	return Voice{
		Channel:  event.Channel,
		Key:      event.Key,
		NoteID:   event.NoteID,
		Velocity: event.Velocity,
		osc:      oscillator.New(midi.KeyToFrequency(event.Key)),
		env:      envelope.New(settings),
	}
}

// Matches reports whether the voice was started with exactly this identity.
// A missing note id only matches a missing note id.
func (v *Voice) Matches(channel, key int16, noteID int32) bool {
	return v.Channel == channel && v.Key == key && v.NoteID == noteID
}

func (v *Voice) Frequency() float64 {
	return v.osc.Frequency()
}

// Stage returns the stage of the voice envelope
func (v *Voice) Stage() envelope.Stage {
	return v.env.Stage()
}

// Settings returns the envelope snapshot taken when the voice started.
func (v *Voice) Settings() envelope.Settings {
	return v.env.Settings()
}

// Release starts the envelope release
func (v *Voice) Release() {
	v.env.Release()
}

// Process advances the envelope and oscillator by one sample and returns the
// voice output for that sample.
func (v *Voice) Process(sampleRate float64) float32 {
	level := v.env.Process(sampleRate)
	g := gain.VelocityTaper(v.Velocity * level)
	return v.osc.Sine(sampleRate) * float32(g)
}

type slot struct {
	voice    Voice
	occupied bool
}

// Engine owns a fixed pool of MaxVoices slots. New notes take the first free
// slot; when every slot is occupied the note is dropped. Engine is not safe
// for concurrent use: it belongs to the audio thread.
type Engine struct {
	slots      [MaxVoices]slot
	live       [MaxVoices]*Voice
	sampleRate float64

	dropped atomic.Uint64
}

func NewEngine(sampleRate float64) *Engine {
	return &Engine{sampleRate: sampleRate}
}

func (e *Engine) SampleRate() float64 {
	return e.sampleRate
}

// SetSampleRate changes the render rate. Sounding voices keep their phase and
// envelope position.
func (e *Engine) SetSampleRate(sampleRate float64) {
	e.sampleRate = sampleRate
}

// NoteOn starts a voice for event with a copy of settings. It returns false
// when the event targets a wildcard channel or key, or when no slot is free.
func (e *Engine) NoteOn(settings envelope.Settings, event midi.NoteOnEvent) bool {
	if !event.IsSpecific() {
		return false
	}

	for i := range e.slots {
		if !e.slots[i].occupied {
			e.slots[i] = slot{voice: newVoice(settings, event), occupied: true}
			return true
		}
	}

	e.dropped.Add(1)
	return false
}

// NoteOff releases the voice whose channel, key and note id all equal the
// event's. It returns false when no voice matches.
func (e *Engine) NoteOff(event midi.NoteOffEvent) bool {
	for i := range e.slots {
		s := &e.slots[i]
		if s.occupied && s.voice.Matches(event.Channel, event.Key, event.NoteID) {
			s.voice.Release()
			return true
		}
	}
	return false
}

// Render overwrites left and right with the mix of every live voice.
// Voices whose envelope has ended are freed first. No allocations.
func (e *Engine) Render(left, right []float32) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	dsp.Clear(left[:n])
	dsp.Clear(right[:n])

	e.collect()

	live := e.live[:0]
	for i := range e.slots {
		if e.slots[i].occupied {
			live = append(live, &e.slots[i].voice)
		}
	}
	if len(live) == 0 {
		return
	}

	for i := 0; i < n; i++ {
		for _, v := range live {
			sample := v.Process(e.sampleRate)
			left[i] += sample
			right[i] += sample
		}
	}
}

// collect frees the slots of voices that have finished their release.
func (e *Engine) collect() {
	for i := range e.slots {
		if e.slots[i].occupied && e.slots[i].voice.env.IsEnded() {
			e.slots[i] = slot{}
		}
	}
}

// IsActive reports whether any slot holds a voice
func (e *Engine) IsActive() bool {
	for i := range e.slots {
		if e.slots[i].occupied {
			return true
		}
	}
	return false
}

// ActiveVoiceCount returns the number of occupied slots
func (e *Engine) ActiveVoiceCount() int {
	count := 0
	for i := range e.slots {
		if e.slots[i].occupied {
			count++
		}
	}
	return count
}

// Slot returns a copy of the voice in slot i and whether the slot is occupied.
func (e *Engine) Slot(i int) (Voice, bool) {
	if i < 0 || i >= MaxVoices {
		return Voice{}, false
	}
	return e.slots[i].voice, e.slots[i].occupied
}

// Dropped returns how many note-ons were dropped because the pool was full.
// Safe to call from any goroutine.
func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}
