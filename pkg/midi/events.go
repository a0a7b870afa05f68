// Package midi defines the note and parameter events consumed by the synth core.
package midi

import (
	"fmt"
	"math"
)

type EventType uint8

const (
	EventTypeNoteOff EventType = iota
	EventTypeNoteOn
	EventTypeParamValue
)

func (t EventType) String() string {
	switch t {
	case EventTypeNoteOff:
		return "NoteOff"
	case EventTypeNoteOn:
		return "NoteOn"
	case EventTypeParamValue:
		return "ParamValue"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

const (
	// Wildcard as a channel or key matches any value. The core rejects it on note-on.
	Wildcard int16 = -1
	// NoNoteID marks an event or voice without a note id.
	NoNoteID int32 = -1
)

type Event interface {
	Type() EventType
	SampleOffset() int32
	String() string
}

type BaseEvent struct {
	Offset int32
}

func (e BaseEvent) SampleOffset() int32 {
	return e.Offset
}

// NoteOnEvent starts a note. Velocity is normalized to 0..1.
type NoteOnEvent struct {
	BaseEvent
	Channel  int16
	Key      int16
	NoteID   int32
	Velocity float64
}

func (e NoteOnEvent) Type() EventType {
	return EventTypeNoteOn
}

// IsSpecific reports whether both channel and key name a single value.
func (e NoteOnEvent) IsSpecific() bool {
	return e.Channel != Wildcard && e.Key != Wildcard
}

func (e NoteOnEvent) String() string {
	return fmt.Sprintf("NoteOn{ch:%d, key:%d, id:%d, vel:%.3f, offset:%d}",
		e.Channel, e.Key, e.NoteID, e.Velocity, e.Offset)
}

type NoteOffEvent struct {
	BaseEvent
	Channel  int16
	Key      int16
	NoteID   int32
	Velocity float64
}

func (e NoteOffEvent) Type() EventType {
	return EventTypeNoteOff
}

func (e NoteOffEvent) String() string {
	return fmt.Sprintf("NoteOff{ch:%d, key:%d, id:%d, vel:%.3f, offset:%d}",
		e.Channel, e.Key, e.NoteID, e.Velocity, e.Offset)
}

// ParamValueEvent sets a plain parameter value.
type ParamValueEvent struct {
	BaseEvent
	ParamID uint32
	Value   float64
}

func (e ParamValueEvent) Type() EventType {
	return EventTypeParamValue
}

func (e ParamValueEvent) String() string {
	return fmt.Sprintf("ParamValue{id:%d, val:%.4f, offset:%d}", e.ParamID, e.Value, e.Offset)
}

// WithOffset returns a copy of event moved to the given sample offset.
func WithOffset(event Event, offset int32) Event {
	switch e := event.(type) {
	case NoteOnEvent:
		e.Offset = offset
		return e
	case NoteOffEvent:
		e.Offset = offset
		return e
	case ParamValueEvent:
		e.Offset = offset
		return e
	}
	return event
}

// ReferenceKey is the key that sounds at ReferenceFrequency.
const (
	ReferenceKey       = 57
	ReferenceFrequency = 440.0
)

// KeyToFrequency maps a key index to Hz with 12 keys per octave around ReferenceKey.
func KeyToFrequency(key int16) float64 {
	return ReferenceFrequency * math.Pow(2, (float64(key)-ReferenceKey)/12.0)
}

// VelocityFromMIDI scales a 7-bit MIDI velocity to 0..1.
func VelocityFromMIDI(velocity uint8) float64 {
	if velocity > 127 {
		velocity = 127
	}
	return float64(velocity) / 127.0
}

func NoteNumberToName(note uint8) string {
	noteNames := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	octave := int(note/12) - 1
	noteName := noteNames[note%12]
	return fmt.Sprintf("%s%d", noteName, octave)
}
