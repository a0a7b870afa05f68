// Package sequence turns Standard MIDI Files into sample-timed note events.
package sequence

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/justyntemme/polysynth/pkg/midi"
)

// ErrNoTracks is returned when a file holds no note events in any track
var ErrNoTracks = errors.New("sequence: no note events in tracks")

type timedEvent struct {
	sample int64
	event  midi.Event
}

// Sequence is an immutable list of note events timed in samples at a fixed
// sample rate. Notes from a file carry no note id.
type Sequence struct {
	events     []timedEvent
	sampleRate float64
	length     int64
}

// ReadFile reads the SMF at path
func ReadFile(path string, sampleRate float64) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sequence: %w", err)
	}
	defer f.Close()

	seq, err := Read(f, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return seq, nil
}

// Read decodes every track of an SMF. Tempo changes are honoured; events at
// the same instant keep their file order.
func Read(r io.Reader, sampleRate float64) (*Sequence, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sequence: invalid sample rate %v", sampleRate)
	}

	seq := &Sequence{sampleRate: sampleRate}
	var channel, key, velocity uint8

	reader := smf.ReadTracksFrom(r).Do(func(te smf.TrackEvent) {
		msg := gomidi.Message(te.Message)
		at := seq.toSamples(te.AbsMicroSeconds)

		switch {
		case msg.GetNoteStart(&channel, &key, &velocity):
			seq.add(at, midi.NoteOnEvent{
				Channel:  int16(channel),
				Key:      int16(key),
				NoteID:   midi.NoNoteID,
				Velocity: midi.VelocityFromMIDI(velocity),
			})
		case msg.GetNoteEnd(&channel, &key):
			seq.add(at, midi.NoteOffEvent{
				Channel: int16(channel),
				Key:     int16(key),
				NoteID:  midi.NoNoteID,
			})
		}
	})
	if err := reader.Error(); err != nil {
		return nil, fmt.Errorf("sequence: %w", err)
	}
	if len(seq.events) == 0 {
		return nil, ErrNoTracks
	}

	sort.SliceStable(seq.events, func(i, j int) bool {
		return seq.events[i].sample < seq.events[j].sample
	})
	return seq, nil
}

func (s *Sequence) toSamples(us int64) int64 {
	return int64(math.Round(float64(us) * s.sampleRate / 1e6))
}

func (s *Sequence) add(at int64, event midi.Event) {
	s.events = append(s.events, timedEvent{sample: at, event: event})
	if at+1 > s.length {
		s.length = at + 1
	}
}

func (s *Sequence) SampleRate() float64 {
	return s.sampleRate
}

// Length returns the sample just past the last event
func (s *Sequence) Length() int64 {
	return s.length
}

// Len returns the number of note events
func (s *Sequence) Len() int {
	return len(s.events)
}

// Block pushes the events falling in [start, start+n) into dst with offsets
// relative to start and returns how many were pushed.
func (s *Sequence) Block(start int64, n int, dst *midi.EventList) int {
	end := start + int64(n)
	i := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].sample >= start
	})

	pushed := 0
	for ; i < len(s.events) && s.events[i].sample < end; i++ {
		te := s.events[i]
		if dst.Push(midi.WithOffset(te.event, int32(te.sample-start))) {
			pushed++
		}
	}
	return pushed
}
