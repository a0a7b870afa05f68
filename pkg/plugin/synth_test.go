package plugin

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/justyntemme/polysynth/pkg/dsp/envelope"
	"github.com/justyntemme/polysynth/pkg/framework/param"
	"github.com/justyntemme/polysynth/pkg/framework/process"
	"github.com/justyntemme/polysynth/pkg/framework/state"
	"github.com/justyntemme/polysynth/pkg/midi"
)

const sampleRate = 48000.0

func newActiveSynth(t *testing.T) *Synth {
	t.Helper()
	s := NewSynth(DefaultInfo())
	if err := s.Activate(sampleRate); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	return s
}

func newContext(n int) *process.Context {
	ctx := process.NewContext(sampleRate, 64)
	ctx.Output = [][]float32{make([]float32, n), make([]float32, n)}
	return ctx
}

func noteOnAt(offset int32, key int16) midi.NoteOnEvent {
	return midi.NoteOnEvent{
		BaseEvent: midi.BaseEvent{Offset: offset},
		Channel:   0,
		Key:       key,
		NoteID:    midi.NoNoteID,
		Velocity:  1,
	}
}

func TestProcessRequiresActivation(t *testing.T) {
	s := NewSynth(DefaultInfo())
	ctx := newContext(64)
	ctx.Output[0][0] = 1

	status, err := s.Process(ctx)
	if !errors.Is(err, ErrNotActivated) {
		t.Errorf("Expected ErrNotActivated, got %v", err)
	}
	if status != StatusSleep {
		t.Errorf("Expected Sleep, got %v", status)
	}
	if ctx.Output[0][0] != 0 {
		t.Error("Expected output cleared")
	}
	if err := s.Activate(0); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}

func TestProcessRequiresStereo(t *testing.T) {
	s := newActiveSynth(t)
	ctx := process.NewContext(sampleRate, 8)
	ctx.Output = [][]float32{make([]float32, 64)}

	if _, err := s.Process(ctx); !errors.Is(err, ErrNoStereoOutput) {
		t.Errorf("Expected ErrNoStereoOutput, got %v", err)
	}
}

func TestProcessSampleAccurateNoteOn(t *testing.T) {
	s := newActiveSynth(t)
	ctx := newContext(256)
	ctx.AddInputEvent(noteOnAt(100, 57))

	status, err := s.Process(ctx)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if status != StatusContinue {
		t.Errorf("Expected Continue, got %v", status)
	}

	for i := 0; i <= 100; i++ {
		if ctx.Output[0][i] != 0 {
			t.Fatalf("Output before the note at sample %d: %f", i, ctx.Output[0][i])
		}
	}
	// Sample 100 is the voice's first, sin(0) = 0; 101 is the first non-zero.
	if ctx.Output[0][101] == 0 {
		t.Error("Expected sound right after the note-on offset")
	}
	for i := range ctx.Output[0] {
		if ctx.Output[0][i] != ctx.Output[1][i] {
			t.Fatalf("Channels differ at sample %d", i)
		}
	}
}

func TestProcessSleepsWhenSilent(t *testing.T) {
	s := newActiveSynth(t)
	ctx := newContext(128)

	status, err := s.Process(ctx)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if status != StatusSleep {
		t.Errorf("Expected Sleep with no voices, got %v", status)
	}
	if s.IsActive() {
		t.Error("Expected synth to be inactive")
	}
}

func TestProcessClearsExtraChannels(t *testing.T) {
	s := newActiveSynth(t)
	ctx := process.NewContext(sampleRate, 8)
	ctx.Output = [][]float32{make([]float32, 16), make([]float32, 16), {1, 1, 1}}
	s.NoteOn(noteOnAt(0, 60))

	if _, err := s.Process(ctx); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	for i, v := range ctx.Output[2] {
		if v != 0 {
			t.Errorf("Extra channel sample %d not cleared: %f", i, v)
		}
	}
}

func TestParamEventAppliesBeforeLaterNote(t *testing.T) {
	s := newActiveSynth(t)
	ctx := newContext(64)
	ctx.AddInputEvent(noteOnAt(0, 60))
	ctx.AddInputEvent(midi.ParamValueEvent{BaseEvent: midi.BaseEvent{Offset: 10}, ParamID: param.ParamAttack, Value: 0.5})
	ctx.AddInputEvent(noteOnAt(20, 62))

	if _, err := s.Process(ctx); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	first, _ := s.engine.Slot(0)
	second, _ := s.engine.Slot(1)
	if first.Settings().Attack != 0.01 {
		t.Errorf("Earlier voice picked up later parameter change: %f", first.Settings().Attack)
	}
	if second.Settings().Attack != 0.5 {
		t.Errorf("Later voice missed parameter change: %f", second.Settings().Attack)
	}
}

func TestQueueParamAppliedNextBlock(t *testing.T) {
	s := newActiveSynth(t)

	if !s.QueueParam(param.ParamSustain, 0.25) {
		t.Fatal("Expected param to be queued")
	}
	if v, _ := s.GetValue(param.ParamSustain); v == 0.25 {
		t.Fatal("Queued param applied before processing")
	}

	if _, err := s.Process(newContext(32)); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if v, _ := s.GetValue(param.ParamSustain); v != 0.25 {
		t.Errorf("Expected sustain 0.25 after block, got %f", v)
	}
}

func TestQueueParamOverflow(t *testing.T) {
	s := NewSynth(DefaultInfo())
	for i := 0; i < ParamQueueSize; i++ {
		s.QueueParam(param.ParamAttack, 0.1)
	}
	if s.QueueParam(param.ParamAttack, 0.1) {
		t.Error("Expected full queue to reject param")
	}
	if s.DroppedParams() != 1 {
		t.Errorf("Expected 1 dropped param, got %d", s.DroppedParams())
	}
}

func TestApplyParamUnknownID(t *testing.T) {
	s := NewSynth(DefaultInfo())
	if s.ApplyParam(42, 1) {
		t.Error("Expected unknown param id to be ignored")
	}
	if s.Envelope().Snapshot() != envelope.DefaultSettings() {
		t.Error("Unknown param changed settings")
	}
}

func TestNonFiniteParamsKeepOutputFinite(t *testing.T) {
	s := newActiveSynth(t)
	if s.ApplyParam(param.ParamAttack, math.NaN()) {
		t.Error("Expected NaN attack to be rejected")
	}
	if v, _ := s.GetValue(param.ParamAttack); math.IsNaN(v) {
		t.Error("Expected attack to keep its value")
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, []float32{float32(math.NaN()), 0.1, 0.8, 0.1})
	if err := s.LoadState(&buf); !errors.Is(err, param.ErrNonFinite) {
		t.Errorf("Expected ErrNonFinite, got %v", err)
	}

	ctx := newContext(512)
	ctx.AddInputEvent(noteOnAt(0, 57))
	ctx.AddInputEvent(noteOnAt(5, 60))
	for block := 0; block < 20; block++ {
		if _, err := s.Process(ctx); err != nil {
			t.Fatalf("Process failed: %v", err)
		}
		for i, v := range ctx.Output[0] {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("Block %d sample %d not finite: %f", block, i, v)
			}
		}
		ctx.Reset()
	}
}

func TestFlushAppliesOnlyParams(t *testing.T) {
	s := newActiveSynth(t)
	s.Flush([]midi.Event{
		midi.ParamValueEvent{ParamID: param.ParamRelease, Value: 0.7},
		noteOnAt(0, 60),
	})

	if v, _ := s.GetValue(param.ParamRelease); float32(v) != 0.7 {
		t.Errorf("Expected release 0.7, got %f", v)
	}
	if s.IsActive() {
		t.Error("Flush must not start notes")
	}
}

func TestDroppedNotes(t *testing.T) {
	s := newActiveSynth(t)
	for i := 0; i < 17; i++ {
		s.NoteOn(noteOnAt(0, int16(40+i)))
	}
	if s.ActiveVoices() != 16 {
		t.Errorf("Expected 16 voices, got %d", s.ActiveVoices())
	}
	if s.DroppedNotes() != 1 {
		t.Errorf("Expected 1 dropped note, got %d", s.DroppedNotes())
	}
}

func TestStateRoundTrip(t *testing.T) {
	a := NewSynth(DefaultInfo())
	a.ApplyParam(param.ParamAttack, 0.123)
	a.ApplyParam(param.ParamSustain, 0.456)

	var buf bytes.Buffer
	if err := a.SaveState(&buf); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	b := NewSynth(DefaultInfo())
	if err := b.LoadState(&buf); err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if a.Envelope().Snapshot() != b.Envelope().Snapshot() {
		t.Errorf("Round trip mismatch: %+v vs %+v", a.Envelope().Snapshot(), b.Envelope().Snapshot())
	}

	if err := b.LoadState(bytes.NewReader([]byte{1, 2, 3})); !errors.Is(err, state.ErrShortState) {
		t.Errorf("Expected ErrShortState, got %v", err)
	}
}

func TestParameterText(t *testing.T) {
	s := NewSynth(DefaultInfo())

	text, err := s.ValueToText(param.ParamSustain, 0.8)
	if err != nil || text != "80.00 %" {
		t.Errorf("ValueToText = %q, %v", text, err)
	}
	v, err := s.TextToValue(param.ParamDecay, "0.30 s")
	if err != nil || v != 0.3 {
		t.Errorf("TextToValue = %f, %v", v, err)
	}
	if _, err := s.ValueToText(9, 0); !errors.Is(err, param.ErrUnknownParameter) {
		t.Errorf("Expected ErrUnknownParameter, got %v", err)
	}
	if _, ok := s.GetValue(9); ok {
		t.Error("Expected GetValue to reject unknown id")
	}
}

func TestPortsAndInfo(t *testing.T) {
	s := NewSynth(DefaultInfo())
	if err := s.GetInfo().Validate(); err != nil {
		t.Errorf("Default info invalid: %v", err)
	}
	if s.GetBuses().MainOutputChannels() != 2 {
		t.Error("Expected stereo main output")
	}
	if s.GetParameters().Count() != 4 {
		t.Errorf("Expected 4 parameters, got %d", s.GetParameters().Count())
	}
}

func TestProcessDoesNotAllocate(t *testing.T) {
	s := newActiveSynth(t)
	ctx := newContext(512)
	for i := 0; i < 8; i++ {
		s.NoteOn(noteOnAt(0, int16(50+i)))
	}
	off := midi.Event(midi.NoteOffEvent{BaseEvent: midi.BaseEvent{Offset: 10}, Channel: 0, Key: 99, NoteID: midi.NoNoteID})
	change := midi.Event(midi.ParamValueEvent{BaseEvent: midi.BaseEvent{Offset: 20}, ParamID: 1, Value: 0.2})

	allocs := testing.AllocsPerRun(100, func() {
		ctx.Reset()
		ctx.AddInputEvent(off)
		ctx.AddInputEvent(change)
		s.Process(ctx)
	})
	if allocs != 0 {
		t.Errorf("Expected 0 allocations per block, got %f", allocs)
	}
}

func TestStatusString(t *testing.T) {
	if StatusContinue.String() != "Continue" || StatusSleep.String() != "Sleep" || Status(5).String() != "Unknown" {
		t.Error("Unexpected status strings")
	}
}
