package debug

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

// LoadMeter measures render time against the duration of the audio rendered.
// A load of 1 means rendering takes exactly real time. Record is lock-free
// and may be called from the audio thread; the readers may run anywhere.
type LoadMeter struct {
	sampleRate float64

	blocks atomic.Uint64
	frames atomic.Uint64
	busy   atomic.Int64  // nanoseconds
	worst  atomic.Uint64 // float64 bits of the highest single-block load
}

func NewLoadMeter(sampleRate float64) *LoadMeter {
	return &LoadMeter{sampleRate: sampleRate}
}

// Record adds one block of frames that took elapsed to render.
func (m *LoadMeter) Record(elapsed time.Duration, frames int) {
	if frames <= 0 {
		return
	}
	m.blocks.Add(1)
	m.frames.Add(uint64(frames))
	m.busy.Add(int64(elapsed))

	load := m.load(elapsed, uint64(frames))
	for {
		old := m.worst.Load()
		if load <= math.Float64frombits(old) {
			return
		}
		if m.worst.CompareAndSwap(old, math.Float64bits(load)) {
			return
		}
	}
}

// Load returns the average load over all recorded blocks.
func (m *LoadMeter) Load() float64 {
	return m.load(time.Duration(m.busy.Load()), m.frames.Load())
}

// Worst returns the load of the slowest block.
func (m *LoadMeter) Worst() float64 {
	return math.Float64frombits(m.worst.Load())
}

// Blocks returns the number of recorded blocks.
func (m *LoadMeter) Blocks() uint64 {
	return m.blocks.Load()
}

// AudioDuration returns the length of the audio recorded so far.
func (m *LoadMeter) AudioDuration() time.Duration {
	if m.sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(m.frames.Load()) * float64(time.Second) / m.sampleRate)
}

func (m *LoadMeter) load(elapsed time.Duration, frames uint64) float64 {
	if frames == 0 || m.sampleRate <= 0 {
		return 0
	}
	audio := float64(frames) * float64(time.Second) / m.sampleRate
	return float64(elapsed) / audio
}

// Report formats the totals for a log line.
func (m *LoadMeter) Report() string {
	return fmt.Sprintf("blocks=%d audio=%s load=%.2f%% worst=%.2f%%",
		m.Blocks(), m.AudioDuration().Round(time.Millisecond), m.Load()*100, m.Worst()*100)
}
