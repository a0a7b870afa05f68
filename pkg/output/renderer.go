// Package output drives the synth block by block and delivers the audio to
// files or sound devices.
package output

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/justyntemme/polysynth/pkg/dsp"
	"github.com/justyntemme/polysynth/pkg/framework/debug"
	"github.com/justyntemme/polysynth/pkg/framework/process"
	"github.com/justyntemme/polysynth/pkg/midi"
	"github.com/justyntemme/polysynth/pkg/plugin"
)

const (
	// MaxBlockEvents is the capacity of the per-block event list
	MaxBlockEvents = 1024
	// LiveQueueSize is the number of events Send can hold between blocks
	LiveQueueSize = 256
)

// Source supplies the timed events of a block. *sequence.Sequence
// implements it.
type Source interface {
	Block(start int64, n int, dst *midi.EventList) int
	Length() int64
}

// BlockWriter consumes rendered stereo blocks
type BlockWriter interface {
	WriteBlock(left, right []float32) error
}

// Renderer runs an activated synth in fixed-size blocks. Events come from an
// optional Source and from Send, which other goroutines may call at any time.
// Everything else belongs to the goroutine that renders.
type Renderer struct {
	synth     *plugin.Synth
	ctx       *process.Context
	left      []float32
	right     []float32
	blockSize int

	source Source
	live   *midi.EventQueue

	pos    int64
	carry  int
	status plugin.Status
	done   atomic.Bool

	meter    *debug.LoadMeter
	analyzer *debug.AudioAnalyzer
}

// NewRenderer creates a renderer for synth, which must already be activated.
// source may be nil.
func NewRenderer(synth *plugin.Synth, blockSize int, source Source) (*Renderer, error) {
	if blockSize < 1 || blockSize > dsp.MaxBufferSize {
		return nil, fmt.Errorf("block size %d out of range 1..%d", blockSize, dsp.MaxBufferSize)
	}
	sampleRate := synth.SampleRate()
	if sampleRate <= 0 {
		return nil, plugin.ErrNotActivated
	}

	r := &Renderer{
		synth:     synth,
		ctx:       process.NewContext(sampleRate, MaxBlockEvents),
		left:      make([]float32, blockSize),
		right:     make([]float32, blockSize),
		blockSize: blockSize,
		source:    source,
		live:      midi.NewEventQueue(LiveQueueSize),
		carry:     blockSize,
		status:    plugin.StatusSleep,
		meter:     debug.NewLoadMeter(sampleRate),
	}
	r.ctx.Output = [][]float32{r.left, r.right}
	return r, nil
}

// SetAnalyzer makes every rendered block feed a, or nothing when a is nil.
func (r *Renderer) SetAnalyzer(a *debug.AudioAnalyzer) {
	r.analyzer = a
}

// Send queues event for the start of the next block. It returns false when
// the queue is full.
func (r *Renderer) Send(event midi.Event) bool {
	return r.live.Add(midi.WithOffset(event, 0))
}

// Next renders one block. The returned slices are reused by the next call.
func (r *Renderer) Next() (left, right []float32, err error) {
	r.ctx.Reset()
	if r.source != nil {
		r.source.Block(r.pos, r.blockSize, r.ctx.Events)
	}
	r.live.TryDrain(r.ctx.Events)

	started := time.Now()
	status, err := r.synth.Process(r.ctx)
	r.meter.Record(time.Since(started), r.blockSize)
	if err != nil {
		return nil, nil, err
	}

	r.status = status
	r.pos += int64(r.blockSize)
	r.carry = r.blockSize
	r.done.Store(r.Finished())
	if r.analyzer != nil {
		r.analyzer.Add(r.left)
		r.analyzer.Add(r.right)
	}
	return r.left, r.right, nil
}

// Fill writes the next frames into left and right, rendering as many blocks
// as needed. Frames of a block that did not fit are returned by the next
// call. Do not mix with Next.
func (r *Renderer) Fill(left, right []float32) error {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	for done := 0; done < n; {
		if r.carry == r.blockSize {
			if _, _, err := r.Next(); err != nil {
				dsp.Clear(left[done:n])
				dsp.Clear(right[done:n])
				return err
			}
			r.carry = 0
		}
		c := copy(left[done:n], r.left[r.carry:])
		copy(right[done:done+c], r.right[r.carry:r.carry+c])
		r.carry += c
		done += c
	}
	return nil
}

// Finished reports whether the source is exhausted and no voice is sounding.
func (r *Renderer) Finished() bool {
	if r.source != nil && r.pos < r.source.Length() {
		return false
	}
	return r.status == plugin.StatusSleep
}

// Done is Finished as of the last rendered block. Safe to call from any
// goroutine.
func (r *Renderer) Done() bool {
	return r.done.Load()
}

// Position returns the number of samples rendered so far
func (r *Renderer) Position() int64 {
	return r.pos
}

func (r *Renderer) BlockSize() int {
	return r.blockSize
}

func (r *Renderer) SampleRate() float64 {
	return r.ctx.SampleRate
}

// Meter returns the processing load of the rendered blocks
func (r *Renderer) Meter() *debug.LoadMeter {
	return r.meter
}

// DroppedEvents returns how many Send calls found the queue full
func (r *Renderer) DroppedEvents() uint64 {
	return r.live.Dropped()
}

// ErrTailTooLong is returned by RenderTo when voices are still sounding
// maxTail samples after the source ended.
var ErrTailTooLong = errors.New("release tail exceeded limit")

// RenderTo renders until r is Finished and writes every block to w. It
// returns the number of samples written.
func RenderTo(r *Renderer, w BlockWriter, maxTail int64) (int64, error) {
	end := int64(0)
	if r.source != nil {
		end = r.source.Length()
	}

	var written int64
	for !r.Finished() || written == 0 {
		if r.pos >= end+maxTail {
			return written, ErrTailTooLong
		}
		left, right, err := r.Next()
		if err != nil {
			return written, fmt.Errorf("render block at %d: %w", r.pos, err)
		}
		if err := w.WriteBlock(left, right); err != nil {
			return written, fmt.Errorf("write block: %w", err)
		}
		written += int64(len(left))
	}
	return written, nil
}
