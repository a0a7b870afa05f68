// Package process provides the per-block processing context of the synth.
package process

import (
	"github.com/justyntemme/polysynth/pkg/midi"
)

// Context carries one audio block: the output channels to fill, the sample
// rate and the input events for the block. Zero allocations after NewContext.
type Context struct {
	Output     [][]float32
	SampleRate float64
	Events     *midi.EventList
}

// NewContext creates a context with an event list of maxEvents capacity
func NewContext(sampleRate float64, maxEvents int) *Context {
	return &Context{
		SampleRate: sampleRate,
		Events:     midi.NewEventList(maxEvents),
	}
}

// NumSamples returns the number of samples to process
func (c *Context) NumSamples() int {
	if len(c.Output) == 0 {
		return 0
	}
	n := len(c.Output[0])
	for _, ch := range c.Output[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}
	return n
}

// NumOutputChannels returns the number of output channels
func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// Clear zeros the output buffers
func (c *Context) Clear() {
	for ch := range c.Output {
		for i := range c.Output[ch] {
			c.Output[ch][i] = 0
		}
	}
}

// AddInputEvent queues an event for this block
func (c *Context) AddInputEvent(event midi.Event) bool {
	return c.Events.Push(event)
}

// Reset drops the block's events
func (c *Context) Reset() {
	c.Events.Reset()
}

// Batches sorts the block's events and returns an iterator over them.
func (c *Context) Batches() BatchIterator {
	c.Events.Sort()
	return NewBatchIterator(c.Events.Events(), c.NumSamples())
}
