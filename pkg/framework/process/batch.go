package process

import "github.com/justyntemme/polysynth/pkg/midi"

// BatchIterator splits a block of n samples at the offsets of its events.
// Each batch holds the events sharing one offset and the sample range that
// follows them, up to the next offset or the end of the block. The first
// batch always starts at sample 0, with no events if none are scheduled there.
// Offsets outside [0, n] are clamped. Events must be sorted by offset.
type BatchIterator struct {
	events []midi.Event
	n      int
	pos    int
	start  int
	done   bool
}

// NewBatchIterator returns an iterator over sorted events for a block of n samples
func NewBatchIterator(events []midi.Event, n int) BatchIterator {
	if n < 0 {
		n = 0
	}
	return BatchIterator{events: events, n: n}
}

// Next returns the next batch and the range [start, end) it precedes.
// ok is false once the whole block has been covered.
func (it *BatchIterator) Next() (events []midi.Event, start, end int, ok bool) {
	if it.done {
		return nil, 0, 0, false
	}

	begin := it.pos
	for it.pos < len(it.events) && it.offset(it.pos) <= it.start {
		it.pos++
	}

	end = it.n
	if it.pos < len(it.events) {
		end = it.offset(it.pos)
	}

	events = it.events[begin:it.pos]
	start = it.start
	it.start = end
	if it.pos == len(it.events) && end == it.n {
		it.done = true
	}
	return events, start, end, true
}

func (it *BatchIterator) offset(i int) int {
	o := int(it.events[i].SampleOffset())
	if o < 0 {
		return 0
	}
	if o > it.n {
		return it.n
	}
	return o
}
