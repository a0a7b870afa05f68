package midi

import (
	"sync"
)

// EventQueue is a bounded multi-producer queue drained by the audio thread.
// Producers may block briefly on each other; the consumer never blocks.
type EventQueue struct {
	events   []Event
	mu       sync.Mutex
	capacity int
	dropped  uint64
}

func NewEventQueue(capacity int) *EventQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &EventQueue{
		events:   make([]Event, 0, capacity),
		capacity: capacity,
	}
}

// Add appends event, returning false when the queue is full.
func (q *EventQueue) Add(event Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) >= q.capacity {
		q.dropped++
		return false
	}
	q.events = append(q.events, event)
	return true
}

// TryDrain moves queued events into dst without waiting for the lock.
// When a producer holds the lock, dst is returned unchanged and ok is false;
// the events stay queued for the next call.
func (q *EventQueue) TryDrain(dst *EventList) (n int, ok bool) {
	if !q.mu.TryLock() {
		return 0, false
	}
	defer q.mu.Unlock()

	for _, event := range q.events {
		if !dst.Push(event) {
			break
		}
		n++
	}
	// Keep whatever dst had no room for.
	remaining := copy(q.events, q.events[n:])
	for i := remaining; i < len(q.events); i++ {
		q.events[i] = nil
	}
	q.events = q.events[:remaining]
	return n, true
}

// Dropped returns how many events were rejected because the queue was full.
func (q *EventQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// EventList is the pre-allocated list of events delivered with one audio block.
type EventList struct {
	events  []Event
	dropped int
}

func NewEventList(capacity int) *EventList {
	return &EventList{
		events: make([]Event, 0, capacity),
	}
}

// Push appends event unless the list is at capacity.
func (l *EventList) Push(event Event) bool {
	if len(l.events) == cap(l.events) {
		l.dropped++
		return false
	}
	l.events = append(l.events, event)
	return true
}

func (l *EventList) Len() int {
	return len(l.events)
}

func (l *EventList) At(i int) Event {
	return l.events[i]
}

// Events returns the backing slice; it is only valid until the next Reset.
func (l *EventList) Events() []Event {
	return l.events
}

// Dropped returns the number of events rejected since the last Reset.
func (l *EventList) Dropped() int {
	return l.dropped
}

// Sort orders events by sample offset, keeping arrival order for equal offsets.
// Insertion sort: lists are short and usually already ordered.
func (l *EventList) Sort() {
	for i := 1; i < len(l.events); i++ {
		e := l.events[i]
		j := i - 1
		for j >= 0 && l.events[j].SampleOffset() > e.SampleOffset() {
			l.events[j+1] = l.events[j]
			j--
		}
		l.events[j+1] = e
	}
}

func (l *EventList) Reset() {
	for i := range l.events {
		l.events[i] = nil
	}
	l.events = l.events[:0]
	l.dropped = 0
}
