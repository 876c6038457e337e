// Package event collects the named sound/notification cues the core emits.
// The core appends events to a Queue; a subscriber drains it and renders
// them as audio or haptics. Nothing in the core waits for a response.
package event

import "sync"

// Name identifies a cue.
type Name string

const (
	Sell         Name = "sell"
	Buy          Name = "buy"
	Coin         Name = "coin"
	LevelUp      Name = "levelUp"
	Notification Name = "notification"
	Error        Name = "error"
	Click        Name = "click"
)

// Event is one emitted cue with an optional detail string.
type Event struct {
	Name   Name   `json:"name"`
	Detail string `json:"detail,omitempty"`
}

// Queue is an append-only buffer of events. The zero value is ready to use
// and a nil *Queue silently drops events.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Emit appends an event.
func (q *Queue) Emit(name Name, detail string) {
	if q == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, Event{Name: name, Detail: detail})
}

// Drain returns all buffered events and empties the queue.
func (q *Queue) Drain() []Event {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
