package core

import "sync"

// Log is the append-only record of events for the currently joined room.
// Append order is the only order; nothing is deduplicated or re-sorted.
type Log struct {
	mu     sync.Mutex
	events []Event
}

// NewLog constructs an empty chat log.
func NewLog() *Log {
	return &Log{}
}

// Append adds an event at the end of the log.
func (l *Log) Append(ev Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

// Snapshot returns a copy of the log in append order.
func (l *Log) Snapshot() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len reports the number of events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Reset drops all events. Runs on every room switch and on logout.
func (l *Log) Reset() {
	l.mu.Lock()
	l.events = nil
	l.mu.Unlock()
}
