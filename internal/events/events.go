// Package events holds the append-only progress trail of a pipeline run.
// Logs are keyed by run ID so concurrent runs never interleave their streams.
package events

import (
	"sync"
	"time"
)

// Event statuses mirror the stage lifecycle: a stage announces itself as
// processing, then reports success, failed, or a neutral status update.
const (
	StatusProcessing = "processing"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
	StatusUpdate     = "status"
)

// Event is one entry in a run's progress trail.
type Event struct {
	Stage     string         `json:"stage"`
	Message   string         `json:"message"`
	Payload   map[string]any `json:"payload,omitempty"`
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
}

// Sink receives every appended event. Implementations must be safe for
// concurrent use and must never block the pipeline for long.
type Sink interface {
	Publish(runID string, event Event)
}

// Log is an in-memory, append-only event log keyed by run ID. Events are
// never deleted; a run's trail is cleared only when the run starts again.
type Log struct {
	mu   sync.RWMutex
	runs map[string][]Event

	sinks []Sink
}

func NewLog(sinks ...Sink) *Log {
	return &Log{
		runs:  make(map[string][]Event),
		sinks: sinks,
	}
}

// Start clears any previous trail for the run ID.
func (l *Log) Start(runID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.runs[runID] = nil
}

// Append records an event for the run and fans it out to the sinks.
func (l *Log) Append(runID string, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	l.mu.Lock()
	l.runs[runID] = append(l.runs[runID], event)
	l.mu.Unlock()

	for _, sink := range l.sinks {
		sink.Publish(runID, event)
	}
}

// Snapshot returns a copy of the run's trail in insertion order.
func (l *Log) Snapshot(runID string) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	trail := l.runs[runID]
	out := make([]Event, len(trail))
	copy(out, trail)

	return out
}

// Len returns the number of events recorded for the run.
func (l *Log) Len(runID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.runs[runID])
}
