package events

import (
	"sync"
	"testing"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Publish(_ string, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func TestLogKeyedByRun(t *testing.T) {
	t.Parallel()

	log := NewLog()
	log.Start("run-a")
	log.Start("run-b")

	log.Append("run-a", Event{Stage: "Screening", Status: StatusProcessing})
	log.Append("run-b", Event{Stage: "Verification", Status: StatusProcessing})
	log.Append("run-a", Event{Stage: "Screening", Status: StatusSuccess})

	if got := log.Len("run-a"); got != 2 {
		t.Fatalf("run-a length = %d, want 2", got)
	}
	if got := log.Len("run-b"); got != 1 {
		t.Fatalf("run-b length = %d, want 1", got)
	}

	trail := log.Snapshot("run-a")
	if trail[0].Status != StatusProcessing || trail[1].Status != StatusSuccess {
		t.Fatalf("unexpected ordering: %+v", trail)
	}
}

func TestStartClearsPreviousTrail(t *testing.T) {
	t.Parallel()

	log := NewLog()
	log.Append("run-a", Event{Stage: "Screening"})
	log.Start("run-a")

	if got := log.Len("run-a"); got != 0 {
		t.Fatalf("expected cleared trail, got %d events", got)
	}
}

func TestAppendSetsTimestampAndFansOut(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	log := NewLog(sink)

	log.Append("run-a", Event{Stage: "Screening"})

	trail := log.Snapshot("run-a")
	if trail[0].Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(sink.events))
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	log := NewLog()
	log.Append("run-a", Event{Stage: "Screening"})

	snapshot := log.Snapshot("run-a")
	snapshot[0].Stage = "mutated"

	if log.Snapshot("run-a")[0].Stage != "Screening" {
		t.Fatalf("snapshot mutation leaked into the log")
	}
}
