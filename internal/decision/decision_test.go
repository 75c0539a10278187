package decision

import (
	"context"
	"testing"

	"github.com/spigell/hireflow/internal/interview"
	"github.com/spigell/hireflow/internal/resume"
	"github.com/spigell/hireflow/internal/store"
	"go.uber.org/zap"
)

type stubNotifier struct {
	calls    int
	messages []string
}

func (s *stubNotifier) Notify(_ context.Context, message string) error {
	s.calls++
	s.messages = append(s.messages, message)
	return nil
}

type stubStore struct {
	records []store.Record
}

func (s *stubStore) Append(_ context.Context, record store.Record) error {
	s.records = append(s.records, record)
	return nil
}

func (s *stubStore) List(context.Context) ([]store.Record, error) { return s.records, nil }

func (s *stubStore) Close() error { return nil }

type stubMailer struct {
	selections int
	schedules  int
}

func (s *stubMailer) SendSelection(context.Context, string, string) error {
	s.selections++
	return nil
}

func (s *stubMailer) SendSchedulingLink(context.Context, string, string, string) error {
	s.schedules++
	return nil
}

func TestDispatchPass(t *testing.T) {
	t.Parallel()

	notifier := &stubNotifier{}
	st := &stubStore{}
	mailer := &stubMailer{}

	d := NewDispatcher(notifier, st, mailer, zap.NewNop())

	verdict := interview.ParseVerdict("Score: 85\nDecision: Pass\nReason: strong MERN answers")
	profile := resume.Profile{Name: "Jane", Email: "jane@acme.dev"}

	if err := d.Dispatch(context.Background(), "run-1", profile, verdict); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if notifier.calls != 1 {
		t.Fatalf("expected exactly one notification, got %d", notifier.calls)
	}
	if len(st.records) != 1 {
		t.Fatalf("expected exactly one stored record, got %d", len(st.records))
	}
	if mailer.selections != 1 {
		t.Fatalf("expected one selection email, got %d", mailer.selections)
	}

	record := st.records[0]
	if record.Decision != "Pass" || record.RunID != "run-1" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Remarks != "Selected by AI hiring system" {
		t.Fatalf("unexpected remarks: %q", record.Remarks)
	}
	if record.Timestamp.IsZero() {
		t.Fatalf("expected record timestamp to be set")
	}
}

func TestDispatchFailIsSilent(t *testing.T) {
	t.Parallel()

	notifier := &stubNotifier{}
	st := &stubStore{}
	mailer := &stubMailer{}

	d := NewDispatcher(notifier, st, mailer, zap.NewNop())

	verdict := interview.ParseVerdict("Score: 40\nDecision: Fail\nReason: weak fundamentals")

	if err := d.Dispatch(context.Background(), "run-1", resume.Profile{}, verdict); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if notifier.calls != 0 || len(st.records) != 0 || mailer.selections != 0 {
		t.Fatalf("expected no side effects on fail, got notify=%d store=%d mail=%d",
			notifier.calls, len(st.records), mailer.selections)
	}
}

func TestDispatchMissingDecisionLineFailsClosed(t *testing.T) {
	t.Parallel()

	notifier := &stubNotifier{}
	st := &stubStore{}

	d := NewDispatcher(notifier, st, &stubMailer{}, zap.NewNop())

	// No "Decision" line at all: the parser must default to Fail.
	verdict := interview.ParseVerdict("The candidate did quite well overall.")

	if verdict.Decision != "Fail" {
		t.Fatalf("expected default decision Fail, got %q", verdict.Decision)
	}

	if err := d.Dispatch(context.Background(), "run-1", resume.Profile{}, verdict); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if notifier.calls != 0 {
		t.Fatalf("expected no notification, got %d", notifier.calls)
	}
	if len(st.records) != 0 {
		t.Fatalf("expected no persistence write, got %d", len(st.records))
	}
}

func TestDispatchCaseInsensitivePass(t *testing.T) {
	t.Parallel()

	notifier := &stubNotifier{}
	d := NewDispatcher(notifier, &stubStore{}, &stubMailer{}, zap.NewNop())

	verdict := interview.ParseVerdict("Decision: PASS")

	if err := d.Dispatch(context.Background(), "run-1", resume.Profile{}, verdict); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected pass branch for PASS, got %d notifications", notifier.calls)
	}
}
