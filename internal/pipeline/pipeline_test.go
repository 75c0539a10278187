package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/hireflow/internal/events"
	"github.com/spigell/hireflow/internal/interview"
	"github.com/spigell/hireflow/internal/resume"
	"github.com/spigell/hireflow/internal/screening"
	"github.com/spigell/hireflow/internal/vapi"
	"github.com/spigell/hireflow/internal/verify"
	"go.uber.org/zap"
)

type stubExtractor struct {
	text    string
	textErr error
	profile resume.Profile
}

func (s *stubExtractor) Text(string) (string, error) { return s.text, s.textErr }

func (s *stubExtractor) Profile(context.Context, string) resume.Profile { return s.profile }

type stubScreener struct {
	raw   string
	err   error
	calls int
}

func (s *stubScreener) Screen(context.Context, string) (screening.Verdict, error) {
	s.calls++
	if s.err != nil {
		return screening.Verdict{}, s.err
	}
	return screening.Verdict{Decision: "Qualified", Raw: s.raw}, nil
}

type stubVerifier struct {
	report *verify.Report
	calls  int
}

func (s *stubVerifier) Verify(context.Context, resume.Profile) *verify.Report {
	s.calls++
	return s.report
}

type stubInterviewer struct {
	questions   string
	questionErr error
	verdict     interview.Verdict
	evalErr     error
	evalCalls   int
}

func (s *stubInterviewer) GenerateQuestions(context.Context, string) (string, error) {
	return s.questions, s.questionErr
}

func (s *stubInterviewer) Evaluate(context.Context, string, string) (interview.Verdict, error) {
	s.evalCalls++
	if s.evalErr != nil {
		return interview.Verdict{}, s.evalErr
	}
	return s.verdict, nil
}

type stubCaller struct {
	call  *vapi.Call
	err   error
	calls int
}

func (s *stubCaller) PlaceCall(_ context.Context, _, _ string, _ map[string]string) (*vapi.Call, error) {
	s.calls++
	return s.call, s.err
}

type stubWaiter struct {
	transcript string
	err        error
}

func (s *stubWaiter) WaitForCompletion(context.Context, string) (string, error) {
	return s.transcript, s.err
}

type stubDispatcher struct {
	calls int
	err   error
}

func (s *stubDispatcher) Dispatch(context.Context, string, resume.Profile, interview.Verdict) error {
	s.calls++
	return s.err
}

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

type fixture struct {
	extractor   *stubExtractor
	screener    *stubScreener
	verifier    *stubVerifier
	interviewer *stubInterviewer
	caller      *stubCaller
	waiter      *stubWaiter
	dispatcher  *stubDispatcher
	mailer      *stubMailer
	log         *events.Log
}

func newFixture() *fixture {
	return &fixture{
		extractor: &stubExtractor{
			text:    "resume text",
			profile: resume.Profile{Name: "Jane", Email: "jane@acme.dev"},
		},
		screener: &stubScreener{raw: "Decision: Qualified\nReason: solid MERN experience"},
		verifier: &stubVerifier{report: &verify.Report{CredibilityScore: 85, Status: verify.StatusVerified}},
		interviewer: &stubInterviewer{
			questions: "1. Tell me about your last project.",
			verdict:   interview.ParseVerdict("Score: 85\nDecision: Pass\nReason: good"),
		},
		caller:     &stubCaller{call: &vapi.Call{ID: "call-1", Status: "queued"}},
		waiter:     &stubWaiter{transcript: "Interviewer: hi\n\nCandidate: hello"},
		dispatcher: &stubDispatcher{},
		mailer:     &stubMailer{},
		log:        events.NewLog(),
	}
}

func (f *fixture) orchestrator() *Orchestrator {
	return New(Deps{
		Extractor:   f.extractor,
		Screener:    f.screener,
		Verifier:    f.verifier,
		Interviewer: f.interviewer,
		Caller:      f.caller,
		Poller:      f.waiter,
		Dispatcher:  f.dispatcher,
		Mailer:      f.mailer,
		Events:      f.log,
		Logger:      zap.NewNop(),
	})
}

func TestRunHappyPath(t *testing.T) {
	t.Parallel()

	f := newFixture()
	result := f.orchestrator().Run(context.Background(), "run-1", "resume.pdf", "+15550100")

	if result.Outcome != OutcomeCompleted {
		t.Fatalf("outcome = %q (%s), want completed", result.Outcome, result.Reason)
	}
	if f.dispatcher.calls != 1 {
		t.Fatalf("expected one dispatch, got %d", f.dispatcher.calls)
	}

	trail := f.log.Snapshot("run-1")
	if len(trail) == 0 {
		t.Fatalf("expected progress events")
	}

	last := trail[len(trail)-1]
	if last.Stage != StageSystem || last.Status != events.StatusSuccess {
		t.Fatalf("unexpected final event: %+v", last)
	}
}

func TestRunScreeningGate(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.screener.raw = "Decision: Not Qualified\nReason: no MERN experience"

	result := f.orchestrator().Run(context.Background(), "run-1", "resume.pdf", "+15550100")

	if result.Outcome != OutcomeRejected {
		t.Fatalf("outcome = %q, want rejected", result.Outcome)
	}
	if f.verifier.calls != 0 {
		t.Fatalf("verification must not run after a screening rejection, ran %d times", f.verifier.calls)
	}
	if f.caller.calls != 0 || f.dispatcher.calls != 0 {
		t.Fatalf("no later stage may run after the screening gate")
	}
}

func TestRunVerificationGate(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.verifier.report = &verify.Report{
		CredibilityScore: 55,
		Status:           verify.StatusUnverified,
		Issues:           []string{"GitHub profile not found"},
	}

	result := f.orchestrator().Run(context.Background(), "run-1", "resume.pdf", "+15550100")

	if result.Outcome != OutcomeRejected {
		t.Fatalf("outcome = %q, want rejected", result.Outcome)
	}
	if f.caller.calls != 0 {
		t.Fatalf("call must not be placed after a verification rejection")
	}
}

func TestRunNoSessionIDIsInfrastructureFailure(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.caller.call = nil

	result := f.orchestrator().Run(context.Background(), "run-1", "resume.pdf", "+15550100")

	if result.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %q, want failed", result.Outcome)
	}
	if f.dispatcher.calls != 0 {
		t.Fatalf("no decision may be dispatched after a placement failure")
	}
}

func TestRunNoTranscriptPausesAndInvites(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.waiter.transcript = ""
	f.waiter.err = vapi.ErrTimeout

	result := f.orchestrator().Run(context.Background(), "run-1", "resume.pdf", "+15550100")

	if result.Outcome != OutcomePaused {
		t.Fatalf("outcome = %q, want paused", result.Outcome)
	}
	if f.mailer.schedules != 1 {
		t.Fatalf("expected one scheduling invitation, got %d", f.mailer.schedules)
	}
	if f.interviewer.evalCalls != 0 {
		t.Fatalf("evaluation must not run without a transcript")
	}
}

func TestRunExtractionFailure(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.extractor.textErr = resume.ErrNotFound

	result := f.orchestrator().Run(context.Background(), "run-1", "missing.pdf", "+15550100")

	if result.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %q, want failed", result.Outcome)
	}
	if f.screener.calls != 0 {
		t.Fatalf("screening must not run without resume text")
	}
}

func TestRunOracleFailureLeavesTrail(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.screener.err = errors.New("oracle unavailable")

	result := f.orchestrator().Run(context.Background(), "run-1", "resume.pdf", "+15550100")

	if result.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %q, want failed", result.Outcome)
	}

	trail := f.log.Snapshot("run-1")
	last := trail[len(trail)-1]
	if last.Status != events.StatusFailed {
		t.Fatalf("expected the trail to end with a failed event, got %+v", last)
	}
}

func TestRunStartClearsPreviousTrail(t *testing.T) {
	t.Parallel()

	f := newFixture()
	o := f.orchestrator()

	o.Run(context.Background(), "run-1", "resume.pdf", "+15550100")
	first := f.log.Len("run-1")

	o.Run(context.Background(), "run-1", "resume.pdf", "+15550100")
	second := f.log.Len("run-1")

	if first != second {
		t.Fatalf("expected a fresh trail per run, got %d then %d", first, second)
	}
}

func TestHandleTranscript(t *testing.T) {
	t.Parallel()

	f := newFixture()
	o := f.orchestrator()

	if err := o.HandleTranscript(context.Background(), "run-9", "Candidate: hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.dispatcher.calls != 1 {
		t.Fatalf("expected one dispatch, got %d", f.dispatcher.calls)
	}
	if f.screener.calls != 0 || f.verifier.calls != 0 || f.caller.calls != 0 {
		t.Fatalf("webhook path must bypass screening, verification and call placement")
	}
}
