// Package pipeline sequences the hiring stages and applies the gates between
// them. A run walks Screening → Verification → QuestionGeneration →
// CallPlacement → CallCompletion → Evaluation → Decision; every stage emits
// progress events so an observer can reconstruct where a run stopped and why.
package pipeline

import (
	"context"
	"fmt"

	"github.com/spigell/hireflow/internal/events"
	"github.com/spigell/hireflow/internal/interview"
	"github.com/spigell/hireflow/internal/mail"
	"github.com/spigell/hireflow/internal/resume"
	"github.com/spigell/hireflow/internal/screening"
	"github.com/spigell/hireflow/internal/vapi"
	"github.com/spigell/hireflow/internal/verify"
	"go.uber.org/zap"
)

// Stage names used in progress events.
const (
	StageExtractor      = "Extractor"
	StageScreening      = "Screening"
	StageVerification   = "Verification"
	StageQuestions      = "QuestionGeneration"
	StageCallPlacement  = "CallPlacement"
	StageCallCompletion = "CallCompletion"
	StageEvaluation     = "Evaluation"
	StageDecision       = "Decision"
	StageSystem         = "System"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	// OutcomeCompleted means every stage ran and the decision was dispatched.
	OutcomeCompleted Outcome = "completed"
	// OutcomeRejected means a candidate gate (screening or verification)
	// stopped the run. This is a decision about the candidate, not an error.
	OutcomeRejected Outcome = "rejected"
	// OutcomeFailed means an infrastructure problem aborted the run without
	// deciding anything about the candidate.
	OutcomeFailed Outcome = "failed"
	// OutcomePaused means the interview call never produced a transcript;
	// the candidate was invited to self-schedule and the run ended open.
	OutcomePaused Outcome = "paused"
)

// Candidates below this credibility score are rejected after verification.
const minCredibilityScore = 70

// Screener decides whether the resume clears the first gate.
type Screener interface {
	Screen(ctx context.Context, resumeText string) (screening.Verdict, error)
}

// Verifier produces the credibility report for the second gate.
type Verifier interface {
	Verify(ctx context.Context, profile resume.Profile) *verify.Report
}

// Interviewer generates questions and evaluates transcripts.
type Interviewer interface {
	GenerateQuestions(ctx context.Context, resumeText string) (string, error)
	Evaluate(ctx context.Context, resumeText, transcript string) (interview.Verdict, error)
}

// CallPlacer starts the outbound interview call.
type CallPlacer interface {
	PlaceCall(ctx context.Context, phone, questions string, metadata map[string]string) (*vapi.Call, error)
}

// CallWaiter drives a placed call to a terminal state.
type CallWaiter interface {
	WaitForCompletion(ctx context.Context, callID string) (string, error)
}

// Dispatcher fires the final decision side effect.
type Dispatcher interface {
	Dispatch(ctx context.Context, runID string, profile resume.Profile, verdict interview.Verdict) error
}

// Extractor turns a resume file into text and a candidate profile.
type Extractor interface {
	Text(path string) (string, error)
	Profile(ctx context.Context, resumeText string) resume.Profile
}

// Deps aggregates the collaborators of one orchestrator.
type Deps struct {
	Extractor   Extractor
	Screener    Screener
	Verifier    Verifier
	Interviewer Interviewer
	Caller      CallPlacer
	Poller      CallWaiter
	Dispatcher  Dispatcher
	Mailer      mail.Sender
	Events      *events.Log
	Logger      *zap.Logger
}

// Result summarizes a finished run.
type Result struct {
	RunID   string
	Outcome Outcome
	Reason  string
}

// Orchestrator owns no state beyond its collaborators; every run is
// independent and sequential.
type Orchestrator struct {
	deps Deps

	// SchedulingLink is included in the no-answer invitation email.
	SchedulingLink string
}

func New(deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Events == nil {
		deps.Events = events.NewLog()
	}

	return &Orchestrator{deps: deps}
}

// Run executes the full pipeline for one candidate. It never panics and it
// never returns an error: every failure is converted into a terminal event
// and the matching outcome.
func (o *Orchestrator) Run(ctx context.Context, runID, resumePath, phone string) (result *Result) {
	log := o.deps.Logger.With(zap.String("run_id", runID))
	o.deps.Events.Start(runID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panicked", zap.Any("panic", r))
			o.emit(runID, StageSystem, fmt.Sprintf("Critical error: %v", r), nil, events.StatusFailed)
			result = &Result{RunID: runID, Outcome: OutcomeFailed, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()

	// Extraction.
	o.emit(runID, StageExtractor, "Parsing resume...", nil, events.StatusProcessing)

	resumeText, err := o.deps.Extractor.Text(resumePath)
	if err != nil {
		return o.fail(runID, log, StageExtractor, fmt.Errorf("extracting resume text: %w", err))
	}

	profile := o.deps.Extractor.Profile(ctx, resumeText)
	o.emit(runID, StageExtractor, "Data extraction complete",
		map[string]any{"email": profile.Email}, events.StatusSuccess)

	// Screening gate.
	o.emit(runID, StageScreening, "Analyzing candidate fit...", nil, events.StatusProcessing)

	verdict, err := o.deps.Screener.Screen(ctx, resumeText)
	if err != nil {
		return o.fail(runID, log, StageScreening, err)
	}

	o.emit(runID, StageScreening, "Screening complete",
		map[string]any{"result": verdict.Raw}, events.StatusSuccess)

	if !verdict.Qualified() {
		log.Info("candidate rejected during screening", zap.String("reason", verdict.Reason))
		o.emit(runID, StageSystem, "Candidate rejected during screening", nil, events.StatusFailed)
		return &Result{RunID: runID, Outcome: OutcomeRejected, Reason: "screening: " + verdict.Reason}
	}

	// Verification gate.
	o.emit(runID, StageVerification, "Verifying background credentials...",
		map[string]any{"targets": []string{"LinkedIn", "GitHub", "Email"}}, events.StatusProcessing)

	report := o.deps.Verifier.Verify(ctx, profile)
	o.emit(runID, StageVerification, "Verification complete",
		map[string]any{"report": report}, events.StatusSuccess)

	if report.CredibilityScore < minCredibilityScore {
		log.Info("candidate failed background check",
			zap.Int("credibility_score", report.CredibilityScore),
			zap.Strings("issues", report.Issues),
		)
		o.emit(runID, StageSystem, "Candidate failed background check",
			map[string]any{"credibility_score": report.CredibilityScore}, events.StatusFailed)
		return &Result{RunID: runID, Outcome: OutcomeRejected, Reason: "verification below threshold"}
	}

	// Interview preparation.
	o.emit(runID, StageQuestions, "Generating tailored interview questions...", nil, events.StatusProcessing)

	questions, err := o.deps.Interviewer.GenerateQuestions(ctx, resumeText)
	if err != nil {
		return o.fail(runID, log, StageQuestions, err)
	}

	o.emit(runID, StageQuestions, "Questions generated", nil, events.StatusSuccess)

	// Live call.
	o.emit(runID, StageCallPlacement, fmt.Sprintf("Initiating live call to %s...", phone), nil, events.StatusProcessing)

	call, err := o.deps.Caller.PlaceCall(ctx, phone, questions, map[string]string{"runId": runID})
	if err != nil || call == nil || call.ID == "" {
		if err == nil {
			err = fmt.Errorf("call platform returned no session id")
		}
		return o.fail(runID, log, StageCallPlacement, err)
	}

	o.emit(runID, StageCallPlacement, "Call active",
		map[string]any{"call_id": call.ID, "status": call.Status}, events.StatusUpdate)

	// Wait for the interview to finish.
	transcript, err := o.deps.Poller.WaitForCompletion(ctx, call.ID)
	if err != nil || transcript == "" {
		return o.pause(ctx, runID, log, profile, err)
	}

	o.emit(runID, StageCallCompletion, "Call completed",
		map[string]any{"transcript_length": len(transcript)}, events.StatusSuccess)

	// Evaluation and decision.
	evaluation, ok := o.evaluateAndDecide(ctx, runID, log, resumeText, transcript, profile)
	if !ok {
		return &Result{RunID: runID, Outcome: OutcomeFailed, Reason: "evaluation or decision failed"}
	}

	return &Result{
		RunID:   runID,
		Outcome: OutcomeCompleted,
		Reason:  fmt.Sprintf("decision: %s", evaluation.Decision),
	}
}

// HandleTranscript re-enters the pipeline at the evaluation stage. It backs
// the webhook path, where screening and verification already happened in a
// prior run context identified by runID.
func (o *Orchestrator) HandleTranscript(ctx context.Context, runID, transcript string) error {
	log := o.deps.Logger.With(zap.String("run_id", runID))

	if _, ok := o.evaluateAndDecide(ctx, runID, log, "(resume already known)", transcript, resume.Profile{}); !ok {
		return fmt.Errorf("evaluating webhook transcript for run %s", runID)
	}

	return nil
}

func (o *Orchestrator) evaluateAndDecide(ctx context.Context, runID string, log *zap.Logger, resumeText, transcript string, profile resume.Profile) (interview.Verdict, bool) {
	o.emit(runID, StageEvaluation, "Analyzing interview transcript...", nil, events.StatusProcessing)

	verdict, err := o.deps.Interviewer.Evaluate(ctx, resumeText, transcript)
	if err != nil {
		o.fail(runID, log, StageEvaluation, err)
		return interview.Verdict{}, false
	}

	o.emit(runID, StageEvaluation, "Evaluation complete",
		map[string]any{"score": verdict.Score, "decision": verdict.Decision}, events.StatusSuccess)

	o.emit(runID, StageDecision, "Synthesizing final verdict...", nil, events.StatusProcessing)

	if err := o.deps.Dispatcher.Dispatch(ctx, runID, profile, verdict); err != nil {
		o.fail(runID, log, StageDecision, err)
		return interview.Verdict{}, false
	}

	o.emit(runID, StageSystem, "Process complete",
		map[string]any{"decision": verdict.Decision}, events.StatusSuccess)

	return verdict, true
}

// pause handles the no-answer branch: the candidate is invited to schedule
// the interview themselves and the run ends open rather than failed.
func (o *Orchestrator) pause(ctx context.Context, runID string, log *zap.Logger, profile resume.Profile, cause error) *Result {
	log.Warn("call produced no transcript", zap.Error(cause))
	o.emit(runID, StageCallCompletion, "Call failed or transcript unavailable", nil, events.StatusFailed)

	if profile.Email != "" {
		if err := o.deps.Mailer.SendSchedulingLink(ctx, profile.Email, profile.Name, o.SchedulingLink); err != nil {
			log.Warn("sending scheduling email", zap.Error(err))
		} else {
			o.emit(runID, StageSystem, "Scheduling link sent to candidate", nil, events.StatusUpdate)
		}
	}

	return &Result{RunID: runID, Outcome: OutcomePaused, Reason: "no transcript; candidate invited to self-schedule"}
}

func (o *Orchestrator) fail(runID string, log *zap.Logger, stage string, err error) *Result {
	log.Error("pipeline stage failed", zap.String("stage", stage), zap.Error(err))
	o.emit(runID, stage, fmt.Sprintf("Stage failed: %v", err), nil, events.StatusFailed)

	return &Result{RunID: runID, Outcome: OutcomeFailed, Reason: err.Error()}
}

func (o *Orchestrator) emit(runID, stage, message string, payload map[string]any, status string) {
	o.deps.Events.Append(runID, events.Event{
		Stage:   stage,
		Message: message,
		Payload: payload,
		Status:  status,
	})
}
