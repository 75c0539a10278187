package vapi

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spigell/hireflow/internal/utils"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = 10 * time.Second
	defaultMaxWait      = 15 * time.Minute
)

var (
	// ErrTimeout is returned when the call never reaches a terminal state
	// within the configured maximum wait.
	ErrTimeout = errors.New("call did not complete in time")
	// ErrCallFailed is returned for terminal failure statuses (busy,
	// no-answer and friends).
	ErrCallFailed = errors.New("call ended without an interview")
	// ErrNoTranscript is returned when the call ended but yielded no
	// usable transcript.
	ErrNoTranscript = errors.New("call ended without a transcript")
)

var (
	terminalSuccess = map[string]bool{"ended": true, "completed": true}
	terminalFailure = map[string]bool{"failed": true, "busy": true, "no-answer": true, "canceled": true, "error": true}
)

// CallGetter is the platform surface the poller needs.
type CallGetter interface {
	GetCall(ctx context.Context, id string) (*Call, error)
}

// Poller drives a placed call to a terminal state by polling its status at a
// fixed interval, with a hard cap on the number of attempts.
type Poller struct {
	platform     CallGetter
	pollInterval time.Duration
	maxWait      time.Duration
	logger       *zap.Logger
}

func NewPoller(platform CallGetter, pollInterval, maxWait time.Duration, logger *zap.Logger) *Poller {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if maxWait <= 0 {
		maxWait = defaultMaxWait
	}

	return &Poller{
		platform:     platform,
		pollInterval: pollInterval,
		maxWait:      maxWait,
		logger:       logger,
	}
}

// WaitForCompletion blocks until the call reaches a terminal state and
// returns its transcript. Transport errors on a single poll tick are logged
// and retried on the next tick; only the attempt cap, a terminal failure
// status or context cancellation end the wait early.
func (p *Poller) WaitForCompletion(ctx context.Context, callID string) (string, error) {
	maxAttempts := int(p.maxWait / p.pollInterval)
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		call, err := p.platform.GetCall(ctx, callID)
		if err != nil {
			p.logger.Warn("call status poll failed",
				zap.String("call_id", callID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		} else {
			p.logger.Debug("call status",
				zap.String("call_id", callID),
				zap.String("status", call.Status),
				zap.Int("attempt", attempt),
			)

			switch {
			case terminalSuccess[call.Status]:
				transcript := ExtractTranscript(call)
				if transcript == "" {
					return "", ErrNoTranscript
				}
				return transcript, nil
			case terminalFailure[call.Status]:
				p.logger.Warn("call ended in failure",
					zap.String("call_id", callID),
					zap.String("status", call.Status),
					zap.String("reason", call.EndedReason),
				)
				return "", ErrCallFailed
			}
		}

		if attempt == maxAttempts {
			break
		}

		if err := utils.WaitFor(ctx, p.pollInterval); err != nil {
			return "", err
		}
	}

	return "", ErrTimeout
}

// ExtractTranscript returns the call transcript, preferring the direct field
// and falling back to reconstructing it from the speaker turns.
func ExtractTranscript(call *Call) string {
	if call == nil {
		return ""
	}

	if transcript := strings.TrimSpace(call.Transcript); transcript != "" {
		return transcript
	}

	turns := make([]string, 0, len(call.Messages))
	for _, msg := range call.Messages {
		text := strings.TrimSpace(msg.Message)
		if text == "" {
			continue
		}

		switch strings.ToLower(msg.Role) {
		case "assistant", "bot":
			turns = append(turns, "Interviewer: "+text)
		case "user", "human", "customer":
			turns = append(turns, "Candidate: "+text)
		}
	}

	return strings.Join(turns, "\n\n")
}
