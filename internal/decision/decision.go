// Package decision turns an interview verdict into exactly one side effect:
// a pass notifies the human-review channel, persists the candidate record and
// emails the candidate; anything else is dropped. Rejections are not
// persisted.
package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/spigell/hireflow/internal/interview"
	"github.com/spigell/hireflow/internal/mail"
	"github.com/spigell/hireflow/internal/notify"
	"github.com/spigell/hireflow/internal/resume"
	"github.com/spigell/hireflow/internal/store"
	"go.uber.org/zap"
)

const storeRemarks = "Selected by AI hiring system"

// Dispatcher fires the side effect matching a verdict.
type Dispatcher struct {
	notifier notify.Notifier
	store    store.Store
	mailer   mail.Sender
	logger   *zap.Logger
}

func NewDispatcher(notifier notify.Notifier, st store.Store, mailer mail.Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		store:    st,
		mailer:   mailer,
		logger:   logger,
	}
}

// Dispatch handles the final decision for a run. Notification and email
// failures are logged, not returned: they must not retroactively fail an
// already-decided candidate. Only a persistence failure is reported.
func (d *Dispatcher) Dispatch(ctx context.Context, runID string, profile resume.Profile, verdict interview.Verdict) error {
	if !verdict.Passed() {
		d.logger.Info("candidate did not pass the interview",
			zap.String("run_id", runID),
			zap.String("decision", verdict.Decision),
			zap.String("reason", verdict.Reason),
		)
		return nil
	}

	message := fmt.Sprintf(
		"✅ *Candidate Shortlisted for Round 2*\nCompany: Arya Stack Technologies\n%s",
		verdict.Raw,
	)
	if err := d.notifier.Notify(ctx, message); err != nil {
		d.logger.Warn("notifying review channel", zap.String("run_id", runID), zap.Error(err))
	}

	record := store.Record{
		RunID:             runID,
		Decision:          "Pass",
		EvaluationSummary: verdict.Raw,
		Remarks:           storeRemarks,
		Timestamp:         time.Now(),
	}
	if err := d.store.Append(ctx, record); err != nil {
		return fmt.Errorf("storing candidate record: %w", err)
	}

	if profile.Email != "" {
		if err := d.mailer.SendSelection(ctx, profile.Email, profile.Name); err != nil {
			d.logger.Warn("sending selection email", zap.String("run_id", runID), zap.Error(err))
		}
	}

	d.logger.Info("candidate shortlisted",
		zap.String("run_id", runID),
		zap.Int("score", verdict.Score),
	)

	return nil
}
