// Package screening decides whether a resume is worth an interview at all.
// The decision itself is delegated to the oracle; this package owns the
// prompt and the defensive parsing of its free-text answer.
package screening

import (
	"context"
	"fmt"
	"strings"

	_ "embed"

	"github.com/spigell/hireflow/internal/ai"
	"github.com/spigell/hireflow/internal/logger"
	"go.uber.org/zap"
)

//go:embed prompts/screen.md
var screenPrompt string

// Verdict is the parsed screening outcome. Raw keeps the untouched oracle
// response for event payloads and logs.
type Verdict struct {
	Decision string
	Reason   string
	Raw      string
}

// Qualified reports whether the screening decision reads as qualified. The
// match is a case-insensitive substring check, so "Not Qualified" must be
// ruled out explicitly.
func (v Verdict) Qualified() bool {
	lower := strings.ToLower(v.Raw)
	return strings.Contains(lower, "qualified") && !strings.Contains(lower, "not qualified")
}

// Screener runs the resume screening prompt.
type Screener struct {
	oracle ai.Oracle
	logger *zap.Logger
}

func New(oracle ai.Oracle, log *zap.Logger) *Screener {
	return &Screener{oracle: oracle, logger: log}
}

// Screen asks the oracle for a qualification verdict on the resume text.
func (s *Screener) Screen(ctx context.Context, resumeText string) (Verdict, error) {
	response, err := s.oracle.Complete(ctx, fmt.Sprintf(screenPrompt, resumeText))
	if err != nil {
		return Verdict{}, fmt.Errorf("screening completion: %w", err)
	}

	verdict := parseVerdict(response)

	s.logger.Debug("screening response",
		zap.String("decision", verdict.Decision),
		zap.String("response_preview", logger.TruncateForLog(response, 200)),
	)

	return verdict, nil
}

func parseVerdict(response string) Verdict {
	verdict := Verdict{Raw: strings.TrimSpace(response)}

	for _, line := range strings.Split(response, "\n") {
		switch {
		case strings.HasPrefix(line, "Decision"):
			verdict.Decision = valueAfterColon(line)
		case strings.HasPrefix(line, "Reason"):
			verdict.Reason = valueAfterColon(line)
		}
	}

	return verdict
}

func valueAfterColon(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}
