// Package interview covers the two oracle round-trips around the voice call:
// generating tailored questions from the resume and evaluating the resulting
// transcript into a pass/fail verdict.
package interview

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	_ "embed"

	"github.com/spigell/hireflow/internal/ai"
	"github.com/spigell/hireflow/internal/logger"
	"go.uber.org/zap"
)

//go:embed prompts/questions.md
var questionsPrompt string

//go:embed prompts/evaluate.md
var evaluatePrompt string

// Verdict is the parsed interview evaluation. Raw keeps the full oracle
// response; it becomes the evaluation summary in the candidate record.
type Verdict struct {
	Score    int
	Decision string
	Reason   string
	Raw      string
}

// Passed reports whether the verdict decision is a pass. Anything that is not
// explicitly a pass counts as a fail.
func (v Verdict) Passed() bool {
	return strings.EqualFold(strings.TrimSpace(v.Decision), "pass")
}

// Interviewer owns the question-generation and evaluation prompts.
type Interviewer struct {
	oracle ai.Oracle
	logger *zap.Logger
}

func New(oracle ai.Oracle, log *zap.Logger) *Interviewer {
	return &Interviewer{oracle: oracle, logger: log}
}

// GenerateQuestions produces the interview questions for the voice agent as a
// numbered list.
func (i *Interviewer) GenerateQuestions(ctx context.Context, resumeText string) (string, error) {
	questions, err := i.oracle.Complete(ctx, fmt.Sprintf(questionsPrompt, resumeText))
	if err != nil {
		return "", fmt.Errorf("question generation: %w", err)
	}

	i.logger.Debug("generated interview questions",
		zap.Int("count", len(strings.Split(questions, "\n"))),
	)

	return questions, nil
}

// Evaluate scores the interview transcript against the resume.
func (i *Interviewer) Evaluate(ctx context.Context, resumeText, transcript string) (Verdict, error) {
	response, err := i.oracle.Complete(ctx, fmt.Sprintf(evaluatePrompt, resumeText, transcript))
	if err != nil {
		return Verdict{}, fmt.Errorf("interview evaluation: %w", err)
	}

	verdict := ParseVerdict(response)

	i.logger.Debug("evaluation response",
		zap.Int("score", verdict.Score),
		zap.String("decision", verdict.Decision),
		zap.String("response_preview", logger.TruncateForLog(response, 200)),
	)

	return verdict, nil
}

// ParseVerdict scans the oracle response line by line for the Score, Decision
// and Reason fields. A missing Decision line defaults to Fail: the verdict
// fails closed, never open.
func ParseVerdict(response string) Verdict {
	verdict := Verdict{
		Decision: "Fail",
		Raw:      strings.TrimSpace(response),
	}

	for _, line := range strings.Split(response, "\n") {
		switch {
		case strings.HasPrefix(line, "Score"):
			verdict.Score = clampScore(parseScore(valueAfterColon(line)))
		case strings.HasPrefix(line, "Decision"):
			if value := valueAfterColon(line); value != "" {
				verdict.Decision = value
			}
		case strings.HasPrefix(line, "Reason"):
			verdict.Reason = valueAfterColon(line)
		}
	}

	return verdict
}

func parseScore(value string) int {
	// Tolerate formats like "85/100" or "85 out of 100".
	if idx := strings.IndexFunc(value, func(r rune) bool {
		return r < '0' || r > '9'
	}); idx >= 0 {
		value = value[:idx]
	}

	score, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}

	return score
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func valueAfterColon(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}
