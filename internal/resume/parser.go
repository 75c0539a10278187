package resume

import (
	"context"

	"github.com/spigell/hireflow/internal/ai"
)

// Parser bundles file extraction with oracle-backed profile extraction so the
// orchestrator depends on a single collaborator for everything resume-shaped.
type Parser struct {
	oracle ai.Oracle
}

func NewParser(oracle ai.Oracle) *Parser {
	return &Parser{oracle: oracle}
}

// Text extracts the plain text of the resume file.
func (p *Parser) Text(path string) (string, error) {
	return Extract(path)
}

// Profile extracts the candidate identity from the resume text.
func (p *Parser) Profile(ctx context.Context, resumeText string) Profile {
	return ExtractProfile(ctx, p.oracle, resumeText)
}
