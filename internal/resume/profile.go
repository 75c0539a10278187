package resume

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	_ "embed"

	"github.com/spigell/hireflow/internal/ai"
)

//go:embed prompts/extract.md
var extractPrompt string

var emailRe = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

// Profile holds the candidate identity extracted once per run from the resume
// text. It is never mutated after extraction.
type Profile struct {
	Name        string
	Email       string
	LinkedInURL string
	GitHub      string
}

// ExtractProfile asks the oracle for the candidate identity fields and parses
// its free-text answer line by line. A missing or failed oracle response
// degrades to whatever the email regex can recover from the raw text.
func ExtractProfile(ctx context.Context, oracle ai.Oracle, resumeText string) Profile {
	profile := Profile{}

	response, err := oracle.Complete(ctx, fmt.Sprintf(extractPrompt, resumeText))
	if err == nil {
		profile = parseProfile(response)
	}

	if profile.Email == "" {
		profile.Email = FindEmail(resumeText)
	}

	return profile
}

// FindEmail returns the first email-looking token in the text, or empty.
func FindEmail(text string) string {
	return emailRe.FindString(text)
}

func parseProfile(response string) Profile {
	var profile Profile

	for _, line := range strings.Split(response, "\n") {
		switch {
		case strings.HasPrefix(line, "Name:"):
			profile.Name = fieldValue(line, "Name:")
		case strings.HasPrefix(line, "Email:"):
			profile.Email = fieldValue(line, "Email:")
		case strings.HasPrefix(line, "LinkedIn:"):
			profile.LinkedInURL = fieldValue(line, "LinkedIn:")
		case strings.HasPrefix(line, "GitHub:"):
			profile.GitHub = fieldValue(line, "GitHub:")
		}
	}

	return profile
}

func fieldValue(line, prefix string) string {
	value := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if strings.Contains(strings.ToLower(value), "not found") {
		return ""
	}
	return value
}
