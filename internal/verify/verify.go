// Package verify scores an extracted candidate identity for plausibility.
// Each signal (email, LinkedIn, GitHub) produces an independent check with a
// confidence in [0,100]; the checks are aggregated into a weighted
// credibility report. External lookup failures never surface as errors: they
// degrade to a zero-confidence check with a descriptive reason.
package verify

import (
	"context"
	"math"
	"time"

	"github.com/spigell/hireflow/internal/github"
	"github.com/spigell/hireflow/internal/resume"
	"go.uber.org/zap"
)

const (
	StatusVerified          = "VERIFIED"
	StatusPartiallyVerified = "PARTIALLY_VERIFIED"
	StatusUnverified        = "UNVERIFIED"

	RecommendProceed     = "PROCEED"
	RecommendWithCaution = "PROCEED_WITH_CAUTION"
	RecommendReject      = "REJECT"
)

// Aggregation weights and thresholds for the credibility score.
const (
	emailWeight    = 0.20
	linkedinWeight = 0.40
	githubWeight   = 0.40

	verifiedThreshold  = 80
	partiallyThreshold = 70
)

// CodeHost is the read-only lookup surface the GitHub check needs.
type CodeHost interface {
	GetUser(ctx context.Context, handle string) (*github.User, error)
	GetRepos(ctx context.Context, handle string) ([]github.Repo, error)
}

// EmailCheck is the result of validating the candidate email address.
type EmailCheck struct {
	Valid        bool   `json:"valid"`
	Professional bool   `json:"professional"`
	Confidence   int    `json:"confidence"`
	Domain       string `json:"domain,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// LinkedInCheck is the result of validating the professional network profile.
type LinkedInCheck struct {
	Found      bool   `json:"found"`
	ProfileURL string `json:"profile_url,omitempty"`
	Confidence int    `json:"confidence"`
	Reason     string `json:"reason,omitempty"`
}

// GitHubCheck is the result of looking up the code-hosting profile.
type GitHubCheck struct {
	Found          bool   `json:"found"`
	Username       string `json:"username,omitempty"`
	PublicRepos    int    `json:"public_repos"`
	StackProjects  int    `json:"stack_projects"`
	RecentActivity bool   `json:"recent_activity"`
	Confidence     int    `json:"confidence"`
	Reason         string `json:"reason,omitempty"`
}

// Checks groups the three per-signal results.
type Checks struct {
	Email    EmailCheck    `json:"email"`
	LinkedIn LinkedInCheck `json:"linkedin"`
	GitHub   GitHubCheck   `json:"github"`
}

// Report aggregates the checks into a weighted credibility verdict. It is
// derived, recomputed each run and never mutated after creation.
type Report struct {
	CredibilityScore int      `json:"credibility_score"`
	Status           string   `json:"status"`
	CandidateName    string   `json:"candidate_name,omitempty"`
	CandidateEmail   string   `json:"candidate_email,omitempty"`
	Checks           Checks   `json:"checks"`
	Issues           []string `json:"issues"`
	Recommendation   string   `json:"recommendation"`
}

// Verifier runs the background checks against a candidate profile.
type Verifier struct {
	codeHost CodeHost
	logger   *zap.Logger

	// now is swapped in tests to pin the recent-activity window.
	now func() time.Time
}

func New(codeHost CodeHost, logger *zap.Logger) *Verifier {
	return &Verifier{
		codeHost: codeHost,
		logger:   logger,
		now:      time.Now,
	}
}

// Verify produces the credibility report for the candidate profile. It never
// returns an error: every failure path is folded into the report itself.
func (v *Verifier) Verify(ctx context.Context, profile resume.Profile) *Report {
	email := verifyEmail(profile.Email)
	linkedin := verifyLinkedIn(profile.LinkedInURL)
	gh := v.verifyGitHub(ctx, profile.GitHub)

	v.logger.Debug("verification checks complete",
		zap.Int("email_confidence", email.Confidence),
		zap.Int("linkedin_confidence", linkedin.Confidence),
		zap.Int("github_confidence", gh.Confidence),
	)

	checks := Checks{Email: email, LinkedIn: linkedin, GitHub: gh}

	score := credibilityScore(checks)

	status := StatusUnverified
	recommendation := RecommendReject
	switch {
	case score >= verifiedThreshold:
		status = StatusVerified
		recommendation = RecommendProceed
	case score >= partiallyThreshold:
		status = StatusPartiallyVerified
		recommendation = RecommendWithCaution
	}

	return &Report{
		CredibilityScore: score,
		Status:           status,
		CandidateName:    profile.Name,
		CandidateEmail:   profile.Email,
		Checks:           checks,
		Issues:           collectIssues(checks),
		Recommendation:   recommendation,
	}
}

// credibilityScore combines the check confidences with fixed weights:
// email 20%, LinkedIn 40%, GitHub 40%.
func credibilityScore(checks Checks) int {
	total := float64(checks.Email.Confidence)*emailWeight +
		float64(checks.LinkedIn.Confidence)*linkedinWeight +
		float64(checks.GitHub.Confidence)*githubWeight

	return clampConfidence(int(math.Round(total)))
}

// collectIssues lists the verification problems in a fixed order. The three
// GitHub issues are mutually exclusive: only the first applicable one is added.
func collectIssues(checks Checks) []string {
	issues := []string{}

	if !checks.Email.Valid {
		issues = append(issues, "Invalid or disposable email address")
	}
	if !checks.LinkedIn.Found {
		issues = append(issues, "LinkedIn profile not found")
	}

	switch {
	case !checks.GitHub.Found:
		issues = append(issues, "GitHub profile not found")
	case checks.GitHub.PublicRepos == 0:
		issues = append(issues, "No public GitHub repositories")
	case checks.GitHub.StackProjects == 0:
		issues = append(issues, "No relevant stack projects found on GitHub")
	}

	return issues
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
