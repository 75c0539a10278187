package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spigell/hireflow/internal/github"
	"go.uber.org/zap"
)

// Repositories whose name or description mention one of these terms count as
// a full stack-relevant project.
var stackKeywords = []string{"react", "node", "express", "mongodb", "mern", "javascript", "typescript"}

// A JS/TS primary language alone is weaker evidence, worth half a project.
var stackLanguages = map[string]bool{
	"javascript": true,
	"typescript": true,
}

const (
	scoredRepoLimit  = 30
	recencyRepoLimit = 10
	recencyWindow    = 180 * 24 * time.Hour
)

// verifyGitHub looks up the public profile and scores repository evidence.
// Any lookup failure degrades to found=false with confidence 0.
func (v *Verifier) verifyGitHub(ctx context.Context, handle string) GitHubCheck {
	if handle == "" {
		return GitHubCheck{Reason: "No GitHub username provided in resume"}
	}

	username := github.NormalizeHandle(handle)

	user, err := v.codeHost.GetUser(ctx, username)
	if err != nil {
		v.logger.Warn("github user lookup failed", zap.String("username", username), zap.Error(err))
		return GitHubCheck{
			Username: username,
			Reason:   fmt.Sprintf("GitHub user not found: %s", username),
		}
	}

	repos, err := v.codeHost.GetRepos(ctx, username)
	if err != nil {
		// A missing repo list still leaves a usable profile; score what we have.
		v.logger.Warn("github repos lookup failed", zap.String("username", username), zap.Error(err))
		repos = nil
	}

	stackProjects := countStackProjects(repos)
	recent := hasRecentActivity(repos, v.now())

	confidence := 50
	if user.PublicRepos > 5 {
		confidence += 15
	}
	if stackProjects > 0 {
		confidence += 20
	}
	if recent {
		confidence += 15
	}

	return GitHubCheck{
		Found:          true,
		Username:       username,
		PublicRepos:    user.PublicRepos,
		StackProjects:  stackProjects,
		RecentActivity: recent,
		Confidence:     clampConfidence(confidence),
		Reason:         "GitHub profile verified",
	}
}

// countStackProjects sums 1 point per repository mentioning a stack keyword
// and 0.5 per repository whose primary language is a stack scripting
// language, truncated to an integer.
func countStackProjects(repos []github.Repo) int {
	score := 0.0

	for i, repo := range repos {
		if i >= scoredRepoLimit {
			break
		}

		name := strings.ToLower(repo.Name)
		description := strings.ToLower(repo.Description)
		language := strings.ToLower(repo.Language)

		if containsAny(name, stackKeywords) || containsAny(description, stackKeywords) {
			score++
		} else if stackLanguages[language] {
			score += 0.5
		}
	}

	return int(score)
}

// hasRecentActivity reports whether any of the most recently updated
// repositories was touched inside the recency window.
func hasRecentActivity(repos []github.Repo, now time.Time) bool {
	cutoff := now.Add(-recencyWindow)

	for i, repo := range repos {
		if i >= recencyRepoLimit {
			break
		}

		updated, err := time.Parse(time.RFC3339, repo.UpdatedAt)
		if err != nil {
			continue
		}

		if updated.After(cutoff) {
			return true
		}
	}

	return false
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
