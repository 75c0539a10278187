package ai

import "context"

// Oracle is a text-completion backend. The pipeline treats every response as
// untrusted free text and parses it with the line-based rules of the calling
// package.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}
