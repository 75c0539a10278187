// Package notify delivers short human-review messages. Delivery is best
// effort: a failed notification is an infrastructure problem, never a
// candidate decision.
package notify

import "context"

// Notifier posts a message to the human-review channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Noop is used when no channel is configured.
type Noop struct{}

func (Noop) Notify(context.Context, string) error { return nil }
