package messenger

import "context"

// Messenger defines the interface for delivering text to a user or channel
// on the chat platform. The adapter behind it owns retry and rate-limit
// behavior; callers treat a send as fire-and-forget.
type Messenger interface {
	Send(ctx context.Context, recipient, text string) error
}
