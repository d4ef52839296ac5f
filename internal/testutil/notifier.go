package testutil

import (
	"context"
	"fmt"
	"sync"
)

// SentMessage is one recorded notification.
type SentMessage struct {
	Owner int64
	Text  string
}

// Notifier records sent notifications and can be told to fail.
//
// FailWith, when non-nil, makes every Send return that error without
// recording - used to verify that last_fired stays unset on delivery
// failure.
type Notifier struct {
	mu       sync.Mutex
	sent     []SentMessage
	FailWith error
}

// NewNotifier creates an empty recorder.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Send records the message, or fails if FailWith is set.
func (n *Notifier) Send(ctx context.Context, owner int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailWith != nil {
		return fmt.Errorf("send to %d: %w", owner, n.FailWith)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	n.sent = append(n.sent, SentMessage{Owner: owner, Text: text})
	return nil
}

// Sent returns a copy of the recorded messages in send order.
func (n *Notifier) Sent() []SentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]SentMessage, len(n.sent))
	copy(out, n.sent)
	return out
}

// Reset clears the recorded messages.
func (n *Notifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}
