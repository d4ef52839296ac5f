package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// ConsoleNotifier delivers notifications by writing them to Out, one block
// per notification. It stands in for a chat transport when chime runs
// standalone.
type ConsoleNotifier struct {
	Out io.Writer

	mu sync.Mutex
}

// Send writes the notification. The context is checked before writing so a
// cancelled delivery is not half-printed.
func (n *ConsoleNotifier) Send(ctx context.Context, owner int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.Out, "[owner %d]\n%s\n", owner, text)
	return err
}
