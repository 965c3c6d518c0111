package notify

import (
	"context"

	"github.com/eladbarak/snapcal/internal/flow"
)

// Notifier sends a confirmation for a committed calendar event to a recipient
type Notifier interface {
	// Send sends the confirmation for a committed event to the recipient
	Send(ctx context.Context, event *flow.CommittedEvent, confirmation, recipient string) error
	// Name returns the notifier type name (for logging)
	Name() string
	// IsConfigured returns true if the notifier has server-side config
	IsConfigured() bool
}
