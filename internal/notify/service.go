package notify

import (
	"context"
	"fmt"

	"github.com/eladbarak/snapcal/internal/flow"
)

// Service sends post-commit confirmations to a configured recipient
type Service struct {
	emailNotifier Notifier
	recipient     string
}

// NewService creates a notification service. A nil notifier or empty
// recipient disables notifications.
func NewService(emailNotifier Notifier, recipient string) *Service {
	return &Service{
		emailNotifier: emailNotifier,
		recipient:     recipient,
	}
}

// NotifyCommitted sends the confirmation for a committed event.
// Errors are logged but don't fail the operation: the calendar write has
// already happened and notification is best effort.
func (s *Service) NotifyCommitted(ctx context.Context, event *flow.CommittedEvent, confirmation string) {
	if event == nil {
		return
	}
	if s.recipient == "" {
		fmt.Println("Notification: no recipient configured")
		return
	}
	if s.emailNotifier == nil || !s.emailNotifier.IsConfigured() {
		fmt.Println("Notification: email notifier not configured")
		return
	}

	if err := s.emailNotifier.Send(ctx, event, confirmation, s.recipient); err != nil {
		fmt.Printf("Notification: email failed: %v\n", err)
		return
	}
	fmt.Printf("Notification: confirmation sent to %s for event: %s\n", s.recipient, event.Title)
}

// IsEmailAvailable returns true if email notifications can be used
func (s *Service) IsEmailAvailable() bool {
	return s.emailNotifier != nil && s.emailNotifier.IsConfigured()
}
