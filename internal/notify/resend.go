package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/eladbarak/snapcal/internal/flow"
	"github.com/resend/resend-go/v2"
)

// ResendNotifier sends email confirmations via Resend API
type ResendNotifier struct {
	client      *resend.Client
	fromAddress string
}

// NewResendNotifier creates a new Resend email notifier
func NewResendNotifier(apiKey, from string) *ResendNotifier {
	if apiKey == "" {
		return nil
	}
	return &ResendNotifier{
		client:      resend.NewClient(apiKey),
		fromAddress: from,
	}
}

// IsConfigured returns true if the notifier has server-side config
func (r *ResendNotifier) IsConfigured() bool {
	return r.client != nil && r.fromAddress != ""
}

// Name returns the notifier name
func (r *ResendNotifier) Name() string {
	return "resend"
}

// Send emails the confirmation for a committed event to the recipient
func (r *ResendNotifier) Send(ctx context.Context, event *flow.CommittedEvent, confirmation, recipient string) error {
	if recipient == "" {
		return fmt.Errorf("no recipient specified")
	}

	subject := fmt.Sprintf("Event Added to Your Calendar: %s", event.Title)
	html := r.formatEmailHTML(event, confirmation)

	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      []string{recipient},
		Subject: subject,
		Html:    html,
	}

	_, err := r.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	fmt.Printf("Email confirmation sent to %s for event: %s\n", recipient, event.Title)
	return nil
}

// formatEmailHTML creates the HTML email body
func (r *ResendNotifier) formatEmailHTML(event *flow.CommittedEvent, confirmation string) string {
	whenStr := event.Start.Format("Monday, January 2, 2006 at 3:04 PM")
	if event.AllDay {
		whenStr = event.Start.Format("Monday, January 2, 2006") + " (all day)"
	} else if !event.End.IsZero() {
		if event.Start.Format("2006-01-02") == event.End.Format("2006-01-02") {
			whenStr += fmt.Sprintf(" - %s", event.End.Format("3:04 PM"))
		} else {
			whenStr += fmt.Sprintf(" - %s", event.End.Format("Monday, January 2, 2006 at 3:04 PM"))
		}
	}

	locationHTML := ""
	if event.Location != "" {
		locationHTML = fmt.Sprintf(`<p style="margin: 8px 0;"><strong>Location:</strong> %s</p>`, event.Location)
	}

	confirmationHTML := ""
	if confirmation != "" {
		confirmationHTML = fmt.Sprintf(`<p style="margin: 16px 0;">%s</p>`, confirmation)
	}

	linkHTML := ""
	if event.HTMLLink != "" {
		linkHTML = fmt.Sprintf(`
    <a href="%s" style="display: inline-block; background: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 16px; font-weight: 500;">
      View in Google Calendar
    </a>`, event.HTMLLink)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
  <div style="background-color: white; border-radius: 8px; padding: 24px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <div style="margin-bottom: 16px;">
      <span style="background-color: #28a745; color: white; padding: 4px 12px; border-radius: 4px; font-size: 12px; font-weight: 600;">Event Created</span>
    </div>

    <h2 style="margin: 0 0 16px 0; color: #333;">%s</h2>

    <div style="background: #f8f9fa; padding: 16px; border-radius: 8px; margin: 16px 0; border-left: 4px solid #007bff;">
      <p style="margin: 8px 0;"><strong>When:</strong> %s</p>
      %s
    </div>

    %s
    %s

    <hr style="margin-top: 32px; border: none; border-top: 1px solid #eee;">
    <p style="color: #999; font-size: 12px; margin-top: 16px;">
      SnapCal - Image to Calendar Assistant<br>
      <span style="color: #ccc;">Sent at %s</span>
    </p>
  </div>
</body>
</html>`,
		event.Title,
		whenStr,
		locationHTML,
		confirmationHTML,
		linkHTML,
		time.Now().Format("Jan 2, 2006 3:04 PM"),
	)
}
