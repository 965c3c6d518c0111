package summary

import (
	"bytes"
	"context"
	"fmt"

	"github.com/eladbarak/snapcal/internal/agent"
	"github.com/eladbarak/snapcal/internal/flow"
	"github.com/eladbarak/snapcal/internal/timeutil"
)

// Agent turns a committed event into a natural-language confirmation. The
// event is already on the calendar when this runs, so a model failure here
// degrades to a deterministic fallback message instead of an error.
type Agent struct {
	client *agent.APIClient
}

// Config configures the summary agent
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
}

// NewAgent creates a new summary agent
func NewAgent(cfg Config) *Agent {
	return &Agent{
		client: agent.NewAPIClient(cfg.APIKey, cfg.Model, cfg.Temperature),
	}
}

// SetAPIURL overrides the API endpoint (used by tests)
func (a *Agent) SetAPIURL(url string) {
	a.client.SetAPIURL(url)
}

// IsConfigured returns true if the agent has an API key
func (a *Agent) IsConfigured() bool {
	return a.client.IsConfigured()
}

// Summarize produces the user-facing confirmation for a committed event.
// Never fails: if the model call does, the fallback text is returned.
func (a *Agent) Summarize(ctx context.Context, committed flow.CommittedEvent) string {
	resp, err := a.client.Call(ctx, []agent.Message{
		{
			Role: "user",
			Content: []agent.ContentBlock{
				agent.TextBlock{Type: "text", Text: buildSummaryPrompt(committed)},
			},
		},
	}, agent.CallOptions{
		System: ConfirmationSystemPrompt,
	})
	if err != nil {
		fmt.Printf("Summary call failed, using fallback confirmation: %v\n", err)
		return FallbackConfirmation(committed)
	}

	text := agent.FirstText(resp.Content)
	if text == "" {
		return FallbackConfirmation(committed)
	}
	return text
}

func buildSummaryPrompt(committed flow.CommittedEvent) string {
	var prompt bytes.Buffer

	prompt.WriteString("The following event was just added to the user's calendar:\n\n")
	prompt.WriteString(fmt.Sprintf("- Title: %s\n", committed.Title))
	if committed.AllDay {
		prompt.WriteString(fmt.Sprintf("- Date: %s (all day)\n", timeutil.FormatDate(committed.Start)))
	} else {
		prompt.WriteString(fmt.Sprintf("- Date: %s\n", timeutil.FormatDate(committed.Start)))
		prompt.WriteString(fmt.Sprintf("- Starts: %s\n", committed.Start.Format("15:04")))
		prompt.WriteString(fmt.Sprintf("- Ends: %s\n", committed.End.Format("15:04 (2006-01-02)")))
	}
	if committed.Location != "" {
		prompt.WriteString(fmt.Sprintf("- Location: %s\n", committed.Location))
	}

	prompt.WriteString("\nWrite the confirmation message for the user.")
	return prompt.String()
}

// FallbackConfirmation is the deterministic confirmation used when the
// summary model is unavailable. The commit is the durable side effect; a
// presentation failure must not look like a booking failure.
func FallbackConfirmation(committed flow.CommittedEvent) string {
	if committed.AllDay {
		return fmt.Sprintf("Your event %q on %s at %s was added to your calendar.",
			committed.Title, timeutil.FormatDate(committed.Start), committed.Location)
	}
	return fmt.Sprintf("Your event %q on %s at %s starting %s was added to your calendar.",
		committed.Title, timeutil.FormatDate(committed.Start), committed.Location,
		committed.Start.Format("15:04"))
}
