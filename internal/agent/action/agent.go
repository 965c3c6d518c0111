package action

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/eladbarak/snapcal/internal/agent"
	"github.com/eladbarak/snapcal/internal/flow"
)

// Agent is the decision stage: given a possibly-partial record (and, on
// re-entry, the user's free-text reply) it produces a RoutingDecision via a
// forced tool call. The model's choice is advisory; the returned decision is
// always re-validated against flow.Route so an incomplete record can never
// slip through as a commit.
type Agent struct {
	client *agent.APIClient
}

// Config configures the decision agent
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
}

// NewAgent creates a new decision agent
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

// Decide routes a freshly extracted record.
func (a *Agent) Decide(ctx context.Context, partial flow.EventRecord) (flow.RoutingDecision, error) {
	return a.decide(ctx, partial, "")
}

// DecideWithReply merges a user's free-text reply into the partial record and
// routes the result. Fields already present in partial survive the merge
// untouched.
func (a *Agent) DecideWithReply(ctx context.Context, partial flow.EventRecord, reply string) (flow.RoutingDecision, error) {
	return a.decide(ctx, partial, reply)
}

func (a *Agent) decide(ctx context.Context, partial flow.EventRecord, reply string) (flow.RoutingDecision, error) {
	resp, err := a.client.Call(ctx, []agent.Message{
		{
			Role: "user",
			Content: []agent.ContentBlock{
				agent.TextBlock{Type: "text", Text: buildDecisionPrompt(partial, reply)},
			},
		},
	}, agent.CallOptions{
		System:     DecisionSystemPrompt,
		Tools:      []agent.Tool{AskUserTool, AddEventTool},
		ToolChoice: "any",
	})
	if err != nil {
		return flow.RoutingDecision{}, fmt.Errorf("decision call failed: %w", err)
	}

	return ParseDecision(partial, resp.Content), nil
}

// buildDecisionPrompt renders the current structured data and, when present,
// the user's clarification reply.
func buildDecisionPrompt(partial flow.EventRecord, reply string) string {
	var prompt bytes.Buffer

	prompt.WriteString("## Current Extracted Event Data\n\n")
	encoded, err := json.MarshalIndent(partial, "", "  ")
	if err != nil {
		encoded = []byte("{}")
	}
	prompt.Write(encoded)
	prompt.WriteString("\n")

	if missing := partial.Missing(); len(missing) > 0 {
		prompt.WriteString("\n## Outstanding Missing Fields\n\n")
		for _, field := range missing {
			prompt.WriteString(fmt.Sprintf("- %s\n", field))
		}
	}

	if reply != "" {
		prompt.WriteString("\n## User Reply (interpret against the missing fields)\n\n")
		prompt.WriteString(reply)
		prompt.WriteString("\n")
	}

	prompt.WriteString("\nDecide what to do next using the available tools.")
	return prompt.String()
}

// ParseDecision maps the model output onto a RoutingDecision. It fails closed:
// no tool call, an unknown tool, multiple conflicting tool calls, or a commit
// of an incomplete record all route back to the user rather than committing.
func ParseDecision(partial flow.EventRecord, content []agent.ContentBlock) flow.RoutingDecision {
	uses := agent.ToolUses(content)
	if len(uses) == 0 {
		return flow.FailClosed(partial)
	}
	if len(uses) > 1 {
		// Ambiguous output: the decision stage must pick exactly one action.
		return flow.FailClosed(partial)
	}

	use := uses[0]
	switch use.Name {
	case toolAskUser:
		update := recordFromInput(inputObject(use.Input, "extracted_data"))
		return flow.Route(flow.Merge(partial, update))

	case toolAddToCal:
		update := recordFromInput(use.Input)
		merged := flow.Merge(partial, update)
		// flow.Route is the authority: if the model claimed completeness but
		// the merged record still has gaps, this demotes to ask_user.
		return flow.Route(merged)

	default:
		return flow.FailClosed(partial)
	}
}

func inputObject(input map[string]any, key string) map[string]any {
	if nested, ok := input[key].(map[string]any); ok {
		return nested
	}
	return nil
}

func recordFromInput(input map[string]any) flow.EventRecord {
	record := flow.EventRecord{}
	if input == nil {
		return record
	}

	if v, ok := input[flow.FieldTitle].(string); ok {
		record.Title = v
	}
	if v, ok := input[flow.FieldDate].(string); ok {
		record.Date = v
	}
	if v, ok := input[flow.FieldStartTime].(string); ok {
		record.StartTime = v
	}
	if v, ok := input[flow.FieldEndTime].(string); ok {
		record.EndTime = v
	}
	if v, ok := input[flow.FieldLocation].(string); ok {
		record.Location = v
	}
	return record
}
