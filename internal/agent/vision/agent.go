package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/eladbarak/snapcal/internal/agent"
	"github.com/eladbarak/snapcal/internal/flow"
)

// Agent extracts structured event details from an image of a flyer,
// invitation or screenshot.
type Agent struct {
	client *agent.APIClient
}

// Config configures the vision agent
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
}

// NewAgent creates a new vision extraction agent
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

// Extract runs one vision call over the image and returns the best-effort
// record. Fields the model could not read come back empty; extraction
// ambiguity is not an error.
func (a *Agent) Extract(ctx context.Context, imageData []byte, mimeType string) (*flow.EventRecord, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("image data is required")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	resp, err := a.client.Call(ctx, []agent.Message{
		{
			Role: "user",
			Content: []agent.ContentBlock{
				agent.TextBlock{Type: "text", Text: "Extract event details as per your instructions"},
				agent.ImageBlock{
					Type:      "image",
					MediaType: mimeType,
					Data:      base64.StdEncoding.EncodeToString(imageData),
				},
			},
		},
	}, agent.CallOptions{
		System: ExtractionSystemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("vision call failed: %w", err)
	}

	responseText := agent.FirstText(resp.Content)
	if responseText == "" {
		return nil, fmt.Errorf("empty response from vision model")
	}

	// The model is told to answer with bare JSON but may still wrap it in a
	// markdown fence.
	var record flow.EventRecord
	jsonStr := extractJSON(responseText)
	if err := json.Unmarshal([]byte(jsonStr), &record); err != nil {
		return nil, fmt.Errorf("failed to parse extraction JSON: %w (response: %s)", err, responseText)
	}

	trimmed := record.Trimmed()
	return &trimmed, nil
}

// extractJSON attempts to extract JSON from a response that might be wrapped in markdown
func extractJSON(text string) string {
	start := 0
	if idx := findJSONStart(text); idx >= 0 {
		start = idx
	}

	end := len(text)
	if idx := findJSONEnd(text, start); idx >= 0 {
		end = idx + 1
	}

	return text[start:end]
}

func findJSONStart(text string) int {
	// Look for opening brace, possibly after ```json
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			return i
		}
	}
	return -1
}

func findJSONEnd(text string, start int) int {
	// Find matching closing brace
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
