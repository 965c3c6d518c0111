package agent

// Message represents a conversation message in the Anthropic API format
type Message struct {
	Role    string         `json:"role"` // "user" or "assistant"
	Content []ContentBlock `json:"content"`
}

// ContentBlock is the interface for different content types
type ContentBlock interface {
	BlockType() string
}

// TextBlock represents plain text content
type TextBlock struct {
	Type string `json:"type"` // Always "text"
	Text string `json:"text"`
}

func (t TextBlock) BlockType() string { return "text" }

// ImageBlock represents inline image content, base64-encoded
type ImageBlock struct {
	Type      string `json:"type"` // Always "image"
	MediaType string `json:"media_type"`
	Data      string `json:"data"` // base64-encoded image bytes
}

func (i ImageBlock) BlockType() string { return "image" }

// ToolUseBlock represents a tool invocation by the assistant
type ToolUseBlock struct {
	Type  string         `json:"type"` // Always "tool_use"
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

func (t ToolUseBlock) BlockType() string { return "tool_use" }

// UsageStats tracks API usage
type UsageStats struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add accumulates usage from another stats object
func (u *UsageStats) Add(other UsageStats) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
}

// FirstText returns the first text block in content, or "".
func FirstText(content []ContentBlock) string {
	for _, block := range content {
		if text, ok := block.(TextBlock); ok {
			return text.Text
		}
	}
	return ""
}

// FirstToolUse returns the first tool_use block in content, or nil.
func FirstToolUse(content []ContentBlock) *ToolUseBlock {
	for _, block := range content {
		if tool, ok := block.(ToolUseBlock); ok {
			return &tool
		}
	}
	return nil
}

// ToolUses returns all tool_use blocks in content.
func ToolUses(content []ContentBlock) []ToolUseBlock {
	var uses []ToolUseBlock
	for _, block := range content {
		if tool, ok := block.(ToolUseBlock); ok {
			uses = append(uses, tool)
		}
	}
	return uses
}
