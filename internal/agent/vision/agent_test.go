package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockAPI(t *testing.T, responseText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": responseText}},
			"stop_reason": "end_turn",
			"usage":       map[string]int{"input_tokens": 1, "output_tokens": 1},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
}

func TestExtract_ParsesCleanJSON(t *testing.T) {
	server := newMockAPI(t, `{"title":"Music Night","date":"2025-01-06","start_time":"18:00","end_time":"","location":"Goodsound Club"}`)
	defer server.Close()

	a := NewAgent(Config{APIKey: "test-key"})
	a.SetAPIURL(server.URL)

	record, err := a.Extract(context.Background(), []byte("fake-image"), "image/png")

	require.NoError(t, err)
	assert.Equal(t, "Music Night", record.Title)
	assert.Equal(t, "2025-01-06", record.Date)
	assert.Equal(t, "18:00", record.StartTime)
	assert.Equal(t, "", record.EndTime)
	assert.Equal(t, "Goodsound Club", record.Location)
}

func TestExtract_ParsesMarkdownWrappedJSON(t *testing.T) {
	wrapped := "```json\n{\"title\":\"Gig\",\"date\":\"\",\"start_time\":\"\",\"end_time\":\"\",\"location\":\"\"}\n```"
	server := newMockAPI(t, wrapped)
	defer server.Close()

	a := NewAgent(Config{APIKey: "test-key"})
	a.SetAPIURL(server.URL)

	record, err := a.Extract(context.Background(), []byte("fake-image"), "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, "Gig", record.Title)
	assert.False(t, record.Complete())
}

func TestExtract_TrimsFields(t *testing.T) {
	server := newMockAPI(t, `{"title":"  Gig  ","date":" 2025-01-06","start_time":"18:00 ","end_time":"","location":"  "}`)
	defer server.Close()

	a := NewAgent(Config{APIKey: "test-key"})
	a.SetAPIURL(server.URL)

	record, err := a.Extract(context.Background(), []byte("fake-image"), "image/png")

	require.NoError(t, err)
	assert.Equal(t, "Gig", record.Title)
	assert.Equal(t, "2025-01-06", record.Date)
	assert.False(t, record.Has("location"), "whitespace-only location is missing")
}

func TestExtract_InvalidJSON(t *testing.T) {
	server := newMockAPI(t, "I could not read the image, sorry.")
	defer server.Close()

	a := NewAgent(Config{APIKey: "test-key"})
	a.SetAPIURL(server.URL)

	_, err := a.Extract(context.Background(), []byte("fake-image"), "image/png")

	assert.Error(t, err)
}

func TestExtract_EmptyImage(t *testing.T) {
	a := NewAgent(Config{APIKey: "test-key"})

	_, err := a.Extract(context.Background(), nil, "image/png")

	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"nested braces", `prefix {"a":{"b":2}} suffix`, `{"a":{"b":2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.text))
		})
	}
}
