package summary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eladbarak/snapcal/internal/flow"
	"github.com/stretchr/testify/assert"
)

func committedFixture() flow.CommittedEvent {
	return flow.CommittedEvent{
		EventID:  "evt_123",
		Title:    "Music Night",
		Location: "Goodsound Club",
		Start:    time.Date(2025, 1, 6, 18, 0, 0, 0, time.UTC),
		End:      time.Date(2025, 1, 6, 21, 0, 0, 0, time.UTC),
	}
}

func TestSummarize_UsesModelText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"content": [{"type": "text", "text": "All set! Music Night is on your calendar."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 1, "output_tokens": 1}
		}`))
	}))
	defer server.Close()

	a := NewAgent(Config{APIKey: "test-key"})
	a.SetAPIURL(server.URL)

	text := a.Summarize(context.Background(), committedFixture())

	assert.Equal(t, "All set! Music Night is on your calendar.", text)
}

func TestSummarize_FallsBackOnAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	a := NewAgent(Config{APIKey: "test-key"})
	a.SetAPIURL(server.URL)

	text := a.Summarize(context.Background(), committedFixture())

	assert.Contains(t, text, "Music Night")
	assert.Contains(t, text, "2025-01-06")
	assert.Contains(t, text, "added to your calendar")
}

func TestFallbackConfirmation(t *testing.T) {
	timed := FallbackConfirmation(committedFixture())
	assert.Contains(t, timed, "Music Night")
	assert.Contains(t, timed, "18:00")
	assert.Contains(t, timed, "Goodsound Club")

	allDay := committedFixture()
	allDay.AllDay = true
	text := FallbackConfirmation(allDay)
	assert.Contains(t, text, "2025-01-06")
	assert.NotContains(t, text, "18:00")
}
