package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeRecord() EventRecord {
	return EventRecord{
		Title:     "Music Night",
		Date:      "2025-01-06",
		StartTime: "18:00",
		EndTime:   "21:00",
		Location:  "Goodsound Club, 132 Main St, Newcity",
	}
}

func TestRoute_SingleMissingField(t *testing.T) {
	tests := []struct {
		name  string
		blank func(*EventRecord)
		want  string
	}{
		{"missing title", func(r *EventRecord) { r.Title = "" }, FieldTitle},
		{"missing date", func(r *EventRecord) { r.Date = "" }, FieldDate},
		{"missing start time", func(r *EventRecord) { r.StartTime = "" }, FieldStartTime},
		{"missing location", func(r *EventRecord) { r.Location = "" }, FieldLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := completeRecord()
			tt.blank(&record)

			decision := Route(record)

			assert.Equal(t, DecisionAskUser, decision.Kind)
			assert.Equal(t, []string{tt.want}, decision.Missing)
		})
	}
}

func TestRoute_CompleteRecordCommits(t *testing.T) {
	record := completeRecord()

	decision := Route(record)

	assert.Equal(t, DecisionCommit, decision.Kind)
	assert.Empty(t, decision.Missing)
	assert.Equal(t, record, decision.Record)
}

func TestRoute_MissingEndTimeStillCommits(t *testing.T) {
	record := completeRecord()
	record.EndTime = ""

	decision := Route(record)

	assert.Equal(t, DecisionCommit, decision.Kind)
	assert.Equal(t, record, decision.Record)
}

func TestRoute_Idempotent(t *testing.T) {
	record := completeRecord()

	first := Route(record)
	second := Route(first.Record)

	assert.Equal(t, first, second)
}

func TestRoute_WhitespaceCountsAsMissing(t *testing.T) {
	record := completeRecord()
	record.Location = "   "
	record.Date = "\t"

	decision := Route(record)

	assert.Equal(t, DecisionAskUser, decision.Kind)
	assert.Equal(t, []string{FieldDate, FieldLocation}, decision.Missing)
}

func TestRoute_MissingOrderIsStable(t *testing.T) {
	decision := Route(EventRecord{})

	assert.Equal(t, []string{FieldTitle, FieldDate, FieldStartTime, FieldLocation}, decision.Missing)
}

func TestFailClosed_NeverCommits(t *testing.T) {
	partial := EventRecord{Title: "Gig"}

	decision := FailClosed(partial)

	assert.Equal(t, DecisionAskUser, decision.Kind)
	assert.Equal(t, []string{FieldTitle, FieldDate, FieldStartTime, FieldLocation}, decision.Missing)
	assert.Equal(t, "Gig", decision.Record.Title)
}

func TestMerge_FillsOnlyBlanks(t *testing.T) {
	prior := EventRecord{Title: "Gig"}
	update := EventRecord{
		Title:    "Some Other Name",
		Date:     "2025-03-01",
		Location: "The Venue",
	}

	merged := Merge(prior, update)

	assert.Equal(t, "Gig", merged.Title, "present field must not be overwritten")
	assert.Equal(t, "2025-03-01", merged.Date)
	assert.Equal(t, "The Venue", merged.Location)
	assert.Equal(t, "", merged.StartTime)

	decision := Route(merged)
	require.Equal(t, DecisionAskUser, decision.Kind)
	assert.Equal(t, []string{FieldStartTime}, decision.Missing)
}

func TestMerge_EmptyUpdateErasesNothing(t *testing.T) {
	prior := completeRecord()

	merged := Merge(prior, EventRecord{})

	assert.Equal(t, prior, merged)
}

func TestClarificationQuestion(t *testing.T) {
	tests := []struct {
		name    string
		missing []string
		want    string
	}{
		{
			name:    "single field",
			missing: []string{"location"},
			want:    "Please provide the event's location.",
		},
		{
			name:    "multiple fields preserve order",
			missing: []string{"start_time", "location"},
			want:    "Please provide the event's start time. Please provide the event's location.",
		},
		{
			name:    "underscores become spaces",
			missing: []string{"start_time"},
			want:    "Please provide the event's start time.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClarificationQuestion(tt.missing))
		})
	}
}
