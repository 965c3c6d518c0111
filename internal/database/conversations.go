package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eladbarak/snapcal/internal/flow"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrConversationClosed is returned when a reply arrives for a
	// conversation that already committed or failed.
	ErrConversationClosed = errors.New("conversation already closed")
)

// ConversationStatus represents where a conversation is in its lifecycle
type ConversationStatus string

const (
	// StatusExtracting: created, first extraction in flight.
	StatusExtracting ConversationStatus = "extracting"
	// StatusAwaitingInput: suspended at a clarification question.
	StatusAwaitingInput ConversationStatus = "awaiting_input"
	// StatusCommitted: event written to the calendar. Terminal.
	StatusCommitted ConversationStatus = "committed"
	// StatusFailed: calendar write or extraction failed. Terminal.
	StatusFailed ConversationStatus = "failed"
)

// Closed reports whether the status is terminal.
func (s ConversationStatus) Closed() bool {
	return s == StatusCommitted || s == StatusFailed
}

// Conversation tracks one image-to-event session and owns the partial record
// accumulated across clarification rounds.
type Conversation struct {
	ID            string             `json:"id"`
	Status        ConversationStatus `json:"status"`
	Record        flow.EventRecord   `json:"record"`
	Question      string             `json:"question,omitempty"`
	GoogleEventID *string            `json:"google_event_id,omitempty"`
	LastError     string             `json:"last_error,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// RoutingDecisionRow is one recorded routing decision for a conversation.
type RoutingDecisionRow struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Kind           string    `json:"kind"`
	MissingFields  []string  `json:"missing_fields"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateConversation inserts a new conversation in the extracting state.
func (d *DB) CreateConversation(id string) (*Conversation, error) {
	_, err := d.Exec(`
		INSERT INTO conversations (id, status) VALUES (?, ?)
	`, id, StatusExtracting)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return d.GetConversation(id)
}

// GetConversation loads a conversation by id.
func (d *DB) GetConversation(id string) (*Conversation, error) {
	row := d.QueryRow(`
		SELECT id, status, title, date, start_time, end_time, location,
		       question, google_event_id, last_error, created_at, updated_at
		FROM conversations WHERE id = ?
	`, id)

	return scanConversation(row)
}

func scanConversation(row *sql.Row) (*Conversation, error) {
	var c Conversation
	var googleEventID sql.NullString

	err := row.Scan(
		&c.ID, &c.Status,
		&c.Record.Title, &c.Record.Date, &c.Record.StartTime, &c.Record.EndTime, &c.Record.Location,
		&c.Question, &googleEventID, &c.LastError, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}

	if googleEventID.Valid {
		c.GoogleEventID = &googleEventID.String
	}
	return &c, nil
}

// SetAwaitingInput stores the accumulated partial record and clarification
// question, suspending the conversation until the user replies.
func (d *DB) SetAwaitingInput(id string, record flow.EventRecord, question string) error {
	result, err := d.Exec(`
		UPDATE conversations
		SET status = ?, title = ?, date = ?, start_time = ?, end_time = ?, location = ?,
		    question = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusAwaitingInput,
		record.Title, record.Date, record.StartTime, record.EndTime, record.Location,
		question, id)
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	return requireRow(result)
}

// MarkCommitted closes the conversation after a successful calendar write.
func (d *DB) MarkCommitted(id string, record flow.EventRecord, googleEventID string) error {
	result, err := d.Exec(`
		UPDATE conversations
		SET status = ?, title = ?, date = ?, start_time = ?, end_time = ?, location = ?,
		    question = '', google_event_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusCommitted,
		record.Title, record.Date, record.StartTime, record.EndTime, record.Location,
		googleEventID, id)
	if err != nil {
		return fmt.Errorf("failed to mark conversation committed: %w", err)
	}
	return requireRow(result)
}

// MarkFailed closes the conversation with an error description.
func (d *DB) MarkFailed(id string, cause string) error {
	result, err := d.Exec(`
		UPDATE conversations
		SET status = ?, last_error = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusFailed, cause, id)
	if err != nil {
		return fmt.Errorf("failed to mark conversation failed: %w", err)
	}
	return requireRow(result)
}

// ListConversations returns the most recently updated conversations.
func (d *DB) ListConversations(limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.Query(`
		SELECT id, status, title, date, start_time, end_time, location,
		       question, google_event_id, last_error, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		var c Conversation
		var googleEventID sql.NullString
		if err := rows.Scan(
			&c.ID, &c.Status,
			&c.Record.Title, &c.Record.Date, &c.Record.StartTime, &c.Record.EndTime, &c.Record.Location,
			&c.Question, &googleEventID, &c.LastError, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		if googleEventID.Valid {
			c.GoogleEventID = &googleEventID.String
		}
		conversations = append(conversations, c)
	}

	return conversations, rows.Err()
}

// AppendDecision records one routing decision for a conversation.
func (d *DB) AppendDecision(conversationID string, decision flow.RoutingDecision) error {
	missingJSON := []byte("[]")
	if len(decision.Missing) > 0 {
		if encoded, err := json.Marshal(decision.Missing); err == nil {
			missingJSON = encoded
		}
	}

	_, err := d.Exec(`
		INSERT INTO routing_decisions (conversation_id, kind, missing_fields)
		VALUES (?, ?, ?)
	`, conversationID, string(decision.Kind), string(missingJSON))
	if err != nil {
		return fmt.Errorf("failed to append decision: %w", err)
	}
	return nil
}

// ListDecisions returns a conversation's decision history, oldest first.
func (d *DB) ListDecisions(conversationID string) ([]RoutingDecisionRow, error) {
	rows, err := d.Query(`
		SELECT id, conversation_id, kind, missing_fields, created_at
		FROM routing_decisions
		WHERE conversation_id = ?
		ORDER BY id ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []RoutingDecisionRow
	for rows.Next() {
		var row RoutingDecisionRow
		var missingJSON string
		if err := rows.Scan(&row.ID, &row.ConversationID, &row.Kind, &missingJSON, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		if err := json.Unmarshal([]byte(missingJSON), &row.MissingFields); err != nil {
			row.MissingFields = nil
		}
		decisions = append(decisions, row)
	}

	return decisions, rows.Err()
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrConversationNotFound
	}
	return nil
}
