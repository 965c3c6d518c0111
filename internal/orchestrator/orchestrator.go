package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eladbarak/snapcal/internal/database"
	"github.com/eladbarak/snapcal/internal/flow"
)

// Extractor pulls event fields out of an image.
type Extractor interface {
	Extract(ctx context.Context, imageData []byte, mimeType string) (*flow.EventRecord, error)
}

// Decider chooses between asking the user and committing.
type Decider interface {
	Decide(ctx context.Context, partial flow.EventRecord) (flow.RoutingDecision, error)
	DecideWithReply(ctx context.Context, partial flow.EventRecord, reply string) (flow.RoutingDecision, error)
}

// Committer writes a complete record to the calendar.
type Committer interface {
	Commit(ctx context.Context, record flow.EventRecord) (*flow.CommittedEvent, error)
}

// Summarizer renders a committed event as user-facing confirmation text.
type Summarizer interface {
	Summarize(ctx context.Context, committed flow.CommittedEvent) string
}

// Notifier delivers the confirmation out of band after a commit.
type Notifier interface {
	NotifyCommitted(ctx context.Context, event *flow.CommittedEvent, confirmation string)
}

// Orchestrator drives a conversation from image upload through clarification
// rounds to a single calendar commit.
type Orchestrator struct {
	db         *database.DB
	extractor  Extractor
	decider    Decider
	committer  Committer
	summarizer Summarizer
	notifier   Notifier
}

// New wires the pipeline stages together. notifier may be nil.
func New(db *database.DB, extractor Extractor, decider Decider, committer Committer, summarizer Summarizer, notifier Notifier) *Orchestrator {
	return &Orchestrator{
		db:         db,
		extractor:  extractor,
		decider:    decider,
		committer:  committer,
		summarizer: summarizer,
		notifier:   notifier,
	}
}

// Result is the outcome of one orchestration step, either a clarification
// question or a final confirmation.
type Result struct {
	ConversationID string                      `json:"conversation_id"`
	Status         database.ConversationStatus `json:"status"`
	Question       string                      `json:"question,omitempty"`
	Confirmation   string                      `json:"confirmation,omitempty"`
	Event          *flow.CommittedEvent        `json:"event,omitempty"`
}

// StartFromImage opens a new conversation from an uploaded image. The
// extracted fields either commit directly or come back as a clarification
// question.
func (o *Orchestrator) StartFromImage(ctx context.Context, imageData []byte, mimeType string) (*Result, error) {
	conv, err := o.db.CreateConversation(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to open conversation: %w", err)
	}

	record, err := o.extractor.Extract(ctx, imageData, mimeType)
	if err != nil {
		if markErr := o.db.MarkFailed(conv.ID, err.Error()); markErr != nil {
			fmt.Printf("Warning: could not mark conversation %s failed: %v\n", conv.ID, markErr)
		}
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	decision, err := o.decider.Decide(ctx, *record)
	if err != nil {
		// No usable decision at all. Ask for everything rather than
		// guessing what the extraction got right.
		decision = flow.FailClosed(*record)
	}

	return o.apply(ctx, conv.ID, decision)
}

// HandleReply merges a user reply into an open conversation and re-routes.
func (o *Orchestrator) HandleReply(ctx context.Context, conversationID, message string) (*Result, error) {
	conv, err := o.db.GetConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if conv.Status.Closed() {
		return nil, database.ErrConversationClosed
	}

	decision, err := o.decider.DecideWithReply(ctx, conv.Record, message)
	if err != nil {
		decision = flow.FailClosed(conv.Record)
	}

	return o.apply(ctx, conv.ID, decision)
}

// apply records the routing decision and performs its side effects.
func (o *Orchestrator) apply(ctx context.Context, conversationID string, decision flow.RoutingDecision) (*Result, error) {
	if err := o.db.AppendDecision(conversationID, decision); err != nil {
		fmt.Printf("Warning: could not record decision for conversation %s: %v\n", conversationID, err)
	}

	switch decision.Kind {
	case flow.DecisionCommit:
		return o.commit(ctx, conversationID, decision.Record)
	default:
		question := flow.ClarificationQuestion(decision.Missing)
		if err := o.db.SetAwaitingInput(conversationID, decision.Record, question); err != nil {
			return nil, fmt.Errorf("failed to persist clarification state: %w", err)
		}
		return &Result{
			ConversationID: conversationID,
			Status:         database.StatusAwaitingInput,
			Question:       question,
		}, nil
	}
}

// commit performs the single calendar write and closes the conversation.
// Summarization happens after the commit is durable, so a presentation
// failure never loses the event.
func (o *Orchestrator) commit(ctx context.Context, conversationID string, record flow.EventRecord) (*Result, error) {
	committed, err := o.committer.Commit(ctx, record)
	if err != nil {
		if markErr := o.db.MarkFailed(conversationID, err.Error()); markErr != nil {
			fmt.Printf("Warning: could not mark conversation %s failed: %v\n", conversationID, markErr)
		}
		return nil, fmt.Errorf("calendar write failed: %w", err)
	}

	if err := o.db.MarkCommitted(conversationID, record, committed.EventID); err != nil {
		// The calendar event exists. Report success with a warning rather
		// than pretend the commit failed.
		fmt.Printf("Warning: could not mark conversation %s committed: %v\n", conversationID, err)
	}

	confirmation := o.summarizer.Summarize(ctx, *committed)
	if o.notifier != nil {
		o.notifier.NotifyCommitted(ctx, committed, confirmation)
	}

	return &Result{
		ConversationID: conversationID,
		Status:         database.StatusCommitted,
		Confirmation:   confirmation,
		Event:          committed,
	}, nil
}
