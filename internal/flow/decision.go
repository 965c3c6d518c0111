package flow

import (
	"fmt"
	"strings"
)

// DecisionKind tags a RoutingDecision variant.
type DecisionKind string

const (
	// DecisionAskUser means required fields are missing and the user must be
	// asked before the event can be committed.
	DecisionAskUser DecisionKind = "ask_user"
	// DecisionCommit means the record is complete and ready to write to the
	// calendar.
	DecisionCommit DecisionKind = "commit"
)

// RoutingDecision is the outcome of one extraction or merge attempt. Exactly
// one variant is active: AskUser carries the missing field names plus the
// partial record, Commit carries the complete record.
type RoutingDecision struct {
	Kind    DecisionKind `json:"kind"`
	Missing []string     `json:"missing_fields,omitempty"`
	Record  EventRecord  `json:"record"`
}

// Route classifies a record. Pure and deterministic: the same record always
// yields the same decision, and Missing is always the complement of the
// required fields present, in canonical order.
func Route(record EventRecord) RoutingDecision {
	record = record.Trimmed()
	if missing := record.Missing(); len(missing) > 0 {
		return RoutingDecision{
			Kind:    DecisionAskUser,
			Missing: missing,
			Record:  record,
		}
	}
	return RoutingDecision{
		Kind:   DecisionCommit,
		Record: record,
	}
}

// FailClosed is the decision used when no usable decision could be produced
// at all (no tool call, malformed arguments). It never commits: all required
// fields are flagged missing and whatever partial data exists is preserved.
func FailClosed(partial EventRecord) RoutingDecision {
	missing := make([]string, len(RequiredFields))
	copy(missing, RequiredFields)
	return RoutingDecision{
		Kind:    DecisionAskUser,
		Missing: missing,
		Record:  partial.Trimmed(),
	}
}

// ClarificationQuestion renders one sentence per missing field, joined with
// single spaces, in the order given.
func ClarificationQuestion(missing []string) string {
	parts := make([]string, 0, len(missing))
	for _, field := range missing {
		parts = append(parts, fmt.Sprintf("Please provide the event's %s.",
			strings.ReplaceAll(field, "_", " ")))
	}
	return strings.Join(parts, " ")
}
