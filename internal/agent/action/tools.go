package action

import (
	"github.com/eladbarak/snapcal/internal/agent"
	"github.com/eladbarak/snapcal/internal/flow"
)

const (
	toolAskUser  = "ask_user"
	toolAddToCal = "add_event_to_calendar"
)

func recordProperties() map[string]any {
	return map[string]any{
		flow.FieldTitle:     agent.PropertyString("Name of the event, e.g. \"Team Meeting\". Empty string if unknown."),
		flow.FieldDate:      agent.PropertyString("Event date in YYYY-MM-DD format. Empty string if unknown."),
		flow.FieldStartTime: agent.PropertyString("Start time in 24-hour HH:MM format. Empty string if unknown."),
		flow.FieldEndTime:   agent.PropertyString("End time in 24-hour HH:MM format. Optional; empty string if unknown."),
		flow.FieldLocation:  agent.PropertyString("Venue or address. Empty string if unknown."),
	}
}

// AskUserTool requests clarification from the user about missing fields.
var AskUserTool = agent.Tool{
	Name: toolAskUser,
	Description: "Ask the user for missing event details. Use this whenever any required field " +
		"(title, date, start_time, location) is missing, empty, or clearly incomplete. Pass the exact " +
		"list of missing field names and the partial event data you have so far. Never invent values " +
		"for missing fields; never ask for end_time, it is optional.",
	InputSchema: agent.BuildJSONSchema("object", map[string]any{
		"missing_fields": agent.PropertyArray(
			"Names of the missing or invalid required fields, e.g. [\"start_time\", \"location\"].",
			map[string]any{"type": "string"},
		),
		"extracted_data": agent.PropertyObject(
			"The partial event data collected so far.",
			recordProperties(),
		),
	}, []string{"missing_fields", "extracted_data"}),
}

// AddEventTool commits a complete event to the calendar.
var AddEventTool = agent.Tool{
	Name: toolAddToCal,
	Description: "Add a complete event to the user's calendar. Only call this when title, date, " +
		"start_time and location are all present and valid. end_time may be empty; the calendar " +
		"applies a default duration.",
	InputSchema: agent.BuildJSONSchema("object",
		recordProperties(),
		[]string{flow.FieldTitle, flow.FieldDate, flow.FieldStartTime, flow.FieldLocation},
	),
}
