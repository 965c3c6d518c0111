package flow

import "time"

// CommittedEvent echoes the details of an event that was written to the
// calendar, plus the provider-assigned identifier. Immutable once created.
type CommittedEvent struct {
	EventID  string    `json:"event_id"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"all_day"`
	HTMLLink string    `json:"html_link,omitempty"`
}
