package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
)

// EventInput represents the input for creating a calendar event
type EventInput struct {
	Summary  string
	Location string
	Start    time.Time
	End      time.Time
	AllDay   bool
	Timezone string
}

// CreatedEvent holds the identifiers Google Calendar assigned to a new event.
type CreatedEvent struct {
	ID       string
	HTMLLink string
}

// CreateEvent creates a new event in Google Calendar and returns its
// identifiers. All-day events carry date-only start and end values, where
// the end date is exclusive per the Calendar API.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*CreatedEvent, error) {
	if c.service == nil {
		return nil, fmt.Errorf("calendar service not initialized")
	}

	if calendarID == "" {
		calendarID = "primary"
	}

	event := &calendar.Event{
		Summary:  input.Summary,
		Location: input.Location,
	}

	if input.AllDay {
		event.Start = &calendar.EventDateTime{
			Date: input.Start.Format("2006-01-02"),
		}
		event.End = &calendar.EventDateTime{
			Date: input.End.Format("2006-01-02"),
		}
	} else {
		// RFC3339 format includes timezone offset, so Google Calendar can infer the timezone
		event.Start = &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: input.Timezone,
		}
		event.End = &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: input.Timezone,
		}
	}

	created, err := c.service.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &CreatedEvent{ID: created.Id, HTMLLink: created.HtmlLink}, nil
}
