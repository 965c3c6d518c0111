package committer

import (
	"context"
	"fmt"
	"time"

	"github.com/eladbarak/snapcal/internal/flow"
	"github.com/eladbarak/snapcal/internal/gcal"
	"github.com/eladbarak/snapcal/internal/timeutil"
)

// defaultDuration is applied when a timed event has no end time.
const defaultDuration = time.Hour

// CalendarWriter is the single calendar operation the committer depends on.
// *gcal.Client satisfies it.
type CalendarWriter interface {
	CreateEvent(ctx context.Context, calendarID string, input gcal.EventInput) (*gcal.CreatedEvent, error)
}

// Committer turns a complete event record into one Google Calendar event.
type Committer struct {
	writer     CalendarWriter
	calendarID string
	timezone   string
	location   *time.Location
}

// New creates a Committer writing to the given calendar in the given
// timezone. An empty or unknown timezone falls back to UTC.
func New(writer CalendarWriter, calendarID, timezone string) *Committer {
	loc, fellBack := timeutil.ResolveLocation(timezone)
	if fellBack {
		timezone = "UTC"
	}
	return &Committer{
		writer:     writer,
		calendarID: calendarID,
		timezone:   timezone,
		location:   loc,
	}
}

// Commit normalizes the record and performs exactly one calendar write.
// Routing decides when a record may be committed. The committer itself only
// needs title, date and location: a record without a start time is written
// as an all-day event.
func (c *Committer) Commit(ctx context.Context, record flow.EventRecord) (*flow.CommittedEvent, error) {
	if record.Title == "" || record.Date == "" || record.Location == "" {
		return nil, fmt.Errorf("record is missing title, date or location")
	}

	input, err := c.normalize(record)
	if err != nil {
		return nil, err
	}

	created, err := c.writer.CreateEvent(ctx, c.calendarID, input)
	if err != nil {
		return nil, fmt.Errorf("failed to commit event: %w", err)
	}

	return &flow.CommittedEvent{
		EventID:  created.ID,
		Title:    record.Title,
		Location: record.Location,
		Start:    input.Start,
		End:      input.End,
		AllDay:   input.AllDay,
		HTMLLink: created.HTMLLink,
	}, nil
}

// normalize maps record fields onto calendar start/end values.
//
// No start time makes an all-day event spanning the record's date. Otherwise
// the end defaults to one hour after the start, and an end at or before the
// start is treated as rolling past midnight into the next day.
func (c *Committer) normalize(record flow.EventRecord) (gcal.EventInput, error) {
	input := gcal.EventInput{
		Summary:  record.Title,
		Location: record.Location,
		Timezone: c.timezone,
	}

	if record.StartTime == "" {
		day, err := timeutil.ParseDate(record.Date, c.location)
		if err != nil {
			return gcal.EventInput{}, err
		}
		input.AllDay = true
		input.Start = day
		input.End = day.AddDate(0, 0, 1)
		return input, nil
	}

	start, err := timeutil.CombineDateClock(record.Date, record.StartTime, c.location)
	if err != nil {
		return gcal.EventInput{}, err
	}

	end := start.Add(defaultDuration)
	if record.EndTime != "" {
		end, err = timeutil.CombineDateClock(record.Date, record.EndTime, c.location)
		if err != nil {
			return gcal.EventInput{}, err
		}
		// An end at or before the start means the event crosses midnight.
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
	}

	input.Start = start
	input.End = end
	return input, nil
}
