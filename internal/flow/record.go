package flow

import "strings"

// FieldTitle, FieldDate, FieldStartTime and FieldLocation are the fields an
// event needs before it can be committed. FieldEndTime is optional and never
// blocks completion.
const (
	FieldTitle     = "title"
	FieldDate      = "date"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldLocation  = "location"
)

// RequiredFields lists the required fields in their canonical order. Missing
// field lists always follow this order.
var RequiredFields = []string{FieldTitle, FieldDate, FieldStartTime, FieldLocation}

// EventRecord is a possibly-partial set of extracted event details. Unknown
// fields are empty strings, matching the extraction contract (the model is
// told to use "" instead of inventing values).
type EventRecord struct {
	Title     string `json:"title"`
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM, 24h
	EndTime   string `json:"end_time"`   // HH:MM, 24h, optional
	Location  string `json:"location"`
}

// field returns the value of a required field by name.
func (r EventRecord) field(name string) string {
	switch name {
	case FieldTitle:
		return r.Title
	case FieldDate:
		return r.Date
	case FieldStartTime:
		return r.StartTime
	case FieldEndTime:
		return r.EndTime
	case FieldLocation:
		return r.Location
	}
	return ""
}

// Has reports whether the named field is present. A field provided as
// whitespace or an empty string counts as missing.
func (r EventRecord) Has(name string) bool {
	return strings.TrimSpace(r.field(name)) != ""
}

// Missing returns the required fields absent from the record, in canonical
// order. EndTime is optional and never appears here.
func (r EventRecord) Missing() []string {
	var missing []string
	for _, name := range RequiredFields {
		if !r.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Complete reports whether all required fields are present.
func (r EventRecord) Complete() bool {
	return len(r.Missing()) == 0
}

// Trimmed returns a copy of the record with surrounding whitespace removed
// from every field.
func (r EventRecord) Trimmed() EventRecord {
	return EventRecord{
		Title:     strings.TrimSpace(r.Title),
		Date:      strings.TrimSpace(r.Date),
		StartTime: strings.TrimSpace(r.StartTime),
		EndTime:   strings.TrimSpace(r.EndTime),
		Location:  strings.TrimSpace(r.Location),
	}
}

// Merge fills blanks in prior with values from update. Fields already present
// in prior are never overwritten; an empty value in update never erases
// anything.
func Merge(prior, update EventRecord) EventRecord {
	merged := prior.Trimmed()
	update = update.Trimmed()

	if merged.Title == "" {
		merged.Title = update.Title
	}
	if merged.Date == "" {
		merged.Date = update.Date
	}
	if merged.StartTime == "" {
		merged.StartTime = update.StartTime
	}
	if merged.EndTime == "" {
		merged.EndTime = update.EndTime
	}
	if merged.Location == "" {
		merged.Location = update.Location
	}
	return merged
}
