// internal/app/features/assignments/dates.go
package assignments

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateField is an optional date in a request body. It accepts RFC 3339
// timestamps and plain YYYY-MM-DD dates. Set records that the field was
// present, so a PATCH can tell "leave alone" from an explicit null.
//
// A plain date names a calendar day in the display zone, not in UTC, so it
// is kept unresolved until In is called with that zone.
type dateField struct {
	Set  bool
	Time *time.Time
	day  string
}

func (d *dateField) UnmarshalJSON(b []byte) error {
	d.Set = true
	d.Time = nil
	d.day = ""
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		d.Time = &t
		return nil
	}
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		d.day = s
		return nil
	}
	return fmt.Errorf("date %q is not RFC 3339 or YYYY-MM-DD", s)
}

// In returns the instant the field names, reading a plain date as midnight
// in loc. A nil loc means UTC.
func (d dateField) In(loc *time.Location) *time.Time {
	if d.day == "" {
		return d.Time
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(time.DateOnly, d.day, loc)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// cleared reports an explicit null or empty date.
func (d dateField) cleared() bool {
	return d.Set && d.Time == nil && d.day == ""
}
