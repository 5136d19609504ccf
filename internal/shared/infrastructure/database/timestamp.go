package database

import (
	"fmt"
	"time"
)

// TimestampLayout is how timestamps are written. The fixed width keeps
// lexical and chronological order identical in SQLite TEXT columns.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DateLayout is how calendar dates are written.
const DateLayout = time.DateOnly

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatDate renders a calendar date, or nil when d is nil.
func FormatDate(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(DateLayout)
}

var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Timestamp scans a timestamp column that SQLite returns as text and
// PostgreSQL returns as time.Time.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (ts *Timestamp) Scan(src any) error {
	t, ok, err := parseTimeValue(src, timestampLayouts)
	if err != nil {
		return err
	}
	ts.Time, ts.Valid = t.UTC(), ok
	return nil
}

// Date scans a calendar date column. Values are normalised to midnight UTC.
type Date struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	t, ok, err := parseTimeValue(src, timestampLayouts)
	if err != nil {
		return err
	}
	if ok {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	d.Time, d.Valid = t, ok
	return nil
}

// Ptr returns the date or nil when the column was NULL.
func (d Date) Ptr() *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func parseTimeValue(src any, layouts []string) (time.Time, bool, error) {
	var text string
	switch v := src.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return v, true, nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return time.Time{}, false, fmt.Errorf("cannot scan %T into a time value", src)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognised time value %q", text)
}
