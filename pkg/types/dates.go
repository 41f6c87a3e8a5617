package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Storage layouts. Dates and timestamps are stored as text so that lexical
// order in SQL matches chronological order.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// MinYear is the earliest accepted year for case and history dates and
// event timestamps.
const MinYear = 1800

// timestampLayouts are tried in order when reading a timestamp back.
var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	DateLayout,
}

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

// NewDate returns the date for year, month, and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD date. Impossible days such as February 30
// are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, invalid("date", "%q is not a calendar date (YYYY-MM-DD)", s)
	}
	return Date{t}, nil
}

// CheckRange rejects dates before MinYear or after the year of now.
func (d Date) CheckRange(now time.Time) error {
	if d.IsZero() {
		return invalid("date", "date is required")
	}
	if y := d.Year(); y < MinYear || y > now.Year() {
		return invalid("date", "year %d is outside %d..%d", y, MinYear, now.Year())
	}
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.Format(DateLayout), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.parseStored(v)
	case []byte:
		return d.parseStored(string(v))
	default:
		return fmt.Errorf("scanning date: unsupported type %T", src)
	}
}

func (d *Date) parseStored(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("scanning date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Timestamp is a point in time stored at second precision.
type Timestamp struct {
	time.Time
}

// Now returns the current time as a Timestamp in UTC.
func Now() Timestamp {
	return Timestamp{time.Now().UTC().Truncate(time.Second)}
}

// CheckRange rejects timestamps before MinYear or after the year of now.
func (ts Timestamp) CheckRange(now time.Time) error {
	if ts.IsZero() {
		return invalid("timestamp", "timestamp is required")
	}
	if y := ts.Year(); y < MinYear || y > now.Year() {
		return invalid("timestamp", "year %d is outside %d..%d", y, MinYear, now.Year())
	}
	return nil
}

// ParseTimestamp parses "YYYY-MM-DD HH:MM[:SS]", RFC 3339, or a bare date.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t.UTC()}, nil
		}
	}
	return Timestamp{}, invalid("timestamp", "%q is not a timestamp (YYYY-MM-DD HH:MM:SS)", s)
}

func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(TimestampLayout)
}

// Value implements driver.Valuer.
func (ts Timestamp) Value() (driver.Value, error) {
	return ts.UTC().Format(TimestampLayout), nil
}

// Scan implements sql.Scanner.
func (ts *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*ts = Timestamp{}
		return nil
	case time.Time:
		ts.Time = v.UTC()
		return nil
	case string:
		return ts.parseStored(v)
	case []byte:
		return ts.parseStored(string(v))
	default:
		return fmt.Errorf("scanning timestamp: unsupported type %T", src)
	}
}

func (ts *Timestamp) parseStored(s string) error {
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return fmt.Errorf("scanning timestamp %q: %w", s, err)
	}
	*ts = parsed
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*ts = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(*s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
