// Copyright (c) 2026 Kinora. All rights reserved.

/*
Package date provides a calendar-day value type with ISO-8601 JSON encoding.

The API exchanges release dates and birthdays as plain "yyyy-MM-dd" strings
without a time-of-day or zone component. Wrapping [time.Time] keeps the
standard comparison helpers (Before, After, IsZero) available while fixing
the wire format in one place.
*/
package date

import (
	"fmt"
	"time"
)

// Layout is the ISO-8601 calendar date layout used on the wire.
const Layout = "2006-01-02"

// Date is a calendar day. The embedded time is always midnight UTC.
type Date struct {
	time.Time
}

// New constructs a Date from year, month, and day.
func New(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a [time.Time] to its UTC calendar day.
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	year, month, day := t.UTC().Date()
	return New(year, month, day)
}

// Parse reads a "yyyy-MM-dd" string.
func Parse(value string) (Date, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return Date{}, fmt.Errorf("date: invalid value %q: %w", value, err)
	}
	return Date{Time: t}, nil
}

// String implements [fmt.Stringer].
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(Layout)
}

// MarshalJSON encodes the date as a quoted "yyyy-MM-dd" string, or null
// for the zero value.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(Layout) + `"`), nil
}

// UnmarshalJSON decodes a quoted "yyyy-MM-dd" string or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" || raw == `""` {
		*d = Date{}
		return nil
	}
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return fmt.Errorf("date: expected quoted string, got %s", raw)
	}
	parsed, err := Parse(raw[1 : len(raw)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
