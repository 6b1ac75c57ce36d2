package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar days
const DateLayout = "2006-01-02"

// dateRangeSeparator joins the two ends of a DateRange in its string form
const dateRangeSeparator = " to "

// Date is a calendar day with no time-of-day or zone. The zero Date means
// the day is not known.
type Date struct {
	t time.Time
}

// NewDate builds a Date from its components
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals known to be valid
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool { return d.t.IsZero() }

// AddDays returns the date n days later (earlier for negative n)
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) After(o Date) bool { return d.t.After(o.t) }

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// DaysUntil returns the number of days from d to o
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

// Ptr returns a pointer to a copy of d, or nil for the zero Date
func (d Date) Ptr() *Date {
	if d.IsZero() {
		return nil
	}
	return &d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is an inclusive span of days, written "YYYY-MM-DD to YYYY-MM-DD"
type DateRange struct {
	Start Date
	End   Date
}

// ParseDateRange parses the "start to end" form. A single date yields a
// one-day range.
func ParseDateRange(s string) (DateRange, error) {
	parts := strings.Split(s, dateRangeSeparator)
	switch len(parts) {
	case 1:
		d, err := ParseDate(parts[0])
		if err != nil {
			return DateRange{}, err
		}
		return DateRange{Start: d, End: d}, nil
	case 2:
		start, err := ParseDate(parts[0])
		if err != nil {
			return DateRange{}, err
		}
		end, err := ParseDate(parts[1])
		if err != nil {
			return DateRange{}, err
		}
		return DateRange{Start: start, End: end}, nil
	default:
		return DateRange{}, fmt.Errorf("invalid date range %q, expected \"YYYY-MM-DD to YYYY-MM-DD\"", s)
	}
}

// Days returns the number of days in the range, both ends included
func (r DateRange) Days() int {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	return r.Start.DaysUntil(r.End) + 1
}

// Contains reports whether d falls inside the range
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Covers reports whether o lies entirely inside r
func (r DateRange) Covers(o DateRange) bool {
	return r.Contains(o.Start) && r.Contains(o.End)
}

func (r DateRange) String() string {
	return r.Start.String() + dateRangeSeparator + r.End.String()
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *DateRange) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date range must be a string: %w", err)
	}
	return r.UnmarshalText([]byte(s))
}

func (r DateRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *DateRange) UnmarshalText(text []byte) error {
	parsed, err := ParseDateRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
