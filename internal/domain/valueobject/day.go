package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

const dayLayout = "2006-01-02"

var (
	ErrInvalidDay = errors.New("invalid calendar day")
)

// Day is a calendar day without a time component.
type Day struct {
	year  int
	month time.Month
	day   int
}

// DayOf returns the calendar day of t in t's own location
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// NewDay creates a day from its components, normalizing overflow (e.g. Feb 30)
func NewDay(year int, month time.Month, day int) Day {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDay parses a YYYY-MM-DD string or a full RFC3339 timestamp
func ParseDay(s string) (Day, error) {
	if t, err := time.Parse(dayLayout, s); err == nil {
		return DayOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DayOf(t), nil
	}
	return Day{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// Time returns midnight UTC of the day
func (d Day) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Day) Year() int { return d.year }
func (d Day) Month() time.Month { return d.month }
func (d Day) DayOfMonth() int { return d.day }
func (d Day) IsZero() bool { return d.year == 0 && d.month == 0 && d.day == 0 }
func (d Day) Equal(o Day) bool { return d == o }
func (d Day) Before(o Day) bool { return d.Time().Before(o.Time()) }
func (d Day) After(o Day) bool { return d.Time().After(o.Time()) }
func (d Day) AddDays(n int) Day { return DayOf(d.Time().AddDate(0, 0, n)) }

// DaysUntil returns the signed number of whole days from d to o
func (d Day) DaysUntil(o Day) int {
	return int(math.Round(o.Time().Sub(d.Time()).Hours() / 24))
}

func (d Day) String() string {
	return d.Time().Format(dayLayout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
