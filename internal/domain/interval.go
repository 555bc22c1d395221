package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// Interval is a rental period between two calendar dates. Both ends are
// inclusive when checking for overlap.
type Interval struct {
	start time.Time
	end   time.Time
}

// NewInterval truncates both times to their calendar date and requires
// end to be strictly after start.
func NewInterval(start, end time.Time) (Interval, error) {
	s, e := DateOf(start), DateOf(end)
	if !e.After(s) {
		return Interval{}, fmt.Errorf("%w: end %s is not after start %s", ErrInvalidInterval, e.Format(DateLayout), s.Format(DateLayout))
	}
	return Interval{start: s, end: e}, nil
}

// ParseInterval builds an Interval from two yyyy-mm-dd strings.
func ParseInterval(start, end string) (Interval, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: invalid start date %q", ErrValidation, start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: invalid end date %q", ErrValidation, end)
	}
	return NewInterval(s, e)
}

// DateOf returns midnight UTC of the calendar date t falls on in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (i Interval) Start() time.Time { return i.start }
func (i Interval) End() time.Time   { return i.end }
func (i Interval) IsZero() bool     { return i.start.IsZero() && i.end.IsZero() }

// DurationDays counts days between start and end, not counting both ends:
// a rental returned the day after pickup lasts one day.
func (i Interval) DurationDays() int {
	return int(i.end.Sub(i.start) / day)
}

func (i Interval) Overlaps(other Interval) bool {
	return !i.start.After(other.end) && !i.end.Before(other.start)
}

// Covers reports whether the calendar date of t lies within the interval.
func (i Interval) Covers(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(i.start) && !d.After(i.end)
}

func (i Interval) String() string {
	return i.start.Format(DateLayout) + ".." + i.end.Format(DateLayout)
}

type intervalJSON struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (i Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal(intervalJSON{
		StartDate: i.start.Format(DateLayout),
		EndDate:   i.end.Format(DateLayout),
	})
}

func (i *Interval) UnmarshalJSON(data []byte) error {
	var raw intervalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseInterval(raw.StartDate, raw.EndDate)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
