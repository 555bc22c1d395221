// Package clock supplies the current calendar date to code that compares
// reservations against "today".
package clock

import (
	"time"

	"fleetrent-backend/internal/domain"
)

type Clock interface {
	// Today returns the current calendar date at midnight UTC.
	Today() time.Time
}

// System reads the wall clock and takes the date in a fixed location.
type System struct {
	loc *time.Location
}

func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.UTC
	}
	return System{loc: loc}
}

func (s System) Today() time.Time {
	return domain.DateOf(time.Now().In(s.loc))
}

// Fixed always reports the same date.
type Fixed time.Time

func NewFixed(t time.Time) Fixed {
	return Fixed(domain.DateOf(t))
}

func (f Fixed) Today() time.Time {
	return time.Time(f)
}
