package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Interval is a half-open time range [Start, End). Half-open bounds mean
// back-to-back appointments share an endpoint without conflicting.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. The predicate
// is symmetric: touching endpoints do not count.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Booking is the slice of an appointment the scheduler reasons about.
// Status filtering happens at the source: only appointments that still
// occupy the doctor's calendar are returned.
type Booking struct {
	ID           uuid.UUID
	StartTime    time.Time
	DurationMins int
}

func (b Booking) Interval() Interval {
	return Interval{
		Start: b.StartTime,
		End:   b.StartTime.Add(time.Duration(b.DurationMins) * time.Minute),
	}
}

// BusinessHours is the clinic-wide booking window, projected onto a calendar
// day by Window. It is injected rather than compiled in so alternative
// windows can be exercised directly.
type BusinessHours struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// DefaultBusinessHours is the standard 09:00-17:00 clinic day.
var DefaultBusinessHours = BusinessHours{StartHour: 9, EndHour: 17}

// Window projects the business hours onto the calendar day of date,
// in date's location. The time-of-day component of date is ignored.
func (h BusinessHours) Window(date time.Time) Interval {
	y, m, d := date.Date()
	loc := date.Location()
	return Interval{
		Start: time.Date(y, m, d, h.StartHour, h.StartMinute, 0, 0, loc),
		End:   time.Date(y, m, d, h.EndHour, h.EndMinute, 0, 0, loc),
	}
}
