package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidDoctorID  = errors.New("doctor id is required")
	ErrInvalidStartTime = errors.New("start time is required")
	ErrInvalidDate      = errors.New("date is required")
	ErrInvalidDuration  = errors.New("duration must be a positive number of minutes")
)

// AppointmentSource fetches the active bookings that could occupy any part of
// [from, to) for a doctor. Implementations filter to the active status set
// (scheduled, confirmed, in_progress) and honor excludeID when re-checking an
// appointment against itself during an update.
type AppointmentSource interface {
	FindActive(ctx context.Context, doctorID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]Booking, error)
}

// Scheduler answers the two calendar questions the booking flow needs:
// whether a candidate interval collides with an existing appointment, and
// which fixed-length slots in a day remain open.
//
// Both operations are pure reads over the source's state at call time. The
// caller's check-then-persist sequence is not atomic; a uniqueness constraint
// at the store is the backstop against concurrent double-booking.
type Scheduler struct {
	source AppointmentSource
	hours  BusinessHours
	log    *zap.Logger
}

func NewScheduler(source AppointmentSource, hours BusinessHours, log *zap.Logger) *Scheduler {
	return &Scheduler{source: source, hours: hours, log: log}
}

// HasConflict reports whether any active appointment for the doctor overlaps
// the half-open interval [start, start+duration). A store failure is
// propagated rather than treated as "no conflict" — a false negative here
// books two patients into the same slot.
func (s *Scheduler) HasConflict(ctx context.Context, doctorID uuid.UUID, start time.Time, durationMins int, excludeID *uuid.UUID) (bool, error) {
	if doctorID == uuid.Nil {
		return false, ErrInvalidDoctorID
	}
	if start.IsZero() {
		return false, ErrInvalidStartTime
	}
	if durationMins <= 0 {
		return false, ErrInvalidDuration
	}

	candidate := Interval{Start: start, End: start.Add(time.Duration(durationMins) * time.Minute)}

	bookings, err := s.source.FindActive(ctx, doctorID, candidate.Start, candidate.End, excludeID)
	if err != nil {
		return false, fmt.Errorf("fetching active appointments: %w", err)
	}

	for _, b := range bookings {
		if candidate.Overlaps(b.Interval()) {
			s.log.Debug("conflict detected",
				zap.String("doctor_id", doctorID.String()),
				zap.Time("candidate_start", candidate.Start),
				zap.String("booked_id", b.ID.String()),
			)
			return true, nil
		}
	}

	return false, nil
}

// AvailableSlots walks the business-hours window of the given calendar day in
// durationMins steps and returns the ascending start times of every slot that
// intersects no active appointment. A slot that would run past the end of the
// window is not offered. The day's bookings are fetched once up front rather
// than re-queried per candidate slot.
func (s *Scheduler) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time, durationMins int) ([]time.Time, error) {
	if doctorID == uuid.Nil {
		return nil, ErrInvalidDoctorID
	}
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	if durationMins <= 0 {
		return nil, ErrInvalidDuration
	}

	window := s.hours.Window(date)
	step := time.Duration(durationMins) * time.Minute

	bookings, err := s.source.FindActive(ctx, doctorID, window.Start, window.End, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching active appointments: %w", err)
	}

	slots := make([]time.Time, 0, int(window.End.Sub(window.Start)/step))
	for t := window.Start; !t.Add(step).After(window.End); t = t.Add(step) {
		candidate := Interval{Start: t, End: t.Add(step)}
		free := true
		for _, b := range bookings {
			if candidate.Overlaps(b.Interval()) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, t)
		}
	}

	return slots, nil
}
