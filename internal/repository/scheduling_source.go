package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mediq-health/mediq-api/internal/scheduling"
)

// SchedulingSource adapts the appointment repository to the scheduler's
// read-only port, projecting full rows down to the booking slice the
// scheduler needs.
type SchedulingSource struct {
	repo *AppointmentRepository
}

func NewSchedulingSource(repo *AppointmentRepository) *SchedulingSource {
	return &SchedulingSource{repo: repo}
}

func (s *SchedulingSource) FindActive(ctx context.Context, doctorID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]scheduling.Booking, error) {
	appts, err := s.repo.FindActiveForDoctor(ctx, doctorID, from, to, excludeID)
	if err != nil {
		return nil, err
	}

	bookings := make([]scheduling.Booking, 0, len(appts))
	for _, a := range appts {
		bookings = append(bookings, scheduling.Booking{
			ID:           a.ID,
			StartTime:    a.ScheduledAt,
			DurationMins: a.DurationMins,
		})
	}
	return bookings, nil
}
