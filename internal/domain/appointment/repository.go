package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	List(ctx context.Context, q *ListAppointmentsQuery) (*PagedAppointments, error)

	// UpdateStatus persists a status change (and its tracking columns).
	UpdateStatus(ctx context.Context, a *Appointment) error

	// FindActiveForDoctor returns the active appointments whose interval
	// intersects [from, to), excluding excludeID when set. It feeds both the
	// conflict check and slot enumeration.
	FindActiveForDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]*Appointment, error)

	// GetUpcoming returns active appointments starting in the next N hours.
	GetUpcoming(ctx context.Context, withinHours int) ([]*Appointment, error)
}
