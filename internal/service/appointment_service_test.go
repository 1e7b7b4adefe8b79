package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mediq-health/mediq-api/internal/domain"
	"github.com/mediq-health/mediq-api/internal/domain/appointment"
	"github.com/mediq-health/mediq-api/internal/domain/doctor"
	"github.com/mediq-health/mediq-api/internal/domain/patient"
	"github.com/mediq-health/mediq-api/internal/scheduling"
)

// ---------- in-memory fakes ----------

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*appointment.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*appointment.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	a.ID = uuid.New()
	cp := *a
	f.appointments[a.ID] = &cp
	return nil
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, a *appointment.Appointment) error {
	if _, ok := f.appointments[a.ID]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	cp := *a
	f.appointments[a.ID] = &cp
	return nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	return f.Update(context.Background(), a)
}

func (f *fakeAppointmentRepo) List(_ context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	var out []*appointment.Appointment
	for _, a := range f.appointments {
		if q.PatientID != nil && a.PatientID != *q.PatientID {
			continue
		}
		if q.DoctorID != nil && a.DoctorID != *q.DoctorID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return &appointment.PagedAppointments{
		Appointments: out,
		TotalCount:   int64(len(out)),
		Page:         q.Page,
		PageSize:     q.PageSize,
	}, nil
}

func (f *fakeAppointmentRepo) FindActiveForDoctor(_ context.Context, doctorID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	for _, a := range f.appointments {
		if a.DoctorID != doctorID || !a.Status.IsActive() {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.ScheduledAt.Before(to) && from.Before(a.EndsAt()) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) GetUpcoming(_ context.Context, _ int) ([]*appointment.Appointment, error) {
	return nil, nil
}

type fakeSchedulingSource struct{ repo *fakeAppointmentRepo }

func (s *fakeSchedulingSource) FindActive(ctx context.Context, doctorID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]scheduling.Booking, error) {
	appts, err := s.repo.FindActiveForDoctor(ctx, doctorID, from, to, excludeID)
	if err != nil {
		return nil, err
	}
	out := make([]scheduling.Booking, 0, len(appts))
	for _, a := range appts {
		out = append(out, scheduling.Booking{ID: a.ID, StartTime: a.ScheduledAt, DurationMins: a.DurationMins})
	}
	return out, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*patient.Patient
}

func (f *fakePatientRepo) Create(_ context.Context, p *patient.Patient) error { return nil }
func (f *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return p, nil
}
func (f *fakePatientRepo) Update(_ context.Context, _ uuid.UUID, _ *patient.UpdatePatientCommand) (*patient.Patient, error) {
	return nil, nil
}
func (f *fakePatientRepo) SoftDelete(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakePatientRepo) List(_ context.Context, _ *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	return nil, nil
}
func (f *fakePatientRepo) ExistsByNationalID(_ context.Context, _ string, _ *uuid.UUID) (bool, error) {
	return false, nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*doctor.Doctor
}

func (f *fakeDoctorRepo) Create(_ context.Context, _ *doctor.Doctor) error { return nil }
func (f *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	return d, nil
}
func (f *fakeDoctorRepo) Update(_ context.Context, _ uuid.UUID, _ *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	return nil, nil
}
func (f *fakeDoctorRepo) SoftDelete(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeDoctorRepo) List(_ context.Context, _ *doctor.ListDoctorsQuery) (*doctor.PagedDoctors, error) {
	return nil, nil
}
func (f *fakeDoctorRepo) ExistsByLicenseNumber(_ context.Context, _ string, _ *uuid.UUID) (bool, error) {
	return false, nil
}

type noopAuditRepo struct{}

func (noopAuditRepo) Create(_ context.Context, _ *domain.AuditLog) error { return nil }

// ---------- fixture ----------

type fixture struct {
	svc       *AppointmentService
	repo      *fakeAppointmentRepo
	doctorID  uuid.UUID
	patientID uuid.UUID
	adminID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeAppointmentRepo()
	doctorID := uuid.New()
	patientID := uuid.New()

	doctorRepo := &fakeDoctorRepo{doctors: map[uuid.UUID]*doctor.Doctor{
		doctorID: {ID: doctorID, FirstName: "Asha", LastName: "Rao", Specialty: "cardiology", IsAcceptingPatients: true},
	}}
	patientRepo := &fakePatientRepo{patients: map[uuid.UUID]*patient.Patient{
		patientID: {ID: patientID, FirstName: "Sam", LastName: "Ortiz", Status: patient.StatusActive},
	}}

	log := zap.NewNop()
	sched := scheduling.NewScheduler(&fakeSchedulingSource{repo: repo}, scheduling.DefaultBusinessHours, log)
	audit := NewAuditService(noopAuditRepo{}, log)
	t.Cleanup(audit.Shutdown)

	return &fixture{
		svc:       NewAppointmentService(repo, patientRepo, doctorRepo, sched, audit, log, 30),
		repo:      repo,
		doctorID:  doctorID,
		patientID: patientID,
		adminID:   uuid.New(),
	}
}

func tomorrowAt(hour, min int) time.Time {
	d := time.Now().AddDate(0, 0, 1)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.Local)
}

func (fx *fixture) schedule(t *testing.T, start time.Time, mins int) *appointment.Appointment {
	t.Helper()
	a, err := fx.svc.ScheduleAppointment(context.Background(), &appointment.CreateAppointmentCommand{
		PatientID:    fx.patientID,
		DoctorID:     fx.doctorID,
		ScheduledAt:  start,
		DurationMins: mins,
		Title:        "checkup",
		CreatedBy:    fx.adminID,
	}, fx.adminID, "admin", nil, "127.0.0.1")
	require.NoError(t, err)
	return a
}

// ---------- tests ----------

func TestScheduleAppointment(t *testing.T) {
	fx := newFixture(t)

	a := fx.schedule(t, tomorrowAt(10, 0), 30)
	assert.Equal(t, appointment.StatusScheduled, a.Status)
	assert.NotEqual(t, uuid.Nil, a.ID)
}

func TestScheduleAppointmentDefaultDuration(t *testing.T) {
	fx := newFixture(t)

	a, err := fx.svc.ScheduleAppointment(context.Background(), &appointment.CreateAppointmentCommand{
		PatientID:   fx.patientID,
		DoctorID:    fx.doctorID,
		ScheduledAt: tomorrowAt(10, 0),
		CreatedBy:   fx.adminID,
	}, fx.adminID, "admin", nil, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 30, a.DurationMins)
}

func TestScheduleAppointmentConflictRejected(t *testing.T) {
	fx := newFixture(t)
	fx.schedule(t, tomorrowAt(10, 0), 30)

	_, err := fx.svc.ScheduleAppointment(context.Background(), &appointment.CreateAppointmentCommand{
		PatientID:    fx.patientID,
		DoctorID:     fx.doctorID,
		ScheduledAt:  tomorrowAt(10, 15),
		DurationMins: 30,
		CreatedBy:    fx.adminID,
	}, fx.adminID, "admin", nil, "127.0.0.1")
	assert.ErrorIs(t, err, appointment.ErrAppointmentConflict)
}

func TestScheduleAppointmentBackToBackAllowed(t *testing.T) {
	fx := newFixture(t)
	fx.schedule(t, tomorrowAt(10, 0), 30)

	// Starting exactly when the previous one ends is not a conflict.
	a := fx.schedule(t, tomorrowAt(10, 30), 30)
	assert.Equal(t, tomorrowAt(10, 30), a.ScheduledAt)
}

func TestScheduleAppointmentCancelledSlotReopens(t *testing.T) {
	fx := newFixture(t)
	a := fx.schedule(t, tomorrowAt(10, 0), 30)

	_, err := fx.svc.CancelAppointment(context.Background(), a.ID,
		&appointment.CancelAppointmentCommand{Reason: "patient request", CancelledBy: fx.adminID},
		fx.adminID, "admin", nil, "127.0.0.1")
	require.NoError(t, err)

	// The cancelled appointment no longer occupies the calendar.
	b := fx.schedule(t, tomorrowAt(10, 0), 30)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestScheduleAppointmentInPast(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.ScheduleAppointment(context.Background(), &appointment.CreateAppointmentCommand{
		PatientID:    fx.patientID,
		DoctorID:     fx.doctorID,
		ScheduledAt:  time.Now().Add(-time.Hour),
		DurationMins: 30,
		CreatedBy:    fx.adminID,
	}, fx.adminID, "admin", nil, "127.0.0.1")
	assert.ErrorIs(t, err, appointment.ErrScheduledInPast)
}

func TestScheduleAppointmentPatientCannotBookForOthers(t *testing.T) {
	fx := newFixture(t)
	otherPatient := uuid.New()

	_, err := fx.svc.ScheduleAppointment(context.Background(), &appointment.CreateAppointmentCommand{
		PatientID:    fx.patientID,
		DoctorID:     fx.doctorID,
		ScheduledAt:  tomorrowAt(10, 0),
		DurationMins: 30,
		CreatedBy:    otherPatient,
	}, otherPatient, "patient", &otherPatient, "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRescheduleAppointmentSelfExclusion(t *testing.T) {
	fx := newFixture(t)
	a := fx.schedule(t, tomorrowAt(10, 0), 30)

	// Keeping the same time must not conflict with itself; only the notes change.
	notes := "bring previous lab results"
	updated, err := fx.svc.RescheduleAppointment(context.Background(), a.ID,
		&appointment.RescheduleAppointmentCommand{Notes: &notes, UpdatedBy: fx.adminID},
		fx.adminID, "admin", nil, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, a.ScheduledAt, updated.ScheduledAt)
}

func TestRescheduleAppointmentConflictRejected(t *testing.T) {
	fx := newFixture(t)
	fx.schedule(t, tomorrowAt(10, 0), 30)
	b := fx.schedule(t, tomorrowAt(11, 0), 30)

	newStart := tomorrowAt(10, 15)
	_, err := fx.svc.RescheduleAppointment(context.Background(), b.ID,
		&appointment.RescheduleAppointmentCommand{ScheduledAt: &newStart, UpdatedBy: fx.adminID},
		fx.adminID, "admin", nil, "127.0.0.1")
	assert.ErrorIs(t, err, appointment.ErrAppointmentConflict)
}

func TestRescheduleAppointmentToFreeSlot(t *testing.T) {
	fx := newFixture(t)
	a := fx.schedule(t, tomorrowAt(10, 0), 30)

	newStart := tomorrowAt(14, 0)
	updated, err := fx.svc.RescheduleAppointment(context.Background(), a.ID,
		&appointment.RescheduleAppointmentCommand{ScheduledAt: &newStart, UpdatedBy: fx.adminID},
		fx.adminID, "admin", nil, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, newStart, updated.ScheduledAt)
}

func TestAvailableSlotsReflectBookings(t *testing.T) {
	fx := newFixture(t)
	fx.schedule(t, tomorrowAt(12, 0), 30)

	slots, err := fx.svc.AvailableSlots(context.Background(), fx.doctorID, tomorrowAt(0, 0), 30)
	require.NoError(t, err)

	assert.NotContains(t, slots, tomorrowAt(12, 0))
	assert.Contains(t, slots, tomorrowAt(11, 30))
	assert.Contains(t, slots, tomorrowAt(12, 30))
	assert.Len(t, slots, 15)
}

func TestAvailableSlotsUnknownDoctor(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.AvailableSlots(context.Background(), uuid.New(), tomorrowAt(0, 0), 30)
	assert.ErrorIs(t, err, doctor.ErrDoctorNotFound)
}

func TestStatusTransitionsThroughService(t *testing.T) {
	fx := newFixture(t)
	a := fx.schedule(t, tomorrowAt(10, 0), 30)

	ctx := context.Background()
	confirmed, err := fx.svc.ConfirmAppointment(ctx, a.ID, fx.adminID, "admin", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusConfirmed, confirmed.Status)

	started, err := fx.svc.StartAppointment(ctx, a.ID, fx.adminID, "doctor", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusInProgress, started.Status)

	completed, err := fx.svc.CompleteAppointment(ctx, a.ID, fx.adminID, "doctor", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCompleted, completed.Status)

	// Completed appointments no longer block the slot.
	fx.schedule(t, tomorrowAt(10, 0), 30)
}
