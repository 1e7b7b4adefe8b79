package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediq-health/mediq-api/internal/domain/appointment"
	"github.com/mediq-health/mediq-api/internal/domain/doctor"
	"github.com/mediq-health/mediq-api/internal/domain/patient"
)

// Scheduler is the calendar core the booking flow consults before any write.
type Scheduler interface {
	HasConflict(ctx context.Context, doctorID uuid.UUID, start time.Time, durationMins int, excludeID *uuid.UUID) (bool, error)
	AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time, durationMins int) ([]time.Time, error)
}

type AppointmentService struct {
	repo            appointment.Repository
	patientRepo     patient.Repository
	doctorRepo      doctor.Repository
	scheduler       Scheduler
	auditSvc        *AuditService
	log             *zap.Logger
	defaultSlotMins int
}

func NewAppointmentService(
	repo appointment.Repository,
	patientRepo patient.Repository,
	doctorRepo doctor.Repository,
	scheduler Scheduler,
	auditSvc *AuditService,
	log *zap.Logger,
	defaultSlotMins int,
) *AppointmentService {
	if defaultSlotMins <= 0 {
		defaultSlotMins = appointment.DefaultDurationMins
	}
	return &AppointmentService{
		repo:            repo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		scheduler:       scheduler,
		auditSvc:        auditSvc,
		log:             log,
		defaultSlotMins: defaultSlotMins,
	}
}

// ScheduleAppointment validates the request, runs the conflict check and
// persists the booking. Check and persist are two separate store operations;
// two concurrent requests for the same slot can both pass the check, and the
// exclusion constraint on active appointments is the store-level backstop.
func (s *AppointmentService) ScheduleAppointment(
	ctx context.Context,
	cmd *appointment.CreateAppointmentCommand,
	callerID uuid.UUID,
	callerRole string,
	callerPatientID *uuid.UUID,
	ip string,
) (*appointment.Appointment, error) {
	if cmd.DurationMins == 0 {
		cmd.DurationMins = s.defaultSlotMins
	}
	if cmd.Type == "" {
		cmd.Type = appointment.TypeConsultation
	}

	// -------- Input validation -----------
	if cmd.ScheduledAt.Before(time.Now()) {
		return nil, appointment.ErrScheduledInPast
	}
	if cmd.DurationMins < 5 || cmd.DurationMins > 480 {
		return nil, appointment.ErrInvalidDuration
	}
	if !cmd.Type.IsValid() {
		return nil, appointment.ErrInvalidAppointmentType
	}

	// Patients can only book for themselves
	if callerRole == "patient" {
		if callerPatientID == nil || *callerPatientID != cmd.PatientID {
			return nil, ErrForbidden
		}
	}

	// ── Verify patient is active ───────────────────────────────────────────
	p, err := s.patientRepo.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}
	if !p.IsActive() {
		return nil, fmt.Errorf("patient is not active")
	}

	// ── Verify doctor exists and is taking bookings ────────────────────────
	d, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("verifying doctor: %w", err)
	}
	if !d.IsAcceptingPatients {
		return nil, doctor.ErrDoctorNotAccepting
	}

	conflict, err := s.scheduler.HasConflict(ctx, cmd.DoctorID, cmd.ScheduledAt, cmd.DurationMins, nil)
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	if conflict {
		return nil, appointment.ErrAppointmentConflict
	}

	a := &appointment.Appointment{
		PatientID:    cmd.PatientID,
		DoctorID:     cmd.DoctorID,
		ScheduledAt:  cmd.ScheduledAt,
		DurationMins: cmd.DurationMins,
		Type:         cmd.Type,
		Status:       appointment.StatusScheduled,
		Title:        cmd.Title,
		Description:  cmd.Description,
		Notes:        cmd.Notes,
		CreatedBy:    cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	return a, nil
}

// RescheduleAppointment moves an appointment to a new time after a fresh
// conflict check that excludes the appointment itself.
func (s *AppointmentService) RescheduleAppointment(
	ctx context.Context,
	id uuid.UUID,
	cmd *appointment.RescheduleAppointmentCommand,
	callerID uuid.UUID,
	callerRole string,
	callerPatientID *uuid.UUID,
	ip string,
) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole == "patient" {
		if callerPatientID == nil || *callerPatientID != a.PatientID {
			return nil, ErrForbidden
		}
	}

	if !a.Status.IsActive() {
		return nil, appointment.ErrInvalidStatusTransition
	}

	newStart := a.ScheduledAt
	newDuration := a.DurationMins
	if cmd.ScheduledAt != nil {
		newStart = *cmd.ScheduledAt
	}
	if cmd.DurationMins != nil {
		newDuration = *cmd.DurationMins
	}

	if newStart.Before(time.Now()) {
		return nil, appointment.ErrScheduledInPast
	}
	if newDuration < 5 || newDuration > 480 {
		return nil, appointment.ErrInvalidDuration
	}

	timeChanged := !newStart.Equal(a.ScheduledAt) || newDuration != a.DurationMins
	if timeChanged {
		conflict, err := s.scheduler.HasConflict(ctx, a.DoctorID, newStart, newDuration, &a.ID)
		if err != nil {
			return nil, fmt.Errorf("checking conflicts: %w", err)
		}
		if conflict {
			return nil, appointment.ErrAppointmentConflict
		}
	}

	a.ScheduledAt = newStart
	a.DurationMins = newDuration
	if cmd.Title != nil {
		a.Title = *cmd.Title
	}
	if cmd.Description != nil {
		a.Description = *cmd.Description
	}
	if cmd.Notes != nil {
		a.Notes = *cmd.Notes
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"scheduled_at":%q,"duration_mins":%d}`, newStart.Format(time.RFC3339), newDuration),
	})

	return a, nil
}

// AvailableSlots lists the open booking slots for a doctor on a calendar day.
func (s *AppointmentService) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time, durationMins int) ([]time.Time, error) {
	if durationMins == 0 {
		durationMins = s.defaultSlotMins
	}

	// A missing doctor should read as not-found, not as a fully open day.
	if _, err := s.doctorRepo.GetByID(ctx, doctorID); err != nil {
		return nil, fmt.Errorf("verifying doctor: %w", err)
	}

	return s.scheduler.AvailableSlots(ctx, doctorID, date, durationMins)
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, callerPatientID *uuid.UUID, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole == "patient" {
		if callerPatientID == nil || *callerPatientID != a.PatientID {
			return nil, ErrForbidden
		}
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "read", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
	})

	return a, nil
}

func (s *AppointmentService) CancelAppointment(ctx context.Context, id uuid.UUID, cmd *appointment.CancelAppointmentCommand, callerID uuid.UUID, callerRole string, callerPatientID *uuid.UUID, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole == "patient" {
		if callerPatientID == nil || *callerPatientID != a.PatientID {
			return nil, ErrForbidden
		}
	}

	if err := a.Cancel(cmd.Reason, cmd.CancelledBy); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"cancelled","reason":%q}`, cmd.Reason),
	})

	return a, nil
}

func (s *AppointmentService) ConfirmAppointment(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.CanTransitionTo(appointment.StatusConfirmed) {
		return nil, appointment.ErrInvalidStatusTransition
	}
	a.Status = appointment.StatusConfirmed
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AppointmentService) StartAppointment(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	if callerRole != "doctor" && callerRole != "admin" {
		return nil, ErrForbidden
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.CanTransitionTo(appointment.StatusInProgress) {
		return nil, appointment.ErrInvalidStatusTransition
	}
	a.Status = appointment.StatusInProgress
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AppointmentService) CompleteAppointment(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	if callerRole != "doctor" && callerRole != "admin" {
		return nil, ErrForbidden
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Complete(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AppointmentService) ListAppointments(ctx context.Context, q *appointment.ListAppointmentsQuery, callerRole string, callerPatientID *uuid.UUID) (*appointment.PagedAppointments, error) {
	// Patients can only see their own appointments
	if callerRole == "patient" && callerPatientID != nil {
		q.PatientID = callerPatientID
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}
