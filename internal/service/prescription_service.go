package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediq-health/mediq-api/internal/domain/medicine"
	"github.com/mediq-health/mediq-api/internal/domain/patient"
	"github.com/mediq-health/mediq-api/internal/domain/prescription"
)

type PrescriptionService struct {
	repo         prescription.Repository
	patientRepo  patient.Repository
	medicineRepo medicine.Repository
	auditSvc     *AuditService
	log          *zap.Logger
}

func NewPrescriptionService(repo prescription.Repository, patientRepo patient.Repository, medicineRepo medicine.Repository, auditSvc *AuditService, log *zap.Logger) *PrescriptionService {
	return &PrescriptionService{repo: repo, patientRepo: patientRepo, medicineRepo: medicineRepo, auditSvc: auditSvc, log: log}
}

// CreatePrescription issues a new prescription. Only doctors can prescribe.
func (s *PrescriptionService) CreatePrescription(ctx context.Context, cmd *prescription.CreatePrescriptionCommand, callerID uuid.UUID, callerRole string, ip string) (*prescription.Prescription, error) {
	if callerRole != "doctor" && callerRole != "admin" {
		return nil, ErrForbidden
	}

	if !cmd.Route.IsValid() {
		return nil, prescription.ErrInvalidRoute
	}
	if cmd.Quantity <= 0 {
		return nil, prescription.ErrInvalidQuantity
	}
	if !cmd.ExpiresAt.After(cmd.IssuedAt) {
		return nil, prescription.ErrExpiryBeforeIssue
	}

	if _, err := s.patientRepo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}

	// When the drug comes from the catalog, take the canonical name from there.
	name := strings.TrimSpace(cmd.MedicationName)
	if cmd.MedicineID != nil {
		m, err := s.medicineRepo.GetByID(ctx, *cmd.MedicineID)
		if err != nil {
			return nil, fmt.Errorf("verifying medicine: %w", err)
		}
		name = m.Name
	}
	if name == "" {
		return nil, &ValidationError{Fields: []string{"medication_name is required"}}
	}

	p := &prescription.Prescription{
		PatientID:       cmd.PatientID,
		DoctorID:        cmd.DoctorID,
		AppointmentID:   cmd.AppointmentID,
		MedicineID:      cmd.MedicineID,
		MedicationName:  name,
		DosageAmount:    cmd.DosageAmount,
		DosageFrequency: cmd.DosageFrequency,
		Route:           cmd.Route,
		Duration:        cmd.Duration,
		Quantity:        cmd.Quantity,
		RefillsAllowed:  cmd.RefillsAllowed,
		IssuedAt:        cmd.IssuedAt,
		ExpiresAt:       cmd.ExpiresAt,
		Status:          prescription.StatusActive,
		Instructions:    cmd.Instructions,
		Warnings:        cmd.Warnings,
		CreatedBy:       cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating prescription: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "prescription", ResourceID: p.ID.String(), IPAddress: ip,
	})

	return p, nil
}

func (s *PrescriptionService) GetPrescription(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, callerPatientID *uuid.UUID, ip string) (*prescription.Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole == "patient" {
		if callerPatientID == nil || *callerPatientID != p.PatientID {
			return nil, ErrForbidden
		}
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "read", ResourceType: "prescription", ResourceID: id.String(), IPAddress: ip,
	})

	return p, nil
}

// RefillPrescription processes a refill request against the refill allowance.
func (s *PrescriptionService) RefillPrescription(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, callerPatientID *uuid.UUID, ip string) (*prescription.Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole == "patient" {
		if callerPatientID == nil || *callerPatientID != p.PatientID {
			return nil, ErrForbidden
		}
	}

	if err := p.Refill(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating prescription: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "prescription", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"action":"refill","refills_used":%d}`, p.RefillsUsed),
	})

	return p, nil
}

// CancelPrescription voids an active prescription. Staff only: a patient cannot
// cancel their own prescription.
func (s *PrescriptionService) CancelPrescription(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*prescription.Prescription, error) {
	if callerRole != "doctor" && callerRole != "admin" {
		return nil, ErrForbidden
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Cancel(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating prescription: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "prescription", ResourceID: id.String(), IPAddress: ip,
		Changes: `{"action":"cancel"}`,
	})

	return p, nil
}

func (s *PrescriptionService) ListPrescriptions(ctx context.Context, q *prescription.ListPrescriptionsQuery, callerRole string, callerPatientID *uuid.UUID) (*prescription.PagedPrescriptions, error) {
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
