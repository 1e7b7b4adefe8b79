package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediq-health/mediq-api/internal/domain/patient"
	"github.com/mediq-health/mediq-api/internal/domain/record"
)

type MedicalRecordService struct {
	repo        record.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewMedicalRecordService(repo record.Repository, patientRepo patient.Repository, auditSvc *AuditService, log *zap.Logger) *MedicalRecordService {
	return &MedicalRecordService{repo: repo, patientRepo: patientRepo, auditSvc: auditSvc, log: log}
}

func (s *MedicalRecordService) CreateRecord(ctx context.Context, cmd *record.CreateRecordCommand, callerID uuid.UUID, callerRole string, ip string) (*record.MedicalRecord, error) {
	if callerRole != "doctor" && callerRole != "admin" {
		return nil, ErrForbidden
	}

	if !cmd.Type.IsValid() {
		return nil, &ValidationError{Fields: []string{"type: unknown record type"}}
	}
	if strings.TrimSpace(cmd.Summary) == "" {
		return nil, &ValidationError{Fields: []string{"summary is required"}}
	}

	if _, err := s.patientRepo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}

	rec := &record.MedicalRecord{
		PatientID:     cmd.PatientID,
		AppointmentID: cmd.AppointmentID,
		DoctorID:      cmd.DoctorID,
		Type:          cmd.Type,
		Vitals:        cmd.Vitals,
		Diagnoses:     cmd.Diagnoses,
		Summary:       cmd.Summary,
		Notes:         cmd.Notes,
		CreatedBy:     cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating medical record: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "medical_record",
		ResourceID:   rec.ID.String(),
		IPAddress:    ip,
	})

	return rec, nil
}

func (s *MedicalRecordService) GetRecord(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, callerPatientID *uuid.UUID, ip string) (*record.MedicalRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole == "patient" {
		if callerPatientID == nil || *callerPatientID != rec.PatientID {
			return nil, ErrForbidden
		}
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "read", ResourceType: "medical_record", ResourceID: id.String(), IPAddress: ip,
	})

	return rec, nil
}

// AddAddendum appends a correction to an existing record without modifying it.
func (s *MedicalRecordService) AddAddendum(ctx context.Context, cmd *record.AddAddendumCommand, callerID uuid.UUID, callerRole string, ip string) (*record.Addendum, error) {
	if callerRole != "doctor" && callerRole != "admin" {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(cmd.Content) == "" {
		return nil, &ValidationError{Fields: []string{"content is required"}}
	}

	// The parent record must exist before an addendum can reference it.
	if _, err := s.repo.GetByID(ctx, cmd.MedicalRecordID); err != nil {
		return nil, err
	}

	addendum := &record.Addendum{
		MedicalRecordID: cmd.MedicalRecordID,
		Content:         cmd.Content,
		CreatedBy:       cmd.CreatedBy,
	}

	if err := s.repo.AddAddendum(ctx, addendum); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "medical_record", ResourceID: cmd.MedicalRecordID.String(), IPAddress: ip,
		Changes: `{"action":"addendum_added"}`,
	})

	return addendum, nil
}

func (s *MedicalRecordService) ListRecords(ctx context.Context, q *record.ListRecordsQuery, callerRole string, callerPatientID *uuid.UUID) (*record.PagedRecords, error) {
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
