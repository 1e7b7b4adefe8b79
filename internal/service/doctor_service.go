package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediq-health/mediq-api/internal/domain/doctor"
	"github.com/mediq-health/mediq-api/internal/domain/hospital"
)

type DoctorService struct {
	repo         doctor.Repository
	hospitalRepo hospital.Repository
	auditSvc     *AuditService
	log          *zap.Logger
}

func NewDoctorService(repo doctor.Repository, hospitalRepo hospital.Repository, auditSvc *AuditService, log *zap.Logger) *DoctorService {
	return &DoctorService{repo: repo, hospitalRepo: hospitalRepo, auditSvc: auditSvc, log: log}
}

func (s *DoctorService) CreateDoctor(ctx context.Context, cmd *doctor.CreateDoctorCommand, callerID uuid.UUID, callerRole string, ip string) (*doctor.Doctor, error) {
	if callerRole != "admin" {
		return nil, ErrForbidden
	}

	var errs []string
	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if strings.TrimSpace(cmd.Specialty) == "" {
		errs = append(errs, "specialty is required")
	}
	if strings.TrimSpace(cmd.LicenseNumber) == "" {
		errs = append(errs, "license_number is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	exists, err := s.repo.ExistsByLicenseNumber(ctx, cmd.LicenseNumber, nil)
	if err != nil {
		return nil, fmt.Errorf("checking license uniqueness: %w", err)
	}
	if exists {
		return nil, doctor.ErrDoctorAlreadyExists
	}

	if cmd.HospitalID != nil {
		if _, err := s.hospitalRepo.GetByID(ctx, *cmd.HospitalID); err != nil {
			return nil, fmt.Errorf("verifying hospital: %w", err)
		}
	}

	d := &doctor.Doctor{
		FirstName:           strings.TrimSpace(cmd.FirstName),
		LastName:            strings.TrimSpace(cmd.LastName),
		Specialty:           strings.TrimSpace(cmd.Specialty),
		HospitalID:          cmd.HospitalID,
		LicenseNumber:       strings.TrimSpace(cmd.LicenseNumber),
		ConsultationFee:     cmd.ConsultationFee,
		Bio:                 cmd.Bio,
		IsAcceptingPatients: true,
		CreatedBy:           cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		s.log.Error("failed to create doctor", zap.Error(err))
		return nil, fmt.Errorf("creating doctor: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "doctor", ResourceID: d.ID.String(), IPAddress: ip,
	})

	return d, nil
}

func (s *DoctorService) GetDoctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DoctorService) UpdateDoctor(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand, callerID uuid.UUID, callerRole string, ip string) (*doctor.Doctor, error) {
	if callerRole != "admin" {
		return nil, ErrForbidden
	}

	if cmd.HospitalID != nil {
		if _, err := s.hospitalRepo.GetByID(ctx, *cmd.HospitalID); err != nil {
			return nil, fmt.Errorf("verifying hospital: %w", err)
		}
	}

	d, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "doctor", ResourceID: id.String(), IPAddress: ip,
	})

	return d, nil
}

func (s *DoctorService) DeleteDoctor(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	if callerRole != "admin" {
		return ErrForbidden
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "delete", ResourceType: "doctor", ResourceID: id.String(), IPAddress: ip,
	})

	return s.repo.SoftDelete(ctx, id)
}

func (s *DoctorService) ListDoctors(ctx context.Context, q *doctor.ListDoctorsQuery) (*doctor.PagedDoctors, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}
