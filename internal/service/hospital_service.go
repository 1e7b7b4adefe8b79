package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediq-health/mediq-api/internal/domain/hospital"
)

type HospitalService struct {
	repo     hospital.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewHospitalService(repo hospital.Repository, auditSvc *AuditService, log *zap.Logger) *HospitalService {
	return &HospitalService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *HospitalService) CreateHospital(ctx context.Context, cmd *hospital.CreateHospitalCommand, callerID uuid.UUID, callerRole string, ip string) (*hospital.Hospital, error) {
	if callerRole != "admin" {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, &ValidationError{Fields: []string{"name is required"}}
	}

	h := &hospital.Hospital{
		Name:      strings.TrimSpace(cmd.Name),
		Address:   cmd.Address,
		City:      cmd.City,
		Phone:     cmd.Phone,
		Email:     strings.ToLower(strings.TrimSpace(cmd.Email)),
		CreatedBy: cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("creating hospital: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "hospital", ResourceID: h.ID.String(), IPAddress: ip,
	})

	return h, nil
}

func (s *HospitalService) GetHospital(ctx context.Context, id uuid.UUID) (*hospital.Hospital, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *HospitalService) UpdateHospital(ctx context.Context, id uuid.UUID, cmd *hospital.UpdateHospitalCommand, callerID uuid.UUID, callerRole string, ip string) (*hospital.Hospital, error) {
	if callerRole != "admin" {
		return nil, ErrForbidden
	}

	h, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "hospital", ResourceID: id.String(), IPAddress: ip,
	})

	return h, nil
}

func (s *HospitalService) DeleteHospital(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	if callerRole != "admin" {
		return ErrForbidden
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "delete", ResourceType: "hospital", ResourceID: id.String(), IPAddress: ip,
	})

	return s.repo.SoftDelete(ctx, id)
}

func (s *HospitalService) ListHospitals(ctx context.Context, q *hospital.ListHospitalsQuery) (*hospital.PagedHospitals, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}
