package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediq-health/mediq-api/internal/domain/medicine"
)

type MedicineService struct {
	repo     medicine.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewMedicineService(repo medicine.Repository, auditSvc *AuditService, log *zap.Logger) *MedicineService {
	return &MedicineService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *MedicineService) CreateMedicine(ctx context.Context, cmd *medicine.CreateMedicineCommand, callerID uuid.UUID, callerRole string, ip string) (*medicine.Medicine, error) {
	if callerRole != "admin" {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, &ValidationError{Fields: []string{"name is required"}}
	}
	if !cmd.Form.IsValid() {
		return nil, medicine.ErrInvalidForm
	}

	m := &medicine.Medicine{
		Name:                 strings.TrimSpace(cmd.Name),
		GenericName:          strings.TrimSpace(cmd.GenericName),
		Form:                 cmd.Form,
		Strength:             cmd.Strength,
		Manufacturer:         cmd.Manufacturer,
		Price:                cmd.Price,
		InStock:              true,
		RequiresPrescription: cmd.RequiresPrescription,
		CreatedBy:            cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating medicine: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "medicine", ResourceID: m.ID.String(), IPAddress: ip,
	})

	return m, nil
}

func (s *MedicineService) GetMedicine(ctx context.Context, id uuid.UUID) (*medicine.Medicine, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MedicineService) UpdateMedicine(ctx context.Context, id uuid.UUID, cmd *medicine.UpdateMedicineCommand, callerID uuid.UUID, callerRole string, ip string) (*medicine.Medicine, error) {
	if callerRole != "admin" {
		return nil, ErrForbidden
	}
	if cmd.Form != nil && !cmd.Form.IsValid() {
		return nil, medicine.ErrInvalidForm
	}

	m, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "medicine", ResourceID: id.String(), IPAddress: ip,
	})

	return m, nil
}

func (s *MedicineService) DeleteMedicine(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	if callerRole != "admin" {
		return ErrForbidden
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "delete", ResourceType: "medicine", ResourceID: id.String(), IPAddress: ip,
	})

	return s.repo.SoftDelete(ctx, id)
}

func (s *MedicineService) ListMedicines(ctx context.Context, q *medicine.ListMedicinesQuery) (*medicine.PagedMedicines, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}
