package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediq-health/mediq-api/internal/domain/medicine"
)

type MedicineRepository struct {
	db *gorm.DB
}

func NewMedicineRepository(db *gorm.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

func (r *MedicineRepository) Create(ctx context.Context, m *medicine.Medicine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MedicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*medicine.Medicine, error) {
	var m medicine.Medicine
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, medicine.ErrMedicineNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MedicineRepository) Update(ctx context.Context, id uuid.UUID, cmd *medicine.UpdateMedicineCommand) (*medicine.Medicine, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		m.Name = *cmd.Name
	}
	if cmd.GenericName != nil {
		m.GenericName = *cmd.GenericName
	}
	if cmd.Form != nil {
		m.Form = *cmd.Form
	}
	if cmd.Strength != nil {
		m.Strength = *cmd.Strength
	}
	if cmd.Manufacturer != nil {
		m.Manufacturer = *cmd.Manufacturer
	}
	if cmd.Price != nil {
		m.Price = *cmd.Price
	}
	if cmd.InStock != nil {
		m.InStock = *cmd.InStock
	}
	if cmd.RequiresPrescription != nil {
		m.RequiresPrescription = *cmd.RequiresPrescription
	}

	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MedicineRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&medicine.Medicine{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return medicine.ErrMedicineNotFound
	}
	return nil
}

func (r *MedicineRepository) List(ctx context.Context, q *medicine.ListMedicinesQuery) (*medicine.PagedMedicines, error) {
	tx := r.db.WithContext(ctx).
		Model(&medicine.Medicine{}).
		Where("deleted_at IS NULL")

	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("name ILIKE ? OR generic_name ILIKE ?", like, like)
	}
	if q.InStockOnly {
		tx = tx.Where("in_stock = TRUE")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*medicine.Medicine
	err := tx.Order("name ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &medicine.PagedMedicines{
		Medicines:  items,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PageSize))),
	}, nil
}
