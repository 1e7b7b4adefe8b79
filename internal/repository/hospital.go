package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediq-health/mediq-api/internal/domain/hospital"
)

type HospitalRepository struct {
	db *gorm.DB
}

func NewHospitalRepository(db *gorm.DB) *HospitalRepository {
	return &HospitalRepository{db: db}
}

func (r *HospitalRepository) Create(ctx context.Context, h *hospital.Hospital) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *HospitalRepository) GetByID(ctx context.Context, id uuid.UUID) (*hospital.Hospital, error) {
	var h hospital.Hospital
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, hospital.ErrHospitalNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *HospitalRepository) Update(ctx context.Context, id uuid.UUID, cmd *hospital.UpdateHospitalCommand) (*hospital.Hospital, error) {
	h, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		h.Name = *cmd.Name
	}
	if cmd.Address != nil {
		h.Address = *cmd.Address
	}
	if cmd.City != nil {
		h.City = *cmd.City
	}
	if cmd.Phone != nil {
		h.Phone = *cmd.Phone
	}
	if cmd.Email != nil {
		h.Email = *cmd.Email
	}

	if err := r.db.WithContext(ctx).Save(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

func (r *HospitalRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&hospital.Hospital{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return hospital.ErrHospitalNotFound
	}
	return nil
}

func (r *HospitalRepository) List(ctx context.Context, q *hospital.ListHospitalsQuery) (*hospital.PagedHospitals, error) {
	tx := r.db.WithContext(ctx).
		Model(&hospital.Hospital{}).
		Where("deleted_at IS NULL")

	if q.City != "" {
		tx = tx.Where("city = ?", q.City)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*hospital.Hospital
	err := tx.Order("name ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &hospital.PagedHospitals{
		Hospitals:  items,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PageSize))),
	}, nil
}
