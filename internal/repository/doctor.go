package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediq-health/mediq-api/internal/domain/doctor"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepository) Update(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	d, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.FirstName != nil {
		d.FirstName = *cmd.FirstName
	}
	if cmd.LastName != nil {
		d.LastName = *cmd.LastName
	}
	if cmd.Specialty != nil {
		d.Specialty = *cmd.Specialty
	}
	if cmd.HospitalID != nil {
		d.HospitalID = cmd.HospitalID
	}
	if cmd.ConsultationFee != nil {
		d.ConsultationFee = *cmd.ConsultationFee
	}
	if cmd.Bio != nil {
		d.Bio = *cmd.Bio
	}
	if cmd.IsAcceptingPatients != nil {
		d.IsAcceptingPatients = *cmd.IsAcceptingPatients
	}

	if err := r.db.WithContext(ctx).Save(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DoctorRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&doctor.Doctor{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return doctor.ErrDoctorNotFound
	}
	return nil
}

func (r *DoctorRepository) List(ctx context.Context, q *doctor.ListDoctorsQuery) (*doctor.PagedDoctors, error) {
	tx := r.db.WithContext(ctx).
		Model(&doctor.Doctor{}).
		Where("deleted_at IS NULL")

	if q.Specialty != "" {
		tx = tx.Where("specialty = ?", q.Specialty)
	}
	if q.HospitalID != nil {
		tx = tx.Where("hospital_id = ?", *q.HospitalID)
	}
	if q.AcceptingOnly {
		tx = tx.Where("is_accepting_patients = TRUE")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*doctor.Doctor
	err := tx.Order("last_name ASC, first_name ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &doctor.PagedDoctors{
		Doctors:    items,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PageSize))),
	}, nil
}

func (r *DoctorRepository) ExistsByLicenseNumber(ctx context.Context, licenseNumber string, excludeID *uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&doctor.Doctor{}).
		Where("license_number = ? AND deleted_at IS NULL", licenseNumber)
	if excludeID != nil {
		tx = tx.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
