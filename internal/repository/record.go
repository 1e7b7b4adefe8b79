package repository

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediq-health/mediq-api/internal/domain/record"
)

type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) Create(ctx context.Context, rec *record.MedicalRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *RecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*record.MedicalRecord, error) {
	var rec record.MedicalRecord
	err := r.db.WithContext(ctx).
		Preload("Addenda").
		Where("id = ?", id).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, record.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *RecordRepository) AddAddendum(ctx context.Context, a *record.Addendum) error {
	// Verify the parent record exists; addenda must never dangle.
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&record.MedicalRecord{}).
		Where("id = ?", a.MedicalRecordID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return record.ErrRecordNotFound
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *RecordRepository) List(ctx context.Context, q *record.ListRecordsQuery) (*record.PagedRecords, error) {
	tx := r.db.WithContext(ctx).Model(&record.MedicalRecord{})

	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Type != nil {
		tx = tx.Where("type = ?", *q.Type)
	}
	if q.AppointmentID != nil {
		tx = tx.Where("appointment_id = ?", *q.AppointmentID)
	}
	if q.DateFrom != nil {
		tx = tx.Where("created_at >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		tx = tx.Where("created_at < ?", *q.DateTo)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*record.MedicalRecord
	err := tx.Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &record.PagedRecords{
		Records:    items,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PageSize))),
	}, nil
}

func (r *RecordRepository) GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*record.MedicalRecord, error) {
	var rec record.MedicalRecord
	err := r.db.WithContext(ctx).
		Preload("Addenda").
		Where("appointment_id = ?", appointmentID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, record.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}
