package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	FirstName string `gorm:"column:first_name;type:varchar(100);not null"`
	LastName  string `gorm:"column:last_name;type:varchar(100);not null"`
	Specialty string `gorm:"column:specialty;type:varchar(100);not null;index"`

	HospitalID *uuid.UUID `gorm:"column:hospital_id;type:uuid;index"`

	LicenseNumber   string  `gorm:"column:license_number;type:varchar(50);uniqueIndex"`
	ConsultationFee float64 `gorm:"column:consultation_fee;type:numeric(10,2)"`
	Bio             string  `gorm:"column:bio;type:text"`

	// IsAcceptingPatients gates whether the doctor appears in public
	// listings and can receive new bookings.
	IsAcceptingPatients bool `gorm:"column:is_accepting_patients;default:true;index"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

func (d *Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

type CreateDoctorCommand struct {
	FirstName       string
	LastName        string
	Specialty       string
	HospitalID      *uuid.UUID
	LicenseNumber   string
	ConsultationFee float64
	Bio             string
	CreatedBy       uuid.UUID
}

type UpdateDoctorCommand struct {
	FirstName           *string
	LastName            *string
	Specialty           *string
	HospitalID          *uuid.UUID
	ConsultationFee     *float64
	Bio                 *string
	IsAcceptingPatients *bool
	UpdatedBy           uuid.UUID
}

type ListDoctorsQuery struct {
	Specialty     string
	HospitalID    *uuid.UUID
	AcceptingOnly bool
	Page          int
	PageSize      int
}

type PagedDoctors struct {
	Doctors    []*Doctor
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
