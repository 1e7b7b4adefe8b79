package hospital

import (
	"time"

	"github.com/google/uuid"
)

type Hospital struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Name    string `gorm:"column:name;type:varchar(255);not null;uniqueIndex"`
	Address string `gorm:"column:address;type:text"`
	City    string `gorm:"column:city;type:varchar(100);index"`
	Phone   string `gorm:"column:phone;type:varchar(20)"`
	Email   string `gorm:"column:email;type:varchar(255)"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Hospital) TableName() string {
	return "clinical.hospitals"
}

type CreateHospitalCommand struct {
	Name      string
	Address   string
	City      string
	Phone     string
	Email     string
	CreatedBy uuid.UUID
}

type UpdateHospitalCommand struct {
	Name      *string
	Address   *string
	City      *string
	Phone     *string
	Email     *string
	UpdatedBy uuid.UUID
}

type ListHospitalsQuery struct {
	City     string
	Page     int
	PageSize int
}

type PagedHospitals struct {
	Hospitals  []*Hospital
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
