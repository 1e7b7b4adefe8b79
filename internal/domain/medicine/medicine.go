package medicine

import (
	"time"

	"github.com/google/uuid"
)

type Form string

const (
	FormTablet    Form = "tablet"
	FormCapsule   Form = "capsule"
	FormSyrup     Form = "syrup"
	FormInjection Form = "injection"
	FormOintment  Form = "ointment"
	FormDrops     Form = "drops"
	FormInhaler   Form = "inhaler"
)

func (f Form) IsValid() bool {
	switch f {
	case FormTablet, FormCapsule, FormSyrup, FormInjection, FormOintment, FormDrops, FormInhaler:
		return true
	}
	return false
}

type Medicine struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Name        string `gorm:"column:name;type:varchar(255);not null;index"`
	GenericName string `gorm:"column:generic_name;type:varchar(255);index"`
	Form        Form   `gorm:"column:form;type:varchar(30);not null"`
	Strength    string `gorm:"column:strength;type:varchar(50)"` // e.g. "500mg"

	Manufacturer string  `gorm:"column:manufacturer;type:varchar(255)"`
	Price        float64 `gorm:"column:price;type:numeric(10,2)"`
	InStock      bool    `gorm:"column:in_stock;default:true;index"`

	RequiresPrescription bool `gorm:"column:requires_prescription;default:true"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Medicine) TableName() string {
	return "clinical.medicines"
}

type CreateMedicineCommand struct {
	Name                 string
	GenericName          string
	Form                 Form
	Strength             string
	Manufacturer         string
	Price                float64
	RequiresPrescription bool
	CreatedBy            uuid.UUID
}

type UpdateMedicineCommand struct {
	Name                 *string
	GenericName          *string
	Form                 *Form
	Strength             *string
	Manufacturer         *string
	Price                *float64
	InStock              *bool
	RequiresPrescription *bool
	UpdatedBy            uuid.UUID
}

type ListMedicinesQuery struct {
	Search      string // matches name or generic name
	InStockOnly bool
	Page        int
	PageSize    int
}

type PagedMedicines struct {
	Medicines  []*Medicine
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
