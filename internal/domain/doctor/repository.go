package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateDoctorCommand) (*Doctor, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q *ListDoctorsQuery) (*PagedDoctors, error)
	ExistsByLicenseNumber(ctx context.Context, licenseNumber string, excludeID *uuid.UUID) (bool, error)
}
