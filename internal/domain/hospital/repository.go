package hospital

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateHospitalCommand) (*Hospital, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q *ListHospitalsQuery) (*PagedHospitals, error)
}
