package assistant

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *AgentConfig) error
	GetByID(ctx context.Context, id uuid.UUID) (*AgentConfig, error)
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateAgentConfigCommand) (*AgentConfig, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*AgentConfig, error)

	// GetActive returns the single active config, or ErrNoActiveConfig.
	GetActive(ctx context.Context) (*AgentConfig, error)

	// Activate marks the given config active and deactivates all others
	// in one transaction.
	Activate(ctx context.Context, id uuid.UUID) error
}
