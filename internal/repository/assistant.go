package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediq-health/mediq-api/internal/domain/assistant"
)

type AssistantRepository struct {
	db *gorm.DB
}

func NewAssistantRepository(db *gorm.DB) *AssistantRepository {
	return &AssistantRepository{db: db}
}

func (r *AssistantRepository) Create(ctx context.Context, c *assistant.AgentConfig) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *AssistantRepository) GetByID(ctx context.Context, id uuid.UUID) (*assistant.AgentConfig, error) {
	var c assistant.AgentConfig
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, assistant.ErrConfigNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *AssistantRepository) Update(ctx context.Context, id uuid.UUID, cmd *assistant.UpdateAgentConfigCommand) (*assistant.AgentConfig, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.ModelName != nil {
		c.ModelName = *cmd.ModelName
	}
	if cmd.SystemPrompt != nil {
		c.SystemPrompt = *cmd.SystemPrompt
	}
	if cmd.Temperature != nil {
		c.Temperature = *cmd.Temperature
	}
	if cmd.MaxTokens != nil {
		c.MaxTokens = *cmd.MaxTokens
	}
	if cmd.Greeting != nil {
		c.Greeting = *cmd.Greeting
	}

	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *AssistantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&assistant.AgentConfig{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return assistant.ErrConfigNotFound
	}
	return nil
}

func (r *AssistantRepository) List(ctx context.Context) ([]*assistant.AgentConfig, error) {
	var items []*assistant.AgentConfig
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *AssistantRepository) GetActive(ctx context.Context) (*assistant.AgentConfig, error) {
	var c assistant.AgentConfig
	err := r.db.WithContext(ctx).
		Where("is_active = TRUE AND deleted_at IS NULL").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, assistant.ErrNoActiveConfig
		}
		return nil, err
	}
	return &c, nil
}

// Activate flips the active flag to the given config inside a transaction so
// there is never more than one active config.
func (r *AssistantRepository) Activate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&assistant.AgentConfig{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return assistant.ErrConfigNotFound
		}

		return tx.Model(&assistant.AgentConfig{}).
			Where("id <> ? AND is_active = TRUE", id).
			Update("is_active", false).Error
	})
}
