package assistant

import (
	"time"

	"github.com/google/uuid"
)

// AgentConfig holds the AI-chat assistant settings managed from the admin
// panel. At most one config is active at a time; activating one deactivates
// the rest.
type AgentConfig struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Name         string  `gorm:"column:name;type:varchar(100);not null;uniqueIndex"`
	ModelName    string  `gorm:"column:model_name;type:varchar(100);not null"`
	SystemPrompt string  `gorm:"column:system_prompt;type:text;not null"`
	Temperature  float64 `gorm:"column:temperature;type:numeric(3,2);default:0.7"`
	MaxTokens    int     `gorm:"column:max_tokens;default:1024"`

	// Greeting shown when a patient opens the chat.
	Greeting string `gorm:"column:greeting;type:text"`

	IsActive bool `gorm:"column:is_active;default:false;index"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (AgentConfig) TableName() string {
	return "admin.agent_configs"
}

type CreateAgentConfigCommand struct {
	Name         string
	ModelName    string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	Greeting     string
	CreatedBy    uuid.UUID
}

type UpdateAgentConfigCommand struct {
	ModelName    *string
	SystemPrompt *string
	Temperature  *float64
	MaxTokens    *int
	Greeting     *string
	UpdatedBy    uuid.UUID
}
