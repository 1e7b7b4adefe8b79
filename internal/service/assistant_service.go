package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediq-health/mediq-api/internal/domain/assistant"
)

// AssistantService manages the AI-chat agent configuration. All mutations
// are admin-only; GetActive backs the public chat surface.
type AssistantService struct {
	repo     assistant.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewAssistantService(repo assistant.Repository, auditSvc *AuditService, log *zap.Logger) *AssistantService {
	return &AssistantService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *AssistantService) CreateConfig(ctx context.Context, cmd *assistant.CreateAgentConfigCommand, callerID uuid.UUID, callerRole string, ip string) (*assistant.AgentConfig, error) {
	if callerRole != "admin" {
		return nil, ErrForbidden
	}

	var errs []string
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(cmd.ModelName) == "" {
		errs = append(errs, "model_name is required")
	}
	if strings.TrimSpace(cmd.SystemPrompt) == "" {
		errs = append(errs, "system_prompt is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if cmd.Temperature < 0 || cmd.Temperature > 2 {
		return nil, assistant.ErrInvalidTemperature
	}
	if cmd.MaxTokens <= 0 {
		return nil, assistant.ErrInvalidMaxTokens
	}

	c := &assistant.AgentConfig{
		Name:         strings.TrimSpace(cmd.Name),
		ModelName:    strings.TrimSpace(cmd.ModelName),
		SystemPrompt: cmd.SystemPrompt,
		Temperature:  cmd.Temperature,
		MaxTokens:    cmd.MaxTokens,
		Greeting:     cmd.Greeting,
		IsActive:     false,
		CreatedBy:    cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating agent config: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "agent_config", ResourceID: c.ID.String(), IPAddress: ip,
	})

	return c, nil
}

func (s *AssistantService) GetConfig(ctx context.Context, id uuid.UUID, callerRole string) (*assistant.AgentConfig, error) {
	if callerRole != "admin" {
		return nil, ErrForbidden
	}
	return s.repo.GetByID(ctx, id)
}

// GetActiveConfig returns the config currently serving the chat assistant.
func (s *AssistantService) GetActiveConfig(ctx context.Context) (*assistant.AgentConfig, error) {
	return s.repo.GetActive(ctx)
}

func (s *AssistantService) UpdateConfig(ctx context.Context, id uuid.UUID, cmd *assistant.UpdateAgentConfigCommand, callerID uuid.UUID, callerRole string, ip string) (*assistant.AgentConfig, error) {
	if callerRole != "admin" {
		return nil, ErrForbidden
	}
	if cmd.Temperature != nil && (*cmd.Temperature < 0 || *cmd.Temperature > 2) {
		return nil, assistant.ErrInvalidTemperature
	}
	if cmd.MaxTokens != nil && *cmd.MaxTokens <= 0 {
		return nil, assistant.ErrInvalidMaxTokens
	}

	c, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "agent_config", ResourceID: id.String(), IPAddress: ip,
	})

	return c, nil
}

// ActivateConfig makes the given config the live one; any previously active
// config is deactivated in the same transaction.
func (s *AssistantService) ActivateConfig(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	if callerRole != "admin" {
		return ErrForbidden
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Activate(ctx, id); err != nil {
		return fmt.Errorf("activating agent config: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "agent_config", ResourceID: id.String(), IPAddress: ip,
		Changes: `{"is_active":true}`,
	})

	return nil
}

func (s *AssistantService) DeleteConfig(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	if callerRole != "admin" {
		return ErrForbidden
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.IsActive {
		return &ValidationError{Fields: []string{"cannot delete the active config; activate another one first"}}
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "delete", ResourceType: "agent_config", ResourceID: id.String(), IPAddress: ip,
	})

	return s.repo.Delete(ctx, id)
}

func (s *AssistantService) ListConfigs(ctx context.Context, callerRole string) ([]*assistant.AgentConfig, error) {
	if callerRole != "admin" {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx)
}
