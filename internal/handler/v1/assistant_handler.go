package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/mediq-health/mediq-api/internal/domain/assistant"
	"github.com/mediq-health/mediq-api/internal/service"
)

type AssistantHandler struct {
	svc *service.AssistantService
}

func NewAssistantHandler(svc *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

type createAgentConfigRequest struct {
	Name         string  `json:"name" binding:"required"`
	ModelName    string  `json:"model_name" binding:"required"`
	SystemPrompt string  `json:"system_prompt" binding:"required"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	Greeting     string  `json:"greeting"`
}

func (h *AssistantHandler) Create(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}

	var req createAgentConfigRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Temperature == 0 {
		req.Temperature = 0.7
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 1024
	}

	cfg, err := h.svc.CreateConfig(c.Request.Context(), &assistant.CreateAgentConfigCommand{
		Name:         req.Name,
		ModelName:    req.ModelName,
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		Greeting:     req.Greeting,
		CreatedBy:    callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, cfg)
}

func (h *AssistantHandler) Get(c *gin.Context) {
	_, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	cfg, err := h.svc.GetConfig(c.Request.Context(), id, callerRole)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, cfg)
}

// GetActive serves the chat surface: it exposes only what the widget needs.
func (h *AssistantHandler) GetActive(c *gin.Context) {
	cfg, err := h.svc.GetActiveConfig(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"name":     cfg.Name,
		"greeting": cfg.Greeting,
	})
}

type updateAgentConfigRequest struct {
	ModelName    *string  `json:"model_name"`
	SystemPrompt *string  `json:"system_prompt"`
	Temperature  *float64 `json:"temperature"`
	MaxTokens    *int     `json:"max_tokens"`
	Greeting     *string  `json:"greeting"`
}

func (h *AssistantHandler) Update(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateAgentConfigRequest
	if !bindJSON(c, &req) {
		return
	}

	cfg, err := h.svc.UpdateConfig(c.Request.Context(), id, &assistant.UpdateAgentConfigCommand{
		ModelName:    req.ModelName,
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		Greeting:     req.Greeting,
		UpdatedBy:    callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, cfg)
}

func (h *AssistantHandler) Activate(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.ActivateConfig(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "config activated"})
}

func (h *AssistantHandler) Delete(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteConfig(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "config removed"})
}

func (h *AssistantHandler) List(c *gin.Context) {
	_, callerRole, _, ok := caller(c)
	if !ok {
		return
	}

	configs, err := h.svc.ListConfigs(c.Request.Context(), callerRole)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, configs)
}
