package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/mediq-health/mediq-api/internal/domain/hospital"
	"github.com/mediq-health/mediq-api/internal/service"
)

type HospitalHandler struct {
	svc *service.HospitalService
}

func NewHospitalHandler(svc *service.HospitalService) *HospitalHandler {
	return &HospitalHandler{svc: svc}
}

type createHospitalRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (h *HospitalHandler) Create(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}

	var req createHospitalRequest
	if !bindJSON(c, &req) {
		return
	}

	hosp, err := h.svc.CreateHospital(c.Request.Context(), &hospital.CreateHospitalCommand{
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		Phone:     req.Phone,
		Email:     req.Email,
		CreatedBy: callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, hosp)
}

func (h *HospitalHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	hosp, err := h.svc.GetHospital(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, hosp)
}

type updateHospitalRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

func (h *HospitalHandler) Update(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateHospitalRequest
	if !bindJSON(c, &req) {
		return
	}

	hosp, err := h.svc.UpdateHospital(c.Request.Context(), id, &hospital.UpdateHospitalCommand{
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		Phone:     req.Phone,
		Email:     req.Email,
		UpdatedBy: callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, hosp)
}

func (h *HospitalHandler) Delete(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteHospital(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "hospital removed"})
}

func (h *HospitalHandler) List(c *gin.Context) {
	q := &hospital.ListHospitalsQuery{
		City:     c.Query("city"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	page, err := h.svc.ListHospitals(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"hospitals":   page.Hospitals,
		"total_count": page.TotalCount,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total_pages": page.TotalPages,
	})
}
