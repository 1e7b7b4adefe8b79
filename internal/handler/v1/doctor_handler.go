package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediq-health/mediq-api/internal/domain/doctor"
	"github.com/mediq-health/mediq-api/internal/service"
)

type DoctorHandler struct {
	svc *service.DoctorService
}

func NewDoctorHandler(svc *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{svc: svc}
}

type createDoctorRequest struct {
	FirstName       string     `json:"first_name" binding:"required"`
	LastName        string     `json:"last_name" binding:"required"`
	Specialty       string     `json:"specialty" binding:"required"`
	HospitalID      *uuid.UUID `json:"hospital_id"`
	LicenseNumber   string     `json:"license_number" binding:"required"`
	ConsultationFee float64    `json:"consultation_fee"`
	Bio             string     `json:"bio"`
}

func (h *DoctorHandler) Create(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}

	var req createDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.CreateDoctor(c.Request.Context(), &doctor.CreateDoctorCommand{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Specialty:       req.Specialty,
		HospitalID:      req.HospitalID,
		LicenseNumber:   req.LicenseNumber,
		ConsultationFee: req.ConsultationFee,
		Bio:             req.Bio,
		CreatedBy:       callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, d)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.svc.GetDoctor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, d)
}

type updateDoctorRequest struct {
	FirstName           *string    `json:"first_name"`
	LastName            *string    `json:"last_name"`
	Specialty           *string    `json:"specialty"`
	HospitalID          *uuid.UUID `json:"hospital_id"`
	ConsultationFee     *float64   `json:"consultation_fee"`
	Bio                 *string    `json:"bio"`
	IsAcceptingPatients *bool      `json:"is_accepting_patients"`
}

func (h *DoctorHandler) Update(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.UpdateDoctor(c.Request.Context(), id, &doctor.UpdateDoctorCommand{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Specialty:           req.Specialty,
		HospitalID:          req.HospitalID,
		ConsultationFee:     req.ConsultationFee,
		Bio:                 req.Bio,
		IsAcceptingPatients: req.IsAcceptingPatients,
		UpdatedBy:           callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, d)
}

func (h *DoctorHandler) Delete(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteDoctor(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "doctor removed"})
}

func (h *DoctorHandler) List(c *gin.Context) {
	q := &doctor.ListDoctorsQuery{
		Specialty:     c.Query("specialty"),
		AcceptingOnly: c.Query("accepting_only") == "true",
		Page:          parseQueryInt(c, "page", 1),
		PageSize:      parseQueryInt(c, "page_size", 20),
	}
	var parsed bool
	if q.HospitalID, parsed = parseQueryUUID(c, "hospital_id"); !parsed {
		return
	}

	page, err := h.svc.ListDoctors(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"doctors":     page.Doctors,
		"total_count": page.TotalCount,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total_pages": page.TotalPages,
	})
}
