package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediq-health/mediq-api/internal/domain/patient"
	"github.com/mediq-health/mediq-api/internal/service"
	"github.com/mediq-health/mediq-api/pkg/metrics"
)

type PatientHandler struct {
	svc       *service.PatientService
	collector *metrics.Collector
}

func NewPatientHandler(svc *service.PatientService, collector *metrics.Collector) *PatientHandler {
	return &PatientHandler{svc: svc, collector: collector}
}

type createPatientRequest struct {
	FirstName         string                    `json:"first_name" binding:"required"`
	LastName          string                    `json:"last_name" binding:"required"`
	DateOfBirth       time.Time                 `json:"date_of_birth" binding:"required"`
	Gender            string                    `json:"gender" binding:"required"`
	NationalID        string                    `json:"national_id" binding:"required"`
	Phone             string                    `json:"phone"`
	Email             string                    `json:"email"`
	Address           string                    `json:"address"`
	City              string                    `json:"city"`
	Country           string                    `json:"country"`
	EmergencyContact  *patient.EmergencyContact `json:"emergency_contact"`
	Allergies         []string                  `json:"allergies"`
	ChronicConditions []string                  `json:"chronic_conditions"`
	AssignedDoctorID  *uuid.UUID                `json:"assigned_doctor_id"`
	Notes             string                    `json:"notes"`
}

func (h *PatientHandler) Create(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}

	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.CreatePatient(c.Request.Context(), &patient.CreatePatientCommand{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		DateOfBirth:       req.DateOfBirth,
		Gender:            patient.Gender(req.Gender),
		NationalID:        req.NationalID,
		Phone:             req.Phone,
		Email:             req.Email,
		Address:           req.Address,
		City:              req.City,
		Country:           req.Country,
		EmergencyContact:  req.EmergencyContact,
		Allergies:         req.Allergies,
		ChronicConditions: req.ChronicConditions,
		AssignedDoctorID:  req.AssignedDoctorID,
		Notes:             req.Notes,
		CreatedBy:         callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.PatientsCreatedTotal.Inc()
	respondCreated(c, p)
}

func (h *PatientHandler) Get(c *gin.Context) {
	callerID, callerRole, callerPatientID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPatient(c.Request.Context(), id, callerID, callerRole, callerPatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

type updatePatientRequest struct {
	FirstName         *string                   `json:"first_name"`
	LastName          *string                   `json:"last_name"`
	Gender            *patient.Gender           `json:"gender"`
	Phone             *string                   `json:"phone"`
	Email             *string                   `json:"email"`
	Address           *string                   `json:"address"`
	City              *string                   `json:"city"`
	Country           *string                   `json:"country"`
	EmergencyContact  *patient.EmergencyContact `json:"emergency_contact"`
	Allergies         *[]string                 `json:"allergies"`
	ChronicConditions *[]string                 `json:"chronic_conditions"`
	AssignedDoctorID  *uuid.UUID                `json:"assigned_doctor_id"`
	Notes             *string                   `json:"notes"`
}

func (h *PatientHandler) Update(c *gin.Context) {
	callerID, callerRole, callerPatientID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.UpdatePatient(c.Request.Context(), id, &patient.UpdatePatientCommand{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Gender:            req.Gender,
		Phone:             req.Phone,
		Email:             req.Email,
		Address:           req.Address,
		City:              req.City,
		Country:           req.Country,
		EmergencyContact:  req.EmergencyContact,
		Allergies:         req.Allergies,
		ChronicConditions: req.ChronicConditions,
		AssignedDoctorID:  req.AssignedDoctorID,
		Notes:             req.Notes,
		UpdatedBy:         callerID,
	}, callerID, callerRole, callerPatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

func (h *PatientHandler) Deactivate(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeactivatePatient(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "patient deactivated"})
}

func (h *PatientHandler) List(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}

	q := &patient.ListPatientsQuery{
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		status := patient.Status(raw)
		q.Status = &status
	}
	var parsed bool
	if q.AssignedDoctorID, parsed = parseQueryUUID(c, "assigned_doctor_id"); !parsed {
		return
	}

	page, err := h.svc.ListPatients(c.Request.Context(), q, callerID, callerRole)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"patients":    page.Patients,
		"total_count": page.TotalCount,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total_pages": page.TotalPages,
	})
}
