package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediq-health/mediq-api/internal/domain/prescription"
	"github.com/mediq-health/mediq-api/internal/service"
	"github.com/mediq-health/mediq-api/pkg/metrics"
)

type PrescriptionHandler struct {
	svc       *service.PrescriptionService
	collector *metrics.Collector
}

func NewPrescriptionHandler(svc *service.PrescriptionService, collector *metrics.Collector) *PrescriptionHandler {
	return &PrescriptionHandler{svc: svc, collector: collector}
}

type createPrescriptionRequest struct {
	PatientID       uuid.UUID  `json:"patient_id" binding:"required"`
	DoctorID        uuid.UUID  `json:"doctor_id" binding:"required"`
	AppointmentID   *uuid.UUID `json:"appointment_id"`
	MedicineID      *uuid.UUID `json:"medicine_id"`
	MedicationName  string     `json:"medication_name"`
	DosageAmount    string     `json:"dosage_amount" binding:"required"`
	DosageFrequency string     `json:"dosage_frequency" binding:"required"`
	Route           string     `json:"route" binding:"required"`
	Duration        string     `json:"duration"`
	Quantity        int        `json:"quantity" binding:"required"`
	RefillsAllowed  int        `json:"refills_allowed"`
	IssuedAt        time.Time  `json:"issued_at" binding:"required"`
	ExpiresAt       time.Time  `json:"expires_at" binding:"required"`
	Instructions    string     `json:"instructions"`
	Warnings        []string   `json:"warnings"`
}

func (h *PrescriptionHandler) Create(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}

	var req createPrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.CreatePrescription(c.Request.Context(), &prescription.CreatePrescriptionCommand{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentID:   req.AppointmentID,
		MedicineID:      req.MedicineID,
		MedicationName:  req.MedicationName,
		DosageAmount:    req.DosageAmount,
		DosageFrequency: req.DosageFrequency,
		Route:           prescription.Route(req.Route),
		Duration:        req.Duration,
		Quantity:        req.Quantity,
		RefillsAllowed:  req.RefillsAllowed,
		IssuedAt:        req.IssuedAt,
		ExpiresAt:       req.ExpiresAt,
		Instructions:    req.Instructions,
		Warnings:        req.Warnings,
		CreatedBy:       callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.PrescriptionsIssued.Inc()
	respondCreated(c, p)
}

func (h *PrescriptionHandler) Get(c *gin.Context) {
	callerID, callerRole, callerPatientID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPrescription(c.Request.Context(), id, callerID, callerRole, callerPatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

func (h *PrescriptionHandler) Refill(c *gin.Context) {
	callerID, callerRole, callerPatientID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.RefillPrescription(c.Request.Context(), id, callerID, callerRole, callerPatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

func (h *PrescriptionHandler) Cancel(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.CancelPrescription(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

func (h *PrescriptionHandler) List(c *gin.Context) {
	_, callerRole, callerPatientID, ok := caller(c)
	if !ok {
		return
	}

	q := &prescription.ListPrescriptionsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	var parsed bool
	if q.PatientID, parsed = parseQueryUUID(c, "patient_id"); !parsed {
		return
	}
	if q.DoctorID, parsed = parseQueryUUID(c, "doctor_id"); !parsed {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := prescription.Status(raw)
		q.Status = &status
	}

	page, err := h.svc.ListPrescriptions(c.Request.Context(), q, callerRole, callerPatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"prescriptions": page.Prescriptions,
		"total_count":   page.TotalCount,
		"page":          page.Page,
		"page_size":     page.PageSize,
		"total_pages":   page.TotalPages,
	})
}
