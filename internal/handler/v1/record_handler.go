package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediq-health/mediq-api/internal/domain/record"
	"github.com/mediq-health/mediq-api/internal/service"
)

type RecordHandler struct {
	svc *service.MedicalRecordService
}

func NewRecordHandler(svc *service.MedicalRecordService) *RecordHandler {
	return &RecordHandler{svc: svc}
}

type createRecordRequest struct {
	PatientID     uuid.UUID      `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID     `json:"appointment_id"`
	DoctorID      uuid.UUID      `json:"doctor_id" binding:"required"`
	Type          string         `json:"type" binding:"required"`
	Vitals        *record.Vitals `json:"vitals"`
	Diagnoses     []string       `json:"diagnoses"`
	Summary       string         `json:"summary" binding:"required"`
	Notes         string         `json:"notes"`
}

func (h *RecordHandler) Create(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}

	var req createRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	rec, err := h.svc.CreateRecord(c.Request.Context(), &record.CreateRecordCommand{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		DoctorID:      req.DoctorID,
		Type:          record.RecordType(req.Type),
		Vitals:        req.Vitals,
		Diagnoses:     req.Diagnoses,
		Summary:       req.Summary,
		Notes:         req.Notes,
		CreatedBy:     callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, rec)
}

func (h *RecordHandler) Get(c *gin.Context) {
	callerID, callerRole, callerPatientID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	rec, err := h.svc.GetRecord(c.Request.Context(), id, callerID, callerRole, callerPatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, rec)
}

type addAddendumRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *RecordHandler) AddAddendum(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req addAddendumRequest
	if !bindJSON(c, &req) {
		return
	}

	addendum, err := h.svc.AddAddendum(c.Request.Context(), &record.AddAddendumCommand{
		MedicalRecordID: id,
		Content:         req.Content,
		CreatedBy:       callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, addendum)
}

func (h *RecordHandler) List(c *gin.Context) {
	_, callerRole, callerPatientID, ok := caller(c)
	if !ok {
		return
	}

	q := &record.ListRecordsQuery{
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
	if q.AppointmentID, parsed = parseQueryUUID(c, "appointment_id"); !parsed {
		return
	}
	if raw := c.Query("type"); raw != "" {
		t := record.RecordType(raw)
		q.Type = &t
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid from: must be RFC3339")
			return
		}
		q.DateFrom = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid to: must be RFC3339")
			return
		}
		q.DateTo = &t
	}

	page, err := h.svc.ListRecords(c.Request.Context(), q, callerRole, callerPatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"records":     page.Records,
		"total_count": page.TotalCount,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total_pages": page.TotalPages,
	})
}
