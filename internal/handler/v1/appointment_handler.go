package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediq-health/mediq-api/internal/domain/appointment"
	"github.com/mediq-health/mediq-api/internal/service"
	"github.com/mediq-health/mediq-api/pkg/metrics"
)

type AppointmentHandler struct {
	svc       *service.AppointmentService
	collector *metrics.Collector
}

func NewAppointmentHandler(svc *service.AppointmentService, collector *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, collector: collector}
}

type createAppointmentRequest struct {
	PatientID    uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID     uuid.UUID `json:"doctor_id" binding:"required"`
	ScheduledAt  time.Time `json:"scheduled_at" binding:"required"`
	DurationMins int       `json:"duration_mins"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Notes        string    `json:"notes"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	callerID, callerRole, callerPatientID, ok := caller(c)
	if !ok {
		return
	}

	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.ScheduleAppointment(c.Request.Context(), &appointment.CreateAppointmentCommand{
		PatientID:    req.PatientID,
		DoctorID:     req.DoctorID,
		ScheduledAt:  req.ScheduledAt,
		DurationMins: req.DurationMins,
		Type:         appointment.AppointmentType(req.Type),
		Title:        req.Title,
		Description:  req.Description,
		Notes:        req.Notes,
		CreatedBy:    callerID,
	}, callerID, callerRole, callerPatientID, c.ClientIP())
	if err != nil {
		if errors.Is(err, appointment.ErrAppointmentConflict) {
			h.collector.BookingConflicts.Inc()
		}
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	respondCreated(c, a)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	callerID, callerRole, callerPatientID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.svc.GetAppointment(c.Request.Context(), id, callerID, callerRole, callerPatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

type rescheduleAppointmentRequest struct {
	ScheduledAt  *time.Time `json:"scheduled_at"`
	DurationMins *int       `json:"duration_mins"`
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Notes        *string    `json:"notes"`
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	callerID, callerRole, callerPatientID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req rescheduleAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.RescheduleAppointment(c.Request.Context(), id, &appointment.RescheduleAppointmentCommand{
		ScheduledAt:  req.ScheduledAt,
		DurationMins: req.DurationMins,
		Title:        req.Title,
		Description:  req.Description,
		Notes:        req.Notes,
		UpdatedBy:    callerID,
	}, callerID, callerRole, callerPatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

type cancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	callerID, callerRole, callerPatientID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req cancelAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.CancelAppointment(c.Request.Context(), id, &appointment.CancelAppointmentCommand{
		Reason:      req.Reason,
		CancelledBy: callerID,
	}, callerID, callerRole, callerPatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	respondOK(c, a)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.svc.ConfirmAppointment)
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	h.transition(c, h.svc.StartAppointment)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.svc.CompleteAppointment)
}

func (h *AppointmentHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error)) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := op(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	_, callerRole, callerPatientID, ok := caller(c)
	if !ok {
		return
	}

	q := &appointment.ListAppointmentsQuery{
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
		status := appointment.Status(raw)
		q.Status = &status
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

	page, err := h.svc.ListAppointments(c.Request.Context(), q, callerRole, callerPatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"appointments": page.Appointments,
		"total_count":  page.TotalCount,
		"page":         page.Page,
		"page_size":    page.PageSize,
		"total_pages":  page.TotalPages,
	})
}

// AvailableSlots lists the open start times for a doctor on a given day.
// GET /doctors/:id/slots?date=2026-08-28&duration_mins=30
func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	raw := c.Query("date")
	if raw == "" {
		respondError(c, http.StatusBadRequest, "date is required (YYYY-MM-DD)")
		return
	}
	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date: must be YYYY-MM-DD")
		return
	}

	durationMins := parseQueryInt(c, "duration_mins", 0)

	slots, err := h.svc.AvailableSlots(c.Request.Context(), doctorID, date, durationMins)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.SlotQueriesTotal.Inc()
	respondOK(c, gin.H{
		"doctor_id": doctorID,
		"date":      raw,
		"slots":     slots,
	})
}
