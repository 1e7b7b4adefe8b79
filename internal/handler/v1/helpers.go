package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediq-health/mediq-api/internal/domain/appointment"
	"github.com/mediq-health/mediq-api/internal/domain/assistant"
	"github.com/mediq-health/mediq-api/internal/domain/doctor"
	"github.com/mediq-health/mediq-api/internal/domain/hospital"
	"github.com/mediq-health/mediq-api/internal/domain/medicine"
	"github.com/mediq-health/mediq-api/internal/domain/patient"
	"github.com/mediq-health/mediq-api/internal/domain/prescription"
	"github.com/mediq-health/mediq-api/internal/domain/record"
	"github.com/mediq-health/mediq-api/internal/middleware"
	"github.com/mediq-health/mediq-api/internal/scheduling"
	"github.com/mediq-health/mediq-api/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, hospital.ErrHospitalNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, record.ErrRecordNotFound),
		errors.Is(err, medicine.ErrMedicineNotFound),
		errors.Is(err, prescription.ErrPrescriptionNotFound),
		errors.Is(err, assistant.ErrConfigNotFound),
		errors.Is(err, assistant.ErrNoActiveConfig):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrAppointmentConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: err.Error(),
			Code:  "SLOT_TAKEN",
		})

	case errors.Is(err, patient.ErrPatientAlreadyExists),
		errors.Is(err, doctor.ErrDoctorAlreadyExists),
		errors.Is(err, hospital.ErrHospitalAlreadyExists),
		errors.Is(err, assistant.ErrConfigAlreadyExists),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrScheduledInPast),
		errors.Is(err, appointment.ErrInvalidDuration),
		errors.Is(err, appointment.ErrInvalidAppointmentType),
		errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, scheduling.ErrInvalidDoctorID),
		errors.Is(err, scheduling.ErrInvalidStartTime),
		errors.Is(err, scheduling.ErrInvalidDate),
		errors.Is(err, scheduling.ErrInvalidDuration),
		errors.Is(err, doctor.ErrDoctorNotAccepting),
		errors.Is(err, patient.ErrPatientDeceased),
		errors.Is(err, patient.ErrInvalidGender),
		errors.Is(err, record.ErrInvalidRecordType),
		errors.Is(err, medicine.ErrInvalidForm),
		errors.Is(err, prescription.ErrNotRefillable),
		errors.Is(err, prescription.ErrNotCancellable),
		errors.Is(err, prescription.ErrInvalidRoute),
		errors.Is(err, prescription.ErrInvalidQuantity),
		errors.Is(err, prescription.ErrExpiryBeforeIssue),
		errors.Is(err, assistant.ErrInvalidTemperature),
		errors.Is(err, assistant.ErrInvalidMaxTokens):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "account temporarily locked",
			Code:  "ACCOUNT_LOCKED",
		})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}
	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

// caller unpacks the authenticated identity set by the auth middleware.
func caller(c *gin.Context) (id uuid.UUID, role string, patientID *uuid.UUID, ok bool) {
	claims, found := middleware.ClaimsFrom(c)
	if !found {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return uuid.Nil, "", nil, false
	}
	return claims.UserID, string(claims.Role), claims.PatientID, true
}

func parseQueryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + key + ": must be a valid UUID"})
		return nil, false
	}
	return &id, true
}
