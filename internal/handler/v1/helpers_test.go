package v1

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mediq-health/mediq-api/internal/domain/appointment"
	"github.com/mediq-health/mediq-api/internal/domain/doctor"
	"github.com/mediq-health/mediq-api/internal/domain/patient"
	"github.com/mediq-health/mediq-api/internal/service"
)

func errStatus(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondServiceError(c, err)
	return w.Code
}

func TestRespondServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{appointment.ErrAppointmentNotFound, http.StatusNotFound},
		{patient.ErrPatientNotFound, http.StatusNotFound},
		{doctor.ErrDoctorNotFound, http.StatusNotFound},
		{appointment.ErrAppointmentConflict, http.StatusConflict},
		{patient.ErrPatientAlreadyExists, http.StatusConflict},
		{appointment.ErrScheduledInPast, http.StatusBadRequest},
		{appointment.ErrInvalidDuration, http.StatusBadRequest},
		{appointment.ErrInvalidStatusTransition, http.StatusBadRequest},
		{doctor.ErrDoctorNotAccepting, http.StatusBadRequest},
		{&service.ValidationError{Fields: []string{"name is required"}}, http.StatusBadRequest},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrAccountLocked, http.StatusTooManyRequests},
		{fmt.Errorf("wrapping: %w", appointment.ErrAppointmentConflict), http.StatusConflict},
		{fmt.Errorf("some db failure"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, errStatus(t, tc.err), "error %v", tc.err)
	}
}

func TestParseUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, ok := parseUUID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseQueryInt(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&bad=abc&neg=-2", nil)

	assert.Equal(t, 3, parseQueryInt(c, "page", 1))
	assert.Equal(t, 1, parseQueryInt(c, "bad", 1))
	assert.Equal(t, 1, parseQueryInt(c, "neg", 1))
	assert.Equal(t, 20, parseQueryInt(c, "missing", 20))
}
