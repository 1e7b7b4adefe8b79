package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediq-health/mediq-api/internal/config"
	"github.com/mediq-health/mediq-api/internal/domain"
	"github.com/mediq-health/mediq-api/pkg/auth"
)

func newTestJWT(t *testing.T) (*auth.JWTManager, string) {
	t.Helper()
	m := auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters-long",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "mediq-test",
	})
	pair, err := m.GenerateTokenPair(&domain.Claims{
		UserID: uuid.New(),
		Email:  "doc@example.com",
		Role:   domain.RoleDoctor,
	})
	require.NoError(t, err)
	return m, pair.AccessToken
}

func authedRouter(m *auth.JWTManager, roles ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{Authenticate(m)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		claims, _ := ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"role": claims.Role})
	})
	r.GET("/", handlers...)
	return r
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	m, token := newTestJWT(t)
	r := authedRouter(m)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticateRejectsMissingAndMalformedHeaders(t *testing.T) {
	m, token := newTestJWT(t)
	r := authedRouter(m)

	for _, header := range []string{"", "Basic abc", token, "Bearer not-a-token"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestRequireRole(t *testing.T) {
	m, token := newTestJWT(t) // doctor token

	allowed := authedRouter(m, domain.RoleDoctor, domain.RoleAdmin)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	allowed.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	adminOnly := authedRouter(m, domain.RoleAdmin)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	adminOnly.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
