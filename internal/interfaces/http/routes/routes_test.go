// internal/interfaces/http/routes/routes_test.go
package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootportal/lootportal-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Cart:     config.CartConfig{TTL: time.Hour},
		Checkout: config.CheckoutConfig{DraftTTL: time.Hour, SubmitTimeout: 15 * time.Second},
		JWT: config.JWTConfig{
			Secret: "test-secret-key-at-least-32-characters",
		},
	}
}

func setupTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := gin.New()
	require.NoError(t, SetupRoutes(r.Group("/api/v1"), nil, nil, cfg, logger))
	return r
}

func TestSubmitGatedBehindLoginWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Checkout.RequireAuth = true
	r := setupTestRouter(t, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/draft-1/submit", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRejectAnonymousRequests(t *testing.T) {
	r := setupTestRouter(t, testConfig())

	for _, path := range []string{"/api/v1/orders", "/api/v1/admin/orders"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
