// internal/interfaces/http/middleware/timeout_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func timeoutRouter(timeout time.Duration, work time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(timeout))
	r.GET("/work", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
			return
		case <-time.After(work):
			c.JSON(http.StatusOK, gin.H{"status": "done"})
		}
	})
	return r
}

func TestTimeoutAllowsFastRequests(t *testing.T) {
	r := timeoutRouter(100*time.Millisecond, time.Millisecond)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/work", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimeoutAbortsSlowRequests(t *testing.T) {
	r := timeoutRouter(10*time.Millisecond, time.Second)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/work", nil))

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}

func TestTimeoutDisabledPassesThrough(t *testing.T) {
	r := timeoutRouter(0, time.Millisecond)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/work", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
