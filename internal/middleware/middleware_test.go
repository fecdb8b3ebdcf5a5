package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/softblue/bank_backend/internal/middleware"
	"github.com/softblue/bank_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	r := newRouter(middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestAuthMiddleware_RejectsBadScheme(t *testing.T) {
	r := newRouter(middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsExpiredToken(t *testing.T) {
	token, _, err := utils.GenerateJWT("customer-1", testSecret, time.Minute, "test", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	r := newRouter(middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAuthMiddleware_RejectsWrongSecret(t *testing.T) {
	token, _, err := utils.GenerateJWT("customer-1", "another-secret", time.Hour, "test", time.Now())
	require.NoError(t, err)

	r := newRouter(middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_SetsCustomerID(t *testing.T) {
	token, _, err := utils.GenerateJWT("customer-1", testSecret, time.Hour, "test", time.Now())
	require.NoError(t, err)

	var fromGin, fromCtx string
	r := newRouter(middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		fromGin, _ = middleware.GetCustomerIDFromContext(c)
		fromCtx, _ = middleware.CustomerIDFromCtx(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "customer-1", fromGin)
	assert.Equal(t, "customer-1", fromCtx)
}

func TestStructuredLoggingMiddleware_HonoursRequestID(t *testing.T) {
	var seen string
	r := newRouter(func(c *gin.Context) {
		seen = middleware.GetRequestIDFromCtx(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	lim, err := middleware.NewRateLimiter("2-M", "test", nil)
	require.NoError(t, err)

	r := newRouter(middleware.RateLimit(lim), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestNewRateLimiter_InvalidRate(t *testing.T) {
	_, err := middleware.NewRateLimiter("lots", "test", nil)
	assert.Error(t, err)
}
