package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackcall-backend/internal/repository/memory"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error {
	return errors.New("redis is in degraded mode, ping skipped")
}

func serveHealth(t *testing.T, h *Handler) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthy(t *testing.T) {
	rec, body := serveHealth(t, NewHandler("call-service", "memory", memory.NewKVStore()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["store"])
}

func TestStoreUnavailable(t *testing.T) {
	rec, body := serveHealth(t, NewHandler("call-service", "redis", failingPinger{}))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, false, body["success"])
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SERVICE_UNAVAILABLE", errBody["code"])
}
