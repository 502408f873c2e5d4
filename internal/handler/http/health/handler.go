package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hackcall-backend/internal/repository"
	apperrors "hackcall-backend/pkg/errors"
	"hackcall-backend/pkg/logger"
	"hackcall-backend/pkg/response"
)

const pingTimeout = 2 * time.Second

// Handler reports service liveness together with call store reachability
type Handler struct {
	serviceName string
	backend     string
	store       repository.Pinger
}

// NewHandler creates a new health handler
func NewHandler(serviceName, backend string, store repository.Pinger) *Handler {
	return &Handler{
		serviceName: serviceName,
		backend:     backend,
		store:       store,
	}
}

// RegisterRoutes mounts GET /health
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Health)
}

// Health pings the call store and answers 503 when it is unreachable
// GET /health
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logger.Warn("Health check failed", zap.String("store", h.backend), zap.Error(err))
		response.FromError(c, apperrors.ServiceUnavailableError("Call store unavailable"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.serviceName,
		"store":   h.backend,
		"time":    time.Now().UTC(),
	})
}
