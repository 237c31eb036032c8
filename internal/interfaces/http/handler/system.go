package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smarthomes/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// StoreProbe is the part of the document store the health check uses
type StoreProbe interface {
	Names(ctx context.Context) ([]string, error)
	Driver() string
}

// HealthResponse reports service and storage health
type HealthResponse struct {
	Status    string `json:"status"`
	Storage   string `json:"storage"`
	Documents int    `json:"documents"`
	Uptime    string `json:"uptime"`
}

// SystemHandler serves operational endpoints
type SystemHandler struct {
	BaseHandler
	store   StoreProbe
	started time.Time
	timeout time.Duration
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(store StoreProbe) *SystemHandler {
	return &SystemHandler{
		store:   store,
		started: time.Now(),
		timeout: 2 * time.Second,
	}
}

// Health answers 200 when the document store can be listed and 503
// otherwise
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Storage: h.store.Driver(),
		Uptime:  time.Since(h.started).Truncate(time.Second).String(),
	}
	names, err := h.store.Names(ctx)
	if err != nil {
		logger.GetGinLogger(c).Warn("health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	resp.Documents = len(names)
	c.JSON(http.StatusOK, resp)
}
