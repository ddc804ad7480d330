package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports whether the store is reachable.
type HealthHandler struct {
	ping  func(ctx context.Context) error
	count func(ctx context.Context) (int64, error)
}

func NewHealthHandler(ping func(ctx context.Context) error, count func(ctx context.Context) (int64, error)) *HealthHandler {
	return &HealthHandler{ping: ping, count: count}
}

// GET /healthz
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.ping(ctx); err != nil {
		slog.Error("health check failed", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
		return
	}

	products, err := h.count(ctx)
	if err != nil {
		slog.Error("health check failed", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "degraded"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up", "products": products})
}
