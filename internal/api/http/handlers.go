// Package http provides the REST handlers for the bridge's control surface.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/outlinerhq/termbridge/internal/infrastructure/logging"
	"github.com/outlinerhq/termbridge/internal/terminal"
)

// Handlers contains HTTP handler dependencies.
type Handlers struct {
	tracker   *terminal.Tracker
	logger    *logging.Logger
	startedAt time.Time
}

// NewHandlers creates HTTP handlers.
func NewHandlers(tracker *terminal.Tracker, logger *logging.Logger) *Handlers {
	return &Handlers{
		tracker:   tracker,
		logger:    logger.Named("http"),
		startedAt: time.Now(),
	}
}

// Root returns service information.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "termbridge",
		"endpoints": []string{"/health", "/terminal", "/sessions", "/metrics"},
	})
}

// Health reports readiness to accept terminal streams. Clients probe this
// endpoint before attempting a stream; anything but 2xx means "not ready".
func (h *Handlers) Health(c *gin.Context) {
	h.logger.Debug("health probe", zap.String("remote", c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"sessions":       h.tracker.Count(),
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	})
}

// ListSessions lists live terminal sessions.
func (h *Handlers) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions": h.tracker.List(),
	})
}
