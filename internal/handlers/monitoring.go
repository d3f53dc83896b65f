package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MonitoringStatus serves the runtime snapshot, gated by the configured
// monitoring key. With no key configured the endpoint is disabled.
func (h *Handler) MonitoringStatus(c *gin.Context) {
	expected := strings.TrimSpace(h.monitoringKey)
	if expected == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Monitoring API is disabled"})
		return
	}

	provided := strings.TrimSpace(c.GetHeader("X-Monitoring-Key"))
	if provided != expected {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid monitoring key"})
		return
	}

	c.String(http.StatusOK, h.monitor.StatusText())
}
