package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quiz-platform/backend/internal/service"
)

// AdminHandler handles platform-wide administrative HTTP requests
type AdminHandler struct {
	dashboardService *service.DashboardService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(dashboardService *service.DashboardService) *AdminHandler {
	return &AdminHandler{
		dashboardService: dashboardService,
	}
}

// GetStats returns platform-wide aggregate statistics
// GET /api/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetAdminStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch platform stats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}
