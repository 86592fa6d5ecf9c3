package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quiz-platform/backend/internal/domain"
	"github.com/quiz-platform/backend/internal/middleware"
	"github.com/quiz-platform/backend/internal/service"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService      *service.UserService
	dashboardService *service.DashboardService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService, dashboardService *service.DashboardService) *UserHandler {
	return &UserHandler{
		userService:      userService,
		dashboardService: dashboardService,
	}
}

// GetCurrentUser returns the authenticated user's profile
// GET /api/users/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		switch err {
		case domain.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to fetch user",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user.ToResponse(),
	})
}

// GetStats returns the authenticated user's attempt statistics
// GET /api/users/me/stats
func (h *UserHandler) GetStats(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch user stats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}
