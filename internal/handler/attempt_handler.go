package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quiz-platform/backend/internal/domain"
	"github.com/quiz-platform/backend/internal/middleware"
	"github.com/quiz-platform/backend/internal/service"
)

// AttemptHandler handles quiz attempt HTTP requests
type AttemptHandler struct {
	attemptService   *service.AttemptService
	dashboardService *service.DashboardService
}

// NewAttemptHandler creates a new attempt handler
func NewAttemptHandler(attemptService *service.AttemptService, dashboardService *service.DashboardService) *AttemptHandler {
	return &AttemptHandler{
		attemptService:   attemptService,
		dashboardService: dashboardService,
	}
}

// StartAttempt starts a new attempt on a competition, or resumes the
// caller's in-progress one.
// POST /api/competitions/:id/attempts
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	competitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid competition ID",
		})
		return
	}

	result, err := h.attemptService.StartAttempt(c.Request.Context(), userID, competitionID)
	if err != nil {
		switch err {
		case domain.ErrCompetitionNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Competition not found",
			})
		case domain.ErrCompetitionNotAvailable:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Competition is not open for attempts",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to start attempt",
			})
		}
		return
	}

	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

// GetAttempt returns a single attempt owned by the caller
// GET /api/attempts/:id
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid attempt ID",
		})
		return
	}

	attempt, err := h.attemptService.GetAttempt(c.Request.Context(), userID, attemptID)
	if err != nil {
		h.respondAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempt": attempt.ToResponse(),
	})
}

// GetAttemptQuestions returns the attempt's questions without answer keys
// GET /api/attempts/:id/questions
func (h *AttemptHandler) GetAttemptQuestions(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid attempt ID",
		})
		return
	}

	questions, err := h.attemptService.GetAttemptQuestions(c.Request.Context(), userID, attemptID)
	if err != nil {
		h.respondAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": questions,
		"count":     len(questions),
	})
}

// SaveProgress persists answers and position for an in-progress attempt.
// When the client reports zero remaining seconds the attempt is submitted
// on its behalf as timed out.
// PATCH /api/attempts/:id/progress
func (h *AttemptHandler) SaveProgress(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid attempt ID",
		})
		return
	}

	var req domain.SaveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	attempt, err := h.attemptService.SaveProgress(c.Request.Context(), userID, attemptID, &req)
	if err != nil {
		h.respondAttemptError(c, err)
		return
	}

	if req.RemainingSeconds != nil && *req.RemainingSeconds <= 0 {
		result, err := h.attemptService.SubmitAttempt(c.Request.Context(), userID, attemptID, true)
		if err != nil {
			h.respondAttemptError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"attempt": result,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempt": attempt.ToResponse(),
	})
}

// SubmitAttempt finalizes and scores an in-progress attempt
// POST /api/attempts/:id/submit
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid attempt ID",
		})
		return
	}

	result, err := h.attemptService.SubmitAttempt(c.Request.Context(), userID, attemptID, false)
	if err != nil {
		h.respondAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempt": result,
	})
}

// AbandonAttempt marks an in-progress attempt as abandoned
// POST /api/attempts/:id/abandon
func (h *AttemptHandler) AbandonAttempt(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid attempt ID",
		})
		return
	}

	if err := h.attemptService.AbandonAttempt(c.Request.Context(), userID, attemptID); err != nil {
		h.respondAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Attempt abandoned",
	})
}

// GetOngoingAttempts returns the caller's in-progress attempts
// GET /api/attempts/ongoing
func (h *AttemptHandler) GetOngoingAttempts(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	attempts, err := h.dashboardService.GetOngoingAttempts(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch attempts",
		})
		return
	}

	responses := make([]domain.AttemptResponse, len(attempts))
	for i, a := range attempts {
		responses[i] = a.ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{
		"attempts": responses,
		"count":    len(responses),
	})
}

// GetCompletedAttempts returns the caller's finalized attempts
// GET /api/attempts/completed
func (h *AttemptHandler) GetCompletedAttempts(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	attempts, err := h.dashboardService.GetCompletedAttempts(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch attempts",
		})
		return
	}

	responses := make([]domain.AttemptResponse, len(attempts))
	for i, a := range attempts {
		responses[i] = a.ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{
		"attempts": responses,
		"count":    len(responses),
	})
}

func (h *AttemptHandler) respondAttemptError(c *gin.Context, err error) {
	switch err {
	case domain.ErrAttemptNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Attempt not found",
		})
	case domain.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You do not own this attempt",
		})
	case domain.ErrAttemptAlreadyFinalized:
		c.JSON(http.StatusConflict, gin.H{
			"error": "Attempt has already been finalized",
		})
	case domain.ErrBadRequest:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid answer payload",
		})
	case domain.ErrCompetitionNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Competition not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process attempt",
		})
	}
}
