package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quiz-platform/backend/internal/domain"
	"github.com/quiz-platform/backend/internal/middleware"
	"github.com/quiz-platform/backend/internal/service"
)

// CompetitionHandler handles competition HTTP requests
type CompetitionHandler struct {
	competitionService *service.CompetitionService
}

// NewCompetitionHandler creates a new competition handler
func NewCompetitionHandler(competitionService *service.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{
		competitionService: competitionService,
	}
}

// ListOpen returns competitions currently open to participants
// GET /api/competitions
func (h *CompetitionHandler) ListOpen(c *gin.Context) {
	competitions, err := h.competitionService.GetOpenCompetitions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch competitions",
		})
		return
	}

	responses := make([]domain.CompetitionResponse, len(competitions))
	for i, comp := range competitions {
		responses[i] = comp.ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{
		"competitions": responses,
		"count":        len(responses),
	})
}

// GetByID returns a single competition
// GET /api/competitions/:id
func (h *CompetitionHandler) GetByID(c *gin.Context) {
	competitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid competition ID",
		})
		return
	}

	competition, err := h.competitionService.GetCompetitionByID(c.Request.Context(), competitionID)
	if err != nil {
		h.respondCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"competition": competition.ToResponse(),
	})
}

// ListAll returns every competition regardless of status
// GET /api/admin/competitions
func (h *CompetitionHandler) ListAll(c *gin.Context) {
	competitions, err := h.competitionService.GetAllCompetitions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch competitions",
		})
		return
	}

	responses := make([]domain.CompetitionResponse, len(competitions))
	for i, comp := range competitions {
		responses[i] = comp.ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{
		"competitions": responses,
		"count":        len(responses),
	})
}

// Create creates a new draft competition
// POST /api/admin/competitions
func (h *CompetitionHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req domain.CreateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	competition, err := h.competitionService.CreateCompetition(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"competition": competition.ToResponse(),
	})
}

// Update applies a partial update to a competition
// PUT /api/admin/competitions/:id
func (h *CompetitionHandler) Update(c *gin.Context) {
	competitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid competition ID",
		})
		return
	}

	var req domain.UpdateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	competition, err := h.competitionService.UpdateCompetition(c.Request.Context(), competitionID, &req)
	if err != nil {
		h.respondCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"competition": competition.ToResponse(),
	})
}

// Delete removes a draft competition
// DELETE /api/admin/competitions/:id
func (h *CompetitionHandler) Delete(c *gin.Context) {
	competitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid competition ID",
		})
		return
	}

	if err := h.competitionService.DeleteCompetition(c.Request.Context(), competitionID); err != nil {
		h.respondCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Competition deleted",
	})
}

// Publish moves a draft competition to published
// POST /api/admin/competitions/:id/publish
func (h *CompetitionHandler) Publish(c *gin.Context) {
	h.transition(c, h.competitionService.Publish, "Competition published")
}

// Activate moves a published competition to active
// POST /api/admin/competitions/:id/activate
func (h *CompetitionHandler) Activate(c *gin.Context) {
	h.transition(c, h.competitionService.Activate, "Competition activated")
}

// Complete moves an active competition to completed
// POST /api/admin/competitions/:id/complete
func (h *CompetitionHandler) Complete(c *gin.Context) {
	h.transition(c, h.competitionService.Complete, "Competition completed")
}

// Cancel moves any non-terminal competition to cancelled
// POST /api/admin/competitions/:id/cancel
func (h *CompetitionHandler) Cancel(c *gin.Context) {
	h.transition(c, h.competitionService.Cancel, "Competition cancelled")
}

// DeclareResults marks results as declared and notifies participants
// POST /api/admin/competitions/:id/declare-results
func (h *CompetitionHandler) DeclareResults(c *gin.Context) {
	h.transition(c, h.competitionService.DeclareResults, "Results declared")
}

func (h *CompetitionHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) error, message string) {
	competitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid competition ID",
		})
		return
	}

	if err := fn(c.Request.Context(), competitionID); err != nil {
		h.respondCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func (h *CompetitionHandler) respondCompetitionError(c *gin.Context, err error) {
	switch err {
	case domain.ErrCompetitionNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Competition not found",
		})
	case domain.ErrCompetitionLocked:
		c.JSON(http.StatusConflict, gin.H{
			"error": "Competition already has attempts and cannot be modified",
		})
	case domain.ErrInvalidStatusTransition:
		c.JSON(http.StatusConflict, gin.H{
			"error": "Invalid competition status transition",
		})
	case domain.ErrBadRequest:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid competition data",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process competition",
		})
	}
}
