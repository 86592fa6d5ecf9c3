package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quiz-platform/backend/internal/domain"
	"github.com/quiz-platform/backend/internal/service"
)

// QuestionHandler handles question management HTTP requests
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

// Create adds a question to a competition
// POST /api/admin/competitions/:id/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	competitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid competition ID",
		})
		return
	}

	var req domain.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	question, err := h.questionService.AddQuestion(c.Request.Context(), competitionID, &req)
	if err != nil {
		h.respondQuestionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"question": question.ToResponse(),
	})
}

// List returns all questions of a competition, answer keys included
// GET /api/admin/competitions/:id/questions
func (h *QuestionHandler) List(c *gin.Context) {
	competitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid competition ID",
		})
		return
	}

	questions, err := h.questionService.GetCompetitionQuestions(c.Request.Context(), competitionID)
	if err != nil {
		h.respondQuestionError(c, err)
		return
	}

	responses := make([]domain.QuestionResponse, len(questions))
	for i, q := range questions {
		responses[i] = q.ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": responses,
		"count":     len(responses),
	})
}

// GetByID returns a single question with its answer key
// GET /api/admin/questions/:id
func (h *QuestionHandler) GetByID(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid question ID",
		})
		return
	}

	question, err := h.questionService.GetQuestionByID(c.Request.Context(), questionID)
	if err != nil {
		h.respondQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question": question.ToResponse(),
	})
}

// Update replaces a question's content and options
// PUT /api/admin/questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid question ID",
		})
		return
	}

	var req domain.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	question, err := h.questionService.UpdateQuestion(c.Request.Context(), questionID, &req)
	if err != nil {
		h.respondQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question": question.ToResponse(),
	})
}

// Delete removes a question
// DELETE /api/admin/questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid question ID",
		})
		return
	}

	if err := h.questionService.DeleteQuestion(c.Request.Context(), questionID); err != nil {
		h.respondQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Question deleted",
	})
}

func (h *QuestionHandler) respondQuestionError(c *gin.Context, err error) {
	switch err {
	case domain.ErrQuestionNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Question not found",
		})
	case domain.ErrCompetitionNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Competition not found",
		})
	case domain.ErrCompetitionLocked:
		c.JSON(http.StatusConflict, gin.H{
			"error": "Competition already has attempts and cannot be modified",
		})
	case domain.ErrInvalidQuestionType, domain.ErrInvalidOptions:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process question",
		})
	}
}
