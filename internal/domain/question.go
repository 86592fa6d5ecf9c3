package domain

import (
	"github.com/google/uuid"
)

// QuestionType represents the answering mode of a question
type QuestionType string

const (
	QuestionTypeMCQ         QuestionType = "mcq"
	QuestionTypeDescriptive QuestionType = "descriptive"
)

// Question represents a single question within a competition
type Question struct {
	ID               uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompetitionID    uuid.UUID    `json:"competition_id" gorm:"type:uuid;not null;index"`
	QuestionType     QuestionType `json:"question_type" gorm:"type:varchar(15);not null"`
	Text             string       `json:"text" gorm:"not null"`
	TextAr           string       `json:"text_ar"`
	Points           int          `json:"points" gorm:"not null;default:1"`
	TimeLimitSeconds int          `json:"time_limit_seconds"`
	OrderIndex       int          `json:"order_index" gorm:"not null"`
	IsActive         bool         `json:"is_active" gorm:"default:true"`

	// Relationships
	Options []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

// TableName specifies the table name for GORM
func (Question) TableName() string {
	return "questions"
}

// IsMCQ reports whether the question is auto-scorable
func (q *Question) IsMCQ() bool {
	return q.QuestionType == QuestionTypeMCQ
}

// CorrectOption returns the option flagged correct, or nil for descriptive
// questions and malformed data
func (q *Question) CorrectOption() *QuestionOption {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

// QuestionOption represents one selectable answer for an MCQ question
type QuestionOption struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	QuestionID uuid.UUID `json:"question_id" gorm:"type:uuid;not null;index"`
	Text       string    `json:"text" gorm:"not null"`
	TextAr     string    `json:"text_ar"`
	OrderIndex int       `json:"order_index" gorm:"not null"`
	IsCorrect  bool      `json:"is_correct" gorm:"default:false"`
}

// TableName specifies the table name for GORM
func (QuestionOption) TableName() string {
	return "question_options"
}

// QuestionRepository defines the interface for question data access
type QuestionRepository interface {
	Create(question *Question) error
	FindByID(id uuid.UUID) (*Question, error)
	FindByCompetitionID(competitionID uuid.UUID) ([]Question, error)
	FindActiveByCompetitionID(competitionID uuid.UUID) ([]Question, error)
	CountActiveByCompetitionID(competitionID uuid.UUID) (int64, error)
	Update(question *Question) error
	ReplaceOptions(questionID uuid.UUID, options []QuestionOption) error
	Delete(id uuid.UUID) error
}

// CreateQuestionRequest represents the data needed to add a question
type CreateQuestionRequest struct {
	QuestionType     QuestionType          `json:"question_type" binding:"required,oneof=mcq descriptive"`
	Text             string                `json:"text" binding:"required"`
	TextAr           string                `json:"text_ar"`
	Points           int                   `json:"points" binding:"required,min=1,max=100"`
	TimeLimitSeconds int                   `json:"time_limit_seconds" binding:"omitempty,min=5,max=3600"`
	OrderIndex       int                   `json:"order_index"`
	Options          []CreateOptionRequest `json:"options" binding:"omitempty,dive"`
}

// CreateOptionRequest represents one option within a question creation request
type CreateOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	TextAr    string `json:"text_ar"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionResponse represents a question in admin API responses,
// including the answer key
type QuestionResponse struct {
	ID               uuid.UUID        `json:"id"`
	CompetitionID    uuid.UUID        `json:"competition_id"`
	QuestionType     QuestionType     `json:"question_type"`
	Text             string           `json:"text"`
	TextAr           string           `json:"text_ar,omitempty"`
	Points           int              `json:"points"`
	TimeLimitSeconds int              `json:"time_limit_seconds,omitempty"`
	OrderIndex       int              `json:"order_index"`
	IsActive         bool             `json:"is_active"`
	Options          []OptionResponse `json:"options,omitempty"`
}

// OptionResponse represents an option in admin API responses
type OptionResponse struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	TextAr     string    `json:"text_ar,omitempty"`
	OrderIndex int       `json:"order_index"`
	IsCorrect  bool      `json:"is_correct"`
}

// ToResponse converts a Question to a QuestionResponse (admin view)
func (q *Question) ToResponse() QuestionResponse {
	options := make([]OptionResponse, len(q.Options))
	for i, o := range q.Options {
		options[i] = OptionResponse{
			ID:         o.ID,
			Text:       o.Text,
			TextAr:     o.TextAr,
			OrderIndex: o.OrderIndex,
			IsCorrect:  o.IsCorrect,
		}
	}
	return QuestionResponse{
		ID:               q.ID,
		CompetitionID:    q.CompetitionID,
		QuestionType:     q.QuestionType,
		Text:             q.Text,
		TextAr:           q.TextAr,
		Points:           q.Points,
		TimeLimitSeconds: q.TimeLimitSeconds,
		OrderIndex:       q.OrderIndex,
		IsActive:         q.IsActive,
		Options:          options,
	}
}

// AttemptQuestionResponse represents a question served to a participant
// during an attempt. The answer key is stripped: options carry no
// is_correct field at all
type AttemptQuestionResponse struct {
	ID               uuid.UUID               `json:"id"`
	QuestionType     QuestionType            `json:"question_type"`
	Text             string                  `json:"text"`
	TextAr           string                  `json:"text_ar,omitempty"`
	Points           int                     `json:"points"`
	TimeLimitSeconds int                     `json:"time_limit_seconds,omitempty"`
	OrderIndex       int                     `json:"order_index"`
	Options          []AttemptOptionResponse `json:"options,omitempty"`
}

// AttemptOptionResponse represents an option served to a participant
type AttemptOptionResponse struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	TextAr     string    `json:"text_ar,omitempty"`
	OrderIndex int       `json:"order_index"`
}

// ToAttemptResponse converts a Question to its participant-facing view
func (q *Question) ToAttemptResponse() AttemptQuestionResponse {
	options := make([]AttemptOptionResponse, len(q.Options))
	for i, o := range q.Options {
		options[i] = AttemptOptionResponse{
			ID:         o.ID,
			Text:       o.Text,
			TextAr:     o.TextAr,
			OrderIndex: o.OrderIndex,
		}
	}
	return AttemptQuestionResponse{
		ID:               q.ID,
		QuestionType:     q.QuestionType,
		Text:             q.Text,
		TextAr:           q.TextAr,
		Points:           q.Points,
		TimeLimitSeconds: q.TimeLimitSeconds,
		OrderIndex:       q.OrderIndex,
		Options:          options,
	}
}
