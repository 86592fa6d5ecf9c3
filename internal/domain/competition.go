package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CompetitionStatus represents the lifecycle state of a competition
type CompetitionStatus string

const (
	CompetitionStatusDraft     CompetitionStatus = "draft"
	CompetitionStatusPublished CompetitionStatus = "published"
	CompetitionStatusActive    CompetitionStatus = "active"
	CompetitionStatusCompleted CompetitionStatus = "completed"
	CompetitionStatusCancelled CompetitionStatus = "cancelled"
)

// Competition represents a scheduled quiz definition owned by an admin
type Competition struct {
	ID               uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedBy        uuid.UUID         `json:"created_by" gorm:"type:uuid;not null;index"`
	Title            string            `json:"title" gorm:"not null"`
	TitleAr          string            `json:"title_ar"`
	Description      string            `json:"description"`
	DescriptionAr    string            `json:"description_ar"`
	Tags             pq.StringArray    `json:"tags" gorm:"type:text[]"`
	StartDate        time.Time         `json:"start_date" gorm:"not null"`
	EndDate          time.Time         `json:"end_date" gorm:"not null"`
	HasTimeLimit     bool              `json:"has_time_limit" gorm:"default:false"`
	TimeLimitMinutes int               `json:"time_limit_minutes"`
	QuestionsPerPage int               `json:"questions_per_page" gorm:"default:1"`
	Status           CompetitionStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	TotalQuestions   int               `json:"total_questions" gorm:"default:0"`
	ResultsDeclared  bool              `json:"results_declared" gorm:"default:false"`
	ResultsDeclaredAt *time.Time       `json:"results_declared_at"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	// Relationships
	Creator   User          `json:"-" gorm:"foreignKey:CreatedBy"`
	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:CompetitionID"`
	Attempts  []QuizAttempt `json:"-" gorm:"foreignKey:CompetitionID"`
}

// TableName specifies the table name for GORM
func (Competition) TableName() string {
	return "competitions"
}

// AcceptsAttempts reports whether a new attempt may be started right now:
// the competition must be published or active and within its date window
func (c *Competition) AcceptsAttempts(now time.Time) bool {
	if c.Status != CompetitionStatusPublished && c.Status != CompetitionStatusActive {
		return false
	}
	return !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// AttemptDeadline returns the server-side deadline for an attempt started at
// the given time, and whether a deadline applies at all
func (c *Competition) AttemptDeadline(startTime time.Time) (time.Time, bool) {
	if !c.HasTimeLimit || c.TimeLimitMinutes <= 0 {
		return time.Time{}, false
	}
	return startTime.Add(time.Duration(c.TimeLimitMinutes) * time.Minute), true
}

// CompetitionRepository defines the interface for competition data access
type CompetitionRepository interface {
	Create(competition *Competition) error
	FindByID(id uuid.UUID) (*Competition, error)
	FindByIDWithQuestions(id uuid.UUID) (*Competition, error)
	FindByStatus(statuses ...CompetitionStatus) ([]Competition, error)
	FindAll() ([]Competition, error)
	Update(competition *Competition) error
	UpdateStatus(id uuid.UUID, from, to CompetitionStatus) error
	Delete(id uuid.UUID) error
	CountAttempts(id uuid.UUID) (int64, error)
	CountByStatus() (map[CompetitionStatus]int64, error)
}

// CreateCompetitionRequest represents the data needed to create a competition
type CreateCompetitionRequest struct {
	Title            string    `json:"title" binding:"required,min=3,max=200"`
	TitleAr          string    `json:"title_ar"`
	Description      string    `json:"description"`
	DescriptionAr    string    `json:"description_ar"`
	Tags             []string  `json:"tags"`
	StartDate        time.Time `json:"start_date" binding:"required"`
	EndDate          time.Time `json:"end_date" binding:"required,gtfield=StartDate"`
	HasTimeLimit     bool      `json:"has_time_limit"`
	TimeLimitMinutes int       `json:"time_limit_minutes" binding:"omitempty,min=1,max=600"`
	QuestionsPerPage int       `json:"questions_per_page" binding:"omitempty,min=1,max=50"`
}

// UpdateCompetitionRequest represents a partial competition update
type UpdateCompetitionRequest struct {
	Title            *string    `json:"title" binding:"omitempty,min=3,max=200"`
	TitleAr          *string    `json:"title_ar"`
	Description      *string    `json:"description"`
	DescriptionAr    *string    `json:"description_ar"`
	Tags             []string   `json:"tags"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	HasTimeLimit     *bool      `json:"has_time_limit"`
	TimeLimitMinutes *int       `json:"time_limit_minutes" binding:"omitempty,min=1,max=600"`
	QuestionsPerPage *int       `json:"questions_per_page" binding:"omitempty,min=1,max=50"`
}

// CompetitionResponse represents a competition in API responses
type CompetitionResponse struct {
	ID               uuid.UUID         `json:"id"`
	Title            string            `json:"title"`
	TitleAr          string            `json:"title_ar,omitempty"`
	Description      string            `json:"description"`
	DescriptionAr    string            `json:"description_ar,omitempty"`
	Tags             []string          `json:"tags"`
	StartDate        time.Time         `json:"start_date"`
	EndDate          time.Time         `json:"end_date"`
	HasTimeLimit     bool              `json:"has_time_limit"`
	TimeLimitMinutes int               `json:"time_limit_minutes"`
	QuestionsPerPage int               `json:"questions_per_page"`
	Status           CompetitionStatus `json:"status"`
	TotalQuestions   int               `json:"total_questions"`
	ResultsDeclared  bool              `json:"results_declared"`
}

// ToResponse converts a Competition to a CompetitionResponse
func (c *Competition) ToResponse() CompetitionResponse {
	return CompetitionResponse{
		ID:               c.ID,
		Title:            c.Title,
		TitleAr:          c.TitleAr,
		Description:      c.Description,
		DescriptionAr:    c.DescriptionAr,
		Tags:             c.Tags,
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		HasTimeLimit:     c.HasTimeLimit,
		TimeLimitMinutes: c.TimeLimitMinutes,
		QuestionsPerPage: c.QuestionsPerPage,
		Status:           c.Status,
		TotalQuestions:   c.TotalQuestions,
		ResultsDeclared:  c.ResultsDeclared,
	}
}
