package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus represents the current state of a quiz attempt
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "in_progress"
	AttemptStatusSubmitted  AttemptStatus = "submitted"
	AttemptStatusCompleted  AttemptStatus = "completed"
	AttemptStatusTimedOut   AttemptStatus = "timed_out"
	AttemptStatusAbandoned  AttemptStatus = "abandoned"
)

// IsTerminal reports whether no further transition is permitted from the status
func (s AttemptStatus) IsTerminal() bool {
	return s != AttemptStatusInProgress
}

// MaxDescriptiveAnswerLen is the storage cap for free-text answers.
// Anything beyond it is discarded on save
const MaxDescriptiveAnswerLen = 500

// TruncateDescriptive caps a free-text answer at MaxDescriptiveAnswerLen,
// counting runes so multibyte text is never split mid-character
func TruncateDescriptive(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxDescriptiveAnswerLen {
		return text
	}
	return string(runes[:MaxDescriptiveAnswerLen])
}

// QuizAttempt represents one user's pass at a competition's questions
type QuizAttempt struct {
	ID                   uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID               uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index:idx_attempts_user_competition"`
	CompetitionID        uuid.UUID     `json:"competition_id" gorm:"type:uuid;not null;index:idx_attempts_user_competition"`
	StartTime            time.Time     `json:"start_time" gorm:"not null"`
	EndTime              *time.Time    `json:"end_time"`
	SubmittedTime        *time.Time    `json:"submitted_time"`
	Status               AttemptStatus `json:"status" gorm:"type:varchar(20);not null;default:'in_progress';index"`
	TotalScore           int           `json:"total_score" gorm:"default:0"`
	MaxPossibleScore     int           `json:"max_possible_score" gorm:"default:0"`
	PercentageScore      float64       `json:"percentage_score" gorm:"default:0"`
	TotalQuestions       int           `json:"total_questions" gorm:"default:0"`
	AnsweredQuestions    int           `json:"answered_questions" gorm:"default:0"`
	CorrectAnswers       int           `json:"correct_answers" gorm:"default:0"`
	CurrentQuestionIndex int           `json:"current_question_index" gorm:"default:0"`
	RemainingSeconds     *int          `json:"remaining_seconds"`
	TimeSpentMinutes     int           `json:"time_spent_minutes" gorm:"default:0"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`

	// Relationships
	User        User         `json:"-" gorm:"foreignKey:UserID"`
	Competition Competition  `json:"-" gorm:"foreignKey:CompetitionID"`
	Answers     []UserAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`
}

// TableName specifies the table name for GORM
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// UserAnswer represents one user's answer to one question within an attempt.
// Re-answering the same question overwrites the prior row, keyed by
// (attempt_id, question_id)
type UserAnswer struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AttemptID         uuid.UUID  `json:"attempt_id" gorm:"type:uuid;not null;uniqueIndex:idx_answers_attempt_question"`
	QuestionID        uuid.UUID  `json:"question_id" gorm:"type:uuid;not null;uniqueIndex:idx_answers_attempt_question"`
	SelectedOptionID  *uuid.UUID `json:"selected_option_id" gorm:"type:uuid"`
	DescriptiveAnswer string     `json:"descriptive_answer" gorm:"type:varchar(500)"`
	IsCorrect         *bool      `json:"is_correct"`
	PointsEarned      int        `json:"points_earned" gorm:"default:0"`
	AnsweredAt        time.Time  `json:"answered_at" gorm:"not null"`
}

// TableName specifies the table name for GORM
func (UserAnswer) TableName() string {
	return "user_answers"
}

// CompetitionAggregate represents per-competition attempt statistics
// for the admin dashboard
type CompetitionAggregate struct {
	CompetitionID     uuid.UUID `json:"competition_id"`
	Attempts          int64     `json:"attempts"`
	AveragePercentage float64   `json:"average_percentage"`
}

// AttemptRepository defines the interface for attempt and answer data access
type AttemptRepository interface {
	Create(attempt *QuizAttempt) error
	FindByID(id uuid.UUID) (*QuizAttempt, error)
	FindInProgress(userID, competitionID uuid.UUID) (*QuizAttempt, error)
	FindByUserAndStatus(userID uuid.UUID, statuses ...AttemptStatus) ([]QuizAttempt, error)
	FindByCompetitionAndStatus(competitionID uuid.UUID, statuses ...AttemptStatus) ([]QuizAttempt, error)
	Update(attempt *QuizAttempt) error
	UpsertAnswer(answer *UserAnswer) error
	FindAnswers(attemptID uuid.UUID) ([]UserAnswer, error)
	CountAnswers(attemptID uuid.UUID) (int64, error)
	// Finalize persists the scored attempt and its graded answers atomically.
	// The attempt row is only touched while still in progress; a concurrent
	// finalize loses the race and gets ErrAttemptAlreadyFinalized
	Finalize(attempt *QuizAttempt, answers []UserAnswer) error
	Count() (int64, error)
	AggregateByCompetition() ([]CompetitionAggregate, error)
}

// AnswerInput represents one answer within a save-progress batch.
// The option may be addressed either by ID or by its zero-based order index
type AnswerInput struct {
	QuestionID          uuid.UUID  `json:"question_id" binding:"required"`
	SelectedOptionID    *uuid.UUID `json:"selected_option_id"`
	SelectedOptionIndex *int       `json:"selected_option_index"`
	AnswerText          string     `json:"answer_text"`
}

// SaveProgressRequest represents a progress snapshot from the client
type SaveProgressRequest struct {
	CurrentIndex     *int          `json:"current_index" binding:"omitempty,min=0"`
	RemainingSeconds *int          `json:"remaining_seconds" binding:"omitempty,min=0"`
	Answers          []AnswerInput `json:"answers" binding:"omitempty,dive"`
}

// StartAttemptResponse is returned when an attempt is started or resumed
type StartAttemptResponse struct {
	AttemptID            uuid.UUID `json:"attempt_id"`
	TotalQuestions       int       `json:"total_questions"`
	CurrentQuestionIndex int       `json:"current_question_index"`
	Resumed              bool      `json:"resumed"`
}

// SubmitAttemptResponse is returned after an attempt is scored
type SubmitAttemptResponse struct {
	AttemptID        uuid.UUID     `json:"attempt_id"`
	Status           AttemptStatus `json:"status"`
	TotalScore       int           `json:"total_score"`
	MaxPossibleScore int           `json:"max_possible_score"`
	PercentageScore  float64       `json:"percentage_score"`
	CorrectAnswers   int           `json:"correct_answers"`
	TotalQuestions   int           `json:"total_questions"`
}

// AttemptResponse represents an attempt snapshot in API responses
type AttemptResponse struct {
	ID                   uuid.UUID     `json:"id"`
	CompetitionID        uuid.UUID     `json:"competition_id"`
	StartTime            time.Time     `json:"start_time"`
	EndTime              *time.Time    `json:"end_time"`
	SubmittedTime        *time.Time    `json:"submitted_time"`
	Status               AttemptStatus `json:"status"`
	TotalScore           int           `json:"total_score"`
	MaxPossibleScore     int           `json:"max_possible_score"`
	PercentageScore      float64       `json:"percentage_score"`
	TotalQuestions       int           `json:"total_questions"`
	AnsweredQuestions    int           `json:"answered_questions"`
	CorrectAnswers       int           `json:"correct_answers"`
	CurrentQuestionIndex int           `json:"current_question_index"`
	RemainingSeconds     *int          `json:"remaining_seconds"`
	TimeSpentMinutes     int           `json:"time_spent_minutes"`
}

// ToResponse converts a QuizAttempt to an AttemptResponse
func (a *QuizAttempt) ToResponse() AttemptResponse {
	return AttemptResponse{
		ID:                   a.ID,
		CompetitionID:        a.CompetitionID,
		StartTime:            a.StartTime,
		EndTime:              a.EndTime,
		SubmittedTime:        a.SubmittedTime,
		Status:               a.Status,
		TotalScore:           a.TotalScore,
		MaxPossibleScore:     a.MaxPossibleScore,
		PercentageScore:      a.PercentageScore,
		TotalQuestions:       a.TotalQuestions,
		AnsweredQuestions:    a.AnsweredQuestions,
		CorrectAnswers:       a.CorrectAnswers,
		CurrentQuestionIndex: a.CurrentQuestionIndex,
		RemainingSeconds:     a.RemainingSeconds,
		TimeSpentMinutes:     a.TimeSpentMinutes,
	}
}
