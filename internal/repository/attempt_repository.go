package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quiz-platform/backend/internal/domain"
)

// attemptRepository implements domain.AttemptRepository using GORM
type attemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository creates a new attempt repository
func NewAttemptRepository(db *gorm.DB) domain.AttemptRepository {
	return &attemptRepository{db: db}
}

// Create creates a new attempt in the database
func (r *attemptRepository) Create(attempt *domain.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

// FindByID finds an attempt by its ID
func (r *attemptRepository) FindByID(id uuid.UUID) (*domain.QuizAttempt, error) {
	var attempt domain.QuizAttempt
	result := r.db.Where("id = ?", id).First(&attempt)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAttemptNotFound
		}
		return nil, result.Error
	}
	return &attempt, nil
}

// FindInProgress finds the user's in-progress attempt for a competition, if any
func (r *attemptRepository) FindInProgress(userID, competitionID uuid.UUID) (*domain.QuizAttempt, error) {
	var attempt domain.QuizAttempt
	result := r.db.
		Where("user_id = ? AND competition_id = ? AND status = ?",
			userID, competitionID, domain.AttemptStatusInProgress).
		First(&attempt)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil // no in-progress attempt is not an error
		}
		return nil, result.Error
	}
	return &attempt, nil
}

// FindByUserAndStatus returns the user's attempts in any of the given statuses,
// most recent first
func (r *attemptRepository) FindByUserAndStatus(userID uuid.UUID, statuses ...domain.AttemptStatus) ([]domain.QuizAttempt, error) {
	var attempts []domain.QuizAttempt
	result := r.db.
		Where("user_id = ? AND status IN ?", userID, statuses).
		Order("start_time DESC").
		Find(&attempts)
	return attempts, result.Error
}

// FindByCompetitionAndStatus returns a competition's attempts in any of the
// given statuses
func (r *attemptRepository) FindByCompetitionAndStatus(competitionID uuid.UUID, statuses ...domain.AttemptStatus) ([]domain.QuizAttempt, error) {
	var attempts []domain.QuizAttempt
	result := r.db.
		Where("competition_id = ? AND status IN ?", competitionID, statuses).
		Order("percentage_score DESC").
		Find(&attempts)
	return attempts, result.Error
}

// Update updates an existing attempt
func (r *attemptRepository) Update(attempt *domain.QuizAttempt) error {
	return r.db.Save(attempt).Error
}

// UpsertAnswer creates or overwrites the answer for (attempt_id, question_id)
func (r *attemptRepository) UpsertAnswer(answer *domain.UserAnswer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"selected_option_id",
			"descriptive_answer",
			"is_correct",
			"points_earned",
			"answered_at",
		}),
	}).Create(answer).Error
}

// FindAnswers returns all persisted answers for an attempt
func (r *attemptRepository) FindAnswers(attemptID uuid.UUID) ([]domain.UserAnswer, error) {
	var answers []domain.UserAnswer
	result := r.db.
		Where("attempt_id = ?", attemptID).
		Order("answered_at ASC").
		Find(&answers)
	return answers, result.Error
}

// CountAnswers returns how many questions have a persisted answer
func (r *attemptRepository) CountAnswers(attemptID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.Model(&domain.UserAnswer{}).
		Where("attempt_id = ?", attemptID).
		Count(&count)
	return count, result.Error
}

// Finalize persists the scored attempt and its graded answers in one
// transaction. The attempt row is updated conditionally on still being in
// progress; zero rows affected means another call finalized it first
func (r *attemptRepository) Finalize(attempt *domain.QuizAttempt, answers []domain.UserAnswer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.QuizAttempt{}).
			Where("id = ? AND status = ?", attempt.ID, domain.AttemptStatusInProgress).
			Updates(map[string]interface{}{
				"status":             attempt.Status,
				"end_time":           attempt.EndTime,
				"submitted_time":     attempt.SubmittedTime,
				"total_score":        attempt.TotalScore,
				"max_possible_score": attempt.MaxPossibleScore,
				"percentage_score":   attempt.PercentageScore,
				"answered_questions": attempt.AnsweredQuestions,
				"correct_answers":    attempt.CorrectAnswers,
				"time_spent_minutes": attempt.TimeSpentMinutes,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAttemptAlreadyFinalized
		}

		for i := range answers {
			if err := tx.Model(&domain.UserAnswer{}).
				Where("attempt_id = ? AND question_id = ?", attempt.ID, answers[i].QuestionID).
				Updates(map[string]interface{}{
					"is_correct":    answers[i].IsCorrect,
					"points_earned": answers[i].PointsEarned,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the total number of attempts on the platform
func (r *attemptRepository) Count() (int64, error) {
	var count int64
	result := r.db.Model(&domain.QuizAttempt{}).Count(&count)
	return count, result.Error
}

// AggregateByCompetition returns attempt counts and average percentage per
// competition for the admin dashboard. Only scored terminal attempts feed
// the average
func (r *attemptRepository) AggregateByCompetition() ([]domain.CompetitionAggregate, error) {
	var aggregates []domain.CompetitionAggregate
	result := r.db.Model(&domain.QuizAttempt{}).
		Select("competition_id, count(*) as attempts, coalesce(avg(percentage_score) filter (where status IN ?), 0) as average_percentage",
			[]domain.AttemptStatus{domain.AttemptStatusSubmitted, domain.AttemptStatusTimedOut, domain.AttemptStatusCompleted}).
		Group("competition_id").
		Scan(&aggregates)
	return aggregates, result.Error
}

// WithContext returns a repository with the given context for tracing
func (r *attemptRepository) WithContext(ctx context.Context) domain.AttemptRepository {
	return &attemptRepository{db: r.db.WithContext(ctx)}
}
