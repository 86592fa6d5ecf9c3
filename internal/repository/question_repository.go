package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quiz-platform/backend/internal/domain"
)

// questionRepository implements domain.QuestionRepository using GORM
type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *gorm.DB) domain.QuestionRepository {
	return &questionRepository{db: db}
}

// Create creates a question together with its options and bumps the
// competition's question counter in one transaction
func (r *questionRepository) Create(question *domain.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Competition{}).
			Where("id = ?", question.CompetitionID).
			Update("total_questions", gorm.Expr("total_questions + 1")).Error
	})
}

// FindByID finds a question with its options loaded
func (r *questionRepository) FindByID(id uuid.UUID) (*domain.Question, error) {
	var question domain.Question
	result := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.order_index ASC")
		}).
		Where("id = ?", id).
		First(&question)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, result.Error
	}
	return &question, nil
}

// FindByCompetitionID returns all questions of a competition in display order
func (r *questionRepository) FindByCompetitionID(competitionID uuid.UUID) ([]domain.Question, error) {
	var questions []domain.Question
	result := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.order_index ASC")
		}).
		Where("competition_id = ?", competitionID).
		Order("order_index ASC").
		Find(&questions)
	return questions, result.Error
}

// FindActiveByCompetitionID returns the active questions of a competition
// in display order
func (r *questionRepository) FindActiveByCompetitionID(competitionID uuid.UUID) ([]domain.Question, error) {
	var questions []domain.Question
	result := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.order_index ASC")
		}).
		Where("competition_id = ? AND is_active = ?", competitionID, true).
		Order("order_index ASC").
		Find(&questions)
	return questions, result.Error
}

// CountActiveByCompetitionID returns how many active questions a competition has
func (r *questionRepository) CountActiveByCompetitionID(competitionID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.Model(&domain.Question{}).
		Where("competition_id = ? AND is_active = ?", competitionID, true).
		Count(&count)
	return count, result.Error
}

// Update updates an existing question
func (r *questionRepository) Update(question *domain.Question) error {
	return r.db.Omit("Options").Save(question).Error
}

// ReplaceOptions swaps a question's option set atomically
func (r *questionRepository) ReplaceOptions(questionID uuid.UUID, options []domain.QuestionOption) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.QuestionOption{}, "question_id = ?", questionID).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].QuestionID = questionID
		}
		return tx.Create(&options).Error
	})
}

// Delete removes a question, its options, and decrements the competition's
// question counter
func (r *questionRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var question domain.Question
		if err := tx.Where("id = ?", id).First(&question).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrQuestionNotFound
			}
			return err
		}

		if err := tx.Delete(&domain.QuestionOption{}, "question_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Question{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Competition{}).
			Where("id = ? AND total_questions > 0", question.CompetitionID).
			Update("total_questions", gorm.Expr("total_questions - 1")).Error
	})
}

// WithContext returns a repository with the given context for tracing
func (r *questionRepository) WithContext(ctx context.Context) domain.QuestionRepository {
	return &questionRepository{db: r.db.WithContext(ctx)}
}
