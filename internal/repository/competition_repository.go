package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quiz-platform/backend/internal/domain"
)

// competitionRepository implements domain.CompetitionRepository using GORM
type competitionRepository struct {
	db *gorm.DB
}

// NewCompetitionRepository creates a new competition repository
func NewCompetitionRepository(db *gorm.DB) domain.CompetitionRepository {
	return &competitionRepository{db: db}
}

// Create creates a new competition in the database
func (r *competitionRepository) Create(competition *domain.Competition) error {
	return r.db.Create(competition).Error
}

// FindByID finds a competition by its ID (without questions)
func (r *competitionRepository) FindByID(id uuid.UUID) (*domain.Competition, error) {
	var competition domain.Competition
	result := r.db.Where("id = ?", id).First(&competition)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompetitionNotFound
		}
		return nil, result.Error
	}
	return &competition, nil
}

// FindByIDWithQuestions finds a competition with its questions and options loaded
func (r *competitionRepository) FindByIDWithQuestions(id uuid.UUID) (*domain.Competition, error) {
	var competition domain.Competition
	result := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order_index ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.order_index ASC")
		}).
		Where("id = ?", id).
		First(&competition)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompetitionNotFound
		}
		return nil, result.Error
	}
	return &competition, nil
}

// FindByStatus returns competitions in any of the given statuses,
// newest start date first
func (r *competitionRepository) FindByStatus(statuses ...domain.CompetitionStatus) ([]domain.Competition, error) {
	var competitions []domain.Competition
	result := r.db.
		Where("status IN ?", statuses).
		Order("start_date DESC").
		Find(&competitions)
	return competitions, result.Error
}

// FindAll returns every competition ordered by creation date
func (r *competitionRepository) FindAll() ([]domain.Competition, error) {
	var competitions []domain.Competition
	result := r.db.Order("created_at DESC").Find(&competitions)
	return competitions, result.Error
}

// Update updates an existing competition
func (r *competitionRepository) Update(competition *domain.Competition) error {
	return r.db.Save(competition).Error
}

// UpdateStatus transitions a competition between statuses. The update is
// conditional on the current status so concurrent transitions cannot
// double-apply
func (r *competitionRepository) UpdateStatus(id uuid.UUID, from, to domain.CompetitionStatus) error {
	result := r.db.Model(&domain.Competition{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing row from a wrong-status row
		var count int64
		if err := r.db.Model(&domain.Competition{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrCompetitionNotFound
		}
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

// Delete deletes a competition and its questions
func (r *competitionRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Delete options of the competition's questions first (cascade)
		if err := tx.Where("question_id IN (?)",
			tx.Model(&domain.Question{}).Select("id").Where("competition_id = ?", id),
		).Delete(&domain.QuestionOption{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Question{}, "competition_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Competition{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrCompetitionNotFound
		}
		return nil
	})
}

// CountAttempts returns the number of attempts recorded against a competition
func (r *competitionRepository) CountAttempts(id uuid.UUID) (int64, error) {
	var count int64
	result := r.db.Model(&domain.QuizAttempt{}).
		Where("competition_id = ?", id).
		Count(&count)
	return count, result.Error
}

// CountByStatus returns the number of competitions per status
func (r *competitionRepository) CountByStatus() (map[domain.CompetitionStatus]int64, error) {
	type statusCount struct {
		Status domain.CompetitionStatus
		Count  int64
	}
	var rows []statusCount
	result := r.db.Model(&domain.Competition{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[domain.CompetitionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// WithContext returns a repository with the given context for tracing
func (r *competitionRepository) WithContext(ctx context.Context) domain.CompetitionRepository {
	return &competitionRepository{db: r.db.WithContext(ctx)}
}
