package data

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/quiz-platform/backend/internal/domain"
	"github.com/quiz-platform/backend/internal/infrastructure"
)

// Seeder handles database seeding operations
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSeeder creates a new database seeder
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

// SeedAdmin ensures the bootstrap admin account exists. Credentials come
// from configuration so deployments can rotate them per environment.
func (s *Seeder) SeedAdmin(admin *infrastructure.AdminConfig) error {
	var count int64
	if err := s.db.Model(&domain.User{}).
		Where("email = ?", admin.Email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		s.logger.Info("Admin account already exists, skipping seed",
			zap.String("email", admin.Email),
		)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := domain.User{
		ID:           uuid.New(),
		Email:        admin.Email,
		Username:     admin.Username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded admin account",
		zap.String("email", admin.Email),
	)

	return nil
}

// SeedSampleCompetition creates a published demo competition for local
// development. It is skipped in production and whenever any competition
// already exists.
func (s *Seeder) SeedSampleCompetition(environment string) error {
	if environment == "production" {
		return nil
	}

	var count int64
	if err := s.db.Model(&domain.Competition{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		s.logger.Info("Competitions already present, skipping sample seed",
			zap.Int64("count", count),
		)
		return nil
	}

	var admin domain.User
	if err := s.db.Where("role = ?", domain.RoleAdmin).First(&admin).Error; err != nil {
		return err
	}

	now := time.Now()
	competition := domain.Competition{
		ID:               uuid.New(),
		CreatedBy:        admin.ID,
		Title:            "General Knowledge Challenge",
		TitleAr:          "تحدي المعرفة العامة",
		Description:      "A short sample quiz to explore the platform.",
		Tags:             []string{"sample", "general"},
		StartDate:        now.Add(-time.Hour),
		EndDate:          now.Add(30 * 24 * time.Hour),
		HasTimeLimit:     true,
		TimeLimitMinutes: 10,
		QuestionsPerPage: 1,
		Status:           domain.CompetitionStatusPublished,
		TotalQuestions:   4,
	}

	questions := []domain.Question{
		{
			ID:            uuid.New(),
			CompetitionID: competition.ID,
			QuestionType:  domain.QuestionTypeMCQ,
			Text:          "Which planet is known as the Red Planet?",
			Points:        1,
			OrderIndex:    1,
			IsActive:      true,
			Options: []domain.QuestionOption{
				{ID: uuid.New(), Text: "Venus", OrderIndex: 0},
				{ID: uuid.New(), Text: "Mars", OrderIndex: 1, IsCorrect: true},
				{ID: uuid.New(), Text: "Jupiter", OrderIndex: 2},
			},
		},
		{
			ID:            uuid.New(),
			CompetitionID: competition.ID,
			QuestionType:  domain.QuestionTypeMCQ,
			Text:          "What is the chemical symbol for gold?",
			Points:        1,
			OrderIndex:    2,
			IsActive:      true,
			Options: []domain.QuestionOption{
				{ID: uuid.New(), Text: "Au", OrderIndex: 0, IsCorrect: true},
				{ID: uuid.New(), Text: "Ag", OrderIndex: 1},
				{ID: uuid.New(), Text: "Gd", OrderIndex: 2},
			},
		},
		{
			ID:            uuid.New(),
			CompetitionID: competition.ID,
			QuestionType:  domain.QuestionTypeMCQ,
			Text:          "How many continents are there on Earth?",
			Points:        1,
			OrderIndex:    3,
			IsActive:      true,
			Options: []domain.QuestionOption{
				{ID: uuid.New(), Text: "Five", OrderIndex: 0},
				{ID: uuid.New(), Text: "Six", OrderIndex: 1},
				{ID: uuid.New(), Text: "Seven", OrderIndex: 2, IsCorrect: true},
			},
		},
		{
			ID:            uuid.New(),
			CompetitionID: competition.ID,
			QuestionType:  domain.QuestionTypeDescriptive,
			Text:          "Describe one way renewable energy benefits the environment.",
			Points:        2,
			OrderIndex:    4,
			IsActive:      true,
		},
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&competition).Error; err != nil {
			return err
		}
		for i := range questions {
			for j := range questions[i].Options {
				questions[i].Options[j].QuestionID = questions[i].ID
			}
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}

		s.logger.Info("Seeded sample competition",
			zap.String("title", competition.Title),
			zap.Int("questions", len(questions)),
		)
		return nil
	})
}
