package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/quiz-platform/backend/internal/domain"
)

// CompetitionService handles competition lifecycle and admin CRUD
type CompetitionService struct {
	competitionRepo  domain.CompetitionRepository
	attemptRepo      domain.AttemptRepository
	notificationRepo domain.NotificationRepository
	tracer           trace.Tracer
	logger           *zap.Logger
}

// NewCompetitionService creates a new competition service
func NewCompetitionService(
	competitionRepo domain.CompetitionRepository,
	attemptRepo domain.AttemptRepository,
	notificationRepo domain.NotificationRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) *CompetitionService {
	return &CompetitionService{
		competitionRepo:  competitionRepo,
		attemptRepo:      attemptRepo,
		notificationRepo: notificationRepo,
		tracer:           tracer,
		logger:           logger,
	}
}

// CreateCompetition creates a new draft competition owned by an admin
func (s *CompetitionService) CreateCompetition(ctx context.Context, adminID uuid.UUID, req *domain.CreateCompetitionRequest) (*domain.Competition, error) {
	ctx, span := s.tracer.Start(ctx, "CompetitionService.CreateCompetition")
	defer span.End()

	span.SetAttributes(
		attribute.String("admin.id", adminID.String()),
		attribute.String("competition.title", req.Title),
	)

	questionsPerPage := req.QuestionsPerPage
	if questionsPerPage == 0 {
		questionsPerPage = 1
	}

	competition := &domain.Competition{
		CreatedBy:        adminID,
		Title:            req.Title,
		TitleAr:          req.TitleAr,
		Description:      req.Description,
		DescriptionAr:    req.DescriptionAr,
		Tags:             req.Tags,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		HasTimeLimit:     req.HasTimeLimit,
		TimeLimitMinutes: req.TimeLimitMinutes,
		QuestionsPerPage: questionsPerPage,
		Status:           domain.CompetitionStatusDraft,
	}

	if err := s.competitionRepo.Create(competition); err != nil {
		return nil, err
	}

	s.logger.Info("Competition created",
		zap.String("competition_id", competition.ID.String()),
		zap.String("admin_id", adminID.String()),
		zap.String("title", competition.Title),
	)

	return competition, nil
}

// UpdateCompetition applies a partial update. Once any attempt exists the
// competition definition is locked and only result-declaration metadata may
// still change (via DeclareResults)
func (s *CompetitionService) UpdateCompetition(ctx context.Context, competitionID uuid.UUID, req *domain.UpdateCompetitionRequest) (*domain.Competition, error) {
	ctx, span := s.tracer.Start(ctx, "CompetitionService.UpdateCompetition")
	defer span.End()

	span.SetAttributes(attribute.String("competition.id", competitionID.String()))

	competition, err := s.competitionRepo.FindByID(competitionID)
	if err != nil {
		return nil, err
	}

	attemptCount, err := s.competitionRepo.CountAttempts(competitionID)
	if err != nil {
		return nil, err
	}
	if attemptCount > 0 {
		return nil, domain.ErrCompetitionLocked
	}

	if req.Title != nil {
		competition.Title = *req.Title
	}
	if req.TitleAr != nil {
		competition.TitleAr = *req.TitleAr
	}
	if req.Description != nil {
		competition.Description = *req.Description
	}
	if req.DescriptionAr != nil {
		competition.DescriptionAr = *req.DescriptionAr
	}
	if req.Tags != nil {
		competition.Tags = req.Tags
	}
	if req.StartDate != nil {
		competition.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		competition.EndDate = *req.EndDate
	}
	if req.HasTimeLimit != nil {
		competition.HasTimeLimit = *req.HasTimeLimit
	}
	if req.TimeLimitMinutes != nil {
		competition.TimeLimitMinutes = *req.TimeLimitMinutes
	}
	if req.QuestionsPerPage != nil {
		competition.QuestionsPerPage = *req.QuestionsPerPage
	}

	if competition.EndDate.Before(competition.StartDate) {
		return nil, domain.ErrBadRequest
	}

	if err := s.competitionRepo.Update(competition); err != nil {
		return nil, err
	}

	return competition, nil
}

// GetCompetitionByID retrieves a competition by ID
func (s *CompetitionService) GetCompetitionByID(ctx context.Context, competitionID uuid.UUID) (*domain.Competition, error) {
	ctx, span := s.tracer.Start(ctx, "CompetitionService.GetCompetitionByID")
	defer span.End()

	span.SetAttributes(attribute.String("competition.id", competitionID.String()))
	return s.competitionRepo.FindByID(competitionID)
}

// GetOpenCompetitions returns competitions users may currently see:
// published and active ones
func (s *CompetitionService) GetOpenCompetitions(ctx context.Context) ([]domain.Competition, error) {
	ctx, span := s.tracer.Start(ctx, "CompetitionService.GetOpenCompetitions")
	defer span.End()

	return s.competitionRepo.FindByStatus(
		domain.CompetitionStatusPublished,
		domain.CompetitionStatusActive,
	)
}

// GetAllCompetitions returns every competition for the admin panel
func (s *CompetitionService) GetAllCompetitions(ctx context.Context) ([]domain.Competition, error) {
	ctx, span := s.tracer.Start(ctx, "CompetitionService.GetAllCompetitions")
	defer span.End()

	return s.competitionRepo.FindAll()
}

// Publish transitions a draft competition to published
func (s *CompetitionService) Publish(ctx context.Context, competitionID uuid.UUID) error {
	return s.transition(ctx, competitionID, domain.CompetitionStatusDraft, domain.CompetitionStatusPublished)
}

// Activate transitions a published competition to active
func (s *CompetitionService) Activate(ctx context.Context, competitionID uuid.UUID) error {
	return s.transition(ctx, competitionID, domain.CompetitionStatusPublished, domain.CompetitionStatusActive)
}

// Complete transitions an active competition to completed
func (s *CompetitionService) Complete(ctx context.Context, competitionID uuid.UUID) error {
	return s.transition(ctx, competitionID, domain.CompetitionStatusActive, domain.CompetitionStatusCompleted)
}

// Cancel cancels a competition in any non-terminal status
func (s *CompetitionService) Cancel(ctx context.Context, competitionID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "CompetitionService.Cancel")
	defer span.End()

	span.SetAttributes(attribute.String("competition.id", competitionID.String()))

	competition, err := s.competitionRepo.FindByID(competitionID)
	if err != nil {
		return err
	}
	if competition.Status == domain.CompetitionStatusCompleted ||
		competition.Status == domain.CompetitionStatusCancelled {
		return domain.ErrInvalidStatusTransition
	}

	return s.competitionRepo.UpdateStatus(competitionID, competition.Status, domain.CompetitionStatusCancelled)
}

// DeleteCompetition removes a draft competition that has no attempts
func (s *CompetitionService) DeleteCompetition(ctx context.Context, competitionID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "CompetitionService.DeleteCompetition")
	defer span.End()

	span.SetAttributes(attribute.String("competition.id", competitionID.String()))

	competition, err := s.competitionRepo.FindByID(competitionID)
	if err != nil {
		return err
	}
	if competition.Status != domain.CompetitionStatusDraft {
		return domain.ErrCompetitionLocked
	}

	attemptCount, err := s.competitionRepo.CountAttempts(competitionID)
	if err != nil {
		return err
	}
	if attemptCount > 0 {
		return domain.ErrCompetitionLocked
	}

	return s.competitionRepo.Delete(competitionID)
}

// DeclareResults marks a completed competition's results as declared and
// notifies every participant with a scored attempt. Result metadata stays
// mutable even after the competition is otherwise locked
func (s *CompetitionService) DeclareResults(ctx context.Context, competitionID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "CompetitionService.DeclareResults")
	defer span.End()

	span.SetAttributes(attribute.String("competition.id", competitionID.String()))

	competition, err := s.competitionRepo.FindByID(competitionID)
	if err != nil {
		return err
	}
	if competition.Status != domain.CompetitionStatusCompleted {
		return domain.ErrInvalidStatusTransition
	}

	now := time.Now()
	competition.ResultsDeclared = true
	competition.ResultsDeclaredAt = &now
	if err := s.competitionRepo.Update(competition); err != nil {
		return err
	}

	attempts, err := s.attemptRepo.FindByCompetitionAndStatus(competitionID,
		domain.AttemptStatusSubmitted,
		domain.AttemptStatusCompleted,
		domain.AttemptStatusTimedOut,
	)
	if err != nil {
		return err
	}

	notifications := make([]domain.Notification, 0, len(attempts))
	for _, attempt := range attempts {
		notifications = append(notifications, domain.Notification{
			UserID:  attempt.UserID,
			Title:   fmt.Sprintf("Results declared for %s", competition.Title),
			Message: fmt.Sprintf("You scored %d/%d (%.2f%%).", attempt.TotalScore, attempt.MaxPossibleScore, attempt.PercentageScore),
			Type:    domain.NotificationTypeResult,
		})
	}
	if err := s.notificationRepo.CreateBatch(notifications); err != nil {
		// Results stay declared; notification delivery failure is logged, not rolled back
		s.logger.Error("Failed to create result notifications",
			zap.String("competition_id", competitionID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("Results declared",
		zap.String("competition_id", competitionID.String()),
		zap.Int("participants_notified", len(notifications)),
	)

	return nil
}

// transition applies a guarded status change
func (s *CompetitionService) transition(ctx context.Context, competitionID uuid.UUID, from, to domain.CompetitionStatus) error {
	ctx, span := s.tracer.Start(ctx, "CompetitionService.transition")
	defer span.End()

	span.SetAttributes(
		attribute.String("competition.id", competitionID.String()),
		attribute.String("status.from", string(from)),
		attribute.String("status.to", string(to)),
	)

	if err := s.competitionRepo.UpdateStatus(competitionID, from, to); err != nil {
		return err
	}

	s.logger.Info("Competition status changed",
		zap.String("competition_id", competitionID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	return nil
}
