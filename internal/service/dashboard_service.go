package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/quiz-platform/backend/internal/domain"
)

// DashboardService builds read-only projections over attempts: ongoing and
// completed lists for the user dashboard, per-user statistics, and
// platform-wide admin statistics. Pure reads, no side effects
type DashboardService struct {
	attemptRepo     domain.AttemptRepository
	userRepo        domain.UserRepository
	competitionRepo domain.CompetitionRepository
	tracer          trace.Tracer
	logger          *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	attemptRepo domain.AttemptRepository,
	userRepo domain.UserRepository,
	competitionRepo domain.CompetitionRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		attemptRepo:     attemptRepo,
		userRepo:        userRepo,
		competitionRepo: competitionRepo,
		tracer:          tracer,
		logger:          logger,
	}
}

// GetOngoingAttempts returns the user's in-progress attempts
func (s *DashboardService) GetOngoingAttempts(ctx context.Context, userID uuid.UUID) ([]domain.QuizAttempt, error) {
	ctx, span := s.tracer.Start(ctx, "DashboardService.GetOngoingAttempts")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID.String()))
	return s.attemptRepo.FindByUserAndStatus(userID, domain.AttemptStatusInProgress)
}

// GetCompletedAttempts returns the user's attempts in any terminal state
func (s *DashboardService) GetCompletedAttempts(ctx context.Context, userID uuid.UUID) ([]domain.QuizAttempt, error) {
	ctx, span := s.tracer.Start(ctx, "DashboardService.GetCompletedAttempts")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID.String()))
	return s.attemptRepo.FindByUserAndStatus(userID,
		domain.AttemptStatusSubmitted,
		domain.AttemptStatusCompleted,
		domain.AttemptStatusTimedOut,
		domain.AttemptStatusAbandoned,
	)
}

// GetUserStats aggregates a user's dashboard statistics from their attempts
func (s *DashboardService) GetUserStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	ctx, span := s.tracer.Start(ctx, "DashboardService.GetUserStats")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID.String()))

	// Ongoing and completed lists are independent queries, fetched concurrently
	type attemptsResult struct {
		ongoing  bool
		attempts []domain.QuizAttempt
		err      error
	}

	resultChan := make(chan attemptsResult, 2)

	go func() {
		attempts, err := s.attemptRepo.FindByUserAndStatus(userID, domain.AttemptStatusInProgress)
		resultChan <- attemptsResult{ongoing: true, attempts: attempts, err: err}
	}()
	go func() {
		attempts, err := s.attemptRepo.FindByUserAndStatus(userID,
			domain.AttemptStatusSubmitted,
			domain.AttemptStatusCompleted,
			domain.AttemptStatusTimedOut,
			domain.AttemptStatusAbandoned,
		)
		resultChan <- attemptsResult{attempts: attempts, err: err}
	}()

	var ongoing, completed []domain.QuizAttempt
	for i := 0; i < 2; i++ {
		result := <-resultChan
		if result.err != nil {
			return nil, result.err
		}
		if result.ongoing {
			ongoing = result.attempts
		} else {
			completed = result.attempts
		}
	}

	stats := &domain.UserStats{
		TotalAttempts:      len(ongoing) + len(completed),
		CompletedAttempts:  len(completed),
		InProgressAttempts: len(ongoing),
	}

	scored := 0
	var percentageSum float64
	for _, attempt := range completed {
		stats.TotalCorrect += attempt.CorrectAnswers
		if attempt.Status == domain.AttemptStatusAbandoned {
			continue
		}
		scored++
		percentageSum += attempt.PercentageScore
		if attempt.PercentageScore > stats.BestPercentage {
			stats.BestPercentage = attempt.PercentageScore
		}
	}
	if scored > 0 {
		stats.AveragePercentage = percentageSum / float64(scored)
	}

	return stats, nil
}

// GetAdminStats aggregates platform-wide statistics for the admin dashboard
func (s *DashboardService) GetAdminStats(ctx context.Context) (*domain.AdminStats, error) {
	ctx, span := s.tracer.Start(ctx, "DashboardService.GetAdminStats")
	defer span.End()

	// Independent aggregations, fetched concurrently (fan-out/fan-in)
	type statPart struct {
		name       string
		count      int64
		byStatus   map[domain.CompetitionStatus]int64
		aggregates []domain.CompetitionAggregate
		err        error
	}

	resultChan := make(chan statPart, 4)

	go func() {
		count, err := s.userRepo.Count()
		resultChan <- statPart{name: "users", count: count, err: err}
	}()
	go func() {
		byStatus, err := s.competitionRepo.CountByStatus()
		resultChan <- statPart{name: "competitions", byStatus: byStatus, err: err}
	}()
	go func() {
		count, err := s.attemptRepo.Count()
		resultChan <- statPart{name: "attempts", count: count, err: err}
	}()
	go func() {
		aggregates, err := s.attemptRepo.AggregateByCompetition()
		resultChan <- statPart{name: "aggregates", aggregates: aggregates, err: err}
	}()

	stats := &domain.AdminStats{
		CompetitionsByStatus: make(map[domain.CompetitionStatus]int64),
	}

	for i := 0; i < 4; i++ {
		part := <-resultChan
		if part.err != nil {
			s.logger.Error("Failed to aggregate admin stats",
				zap.String("part", part.name),
				zap.Error(part.err),
			)
			return nil, part.err
		}

		switch part.name {
		case "users":
			stats.TotalUsers = part.count
		case "competitions":
			stats.CompetitionsByStatus = part.byStatus
			for _, count := range part.byStatus {
				stats.TotalCompetitions += count
			}
		case "attempts":
			stats.TotalAttempts = part.count
		case "aggregates":
			stats.AttemptsByCompetition = part.aggregates
		}
	}

	return stats, nil
}
