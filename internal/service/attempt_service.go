package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/quiz-platform/backend/internal/domain"
	"github.com/quiz-platform/backend/internal/infrastructure"
)

// submitGracePeriod absorbs network and clock skew before the server-side
// deadline clamp turns a submit into a timeout
const submitGracePeriod = 30 * time.Second

// AttemptService owns the quiz attempt lifecycle: start, save progress,
// submit with scoring, abandon. Attempts move from in_progress to exactly
// one terminal status and never back
type AttemptService struct {
	attemptRepo     domain.AttemptRepository
	competitionRepo domain.CompetitionRepository
	questionRepo    domain.QuestionRepository
	metrics         *infrastructure.TelemetryMetrics
	tracer          trace.Tracer
	logger          *zap.Logger
}

// NewAttemptService creates a new attempt service
func NewAttemptService(
	attemptRepo domain.AttemptRepository,
	competitionRepo domain.CompetitionRepository,
	questionRepo domain.QuestionRepository,
	metrics *infrastructure.TelemetryMetrics,
	tracer trace.Tracer,
	logger *zap.Logger,
) *AttemptService {
	return &AttemptService{
		attemptRepo:     attemptRepo,
		competitionRepo: competitionRepo,
		questionRepo:    questionRepo,
		metrics:         metrics,
		tracer:          tracer,
		logger:          logger,
	}
}

// StartAttempt starts a new attempt for the user on a competition, or resumes
// the existing in-progress one. Starting twice without submitting returns the
// same attempt both times
func (s *AttemptService) StartAttempt(ctx context.Context, userID, competitionID uuid.UUID) (*domain.StartAttemptResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AttemptService.StartAttempt")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("competition.id", competitionID.String()),
	)

	competition, err := s.competitionRepo.FindByID(competitionID)
	if err != nil {
		return nil, err
	}

	if !competition.AcceptsAttempts(time.Now()) {
		return nil, domain.ErrCompetitionNotAvailable
	}

	// Idempotent resume: one in-progress attempt per (user, competition)
	existing, err := s.attemptRepo.FindInProgress(userID, competitionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		span.SetAttributes(attribute.Bool("attempt.resumed", true))
		return &domain.StartAttemptResponse{
			AttemptID:            existing.ID,
			TotalQuestions:       existing.TotalQuestions,
			CurrentQuestionIndex: existing.CurrentQuestionIndex,
			Resumed:              true,
		}, nil
	}

	questionCount, err := s.questionRepo.CountActiveByCompetitionID(competitionID)
	if err != nil {
		return nil, err
	}

	attempt := &domain.QuizAttempt{
		UserID:         userID,
		CompetitionID:  competitionID,
		StartTime:      time.Now(),
		Status:         domain.AttemptStatusInProgress,
		TotalQuestions: int(questionCount),
	}

	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ActiveAttempts.Add(ctx, 1)
	}

	s.logger.Info("Attempt started",
		zap.String("attempt_id", attempt.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("competition_id", competitionID.String()),
		zap.Int("total_questions", attempt.TotalQuestions),
	)

	return &domain.StartAttemptResponse{
		AttemptID:            attempt.ID,
		TotalQuestions:       attempt.TotalQuestions,
		CurrentQuestionIndex: attempt.CurrentQuestionIndex,
	}, nil
}

// GetAttempt returns an attempt snapshot for its owner
func (s *AttemptService) GetAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*domain.QuizAttempt, error) {
	ctx, span := s.tracer.Start(ctx, "AttemptService.GetAttempt")
	defer span.End()

	span.SetAttributes(attribute.String("attempt.id", attemptID.String()))

	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return attempt, nil
}

// GetAttemptQuestions returns the ordered active questions for an attempt's
// competition with the answer key stripped
func (s *AttemptService) GetAttemptQuestions(ctx context.Context, userID, attemptID uuid.UUID) ([]domain.AttemptQuestionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AttemptService.GetAttemptQuestions")
	defer span.End()

	span.SetAttributes(attribute.String("attempt.id", attemptID.String()))

	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, domain.ErrForbidden
	}

	questions, err := s.questionRepo.FindActiveByCompetitionID(attempt.CompetitionID)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.AttemptQuestionResponse, len(questions))
	for i := range questions {
		responses[i] = questions[i].ToAttemptResponse()
	}
	return responses, nil
}

// SaveProgress persists a progress snapshot: answered questions, the cursor
// position, and the client-reported remaining time. Answers overwrite any
// prior answer to the same question. Safe to call repeatedly; scoring is
// deferred to submit
func (s *AttemptService) SaveProgress(ctx context.Context, userID, attemptID uuid.UUID, req *domain.SaveProgressRequest) (*domain.QuizAttempt, error) {
	ctx, span := s.tracer.Start(ctx, "AttemptService.SaveProgress")
	defer span.End()

	span.SetAttributes(
		attribute.String("attempt.id", attemptID.String()),
		attribute.Int("answers.count", len(req.Answers)),
	)

	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if attempt.Status.IsTerminal() {
		return nil, domain.ErrAttemptAlreadyFinalized
	}

	if len(req.Answers) > 0 {
		questions, err := s.questionRepo.FindActiveByCompetitionID(attempt.CompetitionID)
		if err != nil {
			return nil, err
		}
		questionsByID := make(map[uuid.UUID]*domain.Question, len(questions))
		for i := range questions {
			questionsByID[questions[i].ID] = &questions[i]
		}

		now := time.Now()
		for _, input := range req.Answers {
			question, ok := questionsByID[input.QuestionID]
			if !ok {
				return nil, domain.ErrQuestionNotFound
			}

			answer := domain.UserAnswer{
				AttemptID:  attempt.ID,
				QuestionID: question.ID,
				AnsweredAt: now,
			}

			if question.IsMCQ() {
				optionID, err := resolveSelectedOption(question, input)
				if err != nil {
					return nil, err
				}
				answer.SelectedOptionID = optionID
			} else {
				answer.DescriptiveAnswer = domain.TruncateDescriptive(input.AnswerText)
			}

			if err := s.attemptRepo.UpsertAnswer(&answer); err != nil {
				return nil, err
			}
		}
	}

	if req.CurrentIndex != nil && *req.CurrentIndex >= 0 {
		attempt.CurrentQuestionIndex = *req.CurrentIndex
	}
	if req.RemainingSeconds != nil {
		attempt.RemainingSeconds = req.RemainingSeconds
	}

	answered, err := s.attemptRepo.CountAnswers(attempt.ID)
	if err != nil {
		return nil, err
	}
	attempt.AnsweredQuestions = int(answered)

	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, err
	}

	return attempt, nil
}

// SubmitAttempt finalizes and scores an attempt. MCQ answers score their
// question's points when the selected option is the correct one; descriptive
// answers stay unscored pending manual review. The whole transition is
// atomic, and only the first submit for an attempt wins. When the attempt
// overran the competition's time limit (or timedOut is set by the caller's
// timer), the terminal status is timed_out instead of submitted
func (s *AttemptService) SubmitAttempt(ctx context.Context, userID, attemptID uuid.UUID, timedOut bool) (*domain.SubmitAttemptResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AttemptService.SubmitAttempt")
	defer span.End()

	span.SetAttributes(
		attribute.String("attempt.id", attemptID.String()),
		attribute.Bool("attempt.timed_out", timedOut),
	)

	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if attempt.Status.IsTerminal() {
		return nil, domain.ErrAttemptAlreadyFinalized
	}

	competition, err := s.competitionRepo.FindByID(attempt.CompetitionID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.FindActiveByCompetitionID(attempt.CompetitionID)
	if err != nil {
		return nil, err
	}

	answers, err := s.attemptRepo.FindAnswers(attempt.ID)
	if err != nil {
		return nil, err
	}
	answersByQuestion := make(map[uuid.UUID]*domain.UserAnswer, len(answers))
	for i := range answers {
		answersByQuestion[answers[i].QuestionID] = &answers[i]
	}

	var totalScore, maxPossible, correctCount int
	for i := range questions {
		question := &questions[i]
		maxPossible += question.Points

		if !question.IsMCQ() {
			// Descriptive answers default to zero pending manual review
			continue
		}

		answer, answered := answersByQuestion[question.ID]
		if !answered || answer.SelectedOptionID == nil {
			continue
		}

		correct := false
		if correctOption := question.CorrectOption(); correctOption != nil {
			correct = *answer.SelectedOptionID == correctOption.ID
		}
		answer.IsCorrect = &correct
		if correct {
			answer.PointsEarned = question.Points
			totalScore += question.Points
			correctCount++
		} else {
			answer.PointsEarned = 0
		}
	}

	percentage := 0.0
	if maxPossible > 0 {
		percentage = float64(totalScore) / float64(maxPossible) * 100
	}

	now := time.Now()
	status := domain.AttemptStatusSubmitted
	if timedOut {
		status = domain.AttemptStatusTimedOut
	} else if deadline, ok := competition.AttemptDeadline(attempt.StartTime); ok && now.After(deadline.Add(submitGracePeriod)) {
		// Server-side clamp: the client clock is never trusted for finalization
		status = domain.AttemptStatusTimedOut
	}

	attempt.Status = status
	attempt.EndTime = &now
	attempt.SubmittedTime = &now
	attempt.TotalScore = totalScore
	attempt.MaxPossibleScore = maxPossible
	attempt.PercentageScore = percentage
	attempt.TotalQuestions = len(questions)
	attempt.AnsweredQuestions = len(answers)
	attempt.CorrectAnswers = correctCount
	attempt.TimeSpentMinutes = int(now.Sub(attempt.StartTime).Minutes())

	if err := s.attemptRepo.Finalize(attempt, answers); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ActiveAttempts.Add(ctx, -1)
		s.metrics.AttemptsFinalized.Add(ctx, 1,
			metric.WithAttributes(attribute.String("attempt.status", string(status))),
		)
	}

	s.logger.Info("Attempt finalized",
		zap.String("attempt_id", attempt.ID.String()),
		zap.String("status", string(status)),
		zap.Int("total_score", totalScore),
		zap.Int("max_possible_score", maxPossible),
		zap.Float64("percentage", percentage),
		zap.Int("correct_answers", correctCount),
	)

	return &domain.SubmitAttemptResponse{
		AttemptID:        attempt.ID,
		Status:           status,
		TotalScore:       totalScore,
		MaxPossibleScore: maxPossible,
		PercentageScore:  percentage,
		CorrectAnswers:   correctCount,
		TotalQuestions:   len(questions),
	}, nil
}

// AbandonAttempt moves an in-progress attempt to the abandoned terminal
// state without scoring it
func (s *AttemptService) AbandonAttempt(ctx context.Context, userID, attemptID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "AttemptService.AbandonAttempt")
	defer span.End()

	span.SetAttributes(attribute.String("attempt.id", attemptID.String()))

	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		return err
	}
	if attempt.UserID != userID {
		return domain.ErrForbidden
	}
	if attempt.Status.IsTerminal() {
		return domain.ErrAttemptAlreadyFinalized
	}

	now := time.Now()
	attempt.Status = domain.AttemptStatusAbandoned
	attempt.EndTime = &now
	attempt.TimeSpentMinutes = int(now.Sub(attempt.StartTime).Minutes())

	if err := s.attemptRepo.Finalize(attempt, nil); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.ActiveAttempts.Add(ctx, -1)
		s.metrics.AttemptsFinalized.Add(ctx, 1,
			metric.WithAttributes(attribute.String("attempt.status", string(domain.AttemptStatusAbandoned))),
		)
	}

	s.logger.Info("Attempt abandoned",
		zap.String("attempt_id", attempt.ID.String()),
		zap.String("user_id", userID.String()),
	)

	return nil
}

// resolveSelectedOption maps an answer input to a concrete option ID. The
// client may address options either by ID or by zero-based order index
func resolveSelectedOption(question *domain.Question, input domain.AnswerInput) (*uuid.UUID, error) {
	if input.SelectedOptionID != nil {
		for i := range question.Options {
			if question.Options[i].ID == *input.SelectedOptionID {
				return input.SelectedOptionID, nil
			}
		}
		return nil, domain.ErrBadRequest
	}

	if input.SelectedOptionIndex != nil {
		idx := *input.SelectedOptionIndex
		if idx < 0 || idx >= len(question.Options) {
			return nil, domain.ErrBadRequest
		}
		id := question.Options[idx].ID
		return &id, nil
	}

	// No selection at all: store the answer row with a null option so the
	// question counts as visited but scores zero
	return nil, nil
}
