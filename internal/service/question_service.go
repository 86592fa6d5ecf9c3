package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/quiz-platform/backend/internal/domain"
)

// QuestionService handles question authoring for admins
type QuestionService struct {
	questionRepo    domain.QuestionRepository
	competitionRepo domain.CompetitionRepository
	tracer          trace.Tracer
	logger          *zap.Logger
}

// NewQuestionService creates a new question service
func NewQuestionService(
	questionRepo domain.QuestionRepository,
	competitionRepo domain.CompetitionRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo:    questionRepo,
		competitionRepo: competitionRepo,
		tracer:          tracer,
		logger:          logger,
	}
}

// AddQuestion adds a question (with options for MCQ) to a competition.
// The competition must exist and must not have attempts yet
func (s *QuestionService) AddQuestion(ctx context.Context, competitionID uuid.UUID, req *domain.CreateQuestionRequest) (*domain.Question, error) {
	ctx, span := s.tracer.Start(ctx, "QuestionService.AddQuestion")
	defer span.End()

	span.SetAttributes(
		attribute.String("competition.id", competitionID.String()),
		attribute.String("question.type", string(req.QuestionType)),
	)

	if _, err := s.competitionRepo.FindByID(competitionID); err != nil {
		return nil, err
	}

	attemptCount, err := s.competitionRepo.CountAttempts(competitionID)
	if err != nil {
		return nil, err
	}
	if attemptCount > 0 {
		return nil, domain.ErrCompetitionLocked
	}

	if err := validateOptions(req); err != nil {
		return nil, err
	}

	orderIndex := req.OrderIndex
	if orderIndex == 0 {
		count, err := s.questionRepo.CountActiveByCompetitionID(competitionID)
		if err != nil {
			return nil, err
		}
		orderIndex = int(count) + 1
	}

	question := &domain.Question{
		CompetitionID:    competitionID,
		QuestionType:     req.QuestionType,
		Text:             req.Text,
		TextAr:           req.TextAr,
		Points:           req.Points,
		TimeLimitSeconds: req.TimeLimitSeconds,
		OrderIndex:       orderIndex,
		IsActive:         true,
	}

	for i, opt := range req.Options {
		question.Options = append(question.Options, domain.QuestionOption{
			Text:       opt.Text,
			TextAr:     opt.TextAr,
			OrderIndex: i,
			IsCorrect:  opt.IsCorrect,
		})
	}

	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}

	s.logger.Info("Question added",
		zap.String("question_id", question.ID.String()),
		zap.String("competition_id", competitionID.String()),
		zap.String("type", string(question.QuestionType)),
		zap.Int("points", question.Points),
	)

	return question, nil
}

// GetQuestionByID returns a question with its options (admin view)
func (s *QuestionService) GetQuestionByID(ctx context.Context, questionID uuid.UUID) (*domain.Question, error) {
	ctx, span := s.tracer.Start(ctx, "QuestionService.GetQuestionByID")
	defer span.End()

	span.SetAttributes(attribute.String("question.id", questionID.String()))
	return s.questionRepo.FindByID(questionID)
}

// GetCompetitionQuestions returns all questions of a competition including
// the answer key (admin view)
func (s *QuestionService) GetCompetitionQuestions(ctx context.Context, competitionID uuid.UUID) ([]domain.Question, error) {
	ctx, span := s.tracer.Start(ctx, "QuestionService.GetCompetitionQuestions")
	defer span.End()

	span.SetAttributes(attribute.String("competition.id", competitionID.String()))

	if _, err := s.competitionRepo.FindByID(competitionID); err != nil {
		return nil, err
	}
	return s.questionRepo.FindByCompetitionID(competitionID)
}

// UpdateQuestion replaces a question's content and options. Locked once the
// competition has attempts
func (s *QuestionService) UpdateQuestion(ctx context.Context, questionID uuid.UUID, req *domain.CreateQuestionRequest) (*domain.Question, error) {
	ctx, span := s.tracer.Start(ctx, "QuestionService.UpdateQuestion")
	defer span.End()

	span.SetAttributes(attribute.String("question.id", questionID.String()))

	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return nil, err
	}

	attemptCount, err := s.competitionRepo.CountAttempts(question.CompetitionID)
	if err != nil {
		return nil, err
	}
	if attemptCount > 0 {
		return nil, domain.ErrCompetitionLocked
	}

	if err := validateOptions(req); err != nil {
		return nil, err
	}

	question.QuestionType = req.QuestionType
	question.Text = req.Text
	question.TextAr = req.TextAr
	question.Points = req.Points
	question.TimeLimitSeconds = req.TimeLimitSeconds
	if req.OrderIndex > 0 {
		question.OrderIndex = req.OrderIndex
	}

	if err := s.questionRepo.Update(question); err != nil {
		return nil, err
	}

	options := make([]domain.QuestionOption, len(req.Options))
	for i, opt := range req.Options {
		options[i] = domain.QuestionOption{
			Text:       opt.Text,
			TextAr:     opt.TextAr,
			OrderIndex: i,
			IsCorrect:  opt.IsCorrect,
		}
	}
	if len(options) > 0 {
		if err := s.questionRepo.ReplaceOptions(questionID, options); err != nil {
			return nil, err
		}
	}

	return s.questionRepo.FindByID(questionID)
}

// DeleteQuestion removes a question. Locked once the competition has attempts
func (s *QuestionService) DeleteQuestion(ctx context.Context, questionID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "QuestionService.DeleteQuestion")
	defer span.End()

	span.SetAttributes(attribute.String("question.id", questionID.String()))

	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return err
	}

	attemptCount, err := s.competitionRepo.CountAttempts(question.CompetitionID)
	if err != nil {
		return err
	}
	if attemptCount > 0 {
		return domain.ErrCompetitionLocked
	}

	return s.questionRepo.Delete(questionID)
}

// validateOptions enforces the MCQ shape: at least two options with exactly
// one flagged correct. Descriptive questions must not carry options
func validateOptions(req *domain.CreateQuestionRequest) error {
	switch req.QuestionType {
	case domain.QuestionTypeMCQ:
		if len(req.Options) < 2 {
			return domain.ErrInvalidOptions
		}
		correct := 0
		for _, opt := range req.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return domain.ErrInvalidOptions
		}
	case domain.QuestionTypeDescriptive:
		if len(req.Options) > 0 {
			return domain.ErrInvalidOptions
		}
	default:
		return domain.ErrInvalidQuestionType
	}
	return nil
}
