package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quiz-platform/backend/internal/domain"
)

func newQuestionService(t *testing.T) (*QuestionService, *fakeCompetitionRepo, *fakeQuestionRepo, uuid.UUID) {
	t.Helper()
	competitionRepo := newFakeCompetitionRepo()
	questionRepo := newFakeQuestionRepo()

	now := time.Now()
	competition := &domain.Competition{
		Title:     "Question Fixture",
		StartDate: now,
		EndDate:   now.Add(24 * time.Hour),
		Status:    domain.CompetitionStatusDraft,
	}
	if err := competitionRepo.Create(competition); err != nil {
		t.Fatalf("create competition: %v", err)
	}

	svc := NewQuestionService(questionRepo, competitionRepo, testTracer(), testLogger())
	return svc, competitionRepo, questionRepo, competition.ID
}

func mcqRequest() *domain.CreateQuestionRequest {
	return &domain.CreateQuestionRequest{
		QuestionType: domain.QuestionTypeMCQ,
		Text:         "Pick one",
		Points:       1,
		Options: []domain.CreateOptionRequest{
			{Text: "right", IsCorrect: true},
			{Text: "wrong"},
		},
	}
}

func TestAddQuestionAssignsOrderIndex(t *testing.T) {
	svc, _, _, competitionID := newQuestionService(t)
	ctx := context.Background()

	first, err := svc.AddQuestion(ctx, competitionID, mcqRequest())
	if err != nil {
		t.Fatalf("AddQuestion returned error: %v", err)
	}
	second, err := svc.AddQuestion(ctx, competitionID, mcqRequest())
	if err != nil {
		t.Fatalf("AddQuestion returned error: %v", err)
	}

	if first.OrderIndex != 1 || second.OrderIndex != 2 {
		t.Fatalf("order indexes = %d, %d, want 1, 2", first.OrderIndex, second.OrderIndex)
	}
}

func TestAddQuestionValidatesMCQOptions(t *testing.T) {
	svc, _, _, competitionID := newQuestionService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*domain.CreateQuestionRequest)
		wantErr error
	}{
		{
			name: "single option",
			mutate: func(req *domain.CreateQuestionRequest) {
				req.Options = req.Options[:1]
			},
			wantErr: domain.ErrInvalidOptions,
		},
		{
			name: "no correct option",
			mutate: func(req *domain.CreateQuestionRequest) {
				req.Options[0].IsCorrect = false
			},
			wantErr: domain.ErrInvalidOptions,
		},
		{
			name: "two correct options",
			mutate: func(req *domain.CreateQuestionRequest) {
				req.Options[1].IsCorrect = true
			},
			wantErr: domain.ErrInvalidOptions,
		},
		{
			name: "descriptive with options",
			mutate: func(req *domain.CreateQuestionRequest) {
				req.QuestionType = domain.QuestionTypeDescriptive
			},
			wantErr: domain.ErrInvalidOptions,
		},
		{
			name: "unknown type",
			mutate: func(req *domain.CreateQuestionRequest) {
				req.QuestionType = "essay"
				req.Options = nil
			},
			wantErr: domain.ErrInvalidQuestionType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := mcqRequest()
			tc.mutate(req)
			if _, err := svc.AddQuestion(ctx, competitionID, req); err != tc.wantErr {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestAddDescriptiveQuestionWithoutOptions(t *testing.T) {
	svc, _, _, competitionID := newQuestionService(t)

	question, err := svc.AddQuestion(context.Background(), competitionID, &domain.CreateQuestionRequest{
		QuestionType: domain.QuestionTypeDescriptive,
		Text:         "Explain",
		Points:       5,
	})
	if err != nil {
		t.Fatalf("AddQuestion returned error: %v", err)
	}
	if len(question.Options) != 0 {
		t.Fatalf("descriptive question has %d options, want 0", len(question.Options))
	}
}

func TestQuestionMutationsLockedAfterAttempts(t *testing.T) {
	svc, competitionRepo, _, competitionID := newQuestionService(t)
	ctx := context.Background()

	question, err := svc.AddQuestion(ctx, competitionID, mcqRequest())
	if err != nil {
		t.Fatalf("AddQuestion returned error: %v", err)
	}

	competitionRepo.attemptCounts[competitionID] = 1

	if _, err := svc.AddQuestion(ctx, competitionID, mcqRequest()); err != domain.ErrCompetitionLocked {
		t.Fatalf("AddQuestion err = %v, want ErrCompetitionLocked", err)
	}
	if _, err := svc.UpdateQuestion(ctx, question.ID, mcqRequest()); err != domain.ErrCompetitionLocked {
		t.Fatalf("UpdateQuestion err = %v, want ErrCompetitionLocked", err)
	}
	if err := svc.DeleteQuestion(ctx, question.ID); err != domain.ErrCompetitionLocked {
		t.Fatalf("DeleteQuestion err = %v, want ErrCompetitionLocked", err)
	}
}

func TestUpdateQuestionReplacesOptions(t *testing.T) {
	svc, _, questionRepo, competitionID := newQuestionService(t)
	ctx := context.Background()

	question, err := svc.AddQuestion(ctx, competitionID, mcqRequest())
	if err != nil {
		t.Fatalf("AddQuestion returned error: %v", err)
	}

	update := mcqRequest()
	update.Text = "Pick another"
	update.Options = []domain.CreateOptionRequest{
		{Text: "alpha"},
		{Text: "beta", IsCorrect: true},
		{Text: "gamma"},
	}

	updated, err := svc.UpdateQuestion(ctx, question.ID, update)
	if err != nil {
		t.Fatalf("UpdateQuestion returned error: %v", err)
	}
	if updated.Text != "Pick another" {
		t.Fatalf("text = %q, want updated text", updated.Text)
	}

	stored, _ := questionRepo.FindByID(question.ID)
	if len(stored.Options) != 3 {
		t.Fatalf("stored options = %d, want 3", len(stored.Options))
	}
	if correct := stored.CorrectOption(); correct == nil || correct.Text != "beta" {
		t.Fatalf("correct option = %v, want beta", correct)
	}
}

func TestAddQuestionUnknownCompetition(t *testing.T) {
	svc, _, _, _ := newQuestionService(t)

	if _, err := svc.AddQuestion(context.Background(), uuid.New(), mcqRequest()); err != domain.ErrCompetitionNotFound {
		t.Fatalf("err = %v, want ErrCompetitionNotFound", err)
	}
}
