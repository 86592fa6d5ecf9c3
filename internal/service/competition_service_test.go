package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quiz-platform/backend/internal/domain"
)

func stringPointer(v string) *string {
	return &v
}

func timePointer(v time.Time) *time.Time {
	return &v
}

func newCompetitionService() (*CompetitionService, *fakeCompetitionRepo, *fakeAttemptRepo, *fakeNotificationRepo) {
	competitionRepo := newFakeCompetitionRepo()
	attemptRepo := newFakeAttemptRepo()
	notificationRepo := newFakeNotificationRepo()
	svc := NewCompetitionService(competitionRepo, attemptRepo, notificationRepo, testTracer(), testLogger())
	return svc, competitionRepo, attemptRepo, notificationRepo
}

func createTestCompetition(t *testing.T, svc *CompetitionService) *domain.Competition {
	t.Helper()
	now := time.Now()
	competition, err := svc.CreateCompetition(context.Background(), uuid.New(), &domain.CreateCompetitionRequest{
		Title:     "Weekly Challenge",
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateCompetition returned error: %v", err)
	}
	return competition
}

func TestCreateCompetitionStartsAsDraft(t *testing.T) {
	svc, _, _, _ := newCompetitionService()

	competition := createTestCompetition(t, svc)
	if competition.Status != domain.CompetitionStatusDraft {
		t.Fatalf("status = %s, want draft", competition.Status)
	}
	if competition.QuestionsPerPage != 1 {
		t.Fatalf("QuestionsPerPage = %d, want default 1", competition.QuestionsPerPage)
	}
}

func TestStatusTransitionsFollowLifecycle(t *testing.T) {
	svc, competitionRepo, _, _ := newCompetitionService()
	competition := createTestCompetition(t, svc)
	ctx := context.Background()

	if err := svc.Publish(ctx, competition.ID); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if err := svc.Activate(ctx, competition.ID); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}
	if err := svc.Complete(ctx, competition.ID); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	stored, _ := competitionRepo.FindByID(competition.ID)
	if stored.Status != domain.CompetitionStatusCompleted {
		t.Fatalf("status = %s, want completed", stored.Status)
	}

	// Completed is terminal
	if err := svc.Cancel(ctx, competition.ID); err != domain.ErrInvalidStatusTransition {
		t.Fatalf("Cancel on completed err = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestPublishSkippingDraftFails(t *testing.T) {
	svc, _, _, _ := newCompetitionService()
	competition := createTestCompetition(t, svc)
	ctx := context.Background()

	// Activate requires published first
	if err := svc.Activate(ctx, competition.ID); err != domain.ErrInvalidStatusTransition {
		t.Fatalf("Activate on draft err = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestUpdateCompetitionLockedAfterAttempts(t *testing.T) {
	svc, competitionRepo, _, _ := newCompetitionService()
	competition := createTestCompetition(t, svc)

	competitionRepo.attemptCounts[competition.ID] = 1

	_, err := svc.UpdateCompetition(context.Background(), competition.ID, &domain.UpdateCompetitionRequest{
		Title: stringPointer("Renamed"),
	})
	if err != domain.ErrCompetitionLocked {
		t.Fatalf("err = %v, want ErrCompetitionLocked", err)
	}
}

func TestUpdateCompetitionRejectsInvertedDates(t *testing.T) {
	svc, _, _, _ := newCompetitionService()
	competition := createTestCompetition(t, svc)

	_, err := svc.UpdateCompetition(context.Background(), competition.ID, &domain.UpdateCompetitionRequest{
		EndDate: timePointer(competition.StartDate.Add(-time.Hour)),
	})
	if err != domain.ErrBadRequest {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestDeleteCompetitionOnlyWhenDraft(t *testing.T) {
	svc, _, _, _ := newCompetitionService()
	competition := createTestCompetition(t, svc)
	ctx := context.Background()

	if err := svc.Publish(ctx, competition.ID); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if err := svc.DeleteCompetition(ctx, competition.ID); err != domain.ErrCompetitionLocked {
		t.Fatalf("delete published err = %v, want ErrCompetitionLocked", err)
	}
}

func TestDeclareResultsNotifiesScoredParticipants(t *testing.T) {
	svc, competitionRepo, attemptRepo, notificationRepo := newCompetitionService()
	competition := createTestCompetition(t, svc)
	ctx := context.Background()

	if err := svc.Publish(ctx, competition.ID); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if err := svc.Activate(ctx, competition.ID); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}
	if err := svc.Complete(ctx, competition.ID); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	submittedUser := uuid.New()
	abandonedUser := uuid.New()
	for _, seed := range []struct {
		userID uuid.UUID
		status domain.AttemptStatus
	}{
		{submittedUser, domain.AttemptStatusSubmitted},
		{abandonedUser, domain.AttemptStatusAbandoned},
	} {
		attempt := &domain.QuizAttempt{
			UserID:        seed.userID,
			CompetitionID: competition.ID,
			StartTime:     time.Now().Add(-time.Hour),
			Status:        seed.status,
		}
		if err := attemptRepo.Create(attempt); err != nil {
			t.Fatalf("create attempt: %v", err)
		}
	}

	if err := svc.DeclareResults(ctx, competition.ID); err != nil {
		t.Fatalf("DeclareResults returned error: %v", err)
	}

	stored, _ := competitionRepo.FindByID(competition.ID)
	if !stored.ResultsDeclared || stored.ResultsDeclaredAt == nil {
		t.Fatalf("results not marked declared")
	}

	// Only the scored attempt gets a result notification
	submitted, _ := notificationRepo.FindByUserID(submittedUser)
	if len(submitted) != 1 || submitted[0].Type != domain.NotificationTypeResult {
		t.Fatalf("submitted user notifications = %v, want one result notification", submitted)
	}
	abandoned, _ := notificationRepo.FindByUserID(abandonedUser)
	if len(abandoned) != 0 {
		t.Fatalf("abandoned user got %d notifications, want 0", len(abandoned))
	}
}

func TestDeclareResultsRequiresCompleted(t *testing.T) {
	svc, _, _, _ := newCompetitionService()
	competition := createTestCompetition(t, svc)

	if err := svc.DeclareResults(context.Background(), competition.ID); err != domain.ErrInvalidStatusTransition {
		t.Fatalf("err = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestGetOpenCompetitionsFiltersByStatus(t *testing.T) {
	svc, _, _, _ := newCompetitionService()
	ctx := context.Background()

	draft := createTestCompetition(t, svc)
	published := createTestCompetition(t, svc)
	if err := svc.Publish(ctx, published.ID); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	open, err := svc.GetOpenCompetitions(ctx)
	if err != nil {
		t.Fatalf("GetOpenCompetitions returned error: %v", err)
	}
	if len(open) != 1 || open[0].ID != published.ID {
		t.Fatalf("open competitions = %d, want only the published one", len(open))
	}
	_ = draft
}
