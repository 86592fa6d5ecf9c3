package service

import (
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/quiz-platform/backend/internal/domain"
)

func testTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("test")
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// fakeAttemptRepo is an in-memory AttemptRepository
type fakeAttemptRepo struct {
	attempts map[uuid.UUID]*domain.QuizAttempt
	answers  map[uuid.UUID]map[uuid.UUID]*domain.UserAnswer // attemptID -> questionID -> answer
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{
		attempts: make(map[uuid.UUID]*domain.QuizAttempt),
		answers:  make(map[uuid.UUID]map[uuid.UUID]*domain.UserAnswer),
	}
}

func (r *fakeAttemptRepo) Create(attempt *domain.QuizAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	copied := *attempt
	r.attempts[attempt.ID] = &copied
	return nil
}

func (r *fakeAttemptRepo) FindByID(id uuid.UUID) (*domain.QuizAttempt, error) {
	attempt, ok := r.attempts[id]
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	copied := *attempt
	return &copied, nil
}

func (r *fakeAttemptRepo) FindInProgress(userID, competitionID uuid.UUID) (*domain.QuizAttempt, error) {
	for _, attempt := range r.attempts {
		if attempt.UserID == userID && attempt.CompetitionID == competitionID &&
			attempt.Status == domain.AttemptStatusInProgress {
			copied := *attempt
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAttemptRepo) FindByUserAndStatus(userID uuid.UUID, statuses ...domain.AttemptStatus) ([]domain.QuizAttempt, error) {
	var result []domain.QuizAttempt
	for _, attempt := range r.attempts {
		if attempt.UserID != userID {
			continue
		}
		for _, status := range statuses {
			if attempt.Status == status {
				result = append(result, *attempt)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeAttemptRepo) FindByCompetitionAndStatus(competitionID uuid.UUID, statuses ...domain.AttemptStatus) ([]domain.QuizAttempt, error) {
	var result []domain.QuizAttempt
	for _, attempt := range r.attempts {
		if attempt.CompetitionID != competitionID {
			continue
		}
		for _, status := range statuses {
			if attempt.Status == status {
				result = append(result, *attempt)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeAttemptRepo) Update(attempt *domain.QuizAttempt) error {
	if _, ok := r.attempts[attempt.ID]; !ok {
		return domain.ErrAttemptNotFound
	}
	copied := *attempt
	r.attempts[attempt.ID] = &copied
	return nil
}

func (r *fakeAttemptRepo) UpsertAnswer(answer *domain.UserAnswer) error {
	byQuestion, ok := r.answers[answer.AttemptID]
	if !ok {
		byQuestion = make(map[uuid.UUID]*domain.UserAnswer)
		r.answers[answer.AttemptID] = byQuestion
	}
	if answer.ID == uuid.Nil {
		answer.ID = uuid.New()
	}
	copied := *answer
	byQuestion[answer.QuestionID] = &copied
	return nil
}

func (r *fakeAttemptRepo) FindAnswers(attemptID uuid.UUID) ([]domain.UserAnswer, error) {
	var result []domain.UserAnswer
	for _, answer := range r.answers[attemptID] {
		result = append(result, *answer)
	}
	return result, nil
}

func (r *fakeAttemptRepo) CountAnswers(attemptID uuid.UUID) (int64, error) {
	return int64(len(r.answers[attemptID])), nil
}

func (r *fakeAttemptRepo) Finalize(attempt *domain.QuizAttempt, answers []domain.UserAnswer) error {
	stored, ok := r.attempts[attempt.ID]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	if stored.Status != domain.AttemptStatusInProgress {
		return domain.ErrAttemptAlreadyFinalized
	}
	copied := *attempt
	r.attempts[attempt.ID] = &copied
	for i := range answers {
		if byQuestion, ok := r.answers[attempt.ID]; ok {
			graded := answers[i]
			byQuestion[graded.QuestionID] = &graded
		}
	}
	return nil
}

func (r *fakeAttemptRepo) Count() (int64, error) {
	return int64(len(r.attempts)), nil
}

func (r *fakeAttemptRepo) AggregateByCompetition() ([]domain.CompetitionAggregate, error) {
	byCompetition := make(map[uuid.UUID]*domain.CompetitionAggregate)
	sums := make(map[uuid.UUID]float64)
	for _, attempt := range r.attempts {
		agg, ok := byCompetition[attempt.CompetitionID]
		if !ok {
			agg = &domain.CompetitionAggregate{CompetitionID: attempt.CompetitionID}
			byCompetition[attempt.CompetitionID] = agg
		}
		agg.Attempts++
		sums[attempt.CompetitionID] += attempt.PercentageScore
	}
	var result []domain.CompetitionAggregate
	for id, agg := range byCompetition {
		agg.AveragePercentage = sums[id] / float64(agg.Attempts)
		result = append(result, *agg)
	}
	return result, nil
}

// fakeCompetitionRepo is an in-memory CompetitionRepository
type fakeCompetitionRepo struct {
	competitions  map[uuid.UUID]*domain.Competition
	attemptCounts map[uuid.UUID]int64
}

func newFakeCompetitionRepo() *fakeCompetitionRepo {
	return &fakeCompetitionRepo{
		competitions:  make(map[uuid.UUID]*domain.Competition),
		attemptCounts: make(map[uuid.UUID]int64),
	}
}

func (r *fakeCompetitionRepo) Create(competition *domain.Competition) error {
	if competition.ID == uuid.Nil {
		competition.ID = uuid.New()
	}
	copied := *competition
	r.competitions[competition.ID] = &copied
	return nil
}

func (r *fakeCompetitionRepo) FindByID(id uuid.UUID) (*domain.Competition, error) {
	competition, ok := r.competitions[id]
	if !ok {
		return nil, domain.ErrCompetitionNotFound
	}
	copied := *competition
	return &copied, nil
}

func (r *fakeCompetitionRepo) FindByIDWithQuestions(id uuid.UUID) (*domain.Competition, error) {
	return r.FindByID(id)
}

func (r *fakeCompetitionRepo) FindByStatus(statuses ...domain.CompetitionStatus) ([]domain.Competition, error) {
	var result []domain.Competition
	for _, competition := range r.competitions {
		for _, status := range statuses {
			if competition.Status == status {
				result = append(result, *competition)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeCompetitionRepo) FindAll() ([]domain.Competition, error) {
	var result []domain.Competition
	for _, competition := range r.competitions {
		result = append(result, *competition)
	}
	return result, nil
}

func (r *fakeCompetitionRepo) Update(competition *domain.Competition) error {
	if _, ok := r.competitions[competition.ID]; !ok {
		return domain.ErrCompetitionNotFound
	}
	copied := *competition
	r.competitions[competition.ID] = &copied
	return nil
}

func (r *fakeCompetitionRepo) UpdateStatus(id uuid.UUID, from, to domain.CompetitionStatus) error {
	competition, ok := r.competitions[id]
	if !ok {
		return domain.ErrCompetitionNotFound
	}
	if competition.Status != from {
		return domain.ErrInvalidStatusTransition
	}
	competition.Status = to
	return nil
}

func (r *fakeCompetitionRepo) Delete(id uuid.UUID) error {
	if _, ok := r.competitions[id]; !ok {
		return domain.ErrCompetitionNotFound
	}
	delete(r.competitions, id)
	return nil
}

func (r *fakeCompetitionRepo) CountAttempts(id uuid.UUID) (int64, error) {
	return r.attemptCounts[id], nil
}

func (r *fakeCompetitionRepo) CountByStatus() (map[domain.CompetitionStatus]int64, error) {
	result := make(map[domain.CompetitionStatus]int64)
	for _, competition := range r.competitions {
		result[competition.Status]++
	}
	return result, nil
}

// fakeQuestionRepo is an in-memory QuestionRepository
type fakeQuestionRepo struct {
	questions map[uuid.UUID]*domain.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{
		questions: make(map[uuid.UUID]*domain.Question),
	}
}

func (r *fakeQuestionRepo) Create(question *domain.Question) error {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	for i := range question.Options {
		if question.Options[i].ID == uuid.Nil {
			question.Options[i].ID = uuid.New()
		}
		question.Options[i].QuestionID = question.ID
	}
	copied := *question
	r.questions[question.ID] = &copied
	return nil
}

func (r *fakeQuestionRepo) FindByID(id uuid.UUID) (*domain.Question, error) {
	question, ok := r.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	copied := *question
	return &copied, nil
}

func (r *fakeQuestionRepo) FindByCompetitionID(competitionID uuid.UUID) ([]domain.Question, error) {
	var result []domain.Question
	for _, question := range r.questions {
		if question.CompetitionID == competitionID {
			result = append(result, *question)
		}
	}
	sortQuestions(result)
	return result, nil
}

func (r *fakeQuestionRepo) FindActiveByCompetitionID(competitionID uuid.UUID) ([]domain.Question, error) {
	var result []domain.Question
	for _, question := range r.questions {
		if question.CompetitionID == competitionID && question.IsActive {
			result = append(result, *question)
		}
	}
	sortQuestions(result)
	return result, nil
}

func (r *fakeQuestionRepo) CountActiveByCompetitionID(competitionID uuid.UUID) (int64, error) {
	var count int64
	for _, question := range r.questions {
		if question.CompetitionID == competitionID && question.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeQuestionRepo) Update(question *domain.Question) error {
	if _, ok := r.questions[question.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	copied := *question
	r.questions[question.ID] = &copied
	return nil
}

func (r *fakeQuestionRepo) ReplaceOptions(questionID uuid.UUID, options []domain.QuestionOption) error {
	question, ok := r.questions[questionID]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	for i := range options {
		if options[i].ID == uuid.Nil {
			options[i].ID = uuid.New()
		}
		options[i].QuestionID = questionID
	}
	question.Options = options
	return nil
}

func (r *fakeQuestionRepo) Delete(id uuid.UUID) error {
	if _, ok := r.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(r.questions, id)
	return nil
}

func sortQuestions(questions []domain.Question) {
	for i := 1; i < len(questions); i++ {
		for j := i; j > 0 && questions[j-1].OrderIndex > questions[j].OrderIndex; j-- {
			questions[j-1], questions[j] = questions[j], questions[j-1]
		}
	}
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[uuid.UUID]*domain.User),
	}
}

func (r *fakeUserRepo) Create(user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) FindAllIDs() ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeUserRepo) Update(user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count() (int64, error) {
	return int64(len(r.users)), nil
}

// fakeNotificationRepo is an in-memory NotificationRepository
type fakeNotificationRepo struct {
	notifications map[uuid.UUID]*domain.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		notifications: make(map[uuid.UUID]*domain.Notification),
	}
}

func (r *fakeNotificationRepo) Create(notification *domain.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	copied := *notification
	r.notifications[notification.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) CreateBatch(notifications []domain.Notification) error {
	for i := range notifications {
		if err := r.Create(&notifications[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeNotificationRepo) FindByID(id uuid.UUID) (*domain.Notification, error) {
	notification, ok := r.notifications[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	copied := *notification
	return &copied, nil
}

func (r *fakeNotificationRepo) FindByUserID(userID uuid.UUID) ([]domain.Notification, error) {
	var result []domain.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			result = append(result, *notification)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) CountUnread(userID uuid.UUID) (int64, error) {
	var count int64
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(id, userID uuid.UUID) error {
	notification, ok := r.notifications[id]
	if !ok || notification.UserID != userID {
		return domain.ErrNotificationNotFound
	}
	notification.IsRead = true
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(userID uuid.UUID) error {
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			notification.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(id uuid.UUID) error {
	if _, ok := r.notifications[id]; !ok {
		return domain.ErrNotificationNotFound
	}
	delete(r.notifications, id)
	return nil
}
