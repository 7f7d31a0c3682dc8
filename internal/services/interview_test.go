package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
	"hireflow/ats-platform/internal/testutil"
)

type interviewFixture struct {
	svc        InterviewService
	repo       repositories.InterviewRepository
	notifier   *recordingNotifier
	orgID      uuid.UUID
	recruiter  uuid.UUID
	questionID uuid.UUID
}

func newInterviewFixture(t *testing.T, analyzer InterviewAnalyzer) *interviewFixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &interviewFixture{
		repo:      repositories.NewInterviewRepository(db),
		notifier:  &recordingNotifier{},
		orgID:     uuid.New(),
		recruiter: uuid.New(),
	}
	f.svc = NewInterviewService(
		f.repo,
		repositories.NewJobMatchRepository(db),
		repositories.NewInterviewTemplateRepository(db),
		repositories.NewJobRepository(db),
		repositories.NewResumeRepository(db),
		analyzer,
		f.notifier,
		zap.NewNop(),
	)
	return f
}

func (f *interviewFixture) seed(t *testing.T, status models.InterviewStatus, expiresAt time.Time) string {
	t.Helper()

	f.questionID = uuid.New()
	token := uuid.NewString()
	interview := &models.Interview{
		OrganizationID: f.orgID,
		CandidateID:    uuid.New(),
		InvitedBy:      f.recruiter,
		Status:         status,
		AccessToken:    token,
		ExpiresAt:      expiresAt,
		Questions: []models.InterviewQuestion{
			{ID: f.questionID, Position: 0, QuestionText: "Tell us about a hard bug.", QuestionType: models.QuestionBehavioral},
			{ID: uuid.New(), Position: 1, QuestionText: "Explain Go interfaces.", QuestionType: models.QuestionTechnical},
		},
	}
	if err := f.repo.Create(context.Background(), interview); err != nil {
		t.Fatalf("create interview error: %v", err)
	}
	return token
}

func TestStartExpiredInvitationPersistsExpiry(t *testing.T) {
	t.Parallel()

	f := newInterviewFixture(t, &stubInterviewAnalyzer{err: errStubAI})
	token := f.seed(t, models.InterviewInvited, time.Now().Add(-time.Hour))

	if _, err := f.svc.Start(context.Background(), token); !errors.Is(err, apperr.ErrExpired) {
		t.Fatalf("expected expired error, got %v", err)
	}

	stored, err := f.repo.FindByToken(context.Background(), token)
	if err != nil {
		t.Fatalf("FindByToken error: %v", err)
	}
	if stored.Status != models.InterviewExpired {
		t.Fatalf("expected stored status expired, got %s", stored.Status)
	}

	if _, err := f.svc.GetByToken(context.Background(), token); !errors.Is(err, apperr.ErrExpired) {
		t.Fatalf("expected GetByToken to report expiry, got %v", err)
	}
}

func TestStartHidesScoresFromCandidate(t *testing.T) {
	t.Parallel()

	f := newInterviewFixture(t, &stubInterviewAnalyzer{err: errStubAI})
	token := f.seed(t, models.InterviewInvited, time.Now().Add(time.Hour))

	view, err := f.svc.Start(context.Background(), token)
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if view.Status != models.InterviewInProgress {
		t.Fatalf("expected in_progress, got %s", view.Status)
	}
	if len(view.Questions) != 2 || view.Questions[0].ID != f.questionID {
		t.Fatalf("expected ordered questions, got %+v", view.Questions)
	}

	if _, err := f.svc.Start(context.Background(), token); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected second start to be rejected, got %v", err)
	}
}

func TestAnswerAndCompleteUseFallbackScoring(t *testing.T) {
	t.Parallel()

	f := newInterviewFixture(t, &stubInterviewAnalyzer{err: errStubAI})
	token := f.seed(t, models.InterviewInProgress, time.Now().Add(time.Hour))
	ctx := context.Background()

	resp, err := f.svc.SubmitAnswer(ctx, token, models.AnswerRequest{
		QuestionID: f.questionID,
		Answer:     "I bisected the release and found a data race.",
		TimeSpent:  90,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer error: %v", err)
	}
	if resp.Score != 70 {
		t.Fatalf("expected fallback answer score 70, got %d", resp.Score)
	}

	done, err := f.svc.Complete(ctx, token)
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if done.OverallScore == nil || *done.OverallScore != 70 {
		t.Fatalf("expected overall score 70, got %v", done.OverallScore)
	}
	if done.Recommendation != models.RecommendYes {
		t.Fatalf("expected yes recommendation, got %s", done.Recommendation)
	}
	if f.notifier.completed != 1 {
		t.Fatalf("expected completion notification, got %d", f.notifier.completed)
	}

	if _, err := f.svc.SubmitAnswer(ctx, token, models.AnswerRequest{QuestionID: f.questionID, Answer: "late"}); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected answers to be refused after completion, got %v", err)
	}
}

func TestAnswerUsesAIScore(t *testing.T) {
	t.Parallel()

	f := newInterviewFixture(t, &stubInterviewAnalyzer{
		answer: &models.AnswerAnalysis{Score: 84.6, Sentiment: models.SentimentPositive, Confidence: 0.8, Feedback: "Clear"},
	})
	token := f.seed(t, models.InterviewInProgress, time.Now().Add(time.Hour))

	resp, err := f.svc.SubmitAnswer(context.Background(), token, models.AnswerRequest{
		QuestionID: f.questionID,
		Answer:     "Interfaces are satisfied implicitly.",
	})
	if err != nil {
		t.Fatalf("SubmitAnswer error: %v", err)
	}
	if resp.Score != 85 || resp.Feedback != "Clear" {
		t.Fatalf("expected rounded AI score 85, got %+v", resp)
	}
}

func TestAnswerRejectsUnknownQuestion(t *testing.T) {
	t.Parallel()

	f := newInterviewFixture(t, &stubInterviewAnalyzer{err: errStubAI})
	token := f.seed(t, models.InterviewInProgress, time.Now().Add(time.Hour))

	_, err := f.svc.SubmitAnswer(context.Background(), token, models.AnswerRequest{QuestionID: uuid.New(), Answer: "hi"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCompleteWithoutAnswers(t *testing.T) {
	t.Parallel()

	f := newInterviewFixture(t, &stubInterviewAnalyzer{err: errStubAI})
	token := f.seed(t, models.InterviewInProgress, time.Now().Add(time.Hour))

	done, err := f.svc.Complete(context.Background(), token)
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if done.OverallScore == nil || *done.OverallScore != 0 {
		t.Fatalf("expected overall score 0, got %v", done.OverallScore)
	}
	if done.Recommendation != models.RecommendNo {
		t.Fatalf("expected no recommendation, got %s", done.Recommendation)
	}
}

func TestFeedbackRequiresCompletedInterview(t *testing.T) {
	t.Parallel()

	f := newInterviewFixture(t, &stubInterviewAnalyzer{err: errStubAI})
	f.seed(t, models.InterviewInProgress, time.Now().Add(time.Hour))
	caller := recruiterCaller(f.orgID, f.recruiter)

	list, total, err := f.svc.List(context.Background(), caller, "", models.PageQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 interview, got %d", total)
	}

	_, err = f.svc.SubmitFeedback(context.Background(), caller, list[0].ID, models.FeedbackRequest{Rating: 4})
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}

	_, err = f.svc.SubmitFeedback(context.Background(), caller, list[0].ID, models.FeedbackRequest{Rating: 9})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for rating, got %v", err)
	}
}

func TestRecruiterCannotSeeOthersInterviews(t *testing.T) {
	t.Parallel()

	f := newInterviewFixture(t, &stubInterviewAnalyzer{err: errStubAI})
	f.seed(t, models.InterviewInvited, time.Now().Add(time.Hour))

	_, total, err := f.svc.List(context.Background(), recruiterCaller(f.orgID, uuid.New()), "", models.PageQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no interviews for another recruiter, got %d", total)
	}
}

func TestCancelInvitedInterview(t *testing.T) {
	t.Parallel()

	f := newInterviewFixture(t, &stubInterviewAnalyzer{err: errStubAI})
	token := f.seed(t, models.InterviewInvited, time.Now().Add(time.Hour))
	caller := recruiterCaller(f.orgID, f.recruiter)

	stored, err := f.repo.FindByToken(context.Background(), token)
	if err != nil {
		t.Fatalf("FindByToken error: %v", err)
	}
	if err := f.svc.Cancel(context.Background(), caller, stored.ID); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if err := f.svc.Cancel(context.Background(), caller, stored.ID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected second cancel to fail, got %v", err)
	}

	status, err := f.svc.Status(context.Background(), token)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if status.Status != models.InterviewCancelled {
		t.Fatalf("expected cancelled, got %s", status.Status)
	}
}
