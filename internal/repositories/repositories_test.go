package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/testutil"
)

func TestMatchingConfigFirstOrCreateIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := NewMatchingConfigRepository(testutil.NewDB(t))
	ctx := context.Background()
	orgID := uuid.New()

	first, err := repo.FirstOrCreate(ctx, models.DefaultMatchingConfig(orgID))
	if err != nil {
		t.Fatalf("FirstOrCreate error: %v", err)
	}

	first.Thresholds.MinimumMatchScore = 65
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	second, err := repo.FirstOrCreate(ctx, models.DefaultMatchingConfig(orgID))
	if err != nil {
		t.Fatalf("FirstOrCreate error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing config %s, got %s", first.ID, second.ID)
	}
	if second.Thresholds.MinimumMatchScore != 65 {
		t.Fatalf("expected stored minimum 65, got %v", second.Thresholds.MinimumMatchScore)
	}
	if !second.AIEnabled || !second.AutoMatchingEnabled || !second.NotifyOnStrongMatch {
		t.Fatalf("expected default flags to be true, got %+v", second)
	}
}

func TestMatchingConfigSaveRejectsBadWeights(t *testing.T) {
	t.Parallel()

	repo := NewMatchingConfigRepository(testutil.NewDB(t))
	ctx := context.Background()
	orgID := uuid.New()

	cfg, err := repo.FirstOrCreate(ctx, models.DefaultMatchingConfig(orgID))
	if err != nil {
		t.Fatalf("FirstOrCreate error: %v", err)
	}

	cfg.Weights.SkillMatch = 0.6
	if err := repo.Save(ctx, cfg); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	stored, err := repo.FindByOrganization(ctx, orgID)
	if err != nil {
		t.Fatalf("FindByOrganization error: %v", err)
	}
	if stored.Weights.SkillMatch != 0.4 {
		t.Fatalf("rejected save must not persist, got skill weight %v", stored.Weights.SkillMatch)
	}
}

func newInterview(orgID uuid.UUID, expiresAt time.Time) *models.Interview {
	return &models.Interview{
		OrganizationID: orgID,
		CandidateID:    uuid.New(),
		InvitedBy:      uuid.New(),
		AccessToken:    uuid.NewString(),
		ExpiresAt:      expiresAt,
		Questions: []models.InterviewQuestion{
			{Position: 2, QuestionText: "Second", QuestionType: models.QuestionBehavioral},
			{Position: 1, QuestionText: "First", QuestionType: models.QuestionTechnical},
		},
	}
}

func TestInterviewTransitionIsConditional(t *testing.T) {
	t.Parallel()

	repo := NewInterviewRepository(testutil.NewDB(t))
	ctx := context.Background()
	orgID := uuid.New()

	interview := newInterview(orgID, time.Now().Add(time.Hour))
	if err := repo.Create(ctx, interview); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	loaded, err := repo.FindByToken(ctx, interview.AccessToken)
	if err != nil {
		t.Fatalf("FindByToken error: %v", err)
	}
	if loaded.Status != models.InterviewInvited {
		t.Fatalf("expected invited, got %s", loaded.Status)
	}
	if len(loaded.Questions) != 2 || loaded.Questions[0].QuestionText != "First" {
		t.Fatalf("expected questions ordered by position, got %+v", loaded.Questions)
	}

	from := []models.InterviewStatus{models.InterviewInvited}
	if err := repo.Transition(ctx, interview.ID, from, models.InterviewInProgress, nil); err != nil {
		t.Fatalf("first Transition error: %v", err)
	}
	err = repo.Transition(ctx, interview.ID, from, models.InterviewInProgress, nil)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second transition, got %v", err)
	}
}

func TestInterviewSaveAnswerRequiresInProgress(t *testing.T) {
	t.Parallel()

	repo := NewInterviewRepository(testutil.NewDB(t))
	ctx := context.Background()

	interview := newInterview(uuid.New(), time.Now().Add(time.Hour))
	if err := repo.Create(ctx, interview); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	answer := "Goroutines and channels"
	score := 80
	q := interview.Questions[0]
	q.Answer = &answer
	q.AIScore = &score

	if err := repo.SaveAnswer(ctx, interview.ID, &q); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState while invited, got %v", err)
	}

	from := []models.InterviewStatus{models.InterviewInvited}
	if err := repo.Transition(ctx, interview.ID, from, models.InterviewInProgress, nil); err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if err := repo.SaveAnswer(ctx, interview.ID, &q); err != nil {
		t.Fatalf("SaveAnswer error: %v", err)
	}

	loaded, err := repo.FindByToken(ctx, interview.AccessToken)
	if err != nil {
		t.Fatalf("FindByToken error: %v", err)
	}
	var found bool
	for _, stored := range loaded.Questions {
		if stored.ID == q.ID {
			found = true
			if !stored.Answered() || stored.AIScore == nil || *stored.AIScore != 80 {
				t.Fatalf("answer not stored: %+v", stored)
			}
		}
	}
	if !found {
		t.Fatalf("question %s not found", q.ID)
	}
}

func TestInterviewExpireOverdue(t *testing.T) {
	t.Parallel()

	repo := NewInterviewRepository(testutil.NewDB(t))
	ctx := context.Background()
	orgID := uuid.New()
	now := time.Now()

	overdue := newInterview(orgID, now.Add(-time.Hour))
	fresh := newInterview(orgID, now.Add(time.Hour))
	for _, iv := range []*models.Interview{overdue, fresh} {
		if err := repo.Create(ctx, iv); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	n, err := repo.ExpireOverdue(ctx, now)
	if err != nil {
		t.Fatalf("ExpireOverdue error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expired interview, got %d", n)
	}

	got, err := repo.FindByID(ctx, orgID, overdue.ID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if got.Status != models.InterviewExpired {
		t.Fatalf("expected expired, got %s", got.Status)
	}

	if _, err := repo.FindByID(ctx, uuid.New(), fresh.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected tenant-scoped lookup to miss, got %v", err)
	}
}

func TestJobMatchListByJobSortedByScore(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewJobMatchRepository(db)
	resumes := NewResumeRepository(db)
	ctx := context.Background()
	orgID := uuid.New()
	jobID := uuid.New()

	resume := &models.Resume{
		OrganizationID: orgID,
		UploadedBy:     uuid.New(),
		CandidateInfo:  datatypes.NewJSONType(models.CandidateInfo{Name: "Ada", Email: "ada@example.com"}),
	}
	if err := resumes.Create(ctx, resume); err != nil {
		t.Fatalf("Create resume error: %v", err)
	}

	for _, score := range []int{40, 90, 65} {
		m := &models.JobMatch{
			JobID:          jobID,
			CandidateID:    resume.ID,
			OrganizationID: orgID,
			MatchScore:     score,
			AnalysisSource: models.SourceFallback,
		}
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("Create match error: %v", err)
		}
	}

	matches, err := repo.ListByJob(ctx, orgID, jobID)
	if err != nil {
		t.Fatalf("ListByJob error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].MatchScore != 90 || matches[2].MatchScore != 40 {
		t.Fatalf("expected descending scores, got %d,%d,%d", matches[0].MatchScore, matches[1].MatchScore, matches[2].MatchScore)
	}
	if matches[0].Candidate == nil || matches[0].Candidate.CandidateInfo.Data().Name != "Ada" {
		t.Fatalf("expected candidate preloaded, got %+v", matches[0].Candidate)
	}
	if matches[0].RecruiterReview.Status != models.ReviewPending {
		t.Fatalf("expected pending review default, got %s", matches[0].RecruiterReview.Status)
	}
}

func TestNotificationsAreScopedToUser(t *testing.T) {
	t.Parallel()

	repo := NewNotificationRepository(testutil.NewDB(t))
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	n := &models.Notification{
		UserID:  owner,
		Type:    models.NotificationMatchFound,
		Title:   "Strong match",
		Message: "A candidate scored 91",
	}
	if err := repo.Create(ctx, n); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := repo.MarkRead(ctx, other, n.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}
	if err := repo.Delete(ctx, other, n.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}

	count, err := repo.CountUnread(ctx, owner)
	if err != nil {
		t.Fatalf("CountUnread error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 unread, got %d", count)
	}

	if err := repo.MarkRead(ctx, owner, n.ID); err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}
	unread, err := repo.ListForUser(ctx, owner, 20, true)
	if err != nil {
		t.Fatalf("ListForUser error: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("expected no unread notifications, got %d", len(unread))
	}
}

func TestAnalyticsCountBy(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	resumes := NewResumeRepository(db)
	analytics := NewAnalyticsRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	for _, status := range []models.ResumeStatus{models.ResumeNew, models.ResumeNew, models.ResumeMatched} {
		r := &models.Resume{OrganizationID: orgID, UploadedBy: uuid.New(), Status: status}
		if err := resumes.Create(ctx, r); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}
	if err := resumes.Create(ctx, &models.Resume{OrganizationID: uuid.New(), UploadedBy: uuid.New()}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	rows, err := analytics.CountBy(ctx, &models.Resume{}, "status", Scope{OrganizationID: &orgID})
	if err != nil {
		t.Fatalf("CountBy error: %v", err)
	}
	if len(rows) != 2 || rows[0].Key != "new" || rows[0].Count != 2 {
		t.Fatalf("unexpected grouping: %+v", rows)
	}

	total, err := analytics.Count(ctx, &models.Resume{}, Scope{OrganizationID: &orgID})
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 resumes in org, got %d", total)
	}
}
