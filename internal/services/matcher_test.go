package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
	"hireflow/ats-platform/internal/testutil"
)

type matchFixture struct {
	svc      MatchService
	analyzer *stubMatchAnalyzer
	notifier *recordingNotifier
	configs  MatchingConfigService
	jobs     repositories.JobRepository
	resumes  repositories.ResumeRepository
	orgID    uuid.UUID
	userID   uuid.UUID
}

func newMatchFixture(t *testing.T, analyzer *stubMatchAnalyzer) *matchFixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &matchFixture{
		analyzer: analyzer,
		notifier: &recordingNotifier{},
		configs:  NewMatchingConfigService(repositories.NewMatchingConfigRepository(db)),
		jobs:     repositories.NewJobRepository(db),
		resumes:  repositories.NewResumeRepository(db),
		orgID:    uuid.New(),
		userID:   uuid.New(),
	}
	f.svc = NewMatchService(
		f.jobs,
		f.resumes,
		repositories.NewJobMatchRepository(db),
		f.configs,
		analyzer,
		f.notifier,
		nil,
		nil,
		zap.NewNop(),
	)
	return f
}

func (f *matchFixture) caller() *models.Caller {
	return recruiterCaller(f.orgID, f.userID)
}

func (f *matchFixture) seedJob(t *testing.T, skills ...string) *models.Job {
	t.Helper()

	job := &models.Job{
		OrganizationID: f.orgID,
		RecruiterID:    f.userID,
		Title:          "Backend Engineer",
		Description:    "Build APIs",
		Requirements:   datatypes.NewJSONType(models.JobRequirements{Skills: skills}),
		EmploymentType: models.EmploymentFullTime,
		Status:         models.JobActive,
	}
	if err := f.jobs.Create(context.Background(), job); err != nil {
		t.Fatalf("create job error: %v", err)
	}
	return job
}

func (f *matchFixture) seedResume(t *testing.T, name string, skills ...string) *models.Resume {
	t.Helper()

	resume := &models.Resume{
		OrganizationID: f.orgID,
		UploadedBy:     f.userID,
		CandidateInfo:  datatypes.NewJSONType(models.CandidateInfo{Name: name, Email: name + "@example.com"}),
		ParsedData:     datatypes.NewJSONType(models.ParsedResume{Skills: skills}),
	}
	if err := f.resumes.Create(context.Background(), resume); err != nil {
		t.Fatalf("create resume error: %v", err)
	}
	return resume
}

// useEvenWeights makes fallback scores exact: skill*0.5 + experience*0.5.
func (f *matchFixture) useEvenWeights(t *testing.T) {
	t.Helper()

	_, err := f.configs.Update(context.Background(), f.orgID, models.UpdateMatchingConfigRequest{
		Weights: &models.MatchWeights{SkillMatch: 0.5, ExperienceMatch: 0.5},
	})
	if err != nil {
		t.Fatalf("update config error: %v", err)
	}
}

func TestMatchCandidatesFallsBackWhenAIFails(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(t, &stubMatchAnalyzer{err: &AnalyzerError{Op: "match", Err: errStubAI}})
	f.useEvenWeights(t)
	job := f.seedJob(t, "Go", "SQL")
	resume := f.seedResume(t, "ada", "go", "sql")

	resp, err := f.svc.MatchCandidates(context.Background(), f.caller(), models.MatchRequest{
		JobID:     job.ID,
		ResumeIDs: []uuid.UUID{resume.ID},
	})
	if err != nil {
		t.Fatalf("MatchCandidates error: %v", err)
	}
	if resp.Count != 1 || len(resp.Failed) != 0 {
		t.Fatalf("expected 1 match and no failures, got %+v", resp)
	}

	match := resp.Matches[0]
	if match.AnalysisSource != models.SourceFallback {
		t.Fatalf("expected fallback source, got %s", match.AnalysisSource)
	}
	// skills 100, experience neutral 50
	if match.MatchScore != 75 {
		t.Fatalf("expected score 75, got %d", match.MatchScore)
	}
	if match.RecruiterReview.Status != models.ReviewPending {
		t.Fatalf("expected pending review, got %s", match.RecruiterReview.Status)
	}
	if f.analyzer.calls != 1 {
		t.Fatalf("expected analyzer to be tried once, got %d", f.analyzer.calls)
	}

	stored, err := f.resumes.FindByID(context.Background(), f.orgID, resume.ID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if stored.Status != models.ResumeMatched {
		t.Fatalf("expected resume promoted to matched, got %s", stored.Status)
	}
	if f.notifier.strong != 0 {
		t.Fatalf("score below strong threshold must not notify, got %d", f.notifier.strong)
	}
}

func TestMatchCandidatesAutoRejectsLowScores(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(t, &stubMatchAnalyzer{err: errStubAI})
	f.useEvenWeights(t)
	job := f.seedJob(t, "Rust", "Kafka")
	resume := f.seedResume(t, "bob", "excel")

	resp, err := f.svc.MatchCandidates(context.Background(), f.caller(), models.MatchRequest{
		JobID:     job.ID,
		ResumeIDs: []uuid.UUID{resume.ID},
	})
	if err != nil {
		t.Fatalf("MatchCandidates error: %v", err)
	}

	match := resp.Matches[0]
	if match.MatchScore != 25 {
		t.Fatalf("expected score 25, got %d", match.MatchScore)
	}
	if match.RecruiterReview.Status != models.ReviewRejected || match.RecruiterReview.Notes != models.AutoRejectNote {
		t.Fatalf("expected auto rejection, got %+v", match.RecruiterReview)
	}
	if got := []string(match.SkillGaps); len(got) != 2 {
		t.Fatalf("expected 2 skill gaps, got %v", got)
	}

	stored, err := f.resumes.FindByID(context.Background(), f.orgID, resume.ID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if stored.Status != models.ResumeNew {
		t.Fatalf("resume below minimum must stay new, got %s", stored.Status)
	}
}

func TestMatchCandidatesUsesAIAndNotifiesStrongMatch(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(t, &stubMatchAnalyzer{analysis: &models.MatchAnalysis{
		OverallScore:    90,
		SkillMatch:      models.SkillMatch{Score: 90, Matched: []string{"Go"}, Missing: []string{}},
		ExperienceMatch: models.FactorMatch{Score: 90},
		EducationMatch:  models.FactorMatch{Score: 90},
		CultureFit:      models.FactorMatch{Score: 90},
		Recommendation:  models.DecisionStrongMatch,
		Reasoning:       "solid fit",
		Confidence:      0.9,
	}})
	job := f.seedJob(t, "Go")
	resume := f.seedResume(t, "cy", "go")

	resp, err := f.svc.MatchCandidates(context.Background(), f.caller(), models.MatchRequest{
		JobID:     job.ID,
		ResumeIDs: []uuid.UUID{resume.ID},
	})
	if err != nil {
		t.Fatalf("MatchCandidates error: %v", err)
	}

	match := resp.Matches[0]
	if match.AnalysisSource != models.SourceAI {
		t.Fatalf("expected ai source, got %s", match.AnalysisSource)
	}
	if match.MatchScore != 90 {
		t.Fatalf("expected score 90, got %d", match.MatchScore)
	}
	if match.AIRecommendation.Decision != models.DecisionStrongMatch {
		t.Fatalf("expected strong_match decision, got %s", match.AIRecommendation.Decision)
	}
	if f.notifier.strong != 1 {
		t.Fatalf("expected one strong match notification, got %d", f.notifier.strong)
	}
}

func TestMatchCandidatesSkipsAIWhenDisabled(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(t, &stubMatchAnalyzer{err: errStubAI})
	disabled := false
	if _, err := f.configs.Update(context.Background(), f.orgID, models.UpdateMatchingConfigRequest{AIEnabled: &disabled}); err != nil {
		t.Fatalf("update config error: %v", err)
	}
	job := f.seedJob(t, "Go")
	resume := f.seedResume(t, "dee", "go")

	resp, err := f.svc.MatchCandidates(context.Background(), f.caller(), models.MatchRequest{
		JobID:     job.ID,
		ResumeIDs: []uuid.UUID{resume.ID},
	})
	if err != nil {
		t.Fatalf("MatchCandidates error: %v", err)
	}
	if f.analyzer.calls != 0 {
		t.Fatalf("analyzer must not run when AI is disabled, got %d calls", f.analyzer.calls)
	}
	if resp.Matches[0].AnalysisSource != models.SourceFallback {
		t.Fatalf("expected fallback source, got %s", resp.Matches[0].AnalysisSource)
	}
}

func TestMatchCandidatesReportsPartialFailure(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(t, &stubMatchAnalyzer{err: errStubAI})
	job := f.seedJob(t, "Go")
	resume := f.seedResume(t, "eve", "go")
	missing := uuid.New()

	resp, err := f.svc.MatchCandidates(context.Background(), f.caller(), models.MatchRequest{
		JobID:     job.ID,
		ResumeIDs: []uuid.UUID{missing, resume.ID},
	})
	if err != nil {
		t.Fatalf("MatchCandidates error: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 match, got %d", resp.Count)
	}
	if len(resp.Failed) != 1 || resp.Failed[0].ResumeID != missing {
		t.Fatalf("expected failure for %s, got %+v", missing, resp.Failed)
	}
}

func TestMatchCandidatesRejectsForeignRecruiter(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(t, &stubMatchAnalyzer{err: errStubAI})
	job := f.seedJob(t, "Go")
	resume := f.seedResume(t, "fay", "go")

	other := recruiterCaller(f.orgID, uuid.New())
	_, err := f.svc.MatchCandidates(context.Background(), other, models.MatchRequest{
		JobID:     job.ID,
		ResumeIDs: []uuid.UUID{resume.ID},
	})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestMatchCandidatesValidatesRequest(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(t, &stubMatchAnalyzer{err: errStubAI})
	job := f.seedJob(t, "Go")

	_, err := f.svc.MatchCandidates(context.Background(), f.caller(), models.MatchRequest{JobID: job.ID})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for empty batch, got %v", err)
	}
}

func TestSuggestCandidatesRequiresIndex(t *testing.T) {
	t.Parallel()

	f := newMatchFixture(t, &stubMatchAnalyzer{err: errStubAI})
	job := f.seedJob(t, "Go")

	_, err := f.svc.SuggestCandidates(context.Background(), f.caller(), job.ID, 5)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected invalid state without an index, got %v", err)
	}
}

func TestMapPartialStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	out := mapPartial(ctx, []int{1, 2, 3}, func(ctx context.Context, n int) (int, error) {
		calls++
		if n == 1 {
			cancel()
		}
		return n * 10, nil
	})

	if calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", calls)
	}
	if len(out.Succeeded) != 1 || out.Succeeded[0] != 10 {
		t.Fatalf("unexpected successes %v", out.Succeeded)
	}
	if len(out.Failed) != 2 || !errors.Is(out.Failed[0].Err, context.Canceled) {
		t.Fatalf("expected 2 cancelled items, got %+v", out.Failed)
	}
}

func TestMatchCandidatesPromotesResumeFromAnyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  models.ResumeStatus
		minimum float64
	}{
		{"already interviewing", models.ResumeInterviewing, 60},
		{"previously rejected", models.ResumeRejected, 60},
		{"score equal to minimum", models.ResumeNew, 75},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			f := newMatchFixture(t, &stubMatchAnalyzer{err: errStubAI})
			_, err := f.configs.Update(ctx, f.orgID, models.UpdateMatchingConfigRequest{
				Weights:    &models.MatchWeights{SkillMatch: 0.5, ExperienceMatch: 0.5},
				Thresholds: &models.MatchThresholds{MinimumMatchScore: tc.minimum, StrongMatchScore: 80, AutoRejectScore: 30},
			})
			if err != nil {
				t.Fatalf("update config error: %v", err)
			}
			job := f.seedJob(t, "Go", "SQL")
			resume := f.seedResume(t, "cleo", "go", "sql")
			if err := f.resumes.UpdateStatus(ctx, f.orgID, resume.ID, tc.status); err != nil {
				t.Fatalf("UpdateStatus error: %v", err)
			}

			resp, err := f.svc.MatchCandidates(ctx, f.caller(), models.MatchRequest{
				JobID:     job.ID,
				ResumeIDs: []uuid.UUID{resume.ID},
			})
			if err != nil {
				t.Fatalf("MatchCandidates error: %v", err)
			}
			match := resp.Matches[0]
			if match.MatchScore != 75 {
				t.Fatalf("expected score 75, got %d", match.MatchScore)
			}
			if fit := match.MatchDetails.Data().OverallFit; fit != match.MatchScore {
				t.Fatalf("expected overall fit %d to follow the weighted score, got %d", match.MatchScore, fit)
			}

			stored, err := f.resumes.FindByID(ctx, f.orgID, resume.ID)
			if err != nil {
				t.Fatalf("FindByID error: %v", err)
			}
			if stored.Status != models.ResumeMatched {
				t.Fatalf("expected matched, got %s", stored.Status)
			}
		})
	}
}
