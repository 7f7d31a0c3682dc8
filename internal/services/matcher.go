package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
	"hireflow/ats-platform/internal/scoring"
)

const defaultSuggestionLimit = 10

type MatchService interface {
	MatchCandidates(ctx context.Context, caller *models.Caller, req models.MatchRequest) (*models.MatchBatchResponse, error)
	ListForJob(ctx context.Context, caller *models.Caller, jobID uuid.UUID) ([]models.JobMatch, error)
	Get(ctx context.Context, caller *models.Caller, id uuid.UUID) (*models.JobMatch, error)
	Review(ctx context.Context, caller *models.Caller, id uuid.UUID, req models.ReviewRequest) (*models.JobMatch, error)
	SuggestCandidates(ctx context.Context, caller *models.Caller, jobID uuid.UUID, limit int) ([]models.CandidateSuggestion, error)
}

// Failure pairs an input item with the error that stopped it.
type Failure[T any] struct {
	Item T
	Err  error
}

type Partial[T, R any] struct {
	Succeeded []R
	Failed    []Failure[T]
}

// mapPartial applies fn to every item in order. A failing item is recorded
// and the rest still run. Once ctx is done, remaining items fail with its error.
func mapPartial[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) Partial[T, R] {
	out := Partial[T, R]{
		Succeeded: make([]R, 0, len(items)),
		Failed:    make([]Failure[T], 0),
	}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			out.Failed = append(out.Failed, Failure[T]{Item: item, Err: err})
			continue
		}
		r, err := fn(ctx, item)
		if err != nil {
			out.Failed = append(out.Failed, Failure[T]{Item: item, Err: err})
			continue
		}
		out.Succeeded = append(out.Succeeded, r)
	}
	return out
}

type matchService struct {
	jobs     repositories.JobRepository
	resumes  repositories.ResumeRepository
	matches  repositories.JobMatchRepository
	configs  MatchingConfigService
	analyzer MatchAnalyzer
	notifier NotificationService
	embedder Embedder
	index    CandidateIndex
	log      *zap.Logger
}

// NewMatchService wires the orchestrator. embedder and index may be nil when
// vector search is disabled.
func NewMatchService(
	jobs repositories.JobRepository,
	resumes repositories.ResumeRepository,
	matches repositories.JobMatchRepository,
	configs MatchingConfigService,
	analyzer MatchAnalyzer,
	notifier NotificationService,
	embedder Embedder,
	index CandidateIndex,
	log *zap.Logger,
) MatchService {
	return &matchService{
		jobs:     jobs,
		resumes:  resumes,
		matches:  matches,
		configs:  configs,
		analyzer: analyzer,
		notifier: notifier,
		embedder: embedder,
		index:    index,
		log:      log.Named("matcher"),
	}
}

// MatchCandidates implements MatchService.
func (s *matchService) MatchCandidates(ctx context.Context, caller *models.Caller, req models.MatchRequest) (*models.MatchBatchResponse, error) {
	if req.JobID == uuid.Nil {
		return nil, apperr.Validation("job_id", "is required")
	}
	if len(req.ResumeIDs) == 0 {
		return nil, apperr.Validation("resume_ids", "at least one resume is required")
	}

	orgID := caller.OrgID()
	job, err := s.jobs.FindByID(ctx, orgID, req.JobID)
	if err != nil {
		return nil, err
	}
	if err := checkJobAccess(caller, job); err != nil {
		return nil, err
	}

	cfg, err := s.configs.GetOrCreate(ctx, orgID)
	if err != nil {
		return nil, err
	}

	s.log.Info("🔄 Matching candidates",
		zap.String("job_id", job.ID.String()),
		zap.Int("resumes", len(req.ResumeIDs)),
		zap.Bool("ai_enabled", cfg.AIEnabled))

	result := mapPartial(ctx, req.ResumeIDs, func(ctx context.Context, resumeID uuid.UUID) (models.JobMatch, error) {
		return s.matchOne(ctx, cfg, job, resumeID)
	})

	resp := &models.MatchBatchResponse{
		Matches: result.Succeeded,
		Failed:  make([]models.MatchFailure, 0, len(result.Failed)),
		Count:   len(result.Succeeded),
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, models.MatchFailure{ResumeID: f.Item, Error: f.Err.Error()})
	}

	s.log.Info("✅ Matching finished", zap.Int("matched", resp.Count), zap.Int("failed", len(resp.Failed)))
	return resp, nil
}

func (s *matchService) matchOne(ctx context.Context, cfg *models.MatchingConfig, job *models.Job, resumeID uuid.UUID) (models.JobMatch, error) {
	resume, err := s.resumes.FindByID(ctx, job.OrganizationID, resumeID)
	if err != nil {
		return models.JobMatch{}, err
	}

	analysis, source := s.analyze(ctx, cfg, job, resume)
	weighted := scoring.WeightedScore(analysis, cfg.Weights)

	match := newJobMatch(job, resume, analysis, source, weighted)
	if cfg.AutoMatchingEnabled && weighted < cfg.Thresholds.AutoRejectScore {
		match.RecruiterReview = models.RecruiterReview{
			Status: models.ReviewRejected,
			Notes:  models.AutoRejectNote,
		}
	}

	if err := s.matches.Create(ctx, &match); err != nil {
		return models.JobMatch{}, err
	}
	match.Candidate = resume

	if weighted >= cfg.Thresholds.MinimumMatchScore {
		if err := s.resumes.UpdateStatus(ctx, job.OrganizationID, resume.ID, models.ResumeMatched); err != nil {
			s.log.Warn("⚠️  Failed to mark resume matched", zap.String("resume_id", resume.ID.String()), zap.Error(err))
		} else {
			resume.Status = models.ResumeMatched
		}
	}

	if cfg.NotifyOnStrongMatch && weighted >= cfg.Thresholds.StrongMatchScore {
		s.notifier.StrongMatch(ctx, job, resume, &match)
	}

	return match, nil
}

// analyze prefers the AI analyzer and falls back to the deterministic score.
func (s *matchService) analyze(ctx context.Context, cfg *models.MatchingConfig, job *models.Job, resume *models.Resume) (models.MatchAnalysis, models.AnalysisSource) {
	if cfg.AIEnabled && s.analyzer != nil {
		analysis, err := s.analyzer.Analyze(ctx, job, resume)
		if err == nil {
			return *analysis, models.SourceAI
		}
		s.log.Warn("⚠️  AI match analysis failed, using basic matching",
			zap.String("resume_id", resume.ID.String()), zap.Error(err))
	}
	return scoring.BasicMatch(job, resume), models.SourceFallback
}

func newJobMatch(job *models.Job, resume *models.Resume, a models.MatchAnalysis, source models.AnalysisSource, weighted float64) models.JobMatch {
	details := models.MatchDetails{
		SkillMatch:      a.SkillMatch,
		ExperienceMatch: a.ExperienceMatch,
		EducationMatch:  a.EducationMatch,
		CultureFit:      a.CultureFit,
		OverallFit:      int(math.Round(weighted)),
	}

	return models.JobMatch{
		JobID:          job.ID,
		CandidateID:    resume.ID,
		OrganizationID: job.OrganizationID,
		MatchScore:     int(math.Round(weighted)),
		MatchDetails:   datatypes.NewJSONType(details),
		SkillGaps:      datatypes.JSONSlice[string](nonNil(a.SkillMatch.Missing)),
		Strengths:      datatypes.JSONSlice[string](nonNil(a.SkillMatch.Matched)),
		AIRecommendation: models.AIRecommendation{
			Decision:   a.Recommendation,
			Reasoning:  a.Reasoning,
			Confidence: a.Confidence,
		},
		AnalysisSource: source,
		RecruiterReview: models.RecruiterReview{
			Status: models.ReviewPending,
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ListForJob implements MatchService.
func (s *matchService) ListForJob(ctx context.Context, caller *models.Caller, jobID uuid.UUID) ([]models.JobMatch, error) {
	job, err := s.jobs.FindByID(ctx, caller.OrgID(), jobID)
	if err != nil {
		return nil, err
	}
	if err := checkJobAccess(caller, job); err != nil {
		return nil, err
	}
	return s.matches.ListByJob(ctx, job.OrganizationID, job.ID)
}

// Get implements MatchService.
func (s *matchService) Get(ctx context.Context, caller *models.Caller, id uuid.UUID) (*models.JobMatch, error) {
	match, err := s.matches.FindByID(ctx, caller.OrgID(), id)
	if err != nil {
		return nil, err
	}
	if match.Job != nil {
		if err := checkJobAccess(caller, match.Job); err != nil {
			return nil, err
		}
	}
	return match, nil
}

// Review implements MatchService.
func (s *matchService) Review(ctx context.Context, caller *models.Caller, id uuid.UUID, req models.ReviewRequest) (*models.JobMatch, error) {
	if !req.Status.Valid() {
		return nil, apperr.Validation("status", "invalid review status %q", req.Status)
	}

	if _, err := s.Get(ctx, caller, id); err != nil {
		return nil, err
	}

	now := time.Now()
	reviewer := caller.UserID
	return s.matches.UpdateReview(ctx, caller.OrgID(), id, models.RecruiterReview{
		Status:     req.Status,
		Notes:      strings.TrimSpace(req.Notes),
		ReviewedBy: &reviewer,
		ReviewedAt: &now,
	})
}

// SuggestCandidates implements MatchService. It ranks analyzed resumes by
// embedding similarity to the job text.
func (s *matchService) SuggestCandidates(ctx context.Context, caller *models.Caller, jobID uuid.UUID, limit int) ([]models.CandidateSuggestion, error) {
	if s.index == nil || s.embedder == nil {
		return nil, apperr.InvalidState("candidate search is not enabled")
	}
	if limit < 1 || limit > 50 {
		limit = defaultSuggestionLimit
	}

	job, err := s.jobs.FindByID(ctx, caller.OrgID(), jobID)
	if err != nil {
		return nil, err
	}
	if err := checkJobAccess(caller, job); err != nil {
		return nil, err
	}

	vector, err := s.embedder.GenerateEmbedding(ctx, jobEmbeddingText(job))
	if err != nil {
		return nil, fmt.Errorf("failed to embed job: %w", err)
	}

	hits, err := s.index.Search(ctx, job.OrganizationID, vector, limit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]models.CandidateSuggestion, 0, len(hits))
	for _, hit := range hits {
		suggestions = append(suggestions, models.CandidateSuggestion{
			ResumeID: hit.ResumeID,
			Name:     hit.Name,
			Score:    hit.Score,
		})
	}
	return suggestions, nil
}

func jobEmbeddingText(job *models.Job) string {
	reqs := job.Requirements.Data()
	return fmt.Sprintf("%s\nSkills: %s\nEducation: %s\n%s",
		job.Title, strings.Join(reqs.Skills, ", "), reqs.Education, job.Description)
}
