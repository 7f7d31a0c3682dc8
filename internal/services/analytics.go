package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
)

const (
	recentOrganizationsLimit = 5
	topMatchesLimit          = 5
	maxExportRows            = 10000
	exportDateLayout         = "2006-01-02"
	notAvailable             = "N/A"
)

type AnalyticsService interface {
	Platform(ctx context.Context) (*models.PlatformAnalytics, error)
	Organization(ctx context.Context, orgID uuid.UUID) (*models.OrganizationAnalytics, error)
	Recruiter(ctx context.Context, orgID, recruiterID uuid.UUID) (*models.RecruiterAnalytics, error)

	ExportMatches(ctx context.Context, caller *models.Caller, w io.Writer) error
	ExportResumes(ctx context.Context, caller *models.Caller, w io.Writer) error
	ExportInterviews(ctx context.Context, caller *models.Caller, w io.Writer) error
}

type analyticsService struct {
	stats      repositories.AnalyticsRepository
	orgs       repositories.OrganizationRepository
	jobs       repositories.JobRepository
	resumes    repositories.ResumeRepository
	matches    repositories.JobMatchRepository
	interviews repositories.InterviewRepository
	log        *zap.Logger
}

func NewAnalyticsService(
	stats repositories.AnalyticsRepository,
	orgs repositories.OrganizationRepository,
	jobs repositories.JobRepository,
	resumes repositories.ResumeRepository,
	matches repositories.JobMatchRepository,
	interviews repositories.InterviewRepository,
	log *zap.Logger,
) AnalyticsService {
	return &analyticsService{
		stats:      stats,
		orgs:       orgs,
		jobs:       jobs,
		resumes:    resumes,
		matches:    matches,
		interviews: interviews,
		log:        log.Named("analytics"),
	}
}

func toGroupCounts(rows []repositories.GroupCount) []models.GroupCount {
	out := make([]models.GroupCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.GroupCount{Key: r.Key, Count: r.Count})
	}
	return out
}

// count schedules a Count on g that stores its result in dst.
func (s *analyticsService) count(ctx context.Context, g *errgroup.Group, dst *int64, model interface{}, scope repositories.Scope) {
	g.Go(func() error {
		n, err := s.stats.Count(ctx, model, scope)
		*dst = n
		return err
	})
}

func (s *analyticsService) countBy(ctx context.Context, g *errgroup.Group, dst *[]models.GroupCount, model interface{}, column string, scope repositories.Scope) {
	g.Go(func() error {
		rows, err := s.stats.CountBy(ctx, model, column, scope)
		*dst = toGroupCounts(rows)
		return err
	})
}

// Platform implements AnalyticsService.
func (s *analyticsService) Platform(ctx context.Context) (*models.PlatformAnalytics, error) {
	out := &models.PlatformAnalytics{}
	all := repositories.Scope{}
	g, gctx := errgroup.WithContext(ctx)

	s.count(gctx, g, &out.Overview.TotalOrganizations, &models.Organization{}, all)
	s.count(gctx, g, &out.Overview.ActiveOrganizations, &models.Organization{}, repositories.Scope{
		Where: map[string]interface{}{"status": models.OrganizationActive},
	})
	s.count(gctx, g, &out.Overview.TotalUsers, &models.User{}, all)
	s.count(gctx, g, &out.Overview.TotalJobs, &models.Job{}, all)
	s.count(gctx, g, &out.Overview.TotalResumes, &models.Resume{}, all)
	s.count(gctx, g, &out.Overview.TotalInterviews, &models.Interview{}, all)
	s.countBy(gctx, g, &out.UsersByRole, &models.User{}, "role", all)
	s.countBy(gctx, g, &out.OrgsByPlan, &models.Organization{}, "subscription_plan", all)
	g.Go(func() error {
		orgs, _, err := s.orgs.List(gctx, models.PageQuery{Page: 1, Limit: recentOrganizationsLimit})
		out.RecentOrganizations = orgs
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute platform analytics: %w", err)
	}
	return out, nil
}

// Organization implements AnalyticsService.
func (s *analyticsService) Organization(ctx context.Context, orgID uuid.UUID) (*models.OrganizationAnalytics, error) {
	out := &models.OrganizationAnalytics{}
	org := repositories.Scope{OrganizationID: &orgID}
	g, gctx := errgroup.WithContext(ctx)

	s.count(gctx, g, &out.Overview.TotalRecruiters, &models.User{}, repositories.Scope{
		OrganizationID: &orgID,
		Where:          map[string]interface{}{"role": models.RoleRecruiter},
	})
	s.count(gctx, g, &out.Overview.ActiveJobs, &models.Job{}, repositories.Scope{
		OrganizationID: &orgID,
		Where:          map[string]interface{}{"status": models.JobActive},
	})
	s.count(gctx, g, &out.Overview.TotalResumes, &models.Resume{}, org)
	s.count(gctx, g, &out.Overview.TotalMatches, &models.JobMatch{}, org)
	s.count(gctx, g, &out.Overview.CompletedInterviews, &models.Interview{}, repositories.Scope{
		OrganizationID: &orgID,
		Where:          map[string]interface{}{"status": models.InterviewCompleted},
	})
	g.Go(func() error {
		avg, err := s.stats.Average(gctx, &models.JobMatch{}, "match_score", org)
		out.Overview.AvgMatchScore = avg
		return err
	})
	s.countBy(gctx, g, &out.JobsByStatus, &models.Job{}, "status", org)
	s.countBy(gctx, g, &out.ResumesByStatus, &models.Resume{}, "status", org)
	s.countBy(gctx, g, &out.InterviewsByStatus, &models.Interview{}, "status", org)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute organization analytics: %w", err)
	}
	return out, nil
}

// Recruiter implements AnalyticsService. Matches count only for the
// recruiter's own jobs.
func (s *analyticsService) Recruiter(ctx context.Context, orgID, recruiterID uuid.UUID) (*models.RecruiterAnalytics, error) {
	out := &models.RecruiterAnalytics{}
	var (
		jobs    []models.Job
		matches []models.JobMatch
	)

	g, gctx := errgroup.WithContext(ctx)
	s.count(gctx, g, &out.Overview.MyResumes, &models.Resume{}, repositories.Scope{
		OrganizationID: &orgID, OwnerColumn: "uploaded_by", OwnerID: &recruiterID,
	})
	s.count(gctx, g, &out.Overview.MyInterviews, &models.Interview{}, repositories.Scope{
		OrganizationID: &orgID, OwnerColumn: "invited_by", OwnerID: &recruiterID,
	})
	s.countBy(gctx, g, &out.InterviewStats, &models.Interview{}, "status", repositories.Scope{
		OrganizationID: &orgID, OwnerColumn: "invited_by", OwnerID: &recruiterID,
	})
	g.Go(func() error {
		var err error
		jobs, _, err = s.jobs.List(gctx, repositories.JobFilter{OrganizationID: orgID, RecruiterID: &recruiterID},
			models.PageQuery{Page: 1, Limit: maxExportRows})
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(jobs))
		for _, job := range jobs {
			ids = append(ids, job.ID)
		}
		matches, err = s.matches.ListByOrganization(gctx, orgID, ids)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute recruiter analytics: %w", err)
	}

	out.Overview.MyJobs = int64(len(jobs))
	out.Overview.MyMatches = int64(len(matches))

	perJob := make(map[uuid.UUID]int, len(jobs))
	for _, m := range matches {
		perJob[m.JobID]++
	}
	out.JobsPerformance = make([]models.JobPerformance, 0, len(jobs))
	for _, job := range jobs {
		out.JobsPerformance = append(out.JobsPerformance, models.JobPerformance{
			JobID:      job.ID,
			Title:      job.Title,
			Status:     job.Status,
			MatchCount: perJob[job.ID],
			CreatedAt:  job.CreatedAt,
		})
	}
	sort.SliceStable(out.JobsPerformance, func(i, j int) bool {
		return out.JobsPerformance[i].MatchCount > out.JobsPerformance[j].MatchCount
	})

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].MatchScore > matches[j].MatchScore })
	out.TopMatches = make([]models.TopMatch, 0, topMatchesLimit)
	for _, m := range matches {
		if len(out.TopMatches) == topMatchesLimit {
			break
		}
		out.TopMatches = append(out.TopMatches, models.TopMatch{
			MatchID:       m.ID,
			JobTitle:      matchJobTitle(&m),
			CandidateName: matchCandidateName(&m),
			MatchScore:    m.MatchScore,
		})
	}
	return out, nil
}

func matchJobTitle(m *models.JobMatch) string {
	if m.Job == nil || m.Job.Title == "" {
		return notAvailable
	}
	return m.Job.Title
}

func matchCandidateName(m *models.JobMatch) string {
	if m.Candidate == nil {
		return notAvailable
	}
	return orNA(m.Candidate.CandidateInfo.Data().Name)
}

func matchCandidateEmail(m *models.JobMatch) string {
	if m.Candidate == nil {
		return notAvailable
	}
	return orNA(m.Candidate.CandidateInfo.Data().Email)
}

func requireOrganization(caller *models.Caller) error {
	if caller.OrganizationID == nil {
		return apperr.ErrForbidden
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ExportMatches implements AnalyticsService. Recruiters export the matches
// of their own jobs.
func (s *analyticsService) ExportMatches(ctx context.Context, caller *models.Caller, w io.Writer) error {
	if err := requireOrganization(caller); err != nil {
		return err
	}
	orgID := caller.OrgID()

	var jobIDs []uuid.UUID
	if caller.Role == models.RoleRecruiter {
		ids, err := s.stats.IDs(ctx, &models.Job{}, repositories.Scope{
			OrganizationID: &orgID, OwnerColumn: "recruiter_id", OwnerID: &caller.UserID,
		})
		if err != nil {
			return err
		}
		jobIDs = ids
		if jobIDs == nil {
			jobIDs = []uuid.UUID{}
		}
	}

	matches, err := s.matches.ListByOrganization(ctx, orgID, jobIDs)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		status := string(m.RecruiterReview.Status)
		if status == "" {
			status = string(models.ReviewPending)
		}
		rows = append(rows, []string{
			matchJobTitle(m),
			matchCandidateName(m),
			matchCandidateEmail(m),
			strconv.Itoa(m.MatchScore),
			status,
			m.CreatedAt.Format(exportDateLayout),
		})
	}
	return writeCSV(w, []string{"Job Title", "Candidate Name", "Candidate Email", "Match Score", "Status", "Created At"}, rows)
}

// ExportResumes implements AnalyticsService.
func (s *analyticsService) ExportResumes(ctx context.Context, caller *models.Caller, w io.Writer) error {
	if err := requireOrganization(caller); err != nil {
		return err
	}

	resumes, _, err := s.resumes.List(ctx, repositories.ResumeFilter{OrganizationID: caller.OrgID()},
		models.PageQuery{Page: 1, Limit: maxExportRows})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(resumes))
	for i := range resumes {
		r := &resumes[i]
		info := r.CandidateInfo.Data()
		skills := notAvailable
		if list := r.Skills(); len(list) > 0 {
			skills = strings.Join(list, ", ")
		}
		rows = append(rows, []string{
			orNA(info.Name),
			orNA(info.Email),
			orNA(info.Phone),
			skills,
			string(r.Status),
			r.CreatedAt.Format(exportDateLayout),
		})
	}
	return writeCSV(w, []string{"Candidate Name", "Email", "Phone", "Skills", "Status", "Uploaded At"}, rows)
}

// ExportInterviews implements AnalyticsService. Recruiters export the
// interviews they sent.
func (s *analyticsService) ExportInterviews(ctx context.Context, caller *models.Caller, w io.Writer) error {
	if err := requireOrganization(caller); err != nil {
		return err
	}

	filter := repositories.InterviewFilter{OrganizationID: caller.OrgID()}
	if caller.Role == models.RoleRecruiter {
		filter.InvitedBy = &caller.UserID
	}
	interviews, err := s.interviews.ListForExport(ctx, filter)
	if err != nil {
		return err
	}

	titles := make(map[uuid.UUID]string)
	jobTitle := func(id *uuid.UUID) string {
		if id == nil {
			return notAvailable
		}
		if title, ok := titles[*id]; ok {
			return title
		}
		title := notAvailable
		if job, err := s.jobs.FindByID(ctx, filter.OrganizationID, *id); err == nil {
			title = job.Title
		}
		titles[*id] = title
		return title
	}

	rows := make([][]string, 0, len(interviews))
	for i := range interviews {
		iv := &interviews[i]
		score := notAvailable
		if iv.OverallScore != nil {
			score = strconv.Itoa(*iv.OverallScore)
		}
		completed := notAvailable
		if iv.CompletedAt != nil {
			completed = iv.CompletedAt.Format(exportDateLayout)
		}
		rows = append(rows, []string{
			jobTitle(iv.JobID),
			orNA(iv.CandidateName),
			orNA(iv.CandidateEmail),
			string(iv.Status),
			score,
			orNA(string(iv.AIAssessment.Data().Recommendation)),
			completed,
		})
	}
	return writeCSV(w, []string{"Job Title", "Candidate Name", "Candidate Email", "Status", "Overall Score", "Recommendation", "Completed At"}, rows)
}
