package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
)

const publicJobLimit = 50

type JobService interface {
	List(ctx context.Context, caller *models.Caller, status models.JobStatus, page models.PageQuery) ([]models.Job, int64, error)
	Create(ctx context.Context, caller *models.Caller, req models.JobRequest) (*models.Job, error)
	Get(ctx context.Context, caller *models.Caller, id uuid.UUID) (*models.Job, error)
	Update(ctx context.Context, caller *models.Caller, id uuid.UUID, req models.JobRequest) (*models.Job, error)
	Delete(ctx context.Context, caller *models.Caller, id uuid.UUID) error
	PublicList(ctx context.Context, filter models.PublicJobFilter) ([]models.Job, error)
	PublicGet(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// checkJobAccess limits recruiters to the jobs they own. Admins of the
// organization see every job.
func checkJobAccess(caller *models.Caller, job *models.Job) error {
	if caller.Role == models.RoleRecruiter && job.RecruiterID != caller.UserID {
		return apperr.ErrForbidden
	}
	return nil
}

type jobService struct {
	jobs repositories.JobRepository
	orgs repositories.OrganizationRepository
	log  *zap.Logger
}

func NewJobService(jobs repositories.JobRepository, orgs repositories.OrganizationRepository, log *zap.Logger) JobService {
	return &jobService{jobs: jobs, orgs: orgs, log: log.Named("jobs")}
}

func normalizeJobRequest(req *models.JobRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" {
		return apperr.Validation("title", "is required")
	}
	if req.Description == "" {
		return apperr.Validation("description", "is required")
	}

	if req.EmploymentType == "" {
		req.EmploymentType = models.EmploymentFullTime
	}
	if !req.EmploymentType.Valid() {
		return apperr.Validation("employment_type", "invalid employment type %q", req.EmploymentType)
	}

	if req.Status == "" {
		req.Status = models.JobDraft
	}
	if !req.Status.Valid() {
		return apperr.Validation("status", "invalid job status %q", req.Status)
	}

	skills := make([]string, 0, len(req.Requirements.Skills))
	for _, s := range req.Requirements.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	req.Requirements.Skills = skills

	if exp := req.Requirements.Experience; exp != nil {
		if exp.Unit != "" && exp.Unit != "years" && exp.Unit != "months" {
			return apperr.Validation("requirements.experience.unit", "must be years or months")
		}
		if exp.Min != nil && *exp.Min < 0 {
			return apperr.Validation("requirements.experience.min", "must not be negative")
		}
		if exp.Min != nil && exp.Max != nil && *exp.Min > *exp.Max {
			return apperr.Validation("requirements.experience", "min must not exceed max")
		}
	}
	return nil
}

func applyJobRequest(job *models.Job, req models.JobRequest) {
	job.Title = req.Title
	job.Description = req.Description
	job.Requirements = datatypes.NewJSONType(req.Requirements)
	job.Location = datatypes.NewJSONType(req.Location)
	job.EmploymentType = req.EmploymentType
	job.SalaryRange = datatypes.NewJSONType(req.SalaryRange)
	job.Department = strings.TrimSpace(req.Department)
	job.ExpiresAt = req.ExpiresAt

	if req.Status == models.JobActive && job.PublishedAt == nil {
		now := time.Now()
		job.PublishedAt = &now
	}
	job.Status = req.Status
}

// List implements JobService.
func (s *jobService) List(ctx context.Context, caller *models.Caller, status models.JobStatus, page models.PageQuery) ([]models.Job, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperr.Validation("status", "invalid job status %q", status)
	}
	filter := repositories.JobFilter{OrganizationID: caller.OrgID(), Status: status}
	if caller.Role == models.RoleRecruiter {
		filter.RecruiterID = &caller.UserID
	}
	return s.jobs.List(ctx, filter, page)
}

// Create implements JobService. Non-archived jobs count against the
// organization's posting limit.
func (s *jobService) Create(ctx context.Context, caller *models.Caller, req models.JobRequest) (*models.Job, error) {
	if err := normalizeJobRequest(&req); err != nil {
		return nil, err
	}

	orgID := caller.OrgID()
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	count, err := s.jobs.CountByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if count >= int64(org.Subscription.MaxJobPostings) {
		return nil, fmt.Errorf("%w: organization allows %d job postings", apperr.ErrLimitReached, org.Subscription.MaxJobPostings)
	}

	job := &models.Job{OrganizationID: orgID, RecruiterID: caller.UserID}
	applyJobRequest(job, req)
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	s.log.Info("📋 Job created", zap.String("job_id", job.ID.String()), zap.String("status", string(job.Status)))
	return job, nil
}

// Get implements JobService.
func (s *jobService) Get(ctx context.Context, caller *models.Caller, id uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.FindByID(ctx, caller.OrgID(), id)
	if err != nil {
		return nil, err
	}
	if err := checkJobAccess(caller, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Update implements JobService.
func (s *jobService) Update(ctx context.Context, caller *models.Caller, id uuid.UUID, req models.JobRequest) (*models.Job, error) {
	if err := normalizeJobRequest(&req); err != nil {
		return nil, err
	}
	job, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	applyJobRequest(job, req)
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Delete implements JobService.
func (s *jobService) Delete(ctx context.Context, caller *models.Caller, id uuid.UUID) error {
	job, err := s.Get(ctx, caller, id)
	if err != nil {
		return err
	}
	return s.jobs.Delete(ctx, job.OrganizationID, job.ID)
}

// PublicList implements JobService.
func (s *jobService) PublicList(ctx context.Context, filter models.PublicJobFilter) ([]models.Job, error) {
	if filter.EmploymentType != "" && !filter.EmploymentType.Valid() {
		return nil, apperr.Validation("type", "invalid employment type %q", filter.EmploymentType)
	}

	jobs, err := s.jobs.ListActive(ctx, strings.TrimSpace(filter.Search), filter.EmploymentType, publicJobLimit)
	if err != nil {
		return nil, err
	}

	location := strings.ToLower(strings.TrimSpace(filter.Location))
	if location == "" {
		return jobs, nil
	}

	filtered := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if locationMatches(job.Location.Data(), location) {
			filtered = append(filtered, job)
		}
	}
	return filtered, nil
}

func locationMatches(loc models.JobLocation, needle string) bool {
	for _, field := range []string{loc.City, loc.State, loc.Country, loc.Type} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// PublicGet implements JobService.
func (s *jobService) PublicGet(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return s.jobs.FindActive(ctx, id)
}
