package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"net/mail"
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

const (
	accessTokenBytes        = 32
	defaultInviteExpiryDays = 7
	maxInviteExpiryDays     = 30
	// DirectInterviewExpiry applies to interviews created alongside a resume upload.
	DirectInterviewExpiry = 3 * 24 * time.Hour
)

type InterviewService interface {
	// Recruiter side.
	Invite(ctx context.Context, caller *models.Caller, req models.InviteRequest) (*models.Interview, error)
	CreateForResume(ctx context.Context, caller *models.Caller, resume *models.Resume, job *models.Job) (*models.Interview, error)
	List(ctx context.Context, caller *models.Caller, status models.InterviewStatus, page models.PageQuery) ([]models.Interview, int64, error)
	Get(ctx context.Context, caller *models.Caller, id uuid.UUID) (*models.Interview, error)
	Cancel(ctx context.Context, caller *models.Caller, id uuid.UUID) error
	SubmitFeedback(ctx context.Context, caller *models.Caller, id uuid.UUID, req models.FeedbackRequest) (*models.Interview, error)

	// Candidate side, authenticated by access token.
	GetByToken(ctx context.Context, token string) (*models.CandidateInterview, error)
	SaveCandidateDetails(ctx context.Context, token string, req models.CandidateDetailsRequest) error
	Start(ctx context.Context, token string) (*models.CandidateInterview, error)
	SubmitAnswer(ctx context.Context, token string, req models.AnswerRequest) (*models.AnswerResponse, error)
	Complete(ctx context.Context, token string) (*models.CompletionResponse, error)
	Status(ctx context.Context, token string) (*models.ApplicationStatus, error)

	ExpireOverdue(ctx context.Context) (int64, error)
}

type interviewService struct {
	interviews repositories.InterviewRepository
	matches    repositories.JobMatchRepository
	templates  repositories.InterviewTemplateRepository
	jobs       repositories.JobRepository
	resumes    repositories.ResumeRepository
	analyzer   InterviewAnalyzer
	notifier   NotificationService
	log        *zap.Logger
	now        func() time.Time
}

func NewInterviewService(
	interviews repositories.InterviewRepository,
	matches repositories.JobMatchRepository,
	templates repositories.InterviewTemplateRepository,
	jobs repositories.JobRepository,
	resumes repositories.ResumeRepository,
	analyzer InterviewAnalyzer,
	notifier NotificationService,
	log *zap.Logger,
) InterviewService {
	return &interviewService{
		interviews: interviews,
		matches:    matches,
		templates:  templates,
		jobs:       jobs,
		resumes:    resumes,
		analyzer:   analyzer,
		notifier:   notifier,
		log:        log.Named("interviews"),
		now:        time.Now,
	}
}

// NewAccessToken returns 32 random bytes, hex-encoded.
func NewAccessToken() (string, error) {
	b := make([]byte, accessTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func checkInterviewAccess(caller *models.Caller, interview *models.Interview) error {
	if caller.Role == models.RoleRecruiter && interview.InvitedBy != caller.UserID {
		return apperr.ErrForbidden
	}
	return nil
}

func (s *interviewService) resolveTemplate(ctx context.Context, orgID uuid.UUID, templateID *uuid.UUID) (*models.InterviewTemplate, error) {
	var (
		tmpl *models.InterviewTemplate
		err  error
	)
	if templateID != nil {
		tmpl, err = s.templates.FindAccessible(ctx, orgID, *templateID)
	} else {
		tmpl, err = s.templates.FindDefault(ctx, orgID)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Validation("template_id", "no interview template is available")
		}
	}
	if err != nil {
		return nil, err
	}
	if len(tmpl.Questions) == 0 {
		return nil, apperr.Validation("template_id", "template %q has no questions", tmpl.Name)
	}
	return tmpl, nil
}

func (s *interviewService) create(ctx context.Context, interview *models.Interview, tmpl *models.InterviewTemplate) error {
	token, err := NewAccessToken()
	if err != nil {
		return err
	}

	now := s.now()
	interview.AccessToken = token
	interview.Status = models.InterviewInvited
	interview.InvitationSentAt = &now
	interview.TemplateID = &tmpl.ID
	interview.Questions = tmpl.ToInterviewQuestions()

	if err := s.interviews.Create(ctx, interview); err != nil {
		return err
	}

	if err := s.templates.IncrementUsage(ctx, tmpl.ID); err != nil {
		s.log.Warn("⚠️  Failed to bump template usage", zap.String("template_id", tmpl.ID.String()), zap.Error(err))
	}
	return nil
}

// Invite implements InterviewService.
func (s *interviewService) Invite(ctx context.Context, caller *models.Caller, req models.InviteRequest) (*models.Interview, error) {
	orgID := caller.OrgID()
	match, err := s.matches.FindByID(ctx, orgID, req.MatchID)
	if err != nil {
		return nil, err
	}
	if match.Job == nil || match.Candidate == nil {
		return nil, apperr.InvalidState("match %s no longer has a job and candidate", match.ID)
	}
	if err := checkJobAccess(caller, match.Job); err != nil {
		return nil, err
	}

	days := req.ExpiresInDays
	if days == 0 {
		days = defaultInviteExpiryDays
	}
	if days < 1 || days > maxInviteExpiryDays {
		return nil, apperr.Validation("expires_in_days", "must be between 1 and %d", maxInviteExpiryDays)
	}

	tmpl, err := s.resolveTemplate(ctx, orgID, req.TemplateID)
	if err != nil {
		return nil, err
	}

	info := match.Candidate.CandidateInfo.Data()
	interview := &models.Interview{
		OrganizationID: orgID,
		JobMatchID:     &match.ID,
		CandidateID:    match.CandidateID,
		CandidateName:  info.Name,
		CandidateEmail: info.Email,
		JobID:          &match.JobID,
		InvitedBy:      caller.UserID,
		ExpiresAt:      s.now().Add(time.Duration(days) * 24 * time.Hour),
	}
	if err := s.create(ctx, interview, tmpl); err != nil {
		return nil, err
	}

	if err := s.matches.MarkInterviewScheduled(ctx, match.ID, interview.ID); err != nil {
		s.log.Warn("⚠️  Failed to mark match scheduled", zap.String("match_id", match.ID.String()), zap.Error(err))
	}

	s.notifier.InterviewInvited(ctx, interview, match.Job.Title)

	s.log.Info("📨 Interview invitation created",
		zap.String("interview_id", interview.ID.String()),
		zap.String("candidate_id", interview.CandidateID.String()))
	return interview, nil
}

// CreateForResume implements InterviewService. The caller is responsible
// for delivering the access link.
func (s *interviewService) CreateForResume(ctx context.Context, caller *models.Caller, resume *models.Resume, job *models.Job) (*models.Interview, error) {
	tmpl, err := s.resolveTemplate(ctx, resume.OrganizationID, nil)
	if err != nil {
		return nil, err
	}

	info := resume.CandidateInfo.Data()
	interview := &models.Interview{
		OrganizationID: resume.OrganizationID,
		CandidateID:    resume.ID,
		CandidateName:  info.Name,
		CandidateEmail: info.Email,
		JobID:          &job.ID,
		InvitedBy:      caller.UserID,
		ExpiresAt:      s.now().Add(DirectInterviewExpiry),
	}
	if err := s.create(ctx, interview, tmpl); err != nil {
		return nil, err
	}
	return interview, nil
}

// List implements InterviewService. Recruiters only see their own invitations.
func (s *interviewService) List(ctx context.Context, caller *models.Caller, status models.InterviewStatus, page models.PageQuery) ([]models.Interview, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperr.Validation("status", "invalid interview status %q", status)
	}

	filter := repositories.InterviewFilter{OrganizationID: caller.OrgID(), Status: status}
	if caller.Role == models.RoleRecruiter {
		filter.InvitedBy = &caller.UserID
	}
	return s.interviews.List(ctx, filter, page)
}

// Get implements InterviewService.
func (s *interviewService) Get(ctx context.Context, caller *models.Caller, id uuid.UUID) (*models.Interview, error) {
	interview, err := s.interviews.FindByID(ctx, caller.OrgID(), id)
	if err != nil {
		return nil, err
	}
	if err := checkInterviewAccess(caller, interview); err != nil {
		return nil, err
	}
	return interview, nil
}

// Cancel implements InterviewService.
func (s *interviewService) Cancel(ctx context.Context, caller *models.Caller, id uuid.UUID) error {
	interview, err := s.Get(ctx, caller, id)
	if err != nil {
		return err
	}

	from := []models.InterviewStatus{models.InterviewInvited, models.InterviewInProgress}
	return s.interviews.Transition(ctx, interview.ID, from, models.InterviewCancelled, nil)
}

// SubmitFeedback implements InterviewService.
func (s *interviewService) SubmitFeedback(ctx context.Context, caller *models.Caller, id uuid.UUID, req models.FeedbackRequest) (*models.Interview, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperr.Validation("rating", "must be between 1 and 5")
	}

	interview, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.InterviewCompleted {
		return nil, apperr.InvalidState("feedback requires a completed interview, status is %s", interview.Status)
	}

	now := s.now()
	rating := req.Rating
	interview.Feedback = models.InterviewFeedback{
		Rating:      &rating,
		Comments:    strings.TrimSpace(req.Comments),
		SubmittedAt: &now,
	}
	if err := s.interviews.SaveFeedback(ctx, interview.OrganizationID, interview.ID, interview.Feedback); err != nil {
		return nil, err
	}

	s.notifier.InterviewFeedback(ctx, interview, s.jobTitle(ctx, interview))
	return interview, nil
}

func (s *interviewService) jobFor(ctx context.Context, interview *models.Interview) *models.Job {
	if interview.JobID == nil {
		return nil
	}
	job, err := s.jobs.FindByID(ctx, interview.OrganizationID, *interview.JobID)
	if err != nil {
		s.log.Debug("job lookup failed", zap.String("interview_id", interview.ID.String()), zap.Error(err))
		return nil
	}
	return job
}

func (s *interviewService) jobTitle(ctx context.Context, interview *models.Interview) string {
	if job := s.jobFor(ctx, interview); job != nil {
		return job.Title
	}
	return ""
}

// loadOpen finds an interview by token and rejects expired ones.
func (s *interviewService) loadOpen(ctx context.Context, token string) (*models.Interview, error) {
	interview, err := s.interviews.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if interview.Status == models.InterviewExpired {
		return nil, apperr.ErrExpired
	}
	if interview.Status == models.InterviewInvited && interview.IsPastExpiry(s.now()) {
		return nil, apperr.ErrExpired
	}
	return interview, nil
}

func (s *interviewService) candidateView(ctx context.Context, interview *models.Interview) *models.CandidateInterview {
	view := &models.CandidateInterview{
		ID:        interview.ID,
		Status:    interview.Status,
		ExpiresAt: interview.ExpiresAt,
		Questions: make([]models.CandidateQuestion, 0, len(interview.Questions)),
	}
	if job := s.jobFor(ctx, interview); job != nil {
		view.Job = &models.JobSummary{
			ID:             job.ID,
			Title:          job.Title,
			Description:    job.Description,
			Location:       job.Location.Data(),
			EmploymentType: job.EmploymentType,
		}
	}
	for _, q := range interview.Questions {
		view.Questions = append(view.Questions, models.CandidateQuestion{
			ID:           q.ID,
			Position:     q.Position,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Options:      q.Options,
			Answered:     q.Answered(),
		})
	}
	return view
}

// GetByToken implements InterviewService. The view never includes scores.
func (s *interviewService) GetByToken(ctx context.Context, token string) (*models.CandidateInterview, error) {
	interview, err := s.loadOpen(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.candidateView(ctx, interview), nil
}

// SaveCandidateDetails implements InterviewService.
func (s *interviewService) SaveCandidateDetails(ctx context.Context, token string, req models.CandidateDetailsRequest) error {
	name := strings.TrimSpace(req.CandidateName)
	if name == "" {
		return apperr.Validation("candidate_name", "is required")
	}
	email := strings.TrimSpace(strings.ToLower(req.CandidateEmail))
	if _, err := mail.ParseAddress(email); err != nil {
		return apperr.Validation("candidate_email", "is not a valid email address")
	}

	interview, err := s.loadOpen(ctx, token)
	if err != nil {
		return err
	}
	if interview.Status.Terminal() {
		return apperr.InvalidState("interview is %s", interview.Status)
	}
	return s.interviews.UpdateCandidateDetails(ctx, interview.ID, name, email)
}

// Start implements InterviewService. An invitation past its expiry is
// persisted as expired before the error is returned.
func (s *interviewService) Start(ctx context.Context, token string) (*models.CandidateInterview, error) {
	interview, err := s.interviews.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	switch interview.Status {
	case models.InterviewInvited:
	case models.InterviewExpired:
		return nil, apperr.ErrExpired
	default:
		return nil, apperr.InvalidState("interview cannot be started, status is %s", interview.Status)
	}

	now := s.now()
	invited := []models.InterviewStatus{models.InterviewInvited}

	if interview.IsPastExpiry(now) {
		if err := s.interviews.Transition(ctx, interview.ID, invited, models.InterviewExpired, nil); err != nil && !errors.Is(err, apperr.ErrInvalidState) {
			s.log.Warn("⚠️  Failed to persist expiry", zap.String("interview_id", interview.ID.String()), zap.Error(err))
		}
		return nil, apperr.ErrExpired
	}

	if err := s.interviews.Transition(ctx, interview.ID, invited, models.InterviewInProgress, map[string]interface{}{
		"started_at": now,
	}); err != nil {
		return nil, err
	}

	interview.Status = models.InterviewInProgress
	interview.StartedAt = &now
	return s.candidateView(ctx, interview), nil
}

// SubmitAnswer implements InterviewService.
func (s *interviewService) SubmitAnswer(ctx context.Context, token string, req models.AnswerRequest) (*models.AnswerResponse, error) {
	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		return nil, apperr.Validation("answer", "is required")
	}
	if req.TimeSpent < 0 {
		return nil, apperr.Validation("time_spent", "must not be negative")
	}

	interview, err := s.interviews.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.InterviewInProgress {
		return nil, apperr.InvalidState("answers are only accepted while in progress, status is %s", interview.Status)
	}

	var question *models.InterviewQuestion
	for i := range interview.Questions {
		if interview.Questions[i].ID == req.QuestionID {
			question = &interview.Questions[i]
			break
		}
	}
	if question == nil {
		return nil, apperr.NotFound("question")
	}

	analysis, err := s.analyzer.AnalyzeAnswer(ctx, question, answer, s.jobTitle(ctx, interview))
	if err != nil {
		s.log.Warn("⚠️  AI answer analysis failed, using fallback",
			zap.String("question_id", question.ID.String()), zap.Error(err))
		fallback := scoring.FallbackAnswerAnalysis()
		analysis = &fallback
	}

	now := s.now()
	score := int(math.Round(analysis.Score))
	question.Answer = &answer
	question.AIScore = &score
	question.AIAnalysis = datatypes.NewJSONType(*analysis)
	question.TimeSpent = req.TimeSpent
	question.AnsweredAt = &now

	if err := s.interviews.SaveAnswer(ctx, interview.ID, question); err != nil {
		return nil, err
	}

	return &models.AnswerResponse{Score: score, Feedback: analysis.Feedback}, nil
}

// Complete implements InterviewService.
func (s *interviewService) Complete(ctx context.Context, token string) (*models.CompletionResponse, error) {
	interview, err := s.interviews.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.InterviewInProgress {
		return nil, apperr.InvalidState("interview cannot be completed, status is %s", interview.Status)
	}

	jobTitle := s.jobTitle(ctx, interview)

	var assessment models.InterviewAssessment
	overall, answered := scoring.MeanScore(interview.Questions)
	if !answered {
		assessment = scoring.EmptyAssessment()
	} else if result, err := s.analyzer.AnalyzeOverall(ctx, interview, jobTitle); err == nil {
		assessment = *result
	} else {
		s.log.Warn("⚠️  AI interview assessment failed, using fallback",
			zap.String("interview_id", interview.ID.String()), zap.Error(err))
		assessment = scoring.FallbackAssessment(overall)
	}

	now := s.now()
	err = s.interviews.Transition(ctx, interview.ID,
		[]models.InterviewStatus{models.InterviewInProgress}, models.InterviewCompleted,
		map[string]interface{}{
			"completed_at":  now,
			"overall_score": overall,
			"ai_assessment": datatypes.NewJSONType(assessment),
		})
	if err != nil {
		return nil, err
	}

	interview.Status = models.InterviewCompleted
	interview.CompletedAt = &now
	interview.OverallScore = &overall
	interview.AIAssessment = datatypes.NewJSONType(assessment)

	if err := s.resumes.UpdateStatus(ctx, interview.OrganizationID, interview.CandidateID, models.ResumeInterviewing); err != nil {
		s.log.Warn("⚠️  Failed to update resume status", zap.String("resume_id", interview.CandidateID.String()), zap.Error(err))
	}

	s.notifier.InterviewCompleted(ctx, interview, jobTitle)

	s.log.Info("✅ Interview completed",
		zap.String("interview_id", interview.ID.String()),
		zap.Int("overall_score", overall))

	return &models.CompletionResponse{
		OverallScore:   interview.OverallScore,
		Recommendation: assessment.Recommendation,
	}, nil
}

// Status implements InterviewService.
func (s *interviewService) Status(ctx context.Context, token string) (*models.ApplicationStatus, error) {
	interview, err := s.interviews.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	status := interview.Status
	if status == models.InterviewInvited && interview.IsPastExpiry(s.now()) {
		status = models.InterviewExpired
	}

	return &models.ApplicationStatus{
		Status:       status,
		JobTitle:     s.jobTitle(ctx, interview),
		CompletedAt:  interview.CompletedAt,
		OverallScore: interview.OverallScore,
	}, nil
}

// ExpireOverdue implements InterviewService.
func (s *interviewService) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.interviews.ExpireOverdue(ctx, s.now())
}
