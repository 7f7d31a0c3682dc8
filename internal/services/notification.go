package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
)

const (
	maxNotificationLimit = 100
	expiryDateLayout     = "January 2, 2006 15:04 MST"
)

type NotificationService interface {
	List(ctx context.Context, caller *models.Caller, limit int, unreadOnly bool) ([]models.Notification, error)
	UnreadCount(ctx context.Context, caller *models.Caller) (int64, error)
	MarkRead(ctx context.Context, caller *models.Caller, id uuid.UUID) error
	MarkAllRead(ctx context.Context, caller *models.Caller) (int64, error)
	Delete(ctx context.Context, caller *models.Caller, id uuid.UUID) error

	// Asynchronous fan-out. Failures are logged only.
	StrongMatch(ctx context.Context, job *models.Job, resume *models.Resume, match *models.JobMatch)
	InterviewInvited(ctx context.Context, interview *models.Interview, jobTitle string)
	InterviewCompleted(ctx context.Context, interview *models.Interview, jobTitle string)
	InterviewFeedback(ctx context.Context, interview *models.Interview, jobTitle string)

	CandidateCredentials(ctx context.Context, user *models.User, password string, interview *models.Interview, jobTitle string) error
	PasswordReset(ctx context.Context, user *models.User, token string, validFor time.Duration) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)

	// Wait blocks until in-flight asynchronous notifications finish.
	Wait()
}

type notificationService struct {
	repo        repositories.NotificationRepository
	users       repositories.UserRepository
	mailer      Mailer
	frontendURL string
	log         *zap.Logger
	wg          sync.WaitGroup
}

func NewNotificationService(
	repo repositories.NotificationRepository,
	users repositories.UserRepository,
	mailer Mailer,
	frontendURL string,
	log *zap.Logger,
) NotificationService {
	return &notificationService{
		repo:        repo,
		users:       users,
		mailer:      mailer,
		frontendURL: frontendURL,
		log:         log.Named("notifications"),
	}
}

// List implements NotificationService.
func (n *notificationService) List(ctx context.Context, caller *models.Caller, limit int, unreadOnly bool) ([]models.Notification, error) {
	if limit < 1 || limit > maxNotificationLimit {
		limit = 20
	}
	return n.repo.ListForUser(ctx, caller.UserID, limit, unreadOnly)
}

// UnreadCount implements NotificationService.
func (n *notificationService) UnreadCount(ctx context.Context, caller *models.Caller) (int64, error) {
	return n.repo.CountUnread(ctx, caller.UserID)
}

// MarkRead implements NotificationService.
func (n *notificationService) MarkRead(ctx context.Context, caller *models.Caller, id uuid.UUID) error {
	return n.repo.MarkRead(ctx, caller.UserID, id)
}

// MarkAllRead implements NotificationService.
func (n *notificationService) MarkAllRead(ctx context.Context, caller *models.Caller) (int64, error) {
	return n.repo.MarkAllRead(ctx, caller.UserID)
}

// Delete implements NotificationService.
func (n *notificationService) Delete(ctx context.Context, caller *models.Caller, id uuid.UUID) error {
	return n.repo.Delete(ctx, caller.UserID, id)
}

// PurgeExpired implements NotificationService.
func (n *notificationService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return n.repo.DeleteExpired(ctx, now)
}

// Wait implements NotificationService.
func (n *notificationService) Wait() {
	n.wg.Wait()
}

// dispatch runs fn detached from the request lifetime.
func (n *notificationService) dispatch(ctx context.Context, kind string, fn func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := fn(ctx); err != nil {
			n.log.Warn("⚠️  Notification failed", zap.String("kind", kind), zap.Error(err))
		}
	}()
}

func (n *notificationService) url(format string, args ...interface{}) string {
	return n.frontendURL + fmt.Sprintf(format, args...)
}

func (n *notificationService) notifyUser(ctx context.Context, user *models.User, notification *models.Notification, template, subject string, data map[string]interface{}) error {
	notification.UserID = user.ID
	notification.OrganizationID = user.OrganizationID
	if err := n.repo.Create(ctx, notification); err != nil {
		return err
	}

	if data == nil {
		return nil
	}
	data["RecruiterName"] = user.FullName()
	data["ActionURL"] = notification.ActionURL
	return n.mailer.Send(ctx, user.Email, subject, template, data)
}

// StrongMatch implements NotificationService.
func (n *notificationService) StrongMatch(ctx context.Context, job *models.Job, resume *models.Resume, match *models.JobMatch) {
	n.dispatch(ctx, "strong_match", func(ctx context.Context) error {
		recruiter, err := n.users.FindByID(ctx, job.RecruiterID)
		if err != nil {
			return err
		}

		candidate := resume.CandidateInfo.Data().Name
		notification := &models.Notification{
			Type:     models.NotificationMatchFound,
			Title:    "Strong candidate match",
			Message:  fmt.Sprintf("%s scored %d for %s", candidate, match.MatchScore, job.Title),
			Priority: models.PriorityHigh,
			Data: datatypes.JSONMap{
				"job_id":       job.ID.String(),
				"candidate_id": resume.ID.String(),
				"match_id":     match.ID.String(),
				"score":        match.MatchScore,
			},
			ActionURL: n.url("/jobs/%s/matches", job.ID),
		}

		return n.notifyUser(ctx, recruiter, notification, EmailStrongMatch,
			fmt.Sprintf("Strong match for %s", job.Title),
			map[string]interface{}{
				"CandidateName": candidate,
				"JobTitle":      job.Title,
				"Score":         match.MatchScore,
			})
	})
}

// InterviewInvited implements NotificationService.
func (n *notificationService) InterviewInvited(ctx context.Context, interview *models.Interview, jobTitle string) {
	n.dispatch(ctx, "interview_invited", func(ctx context.Context) error {
		if interview.CandidateEmail == "" {
			return fmt.Errorf("interview %s has no candidate email", interview.ID)
		}
		return n.mailer.Send(ctx, interview.CandidateEmail,
			fmt.Sprintf("Interview Invitation: %s", jobTitle),
			EmailInterviewInvitation,
			map[string]interface{}{
				"CandidateName": interview.CandidateName,
				"JobTitle":      jobTitle,
				"InterviewURL":  n.url("/interview/%s", interview.AccessToken),
				"ExpiresAt":     interview.ExpiresAt.Format(expiryDateLayout),
			})
	})
}

// InterviewCompleted implements NotificationService.
func (n *notificationService) InterviewCompleted(ctx context.Context, interview *models.Interview, jobTitle string) {
	n.dispatch(ctx, "interview_completed", func(ctx context.Context) error {
		inviter, err := n.users.FindByID(ctx, interview.InvitedBy)
		if err != nil {
			return err
		}

		score := 0
		if interview.OverallScore != nil {
			score = *interview.OverallScore
		}
		recommendation := interview.AIAssessment.Data().Recommendation

		notification := &models.Notification{
			Type:     models.NotificationInterviewCompleted,
			Title:    "Interview completed",
			Message:  fmt.Sprintf("%s completed the interview with a score of %d", interview.CandidateName, score),
			Priority: models.PriorityMedium,
			Data: datatypes.JSONMap{
				"interview_id":   interview.ID.String(),
				"candidate_id":   interview.CandidateID.String(),
				"overall_score":  score,
				"recommendation": string(recommendation),
			},
			ActionURL: n.url("/interviews/%s", interview.ID),
		}

		return n.notifyUser(ctx, inviter, notification, EmailInterviewCompleted,
			fmt.Sprintf("Interview completed: %s", interview.CandidateName),
			map[string]interface{}{
				"CandidateName":  interview.CandidateName,
				"JobTitle":       jobTitle,
				"OverallScore":   score,
				"Recommendation": recommendation,
			})
	})
}

// InterviewFeedback implements NotificationService.
func (n *notificationService) InterviewFeedback(ctx context.Context, interview *models.Interview, jobTitle string) {
	n.dispatch(ctx, "interview_feedback", func(ctx context.Context) error {
		if interview.CandidateEmail == "" {
			return fmt.Errorf("interview %s has no candidate email", interview.ID)
		}
		data := map[string]interface{}{
			"CandidateName": interview.CandidateName,
			"JobTitle":      jobTitle,
			"Comments":      interview.Feedback.Comments,
		}
		if interview.Feedback.Rating != nil {
			data["Rating"] = *interview.Feedback.Rating
		}
		return n.mailer.Send(ctx, interview.CandidateEmail,
			fmt.Sprintf("Interview Feedback: %s", jobTitle), EmailInterviewFeedback, data)
	})
}

// CandidateCredentials implements NotificationService.
func (n *notificationService) CandidateCredentials(ctx context.Context, user *models.User, password string, interview *models.Interview, jobTitle string) error {
	data := map[string]interface{}{
		"CandidateName":  user.FullName(),
		"CandidateEmail": user.Email,
		"Password":       password,
		"LoginURL":       n.url("/login"),
		"JobTitle":       jobTitle,
	}
	subject := "Your Candidate Portal Credentials"
	if interview != nil {
		data["InterviewURL"] = n.url("/interview/%s", interview.AccessToken)
		data["ExpiresAt"] = interview.ExpiresAt.Format(expiryDateLayout)
		subject = fmt.Sprintf("Interview Invitation: %s - Your Login Credentials", jobTitle)
	}
	return n.mailer.Send(ctx, user.Email, subject, EmailCandidateCredentials, data)
}

// PasswordReset implements NotificationService.
func (n *notificationService) PasswordReset(ctx context.Context, user *models.User, token string, validFor time.Duration) error {
	return n.mailer.Send(ctx, user.Email, "Password Reset Request", EmailPasswordReset, map[string]interface{}{
		"Name":     user.FullName(),
		"ResetURL": n.url("/reset-password/%s", token),
		"ValidFor": fmt.Sprintf("%.0f minutes", validFor.Minutes()),
	})
}
