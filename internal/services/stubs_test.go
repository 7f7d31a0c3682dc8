package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"hireflow/ats-platform/internal/models"
)

var errStubAI = errors.New("model unavailable")

type stubGenerator struct {
	reply string
	err   error
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return g.reply, g.err
}

type stubMatchAnalyzer struct {
	analysis *models.MatchAnalysis
	err      error

	mu    sync.Mutex
	calls int
}

func (a *stubMatchAnalyzer) Analyze(ctx context.Context, job *models.Job, resume *models.Resume) (*models.MatchAnalysis, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	out := *a.analysis
	return &out, nil
}

type stubInterviewAnalyzer struct {
	answer     *models.AnswerAnalysis
	assessment *models.InterviewAssessment
	err        error
}

func (a *stubInterviewAnalyzer) AnalyzeAnswer(ctx context.Context, q *models.InterviewQuestion, answer, jobTitle string) (*models.AnswerAnalysis, error) {
	if a.err != nil {
		return nil, a.err
	}
	out := *a.answer
	return &out, nil
}

func (a *stubInterviewAnalyzer) AnalyzeOverall(ctx context.Context, interview *models.Interview, jobTitle string) (*models.InterviewAssessment, error) {
	if a.err != nil {
		return nil, a.err
	}
	out := *a.assessment
	return &out, nil
}

// recordingNotifier counts fan-out calls and remembers the last reset token.
type recordingNotifier struct {
	mu          sync.Mutex
	strong      int
	invited     int
	completed   int
	feedback    int
	resetToken  string
	credentials int
}

func (n *recordingNotifier) List(ctx context.Context, caller *models.Caller, limit int, unreadOnly bool) ([]models.Notification, error) {
	return nil, nil
}

func (n *recordingNotifier) UnreadCount(ctx context.Context, caller *models.Caller) (int64, error) {
	return 0, nil
}

func (n *recordingNotifier) MarkRead(ctx context.Context, caller *models.Caller, id uuid.UUID) error {
	return nil
}

func (n *recordingNotifier) MarkAllRead(ctx context.Context, caller *models.Caller) (int64, error) {
	return 0, nil
}

func (n *recordingNotifier) Delete(ctx context.Context, caller *models.Caller, id uuid.UUID) error {
	return nil
}

func (n *recordingNotifier) StrongMatch(ctx context.Context, job *models.Job, resume *models.Resume, match *models.JobMatch) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.strong++
}

func (n *recordingNotifier) InterviewInvited(ctx context.Context, interview *models.Interview, jobTitle string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invited++
}

func (n *recordingNotifier) InterviewCompleted(ctx context.Context, interview *models.Interview, jobTitle string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed++
}

func (n *recordingNotifier) InterviewFeedback(ctx context.Context, interview *models.Interview, jobTitle string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.feedback++
}

func (n *recordingNotifier) CandidateCredentials(ctx context.Context, user *models.User, password string, interview *models.Interview, jobTitle string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.credentials++
	return nil
}

func (n *recordingNotifier) PasswordReset(ctx context.Context, user *models.User, token string, validFor time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetToken = token
	return nil
}

func (n *recordingNotifier) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (n *recordingNotifier) Wait() {}

func recruiterCaller(orgID, userID uuid.UUID) *models.Caller {
	return &models.Caller{UserID: userID, Role: models.RoleRecruiter, OrganizationID: &orgID}
}
