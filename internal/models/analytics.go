package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupCount is one bucket of a count-by-column aggregate.
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type PlatformOverview struct {
	TotalOrganizations  int64 `json:"total_organizations"`
	ActiveOrganizations int64 `json:"active_organizations"`
	TotalUsers          int64 `json:"total_users"`
	TotalJobs           int64 `json:"total_jobs"`
	TotalResumes        int64 `json:"total_resumes"`
	TotalInterviews     int64 `json:"total_interviews"`
}

type PlatformAnalytics struct {
	Overview            PlatformOverview `json:"overview"`
	UsersByRole         []GroupCount     `json:"users_by_role"`
	OrgsByPlan          []GroupCount     `json:"orgs_by_plan"`
	RecentOrganizations []Organization   `json:"recent_organizations"`
}

type OrganizationOverview struct {
	TotalRecruiters     int64   `json:"total_recruiters"`
	ActiveJobs          int64   `json:"active_jobs"`
	TotalResumes        int64   `json:"total_resumes"`
	TotalMatches        int64   `json:"total_matches"`
	CompletedInterviews int64   `json:"completed_interviews"`
	AvgMatchScore       float64 `json:"avg_match_score"`
}

type OrganizationAnalytics struct {
	Overview           OrganizationOverview `json:"overview"`
	JobsByStatus       []GroupCount         `json:"jobs_by_status"`
	ResumesByStatus    []GroupCount         `json:"resumes_by_status"`
	InterviewsByStatus []GroupCount         `json:"interviews_by_status"`
}

type RecruiterOverview struct {
	MyJobs       int64 `json:"my_jobs"`
	MyResumes    int64 `json:"my_resumes"`
	MyMatches    int64 `json:"my_matches"`
	MyInterviews int64 `json:"my_interviews"`
}

type JobPerformance struct {
	JobID      uuid.UUID `json:"job_id"`
	Title      string    `json:"title"`
	Status     JobStatus `json:"status"`
	MatchCount int       `json:"match_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type TopMatch struct {
	MatchID       uuid.UUID `json:"match_id"`
	JobTitle      string    `json:"job_title"`
	CandidateName string    `json:"candidate_name"`
	MatchScore    int       `json:"match_score"`
}

type RecruiterAnalytics struct {
	Overview        RecruiterOverview `json:"overview"`
	JobsPerformance []JobPerformance  `json:"jobs_performance"`
	InterviewStats  []GroupCount      `json:"interview_stats"`
	TopMatches      []TopMatch        `json:"top_matches"`
}
