package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ResumeStatus string

const (
	ResumeNew          ResumeStatus = "new"
	ResumeScreening    ResumeStatus = "screening"
	ResumeMatched      ResumeStatus = "matched"
	ResumeInterviewing ResumeStatus = "interviewing"
	ResumeShortlisted  ResumeStatus = "shortlisted"
	ResumeRejected     ResumeStatus = "rejected"
	ResumeHired        ResumeStatus = "hired"
	ResumeArchived     ResumeStatus = "archived"
)

func (s ResumeStatus) Valid() bool {
	switch s {
	case ResumeNew, ResumeScreening, ResumeMatched, ResumeInterviewing,
		ResumeShortlisted, ResumeRejected, ResumeHired, ResumeArchived:
		return true
	}
	return false
}

type ProcessingStatus string

const (
	ProcessingPending    ProcessingStatus = "pending"
	ProcessingProcessing ProcessingStatus = "processing"
	ProcessingCompleted  ProcessingStatus = "completed"
	ProcessingFailed     ProcessingStatus = "failed"
)

type ResumeSource string

const (
	SourceUpload   ResumeSource = "upload"
	SourcePaste    ResumeSource = "paste"
	SourceEmail    ResumeSource = "email"
	SourceAPI      ResumeSource = "api"
	SourceReferral ResumeSource = "referral"
)

type CareerLevel string

const (
	CareerEntry     CareerLevel = "entry"
	CareerMid       CareerLevel = "mid"
	CareerSenior    CareerLevel = "senior"
	CareerExecutive CareerLevel = "executive"
)

type CandidateLocation struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

type CandidateInfo struct {
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone,omitempty"`
	LinkedIn  string            `json:"linkedin,omitempty"`
	Portfolio string            `json:"portfolio,omitempty"`
	Location  CandidateLocation `json:"location"`
}

type ResumeFile struct {
	OriginalName string    `json:"original_name"`
	StoredName   string    `json:"stored_name"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type WorkExperience struct {
	Company     string `json:"company,omitempty"`
	Title       string `json:"title,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

type EducationEntry struct {
	Institution string `json:"institution,omitempty"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartYear   string `json:"start_year,omitempty"`
	EndYear     string `json:"end_year,omitempty"`
}

type ParsedResume struct {
	RawText    string           `json:"raw_text,omitempty"`
	Skills     []string         `json:"skills"`
	Experience []WorkExperience `json:"experience,omitempty"`
	Education  []EducationEntry `json:"education,omitempty"`
	Languages  []string         `json:"languages,omitempty"`
	Summary    string           `json:"summary,omitempty"`
}

// ResumeAnalysis holds attributes derived by the AI resume analyzer.
type ResumeAnalysis struct {
	ExtractedSkills    []string    `json:"extracted_skills"`
	ExperienceYears    float64     `json:"experience_years"`
	KeyStrengths       []string    `json:"key_strengths"`
	IndustryExperience []string    `json:"industry_experience"`
	EducationLevel     string      `json:"education_level"`
	CareerLevel        CareerLevel `json:"career_level"`
	Confidence         float64     `json:"confidence"`
	ProcessedAt        *time.Time  `json:"processed_at,omitempty"`
}

type Resume struct {
	ID               uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID   uuid.UUID                          `gorm:"type:uuid;not null;index:idx_resumes_org_status,priority:1" json:"organization_id"`
	UploadedBy       uuid.UUID                          `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	CandidateInfo    datatypes.JSONType[CandidateInfo]  `json:"candidate_info"`
	ResumeFile       datatypes.JSONType[ResumeFile]     `json:"resume_file"`
	ParsedData       datatypes.JSONType[ParsedResume]   `json:"parsed_data"`
	AIAnalysis       datatypes.JSONType[ResumeAnalysis] `json:"ai_analysis"`
	ProcessingStatus ProcessingStatus                   `gorm:"type:text;not null;index" json:"processing_status"`
	Status           ResumeStatus                       `gorm:"type:text;not null;index:idx_resumes_org_status,priority:2" json:"status"`
	Tags             datatypes.JSONSlice[string]        `json:"tags"`
	Source           ResumeSource                       `gorm:"type:text;not null" json:"source"`
	CreatedAt        time.Time                          `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time                          `json:"updated_at"`
}

func (Resume) TableName() string {
	return "resumes"
}

func (r *Resume) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	if r.Status == "" {
		r.Status = ResumeNew
	}
	if r.ProcessingStatus == "" {
		r.ProcessingStatus = ProcessingPending
	}
	if r.Source == "" {
		r.Source = SourceUpload
	}
	return nil
}

// Skills returns the parsed skill list, falling back to AI-extracted skills.
func (r *Resume) Skills() []string {
	if skills := r.ParsedData.Data().Skills; len(skills) > 0 {
		return skills
	}
	return r.AIAnalysis.Data().ExtractedSkills
}
