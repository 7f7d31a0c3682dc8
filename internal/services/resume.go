package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
)

const (
	maxBulkUploadFiles = 10
	reindexBatchSize   = 100
	unknownCandidate   = "Unknown"
)

type ResumeService interface {
	List(ctx context.Context, caller *models.Caller, status models.ResumeStatus, page models.PageQuery) ([]models.Resume, int64, error)
	Get(ctx context.Context, caller *models.Caller, id uuid.UUID) (*models.Resume, error)
	Delete(ctx context.Context, caller *models.Caller, id uuid.UUID) error
	Upload(ctx context.Context, caller *models.Caller, file *multipart.FileHeader, req models.ResumeUploadRequest) (*models.UploadResponse, error)
	BulkUpload(ctx context.Context, caller *models.Caller, files []*multipart.FileHeader) (*models.BulkUploadResponse, error)
	Paste(ctx context.Context, caller *models.Caller, req models.PasteResumeRequest) (*models.Resume, error)
	UpdateStatus(ctx context.Context, caller *models.Caller, id uuid.UUID, status models.ResumeStatus) (*models.Resume, error)
	Reindex(ctx context.Context) (int, error)
}

type resumeService struct {
	resumes    repositories.ResumeRepository
	users      repositories.UserRepository
	jobs       repositories.JobRepository
	matches    repositories.JobMatchRepository
	storage    StorageService
	parser     DocumentParser
	hasher     PasswordHasher
	interviews InterviewService
	notifier   NotificationService
	worker     Worker
	processor  ResumeProcessor
	index      CandidateIndex
	log        *zap.Logger
}

// NewResumeService wires the resume pipeline. index may be nil when vector
// search is disabled.
func NewResumeService(
	resumes repositories.ResumeRepository,
	users repositories.UserRepository,
	jobs repositories.JobRepository,
	matches repositories.JobMatchRepository,
	storage StorageService,
	parser DocumentParser,
	hasher PasswordHasher,
	interviews InterviewService,
	notifier NotificationService,
	worker Worker,
	processor ResumeProcessor,
	index CandidateIndex,
	log *zap.Logger,
) ResumeService {
	return &resumeService{
		resumes:    resumes,
		users:      users,
		jobs:       jobs,
		matches:    matches,
		storage:    storage,
		parser:     parser,
		hasher:     hasher,
		interviews: interviews,
		notifier:   notifier,
		worker:     worker,
		processor:  processor,
		index:      index,
		log:        log.Named("resumes"),
	}
}

// List implements ResumeService.
func (s *resumeService) List(ctx context.Context, caller *models.Caller, status models.ResumeStatus, page models.PageQuery) ([]models.Resume, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperr.Validation("status", "invalid resume status %q", status)
	}
	return s.resumes.List(ctx, repositories.ResumeFilter{OrganizationID: caller.OrgID(), Status: status}, page)
}

// Get implements ResumeService.
func (s *resumeService) Get(ctx context.Context, caller *models.Caller, id uuid.UUID) (*models.Resume, error) {
	return s.resumes.FindByID(ctx, caller.OrgID(), id)
}

// Delete implements ResumeService. Matches go with the resume; the stored
// file and the index point are removed best effort.
func (s *resumeService) Delete(ctx context.Context, caller *models.Caller, id uuid.UUID) error {
	resume, err := s.resumes.FindByID(ctx, caller.OrgID(), id)
	if err != nil {
		return err
	}

	if err := s.matches.DeleteByCandidate(ctx, resume.OrganizationID, resume.ID); err != nil {
		return err
	}
	if err := s.resumes.Delete(ctx, resume.OrganizationID, resume.ID); err != nil {
		return err
	}

	if stored := resume.ResumeFile.Data().StoredName; stored != "" {
		if err := s.storage.DeleteFile(stored); err != nil {
			s.log.Warn("⚠️  Failed to delete resume file", zap.String("resume_id", resume.ID.String()), zap.Error(err))
		}
	}
	if s.index != nil {
		if err := s.index.Delete(ctx, resume.ID); err != nil {
			s.log.Warn("⚠️  Failed to delete resume from index", zap.String("resume_id", resume.ID.String()), zap.Error(err))
		}
	}

	s.log.Info("🗑️  Resume deleted", zap.String("resume_id", resume.ID.String()))
	return nil
}

// storeAndParse saves the upload and extracts its text. A file that cannot
// be parsed is still kept; its analysis will fail later.
func (s *resumeService) storeAndParse(file *multipart.FileHeader) (*StoredFile, string, BasicInfo, error) {
	stored, err := s.storage.SaveFile(file, "resume")
	if err != nil {
		return nil, "", BasicInfo{}, err
	}

	text, err := s.parser.ExtractText(stored.Path, stored.FileType)
	if err != nil {
		s.log.Warn("⚠️  Failed to parse resume", zap.String("file", file.Filename), zap.Error(err))
		return stored, "", BasicInfo{Skills: []string{}}, nil
	}
	return stored, text, ExtractBasicInfo(text), nil
}

func newUploadedResume(caller *models.Caller, file *multipart.FileHeader, stored *StoredFile, text string, info models.CandidateInfo, skills []string) *models.Resume {
	return &models.Resume{
		OrganizationID: caller.OrgID(),
		UploadedBy:     caller.UserID,
		CandidateInfo:  datatypes.NewJSONType(info),
		ResumeFile: datatypes.NewJSONType(models.ResumeFile{
			OriginalName: file.Filename,
			StoredName:   stored.StoredName,
			FileType:     stored.FileType,
			FileSize:     stored.Size,
			UploadedAt:   time.Now(),
		}),
		ParsedData: datatypes.NewJSONType(models.ParsedResume{
			RawText: text,
			Skills:  skills,
		}),
		Tags:   datatypes.JSONSlice[string]{},
		Source: models.SourceUpload,
	}
}

// Upload implements ResumeService. Besides storing the resume it provisions
// a candidate account, optionally opens an interview for the given job and
// emails the credentials.
func (s *resumeService) Upload(ctx context.Context, caller *models.Caller, file *multipart.FileHeader, req models.ResumeUploadRequest) (*models.UploadResponse, error) {
	if file == nil {
		return nil, apperr.Validation("resume", "no file uploaded")
	}
	email := strings.ToLower(strings.TrimSpace(req.CandidateEmail))
	if email == "" {
		return nil, apperr.Validation("candidate_email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("candidate_email", "is not a valid email address")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Role != models.RoleCandidate {
		return nil, fmt.Errorf("%w: %s belongs to a staff account", apperr.ErrDuplicate, email)
	}

	var job *models.Job
	if req.JobID != nil {
		job, err = s.jobs.FindByID(ctx, caller.OrgID(), *req.JobID)
		if err != nil {
			return nil, err
		}
	}

	stored, text, extracted, err := s.storeAndParse(file)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.CandidateName)
	if name == "" {
		name = unknownCandidate
	}
	phone := strings.TrimSpace(req.CandidatePhone)
	if phone == "" {
		phone = extracted.Phone
	}

	resume := newUploadedResume(caller, file, stored, text, models.CandidateInfo{Name: name, Email: email, Phone: phone}, extracted.Skills)
	if err := s.resumes.Create(ctx, resume); err != nil {
		if delErr := s.storage.DeleteFile(stored.StoredName); delErr != nil {
			s.log.Warn("⚠️  Failed to remove orphaned file", zap.Error(delErr))
		}
		return nil, err
	}
	s.worker.Enqueue(resume.ID)

	password, err := GeneratePassword()
	if err != nil {
		return nil, err
	}
	candidate, err := s.provisionCandidate(ctx, existing, email, strings.TrimSpace(req.CandidateName), password, resume.ID)
	if err != nil {
		return nil, err
	}

	resp := &models.UploadResponse{
		Resume:    resume,
		Candidate: &models.UploadCandidate{ID: candidate.ID, Email: candidate.Email},
		Message:   "Resume uploaded and candidate account created",
	}

	jobTitle := "Open Position"
	var interview *models.Interview
	if job != nil {
		jobTitle = job.Title
		interview, err = s.interviews.CreateForResume(ctx, caller, resume, job)
		if err != nil {
			s.log.Warn("⚠️  Failed to create interview for upload",
				zap.String("resume_id", resume.ID.String()), zap.Error(err))
		} else {
			candidate.InterviewID = &interview.ID
			if err := s.users.Save(ctx, candidate); err != nil {
				s.log.Warn("⚠️  Failed to link interview to candidate", zap.Error(err))
			}
			resp.Interview = &models.UploadInterview{
				ID:          interview.ID,
				AccessToken: interview.AccessToken,
				ExpiresAt:   interview.ExpiresAt,
			}
		}
	}

	if err := s.notifier.CandidateCredentials(ctx, candidate, password, interview, jobTitle); err != nil {
		s.log.Error("❌ Failed to send candidate credentials", zap.String("email", email), zap.Error(err))
	} else {
		resp.Candidate.PasswordSent = true
		resp.Message = "Resume uploaded, candidate created, and credentials sent via email"
	}

	s.log.Info("📄 Resume uploaded",
		zap.String("resume_id", resume.ID.String()),
		zap.Bool("interview", resp.Interview != nil))
	return resp, nil
}

// provisionCandidate creates the candidate account or resets the password
// of an existing one.
func (s *resumeService) provisionCandidate(ctx context.Context, existing *models.User, email, name, password string, resumeID uuid.UUID) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.PasswordHash = hash
		existing.ResumeID = &resumeID
		if err := s.users.Save(ctx, existing); err != nil {
			return nil, err
		}
		s.log.Info("✅ Updated existing candidate user", zap.String("user_id", existing.ID.String()))
		return existing, nil
	}

	first, last := splitName(name)
	user := &models.User{
		Email:              email,
		Username:           fmt.Sprintf("%s_%d", strings.SplitN(email, "@", 2)[0], time.Now().UnixMilli()),
		PasswordHash:       hash,
		Role:               models.RoleCandidate,
		Status:             models.UserActive,
		EmailNotifications: true,
		ResumeID:           &resumeID,
		Profile:            models.UserProfile{FirstName: first, LastName: last},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("✅ Created candidate user", zap.String("user_id", user.ID.String()))
	return user, nil
}

// BulkUpload implements ResumeService. Each file succeeds or fails on its own.
func (s *resumeService) BulkUpload(ctx context.Context, caller *models.Caller, files []*multipart.FileHeader) (*models.BulkUploadResponse, error) {
	if len(files) == 0 {
		return nil, apperr.Validation("resumes", "no files uploaded")
	}
	if len(files) > maxBulkUploadFiles {
		return nil, apperr.Validation("resumes", "at most %d files per upload", maxBulkUploadFiles)
	}

	result := mapPartial(ctx, files, func(ctx context.Context, file *multipart.FileHeader) (models.BulkUploadItem, error) {
		stored, text, extracted, err := s.storeAndParse(file)
		if err != nil {
			return models.BulkUploadItem{}, err
		}

		info := models.CandidateInfo{Name: unknownCandidate, Email: extracted.Email, Phone: extracted.Phone}
		resume := newUploadedResume(caller, file, stored, text, info, extracted.Skills)
		if err := s.resumes.Create(ctx, resume); err != nil {
			if delErr := s.storage.DeleteFile(stored.StoredName); delErr != nil {
				s.log.Warn("⚠️  Failed to remove orphaned file", zap.Error(delErr))
			}
			return models.BulkUploadItem{}, err
		}
		s.worker.Enqueue(resume.ID)
		return models.BulkUploadItem{Filename: file.Filename, ResumeID: resume.ID}, nil
	})

	resp := &models.BulkUploadResponse{
		Successful: result.Succeeded,
		Failed:     make([]models.BulkUploadFailure, 0, len(result.Failed)),
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, models.BulkUploadFailure{Filename: f.Item.Filename, Error: f.Err.Error()})
	}

	s.log.Info("📦 Bulk upload finished", zap.Int("successful", len(resp.Successful)), zap.Int("failed", len(resp.Failed)))
	return resp, nil
}

// Paste implements ResumeService.
func (s *resumeService) Paste(ctx context.Context, caller *models.Caller, req models.PasteResumeRequest) (*models.Resume, error) {
	text := CleanText(req.RawText)
	if text == "" {
		return nil, apperr.Validation("raw_text", "is required")
	}

	extracted := ExtractBasicInfo(text)
	info := req.CandidateInfo
	info.Name = strings.TrimSpace(info.Name)
	if info.Name == "" {
		info.Name = unknownCandidate
	}
	if info.Email = strings.ToLower(strings.TrimSpace(info.Email)); info.Email == "" {
		info.Email = extracted.Email
	}
	if info.Phone = strings.TrimSpace(info.Phone); info.Phone == "" {
		info.Phone = extracted.Phone
	}

	resume := &models.Resume{
		OrganizationID: caller.OrgID(),
		UploadedBy:     caller.UserID,
		CandidateInfo:  datatypes.NewJSONType(info),
		ParsedData: datatypes.NewJSONType(models.ParsedResume{
			RawText: text,
			Skills:  extracted.Skills,
		}),
		Tags:   datatypes.JSONSlice[string]{},
		Source: models.SourcePaste,
	}
	if err := s.resumes.Create(ctx, resume); err != nil {
		return nil, err
	}
	s.worker.Enqueue(resume.ID)
	return resume, nil
}

// UpdateStatus implements ResumeService.
func (s *resumeService) UpdateStatus(ctx context.Context, caller *models.Caller, id uuid.UUID, status models.ResumeStatus) (*models.Resume, error) {
	if !status.Valid() {
		return nil, apperr.Validation("status", "invalid resume status %q", status)
	}
	if err := s.resumes.UpdateStatus(ctx, caller.OrgID(), id, status); err != nil {
		return nil, err
	}
	return s.resumes.FindByID(ctx, caller.OrgID(), id)
}

// Reindex implements ResumeService. Every analyzed resume is embedded again
// and written to the candidate index. Individual failures are logged.
func (s *resumeService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, apperr.InvalidState("candidate search is not enabled")
	}

	indexed := 0
	after := uuid.Nil
	for {
		batch, err := s.resumes.ListAnalyzed(ctx, after, reindexBatchSize)
		if err != nil {
			return indexed, err
		}
		if len(batch) == 0 {
			break
		}

		for i := range batch {
			resume := &batch[i]
			if err := s.processor.Index(ctx, resume); err != nil {
				s.log.Warn("⚠️  Failed to reindex resume", zap.String("resume_id", resume.ID.String()), zap.Error(err))
				continue
			}
			indexed++
		}
		after = batch[len(batch)-1].ID
	}

	s.log.Info("✅ Reindex finished", zap.Int("indexed", indexed))
	return indexed, nil
}
