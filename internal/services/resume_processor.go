package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hireflow/ats-platform/internal/models"
	"hireflow/ats-platform/internal/repositories"
)

// ResumeProcessor runs AI analysis for one resume and keeps the candidate
// index in sync with it.
type ResumeProcessor interface {
	Process(ctx context.Context, resumeID uuid.UUID) error
	Index(ctx context.Context, resume *models.Resume) error
}

type resumeProcessor struct {
	resumes  repositories.ResumeRepository
	analyzer ResumeAnalyzer
	embedder Embedder
	index    CandidateIndex
	log      *zap.Logger
}

// NewResumeProcessor builds a processor. embedder and index may be nil, in
// which case resumes are analyzed but not indexed.
func NewResumeProcessor(
	resumes repositories.ResumeRepository,
	analyzer ResumeAnalyzer,
	embedder Embedder,
	index CandidateIndex,
	log *zap.Logger,
) ResumeProcessor {
	return &resumeProcessor{
		resumes:  resumes,
		analyzer: analyzer,
		embedder: embedder,
		index:    index,
		log:      log.Named("resume_processor"),
	}
}

// Process implements ResumeProcessor. Any analysis failure leaves the resume
// in the failed processing state.
func (p *resumeProcessor) Process(ctx context.Context, resumeID uuid.UUID) error {
	resume, err := p.resumes.FindForProcessing(ctx, resumeID)
	if err != nil {
		return err
	}
	if resume.ProcessingStatus == models.ProcessingCompleted {
		return nil
	}

	if err := p.resumes.UpdateProcessingStatus(ctx, resume.ID, models.ProcessingProcessing); err != nil {
		return err
	}

	text := strings.TrimSpace(resume.ParsedData.Data().RawText)
	if text == "" {
		p.markFailed(ctx, resume.ID)
		return fmt.Errorf("resume %s has no text to analyze", resume.ID)
	}

	analysis, err := p.analyzer.Analyze(ctx, TruncateText(text, maxAnalysisChars))
	if err != nil {
		p.markFailed(ctx, resume.ID)
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	if err := p.resumes.SaveAnalysis(ctx, resume.ID, *analysis); err != nil {
		p.markFailed(ctx, resume.ID)
		return err
	}

	resume.ProcessingStatus = models.ProcessingCompleted
	resume.AIAnalysis = datatypes.NewJSONType(*analysis)

	if err := p.Index(ctx, resume); err != nil {
		p.log.Warn("⚠️  Failed to index resume", zap.String("resume_id", resume.ID.String()), zap.Error(err))
	}
	return nil
}

func (p *resumeProcessor) markFailed(ctx context.Context, id uuid.UUID) {
	if err := p.resumes.UpdateProcessingStatus(context.WithoutCancel(ctx), id, models.ProcessingFailed); err != nil {
		p.log.Error("❌ Failed to mark resume processing failed", zap.String("resume_id", id.String()), zap.Error(err))
	}
}

// Index implements ResumeProcessor. It is a no-op when vector search is disabled.
func (p *resumeProcessor) Index(ctx context.Context, resume *models.Resume) error {
	if p.embedder == nil || p.index == nil {
		return nil
	}

	vector, err := p.embedder.GenerateEmbedding(ctx, resumeEmbeddingText(resume))
	if err != nil {
		return fmt.Errorf("failed to embed resume: %w", err)
	}
	return p.index.Upsert(ctx, resume, vector)
}

func resumeEmbeddingText(resume *models.Resume) string {
	analysis := resume.AIAnalysis.Data()
	parts := []string{
		"Skills: " + strings.Join(resume.Skills(), ", "),
		"Strengths: " + strings.Join(analysis.KeyStrengths, ", "),
		"Industries: " + strings.Join(analysis.IndustryExperience, ", "),
		"Education: " + analysis.EducationLevel,
		TruncateText(resume.ParsedData.Data().RawText, maxAnalysisChars),
	}
	return strings.Join(parts, "\n")
}
