package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hireflow/ats-platform/internal/models"
)

// resumeAnalysisConfidence is attached to every successful extraction.
const resumeAnalysisConfidence = 0.85

type ResumeAnalyzer interface {
	Analyze(ctx context.Context, resumeText string) (*models.ResumeAnalysis, error)
}

var resumeRequiredPaths = []string{"extracted_skills", "experience_years"}

type resumeAnalyzer struct {
	call    aiCall
	prompts *PromptBuilder
	log     *zap.Logger
}

func NewResumeAnalyzer(gen TextGenerator, timeout time.Duration, log *zap.Logger) ResumeAnalyzer {
	return &resumeAnalyzer{
		call:    aiCall{gen: gen, timeout: timeout, temperature: 0.3},
		prompts: NewPromptBuilder(),
		log:     log.Named("resume_analyzer"),
	}
}

// Analyze implements ResumeAnalyzer.
func (r *resumeAnalyzer) Analyze(ctx context.Context, resumeText string) (*models.ResumeAnalysis, error) {
	var result models.ResumeAnalysis
	if err := r.call.run(ctx, "resume", r.prompts.BuildResumePrompt(resumeText), resumeRequiredPaths, &result); err != nil {
		return nil, err
	}

	if err := checkRange("experience_years", result.ExperienceYears, 0, 70); err != nil {
		return nil, &AnalyzerError{Op: "resume", Err: err}
	}
	switch result.CareerLevel {
	case "", models.CareerEntry, models.CareerMid, models.CareerSenior, models.CareerExecutive:
	default:
		return nil, &AnalyzerError{Op: "resume", Err: fmt.Errorf("unknown career level %q", result.CareerLevel)}
	}

	now := time.Now()
	result.Confidence = resumeAnalysisConfidence
	result.ProcessedAt = &now
	return &result, nil
}
