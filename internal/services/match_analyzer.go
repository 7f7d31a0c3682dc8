package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hireflow/ats-platform/internal/models"
)

type MatchAnalyzer interface {
	Analyze(ctx context.Context, job *models.Job, resume *models.Resume) (*models.MatchAnalysis, error)
}

var matchRequiredPaths = []string{
	"overall_score",
	"skill_match.score",
	"experience_match.score",
	"education_match.score",
	"culture_fit.score",
	"recommendation",
	"reasoning",
	"confidence",
}

type matchAnalyzer struct {
	call    aiCall
	prompts *PromptBuilder
	log     *zap.Logger
}

func NewMatchAnalyzer(gen TextGenerator, timeout time.Duration, log *zap.Logger) MatchAnalyzer {
	return &matchAnalyzer{
		call:    aiCall{gen: gen, timeout: timeout, temperature: 0.2},
		prompts: NewPromptBuilder(),
		log:     log.Named("match_analyzer"),
	}
}

// Analyze implements MatchAnalyzer.
func (m *matchAnalyzer) Analyze(ctx context.Context, job *models.Job, resume *models.Resume) (*models.MatchAnalysis, error) {
	prompt := m.prompts.BuildMatchPrompt(job, resume)
	m.log.Debug("📝 Match prompt built", zap.Int("length", len(prompt)))

	var analysis models.MatchAnalysis
	if err := m.call.run(ctx, "match", prompt, matchRequiredPaths, &analysis); err != nil {
		return nil, err
	}

	if err := validateMatchAnalysis(&analysis); err != nil {
		return nil, &AnalyzerError{Op: "match", Err: err}
	}

	if analysis.SkillMatch.Matched == nil {
		analysis.SkillMatch.Matched = []string{}
	}
	if analysis.SkillMatch.Missing == nil {
		analysis.SkillMatch.Missing = []string{}
	}
	return &analysis, nil
}

func validateMatchAnalysis(a *models.MatchAnalysis) error {
	scores := []struct {
		field string
		value float64
	}{
		{"overall_score", a.OverallScore},
		{"skill_match.score", a.SkillMatch.Score},
		{"experience_match.score", a.ExperienceMatch.Score},
		{"education_match.score", a.EducationMatch.Score},
		{"culture_fit.score", a.CultureFit.Score},
	}
	for _, s := range scores {
		if err := checkScore(s.field, s.value); err != nil {
			return err
		}
	}
	if err := checkConfidence(a.Confidence); err != nil {
		return err
	}
	if !a.Recommendation.Valid() {
		return fmt.Errorf("unknown recommendation %q", a.Recommendation)
	}
	return nil
}
