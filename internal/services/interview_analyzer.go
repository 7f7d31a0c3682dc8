package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hireflow/ats-platform/internal/models"
)

type InterviewAnalyzer interface {
	AnalyzeAnswer(ctx context.Context, q *models.InterviewQuestion, answer, jobTitle string) (*models.AnswerAnalysis, error)
	AnalyzeOverall(ctx context.Context, interview *models.Interview, jobTitle string) (*models.InterviewAssessment, error)
}

var (
	answerRequiredPaths     = []string{"score", "sentiment", "confidence"}
	assessmentRequiredPaths = []string{
		"technical_score",
		"communication_score",
		"problem_solving_score",
		"culture_fit_score",
		"recommendation",
		"confidence",
	}
)

type interviewAnalyzer struct {
	call    aiCall
	prompts *PromptBuilder
	log     *zap.Logger
}

func NewInterviewAnalyzer(gen TextGenerator, timeout time.Duration, log *zap.Logger) InterviewAnalyzer {
	return &interviewAnalyzer{
		call:    aiCall{gen: gen, timeout: timeout, temperature: 0.3},
		prompts: NewPromptBuilder(),
		log:     log.Named("interview_analyzer"),
	}
}

// AnalyzeAnswer implements InterviewAnalyzer.
func (a *interviewAnalyzer) AnalyzeAnswer(ctx context.Context, q *models.InterviewQuestion, answer, jobTitle string) (*models.AnswerAnalysis, error) {
	var result models.AnswerAnalysis
	prompt := a.prompts.BuildAnswerPrompt(q, answer, jobTitle)
	if err := a.call.run(ctx, "answer", prompt, answerRequiredPaths, &result); err != nil {
		return nil, err
	}

	if err := checkScore("score", result.Score); err != nil {
		return nil, &AnalyzerError{Op: "answer", Err: err}
	}
	if err := checkConfidence(result.Confidence); err != nil {
		return nil, &AnalyzerError{Op: "answer", Err: err}
	}
	switch result.Sentiment {
	case models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative:
	default:
		return nil, &AnalyzerError{Op: "answer", Err: fmt.Errorf("unknown sentiment %q", result.Sentiment)}
	}

	return &result, nil
}

// AnalyzeOverall implements InterviewAnalyzer.
func (a *interviewAnalyzer) AnalyzeOverall(ctx context.Context, interview *models.Interview, jobTitle string) (*models.InterviewAssessment, error) {
	var result models.InterviewAssessment
	prompt := a.prompts.BuildInterviewAssessmentPrompt(interview, jobTitle)
	if err := a.call.run(ctx, "interview", prompt, assessmentRequiredPaths, &result); err != nil {
		return nil, err
	}

	scores := map[string]float64{
		"technical_score":       result.TechnicalScore,
		"communication_score":   result.CommunicationScore,
		"problem_solving_score": result.ProblemSolvingScore,
		"culture_fit_score":     result.CultureFitScore,
	}
	for field, v := range scores {
		if err := checkScore(field, v); err != nil {
			return nil, &AnalyzerError{Op: "interview", Err: err}
		}
	}
	if err := checkConfidence(result.Confidence); err != nil {
		return nil, &AnalyzerError{Op: "interview", Err: err}
	}
	if !result.Recommendation.Valid() {
		return nil, &AnalyzerError{Op: "interview", Err: fmt.Errorf("unknown recommendation %q", result.Recommendation)}
	}

	return &result, nil
}
