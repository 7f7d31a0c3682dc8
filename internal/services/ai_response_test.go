package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"hireflow/ats-platform/internal/models"
)

func TestDecodeAIResponse(t *testing.T) {
	t.Parallel()

	type payload struct {
		Score      float64 `json:"score"`
		Sentiment  string  `json:"sentiment"`
		Confidence float64 `json:"confidence"`
	}

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{
			name: "fenced json",
			raw:  "Here you go:\n```json\n{\"score\": 80, \"sentiment\": \"positive\", \"confidence\": 0.7}\n```",
		},
		{
			name:    "missing field",
			raw:     `{"score": 80, "sentiment": "positive"}`,
			wantErr: `missing "confidence"`,
		},
		{
			name:    "not json",
			raw:     "I cannot help with that.",
			wantErr: "not valid JSON",
		},
		{
			name:    "array instead of object",
			raw:     `[1, 2, 3]`,
			wantErr: "not a JSON object",
		},
	}

	for _, tt := range tests {
		var out payload
		err := decodeAIResponse(tt.raw, answerRequiredPaths, &out)
		if tt.wantErr == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tt.name, err)
			}
			if out.Score != 80 || out.Sentiment != "positive" {
				t.Fatalf("%s: unexpected payload %+v", tt.name, out)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Fatalf("%s: expected error containing %q, got %v", tt.name, tt.wantErr, err)
		}
	}
}

const validMatchReply = `{
  "overall_score": 82,
  "skill_match": {"score": 90, "matched": ["Go"], "missing": null},
  "experience_match": {"score": 80, "analysis": "ok"},
  "education_match": {"score": 70, "analysis": "ok"},
  "culture_fit": {"score": 75, "analysis": "ok"},
  "recommendation": "strong_match",
  "reasoning": "Good overlap",
  "confidence": 0.85
}`

func TestMatchAnalyzerAcceptsValidReply(t *testing.T) {
	t.Parallel()

	analyzer := NewMatchAnalyzer(&stubGenerator{reply: validMatchReply}, time.Second, zap.NewNop())
	analysis, err := analyzer.Analyze(context.Background(), &models.Job{Title: "Dev"}, &models.Resume{})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if analysis.Recommendation != models.DecisionStrongMatch || analysis.SkillMatch.Score != 90 {
		t.Fatalf("unexpected analysis %+v", analysis)
	}
	if analysis.SkillMatch.Missing == nil {
		t.Fatalf("expected missing skills to be normalized to an empty slice")
	}
}

func TestMatchAnalyzerRejectsBadReplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{"transport error", &stubGenerator{err: errStubAI}},
		{"score out of range", &stubGenerator{reply: strings.Replace(validMatchReply, `"overall_score": 82`, `"overall_score": 182`, 1)}},
		{"confidence out of range", &stubGenerator{reply: strings.Replace(validMatchReply, `"confidence": 0.85`, `"confidence": 3`, 1)}},
		{"unknown recommendation", &stubGenerator{reply: strings.Replace(validMatchReply, `"strong_match"`, `"hire_now"`, 1)}},
		{"missing factor", &stubGenerator{reply: `{"overall_score": 50, "recommendation": "good_match", "confidence": 0.5}`}},
		{"missing reasoning", &stubGenerator{reply: strings.Replace(validMatchReply, `"reasoning": "Good overlap",`, ``, 1)}},
	}

	for _, tt := range tests {
		analyzer := NewMatchAnalyzer(tt.gen, time.Second, zap.NewNop())
		_, err := analyzer.Analyze(context.Background(), &models.Job{}, &models.Resume{})

		var ae *AnalyzerError
		if !errors.As(err, &ae) {
			t.Fatalf("%s: expected AnalyzerError, got %v", tt.name, err)
		}
	}
}
