package scoring

import (
	"math"
	"testing"

	"gorm.io/datatypes"

	"hireflow/ats-platform/internal/models"
)

func ptr[T any](v T) *T { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSkillScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		required  []string
		candidate []string
		score     float64
		matched   []string
	}{
		{"no requirements is neutral", nil, []string{"Go"}, 50, nil},
		{"substring either way", []string{"React", "Kubernetes"}, []string{"reactjs", "k8s"}, 50, []string{"React"}},
		{"case insensitive", []string{"PostgreSQL"}, []string{"postgres", "POSTGRESQL"}, 100, []string{"PostgreSQL"}},
		{"empty candidate skills ignored", []string{"SQL"}, []string{"", "  "}, 0, nil},
		{"no candidate skills", []string{"Go", "Rust"}, nil, 0, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := SkillScore(tc.required, tc.candidate)
			if !almostEqual(got.Score, tc.score) {
				t.Fatalf("expected score %v, got %v", tc.score, got.Score)
			}
			if len(got.Matched) != len(tc.matched) {
				t.Fatalf("expected matched %v, got %v", tc.matched, got.Matched)
			}
			for i := range tc.matched {
				if got.Matched[i] != tc.matched[i] {
					t.Fatalf("expected matched %v, got %v", tc.matched, got.Matched)
				}
			}
			if len(got.Matched)+len(got.Missing) != len(tc.required) {
				t.Fatalf("matched and missing must partition required, got %+v", got)
			}
		})
	}
}

func TestExperienceScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		req    *models.ExperienceRange
		actual float64
		want   float64
	}{
		{"no requirement", nil, 4, 50},
		{"no experience", &models.ExperienceRange{Min: ptr(2.0)}, 0, 50},
		{"under minimum", &models.ExperienceRange{Min: ptr(5.0), Max: ptr(10.0)}, 2.5, 35},
		{"within range", &models.ExperienceRange{Min: ptr(3.0), Max: ptr(6.0)}, 4, 100},
		{"over maximum", &models.ExperienceRange{Min: ptr(1.0), Max: ptr(5.0)}, 8, 85},
		{"far over maximum floors at 70", &models.ExperienceRange{Max: ptr(5.0)}, 30, 70},
		{"missing max is open", &models.ExperienceRange{Min: ptr(2.0)}, 40, 100},
		{"zero max is open", &models.ExperienceRange{Min: ptr(0.0), Max: ptr(0.0)}, 2, 100},
		{"at minimum of five to seven", &models.ExperienceRange{Min: ptr(5.0), Max: ptr(7.0)}, 5, 100},
		{"three years for five to seven", &models.ExperienceRange{Min: ptr(5.0), Max: ptr(7.0)}, 3, 42},
		{"ten years for five to seven", &models.ExperienceRange{Min: ptr(5.0), Max: ptr(7.0)}, 10, 85},
		{"months converted", &models.ExperienceRange{Min: ptr(24.0), Unit: "months"}, 1, 35},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ExperienceScore(tc.req, tc.actual); !almostEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFallbackRecommendationBands(t *testing.T) {
	t.Parallel()

	tests := map[float64]models.MatchDecision{
		95:   models.DecisionStrongMatch,
		80:   models.DecisionStrongMatch,
		79.9: models.DecisionGoodMatch,
		60:   models.DecisionGoodMatch,
		40:   models.DecisionPotentialMatch,
		39:   models.DecisionWeakMatch,
		0:    models.DecisionWeakMatch,
	}
	for score, want := range tests {
		if got := FallbackRecommendation(score); got != want {
			t.Fatalf("score %v: expected %s, got %s", score, want, got)
		}
	}
}

func TestBasicMatch(t *testing.T) {
	t.Parallel()

	job := &models.Job{
		Requirements: datatypes.NewJSONType(models.JobRequirements{
			Skills:     []string{"Go", "SQL"},
			Experience: &models.ExperienceRange{Min: ptr(3.0)},
		}),
	}
	resume := &models.Resume{
		ParsedData: datatypes.NewJSONType(models.ParsedResume{Skills: []string{"golang", "SQL"}}),
		AIAnalysis: datatypes.NewJSONType(models.ResumeAnalysis{ExperienceYears: 1.5}),
	}

	got := BasicMatch(job, resume)

	if got.SkillMatch.Score != 100 {
		t.Fatalf("expected skill score 100, got %v", got.SkillMatch.Score)
	}
	if got.ExperienceMatch.Score != 35 {
		t.Fatalf("expected experience score 35, got %v", got.ExperienceMatch.Score)
	}
	if got.EducationMatch.Score != 70 || got.CultureFit.Score != 60 {
		t.Fatalf("expected fixed education/culture scores, got %v/%v", got.EducationMatch.Score, got.CultureFit.Score)
	}
	if got.OverallScore != 74 {
		t.Fatalf("expected overall 74, got %v", got.OverallScore)
	}
	if got.Recommendation != models.DecisionGoodMatch {
		t.Fatalf("expected good_match, got %s", got.Recommendation)
	}
	if got.Confidence != 0.5 || got.Reasoning != "Basic algorithmic matching" {
		t.Fatalf("unexpected fallback metadata: %+v", got)
	}
}

func TestWeightedScore(t *testing.T) {
	t.Parallel()

	a := models.MatchAnalysis{
		SkillMatch:      models.SkillMatch{Score: 100},
		ExperienceMatch: models.FactorMatch{Score: 35},
		EducationMatch:  models.FactorMatch{Score: 70},
		CultureFit:      models.FactorMatch{Score: 60},
	}
	w := models.MatchWeights{SkillMatch: 0.4, ExperienceMatch: 0.3, EducationMatch: 0.2, CultureFit: 0.1}

	if got := WeightedScore(a, w); !almostEqual(got, 70.5) {
		t.Fatalf("expected 70.5, got %v", got)
	}

	equal := models.MatchAnalysis{
		SkillMatch:      models.SkillMatch{Score: 80},
		ExperienceMatch: models.FactorMatch{Score: 80},
		EducationMatch:  models.FactorMatch{Score: 80},
		CultureFit:      models.FactorMatch{Score: 80},
	}
	if got := WeightedScore(equal, w); !almostEqual(got, 80) {
		t.Fatalf("weights summing to one must preserve a uniform score, got %v", got)
	}
}

func answered(text string, score int) models.InterviewQuestion {
	return models.InterviewQuestion{Answer: &text, AIScore: &score}
}

func TestMeanScore(t *testing.T) {
	t.Parallel()

	empty := ""
	questions := []models.InterviewQuestion{
		answered("Channels", 80),
		answered("Mutexes", 75),
		{Answer: &empty},
		{},
	}

	mean, ok := MeanScore(questions)
	if !ok {
		t.Fatal("expected answered questions")
	}
	if mean != 78 {
		t.Fatalf("expected rounded mean 78, got %d", mean)
	}

	if _, ok := MeanScore([]models.InterviewQuestion{{}, {Answer: &empty}}); ok {
		t.Fatal("expected no answered questions")
	}
}

func TestAssessments(t *testing.T) {
	t.Parallel()

	empty := EmptyAssessment()
	if empty.Recommendation != models.RecommendNo || empty.Confidence != 0 || empty.TechnicalScore != 0 {
		t.Fatalf("unexpected empty assessment: %+v", empty)
	}
	if len(empty.Concerns) != 1 || empty.Concerns[0] != "No questions answered" {
		t.Fatalf("unexpected concerns: %v", empty.Concerns)
	}

	pass := FallbackAssessment(70)
	if pass.Recommendation != models.RecommendYes || pass.CultureFitScore != 70 {
		t.Fatalf("unexpected passing assessment: %+v", pass)
	}
	if fail := FallbackAssessment(69); fail.Recommendation != models.RecommendMaybe {
		t.Fatalf("expected maybe below 70, got %s", fail.Recommendation)
	}

	answer := FallbackAnswerAnalysis()
	if answer.Score != 70 || answer.Sentiment != models.SentimentNeutral || answer.Confidence != 0.3 {
		t.Fatalf("unexpected fallback answer analysis: %+v", answer)
	}
}
