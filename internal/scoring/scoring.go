// Package scoring holds the deterministic match and interview scoring used
// whenever the AI analyzers are disabled or fail. Everything here is pure.
package scoring

import (
	"math"
	"strings"

	"hireflow/ats-platform/internal/models"
)

const (
	// NeutralScore is returned when there is nothing to compare against.
	NeutralScore = 50.0

	fallbackSkillWeight      = 0.6
	fallbackExperienceWeight = 0.4
	fallbackEducationScore   = 70.0
	fallbackCultureScore     = 60.0
	fallbackConfidence       = 0.5

	underExperienceFactor = 0.7
	overExperienceFloor   = 70.0
	overExperiencePenalty = 5.0
	defaultMaxYears       = 100.0

	fallbackAnswerScore      = 70.0
	fallbackAnswerConfidence = 0.3
	passingMean              = 70.0
)

type SkillResult struct {
	Score   float64
	Matched []string
	Missing []string
}

// SkillScore matches required skills against candidate skills. A required
// skill counts as matched when either string contains the other, ignoring case.
func SkillScore(required, candidate []string) SkillResult {
	res := SkillResult{Matched: []string{}, Missing: []string{}}
	if len(required) == 0 {
		res.Score = NeutralScore
		return res
	}

	have := make([]string, 0, len(candidate))
	for _, s := range candidate {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			have = append(have, s)
		}
	}

	for _, req := range required {
		want := strings.ToLower(strings.TrimSpace(req))
		if want != "" && overlaps(want, have) {
			res.Matched = append(res.Matched, req)
		} else {
			res.Missing = append(res.Missing, req)
		}
	}

	res.Score = float64(len(res.Matched)) / float64(len(required)) * 100
	return res
}

func overlaps(want string, have []string) bool {
	for _, h := range have {
		if strings.Contains(h, want) || strings.Contains(want, h) {
			return true
		}
	}
	return false
}

// ExperienceScore rates actual years against a required range. A nil range
// or zero actual years is neutral. A missing or zero max leaves the range open.
func ExperienceScore(req *models.ExperienceRange, actualYears float64) float64 {
	if req == nil || actualYears == 0 {
		return NeutralScore
	}

	r := req.InYears()
	minYears := 0.0
	if r.Min != nil {
		minYears = *r.Min
	}
	maxYears := defaultMaxYears
	if r.Max != nil && *r.Max > 0 {
		maxYears = *r.Max
	}

	switch {
	case actualYears < minYears:
		return math.Max(0, actualYears/minYears*100*underExperienceFactor)
	case actualYears > maxYears:
		excess := actualYears - maxYears
		return math.Max(overExperienceFloor, 100-excess*overExperiencePenalty)
	default:
		return 100
	}
}

// FallbackRecommendation never yields no_match.
func FallbackRecommendation(score float64) models.MatchDecision {
	switch {
	case score >= 80:
		return models.DecisionStrongMatch
	case score >= 60:
		return models.DecisionGoodMatch
	case score >= 40:
		return models.DecisionPotentialMatch
	default:
		return models.DecisionWeakMatch
	}
}

// BasicMatch is the fallback analysis. Its composite uses fixed 0.6/0.4
// weights regardless of tenant configuration.
func BasicMatch(job *models.Job, resume *models.Resume) models.MatchAnalysis {
	reqs := job.Requirements.Data()
	skills := SkillScore(reqs.Skills, resume.Skills())
	exp := ExperienceScore(reqs.Experience, resume.AIAnalysis.Data().ExperienceYears)

	overall := skills.Score*fallbackSkillWeight + exp*fallbackExperienceWeight

	return models.MatchAnalysis{
		OverallScore: math.Round(overall),
		SkillMatch: models.SkillMatch{
			Score:   math.Round(skills.Score),
			Matched: skills.Matched,
			Missing: skills.Missing,
		},
		ExperienceMatch: models.FactorMatch{
			Score:    math.Round(exp),
			Analysis: "Basic experience comparison",
		},
		EducationMatch: models.FactorMatch{
			Score:    fallbackEducationScore,
			Analysis: "Education match not analyzed",
		},
		CultureFit: models.FactorMatch{
			Score:    fallbackCultureScore,
			Analysis: "Culture fit not analyzed",
		},
		Recommendation: FallbackRecommendation(overall),
		Reasoning:      "Basic algorithmic matching",
		Confidence:     fallbackConfidence,
	}
}

// WeightedScore combines the four factor scores with tenant weights.
func WeightedScore(a models.MatchAnalysis, w models.MatchWeights) float64 {
	return a.SkillMatch.Score*w.SkillMatch +
		a.ExperienceMatch.Score*w.ExperienceMatch +
		a.EducationMatch.Score*w.EducationMatch +
		a.CultureFit.Score*w.CultureFit
}

func FallbackAnswerAnalysis() models.AnswerAnalysis {
	return models.AnswerAnalysis{
		Score:      fallbackAnswerScore,
		Strengths:  []string{"Provided a response"},
		Weaknesses: []string{"Could not perform detailed analysis"},
		KeyPoints:  []string{},
		Sentiment:  models.SentimentNeutral,
		Confidence: fallbackAnswerConfidence,
		Feedback:   "Response recorded",
	}
}

// MeanScore is the rounded mean AI score over answered questions. ok is
// false when nothing was answered.
func MeanScore(questions []models.InterviewQuestion) (mean int, ok bool) {
	var sum, n int
	for _, q := range questions {
		if !q.Answered() {
			continue
		}
		n++
		if q.AIScore != nil {
			sum += *q.AIScore
		}
	}
	if n == 0 {
		return 0, false
	}
	return int(math.Round(float64(sum) / float64(n))), true
}

func EmptyAssessment() models.InterviewAssessment {
	return models.InterviewAssessment{
		Strengths:      []string{},
		Concerns:       []string{"No questions answered"},
		KeyInsights:    []string{},
		Recommendation: models.RecommendNo,
		Confidence:     0,
	}
}

// FallbackAssessment derives every sub-score from the mean answer score.
func FallbackAssessment(mean int) models.InterviewAssessment {
	score := float64(mean)
	rec := models.RecommendMaybe
	if score >= passingMean {
		rec = models.RecommendYes
	}
	return models.InterviewAssessment{
		TechnicalScore:      score,
		CommunicationScore:  score,
		ProblemSolvingScore: score,
		CultureFitScore:     score,
		Strengths:           []string{"Completed the interview"},
		Concerns:            []string{},
		KeyInsights:         []string{},
		Recommendation:      rec,
		Confidence:          fallbackConfidence,
	}
}
