package services

import (
	"fmt"
	"strings"

	"hireflow/ats-platform/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func joinOrNA(items []string) string {
	return orNA(strings.Join(items, ", "))
}

func formatExperience(r *models.ExperienceRange) string {
	if r == nil {
		return "N/A"
	}
	lo, hi := "0", "any"
	if r.Min != nil {
		lo = fmt.Sprintf("%g", *r.Min)
	}
	if r.Max != nil {
		hi = fmt.Sprintf("%g", *r.Max)
	}
	unit := r.Unit
	if unit == "" {
		unit = "years"
	}
	return fmt.Sprintf("%s-%s %s", lo, hi, unit)
}

// BuildMatchPrompt creates prompt for job/candidate match analysis
func (pb *PromptBuilder) BuildMatchPrompt(job *models.Job, resume *models.Resume) string {
	reqs := job.Requirements.Data()
	analysis := resume.AIAnalysis.Data()

	experience := "N/A"
	if analysis.ExperienceYears > 0 {
		experience = fmt.Sprintf("%g years", analysis.ExperienceYears)
	}

	return fmt.Sprintf(`Compare this job posting with the candidate's resume and provide a detailed match analysis.

JOB POSTING:
Title: %s
Required Skills: %s
Experience Required: %s
Education: %s
Description: %s

CANDIDATE RESUME:
Skills: %s
Experience: %s
Education: %s
Career Level: %s

Return your response in the following JSON format:
{
  "overall_score": <0-100>,
  "skill_match": {"score": <0-100>, "matched": [<skills>], "missing": [<skills>]},
  "experience_match": {"score": <0-100>, "analysis": "<text>"},
  "education_match": {"score": <0-100>, "analysis": "<text>"},
  "culture_fit": {"score": <0-100>, "analysis": "<text>"},
  "recommendation": "<strong_match|good_match|potential_match|weak_match|no_match>",
  "reasoning": "<detailed explanation>",
  "confidence": <0-1>
}

Be objective. Return only valid JSON.`,
		job.Title,
		joinOrNA(reqs.Skills),
		formatExperience(reqs.Experience),
		orNA(reqs.Education),
		job.Description,
		joinOrNA(resume.Skills()),
		experience,
		orNA(analysis.EducationLevel),
		orNA(string(analysis.CareerLevel)),
	)
}

// BuildAnswerPrompt creates prompt for scoring one interview answer
func (pb *PromptBuilder) BuildAnswerPrompt(q *models.InterviewQuestion, answer, jobTitle string) string {
	return fmt.Sprintf(`You are an expert interviewer evaluating a candidate's answer for a %s position.

QUESTION (%s):
%s

EXPECTED ANSWER POINTS:
%s

CANDIDATE ANSWER:
%s

Return your response in the following JSON format:
{
  "score": <0-100>,
  "strengths": [<short phrases>],
  "weaknesses": [<short phrases>],
  "key_points": [<points the candidate covered>],
  "sentiment": "<positive|neutral|negative>",
  "confidence": <0-1>,
  "feedback": "<one or two sentences for the candidate>"
}

Return only valid JSON.`,
		orNA(jobTitle), q.QuestionType, q.QuestionText, joinOrNA(q.ExpectedAnswerPoints), answer)
}

// BuildInterviewAssessmentPrompt creates prompt for the overall interview assessment
func (pb *PromptBuilder) BuildInterviewAssessmentPrompt(interview *models.Interview, jobTitle string) string {
	var transcript strings.Builder
	for _, q := range interview.AnsweredQuestions() {
		score := "n/a"
		if q.AIScore != nil {
			score = fmt.Sprintf("%d", *q.AIScore)
		}
		fmt.Fprintf(&transcript, "Q%d (%s): %s\nA: %s\nScore: %s\n\n",
			q.Position, q.QuestionType, q.QuestionText, *q.Answer, score)
	}

	return fmt.Sprintf(`You are an expert technical hiring manager assessing a completed screening interview for a %s position.

TRANSCRIPT:
%s
Return your response in the following JSON format:
{
  "technical_score": <0-100>,
  "communication_score": <0-100>,
  "problem_solving_score": <0-100>,
  "culture_fit_score": <0-100>,
  "strengths": [<short phrases>],
  "concerns": [<short phrases>],
  "key_insights": [<short phrases>],
  "recommendation": "<strong_yes|yes|maybe|no|strong_no>",
  "confidence": <0-1>
}

Be direct and actionable. Return only valid JSON.`,
		orNA(jobTitle), transcript.String())
}

// BuildResumePrompt creates prompt for structured resume extraction
func (pb *PromptBuilder) BuildResumePrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert HR analyst. Analyze the following resume and extract key information.

RESUME:
%s

Return your response in the following JSON format:
{
  "extracted_skills": [<technical and soft skills>],
  "experience_years": <total years of experience as a number>,
  "key_strengths": [<top 3-5 strengths>],
  "industry_experience": [<industries worked in>],
  "education_level": "<highest education level>",
  "career_level": "<entry|mid|senior|executive>"
}

Return only valid JSON.`, resumeText)
}
