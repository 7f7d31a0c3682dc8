package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxAnalysisChars bounds the resume text sent to the analyzer and embedder.
const maxAnalysisChars = 12000

var commonSkills = []string{
	"JavaScript", "Python", "Java", "C++", "React", "Node.js", "Angular", "Vue",
	"SQL", "MongoDB", "AWS", "Docker", "Kubernetes", "Git", "TypeScript",
	"HTML", "CSS", "Express", "Django", "Flask", "Spring", "PostgreSQL",
}

var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// BasicInfo is what can be read from resume text without the AI analyzer.
type BasicInfo struct {
	Skills []string
	Email  string
	Phone  string
}

// ExtractBasicInfo scans resume text for well-known skills and the first
// email address and phone number.
func ExtractBasicInfo(text string) BasicInfo {
	lower := strings.ToLower(text)

	info := BasicInfo{Skills: make([]string, 0)}
	for _, skill := range commonSkills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			info.Skills = append(info.Skills, skill)
		}
	}

	info.Email = emailPattern.FindString(text)
	info.Phone = phonePattern.FindString(text)
	return info
}

// TruncateText keeps whole paragraphs while they fit in maxChars. A single
// paragraph longer than the limit is cut on a rune boundary.
func TruncateText(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	var b strings.Builder
	size := 0
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		n := utf8.RuneCountInString(para)
		sep := 0
		if size > 0 {
			sep = 2
		}
		if size+sep+n > maxChars {
			if size == 0 {
				return string([]rune(para)[:maxChars])
			}
			break
		}

		if sep > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(para)
		size += sep + n
	}
	return b.String()
}

// splitName splits a display name into first name and the remainder.
func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
