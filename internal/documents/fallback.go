package documents

import (
	"fmt"
	"strings"

	"go-jobpilot-automation/internal/scraper"
)

var knownSkills = []string{
	"Go", "JavaScript", "Node.js", "React", "automation", "GitHub",
	"Playwright", "API", "cloud", "CI/CD", "Docker", "Kubernetes", "SQL",
}

// DetectSkills returns the known skills mentioned in text, in list order.
func DetectSkills(text string) []string {
	words := make(map[string]bool)
	folded := scraper.Fold(text)
	for _, w := range strings.FieldsFunc(folded, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t' || r == ',' || r == ';' || r == '(' || r == ')' || r == '|'
	}) {
		words[strings.TrimRight(w, ".:")] = true
	}

	var found []string
	for _, k := range knownSkills {
		fk := scraper.Fold(k)
		// short names must match a whole word, longer ones may be a substring
		if words[fk] || (len(fk) > 3 && strings.Contains(folded, fk)) {
			found = append(found, k)
		}
	}
	return found
}

// FallbackCoverLetter is used when no text-generation provider answers.
func FallbackCoverLetter(p scraper.Posting, resumeText, applicant string) string {
	company := p.Company
	if company == "" {
		company = "your company"
	}
	if applicant == "" {
		applicant = "Your Name"
	}

	experience := "relevant experience"
	if skills := DetectSkills(resumeText); len(skills) > 0 {
		experience = "experience in " + strings.Join(skills, ", ")
	}

	return fmt.Sprintf(`Dear Hiring Manager at %s,

I'm excited to apply for the %s role. With %s, I believe I'm a strong fit for your team.

Sincerely,
%s`, company, p.Title, experience, applicant)
}
