package models

import (
	"fmt"
	"strings"
)

type Link struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

type PersonalInformation struct {
	FullName string `json:"full_name"`
	JobTitle string `json:"job_title"`
	Location string `json:"location"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Links    Link   `json:"links"`
}

type Skills struct {
	Languages   []string `json:"languages"`
	Frontend    []string `json:"frontend"`
	Backend     []string `json:"backend"`
	Databases   []string `json:"databases"`
	DevOpsInfra []string `json:"devops_infra"`
	Security    []string `json:"security"`
}

type Experience struct {
	Role             string   `json:"role"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
	TechStack        []string `json:"tech_stack,omitempty"`
}

type Project struct {
	Name        string   `json:"name"`
	URL         string   `json:"url,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Description string   `json:"description,omitempty"`
	Details     []string `json:"details,omitempty"`
	Status      string   `json:"status,omitempty"`
}

type Education struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	Location       string `json:"location"`
	GraduationYear string `json:"graduation_year"`
	GPA            string `json:"gpa,omitempty"`
}

type Certification struct {
	Name    string  `json:"name"`
	Band    float64 `json:"band,omitempty"`
	Details string  `json:"details,omitempty"`
	Issuer  string  `json:"issuer"`
	Year    int     `json:"year"`
}

type Resume struct {
	PersonalInformation PersonalInformation `json:"personal_information"`
	Summary             string              `json:"summary"`
	Skills              Skills              `json:"skills"`
	Experience          []Experience        `json:"experience"`
	Projects            []Project           `json:"projects"`
	Education           Education           `json:"education"`
	Certifications      []Certification     `json:"certifications"`
}

// All returns every listed skill in section order.
func (s Skills) All() []string {
	var out []string
	for _, group := range [][]string{s.Languages, s.Backend, s.Frontend, s.Databases, s.DevOpsInfra, s.Security} {
		out = append(out, group...)
	}
	return out
}

// PlainText flattens the resume into the text form used for prompts and
// keyword detection.
func (r *Resume) PlainText() string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	pi := r.PersonalInformation
	line("%s", pi.FullName)
	if pi.JobTitle != "" {
		line("%s", pi.JobTitle)
	}
	contact := joinNonEmpty(" | ", pi.Location, pi.Email, pi.Phone, pi.Links.LinkedIn, pi.Links.Portfolio)
	if contact != "" {
		line("%s", contact)
	}
	if r.Summary != "" {
		line("\nSUMMARY\n%s", r.Summary)
	}
	if skills := r.Skills.All(); len(skills) > 0 {
		line("\nSKILLS\n%s", strings.Join(skills, ", "))
	}
	if len(r.Experience) > 0 {
		line("\nEXPERIENCE")
		for _, e := range r.Experience {
			line("%s", joinNonEmpty(" - ", e.Role, e.Company, e.Location, e.Duration))
			for _, resp := range e.Responsibilities {
				line("  • %s", resp)
			}
		}
	}
	if len(r.Projects) > 0 {
		line("\nPROJECTS")
		for _, p := range r.Projects {
			line("%s", joinNonEmpty(" - ", p.Name, p.Description))
			for _, d := range p.Details {
				line("  • %s", d)
			}
		}
	}
	if r.Education.Institution != "" {
		ed := r.Education
		line("\nEDUCATION\n%s", joinNonEmpty(" - ", ed.Degree, ed.Institution, ed.Location, ed.GraduationYear))
	}
	if len(r.Certifications) > 0 {
		line("\nCERTIFICATIONS")
		for _, c := range r.Certifications {
			line("%s", joinNonEmpty(" - ", c.Name, c.Issuer))
		}
	}
	return strings.TrimSpace(b.String())
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
