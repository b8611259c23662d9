// Package documents produces the tailored resume and cover letter files
// attached to an application.
package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go-jobpilot-automation/internal/ai"
	"go-jobpilot-automation/internal/models"
	"go-jobpilot-automation/internal/pdf"
	"go-jobpilot-automation/internal/scraper"
)

// Renderer writes a document and returns the path of the file it wrote.
type Renderer interface {
	Render(doc pdf.Document, fileName string) (string, error)
}

// Set is the pair of files attached to one application.
type Set struct {
	Resume      string
	CoverLetter string
	// Tailored is false when the resume text is the untailored base.
	Tailored bool
}

type Preparer struct {
	client     ai.Client
	renderer   Renderer
	baseResume string
	applicant  string
	now        func() time.Time
}

func NewPreparer(client ai.Client, renderer Renderer, baseResume, applicantName string) *Preparer {
	return &Preparer{
		client:     client,
		renderer:   renderer,
		baseResume: baseResume,
		applicant:  applicantName,
		now:        time.Now,
	}
}

// Prepare tailors and renders both documents. Text generation failures fall
// back to the base resume and a template letter; rendering failures are returned.
func (p *Preparer) Prepare(ctx context.Context, posting scraper.Posting) (Set, error) {
	set := Set{Tailored: true}

	resumeText, err := p.client.TailorResume(ctx, posting, p.baseResume)
	if err != nil {
		log.Printf("⚠️ Resume tailoring unavailable for %q: %v. Using base resume.", posting.Title, err)
		resumeText = p.baseResume
		set.Tailored = false
	}

	letter, err := p.client.CoverLetter(ctx, posting, resumeText)
	if err != nil {
		log.Printf("⚠️ Cover letter generation unavailable for %q: %v. Using template.", posting.Title, err)
		letter = FallbackCoverLetter(posting, resumeText, p.applicant)
	}

	stamp := p.now().UnixMilli()
	set.Resume, err = p.renderer.Render(pdf.Document{Heading: p.applicant, Text: resumeText}, FileName(posting.Title, "resume", stamp))
	if err != nil {
		return Set{}, fmt.Errorf("render resume: %w", err)
	}
	set.CoverLetter, err = p.renderer.Render(pdf.Document{Text: letter}, FileName(posting.Title, "cover_letter", stamp))
	if err != nil {
		return Set{}, fmt.Errorf("render cover letter: %w", err)
	}

	log.Printf("📄 Documents ready: %s, %s", filepath.Base(set.Resume), filepath.Base(set.CoverLetter))
	return set, nil
}

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	unsafeName = regexp.MustCompile(`[/\\:*?"<>|]`)
)

// FileName builds <Title_With_Underscores>_<kind>_<unixms>.pdf.
func FileName(title, kind string, unixMs int64) string {
	name := strings.TrimSpace(unsafeName.ReplaceAllString(title, " "))
	name = spaceRun.ReplaceAllString(name, "_")
	if name == "" {
		name = "posting"
	}
	return fmt.Sprintf("%s_%s_%d.pdf", name, kind, unixMs)
}

// LoadBaseResume reads a .txt, .md or .json resume into plain text.
func LoadBaseResume(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md":
		return strings.TrimSpace(string(data)), nil
	case ".json":
		var r models.Resume
		if err := json.Unmarshal(data, &r); err != nil {
			return "", fmt.Errorf("parse resume %s: %w", path, err)
		}
		return r.PlainText(), nil
	default:
		return "", fmt.Errorf("unsupported resume format: %s", ext)
	}
}
