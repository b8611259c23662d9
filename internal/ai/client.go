package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-jobpilot-automation/internal/config"
	"go-jobpilot-automation/internal/scraper"
)

// ErrDisabled is returned by the client used when no provider is configured.
var ErrDisabled = errors.New("text generation disabled")

// Client is the interface for AI providers
type Client interface {
	// TailorResume rewrites the base resume text for one posting.
	TailorResume(ctx context.Context, posting scraper.Posting, baseResume string) (string, error)
	// CoverLetter writes a cover letter for posting from the (tailored) resume text.
	CoverLetter(ctx context.Context, posting scraper.Posting, resume string) (string, error)
}

// completer is one provider's single-turn chat call.
type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// New picks the provider named in cfg. "none" yields a client that always
// fails with ErrDisabled so callers take their fallback path.
func New(ctx context.Context, cfg config.AI) (Client, error) {
	switch cfg.Provider {
	case "", "none":
		return disabled{}, nil
	case "groq":
		return &textClient{c: NewGroqClient(cfg.APIKey, cfg.Model)}, nil
	case "gemini":
		g, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return &textClient{c: g}, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

type disabled struct{}

func (disabled) TailorResume(context.Context, scraper.Posting, string) (string, error) {
	return "", ErrDisabled
}

func (disabled) CoverLetter(context.Context, scraper.Posting, string) (string, error) {
	return "", ErrDisabled
}

type textClient struct {
	c completer
}

func (t *textClient) TailorResume(ctx context.Context, posting scraper.Posting, baseResume string) (string, error) {
	out, err := t.c.Complete(ctx, resumeSystemPrompt, buildResumePrompt(posting, baseResume))
	if err != nil {
		return "", err
	}
	return nonEmpty(out)
}

func (t *textClient) CoverLetter(ctx context.Context, posting scraper.Posting, resume string) (string, error) {
	out, err := t.c.Complete(ctx, coverLetterSystemPrompt, buildCoverLetterPrompt(posting, resume))
	if err != nil {
		return "", err
	}
	return nonEmpty(out)
}

func nonEmpty(s string) (string, error) {
	s = cleanMarkdown(s)
	if s == "" {
		return "", errors.New("empty response from model")
	}
	return s, nil
}

const resumeSystemPrompt = `You are a resume optimization assistant.
Rewrite the base resume to better match the job while keeping it truthful and professional.
Focus on aligning skills, keywords, and responsibilities. Do not make up fake experience.
Return the tailored resume in plain text only, without markdown.`

const coverLetterSystemPrompt = `You write short, confident, professional cover letters.
Use only facts present in the resume. Return plain text only, without markdown.`

func describePosting(p scraper.Posting) string {
	return fmt.Sprintf("Job Title: %s\nCompany: %s\nLocation: %s\nDescription: %s", p.Title, p.Company, p.Location, p.Description)
}

// buildResumePrompt creates the user message combining the base resume and the posting
func buildResumePrompt(p scraper.Posting, baseResume string) string {
	return fmt.Sprintf("%s\n\nBase Resume:\n%s", describePosting(p), baseResume)
}

func buildCoverLetterPrompt(p scraper.Posting, resume string) string {
	return fmt.Sprintf("Write a cover letter for the following job:\n%s\n\nBased on this resume:\n%s", describePosting(p), resume)
}

// cleanMarkdown removes code fences if the model wraps its answer in them
func cleanMarkdown(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if i := strings.IndexByte(content, '\n'); i >= 0 && !strings.Contains(content[:i], " ") {
			content = content[i+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}
