// Package reporter tells the operator how a run went.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-jobpilot-automation/internal/scraper"
)

// Summary is reported once per run, whatever happened to individual postings.
type Summary struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Scraped    int       `json:"scraped"`
	Unique     int       `json:"unique"`
	Matched    int       `json:"matched"`
	Selected   int       `json:"selected"`
	Processed  int       `json:"processed"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	// Error is set when the run stopped before processing.
	Error string `json:"error,omitempty"`
}

func (s Summary) Duration() time.Duration { return s.FinishedAt.Sub(s.StartedAt) }

// Failure is one posting that was given up on.
type Failure struct {
	RunID   string
	Posting scraper.Posting
	Stage   string
	Err     error
}

type Reporter interface {
	Summary(ctx context.Context, s Summary) error
	Failure(ctx context.Context, f Failure) error
}

// LogReporter writes to the standard logger.
type LogReporter struct{}

func (LogReporter) Summary(_ context.Context, s Summary) error {
	if s.Error != "" {
		log.Printf("❌ [%s] Run aborted after %s: %s", s.RunID, s.Duration().Round(time.Second), s.Error)
	}
	log.Printf("🏁 [%s] Scraped %d, unique %d, matched %d, selected %d, processed %d (✅ %d, ❌ %d) in %s",
		s.RunID, s.Scraped, s.Unique, s.Matched, s.Selected, s.Processed, s.Succeeded, s.Failed, s.Duration().Round(time.Second))
	return nil
}

func (LogReporter) Failure(_ context.Context, f Failure) error {
	log.Printf("❌ [%s] %q (%s) failed at %s: %v", f.RunID, f.Posting.Title, f.Posting.Source, f.Stage, f.Err)
	return nil
}

// Multi fans out to every reporter and joins their errors.
type Multi []Reporter

func (m Multi) Summary(ctx context.Context, s Summary) error {
	var errs []error
	for _, r := range m {
		if err := r.Summary(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Failure(ctx context.Context, f Failure) error {
	var errs []error
	for _, r := range m {
		if err := r.Failure(ctx, f); err != nil {
			errs = append(errs, fmt.Errorf("failure report: %w", err))
		}
	}
	return errors.Join(errs...)
}
