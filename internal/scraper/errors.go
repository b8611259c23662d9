package scraper

import (
	"fmt"

	"go-jobpilot-automation/internal/site"
)

// ExtractionError means one listing card could not be read. The card is skipped.
type ExtractionError struct {
	Site  site.Site
	Index int
	Field string
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s card %d: missing %s", e.Site, e.Index, e.Field)
	}
	return fmt.Sprintf("%s card %d: %v", e.Site, e.Index, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// SiteUnavailableError means the whole site was skipped for this run.
type SiteUnavailableError struct {
	Site site.Site
	URL  string
	Err  error
}

func (e *SiteUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable (%s): %v", e.Site, e.URL, e.Err)
}

func (e *SiteUnavailableError) Unwrap() error { return e.Err }
