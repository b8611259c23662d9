// Define an interface for all listing sources
// Ensure consistency

package scraper

import (
	"context"

	"go-jobpilot-automation/internal/browser"
	"go-jobpilot-automation/internal/site"
)

// Posting is one normalized job listing. Missing fields are empty strings.
type Posting struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	ApplyLink   string    `json:"applyLink"`
	Source      site.Site `json:"source"`
}

// Query is what every adapter searches for.
type Query struct {
	Keywords []string
	Location string
}

// Scraper defines the interface that all listing sources must implement
type Scraper interface {
	// Name is the display name (Indeed, LinkedIn, ...)
	Name() string

	Site() site.Site

	// Fetch never fails: it logs what went wrong and returns whatever
	// was extracted, possibly nothing.
	Fetch(ctx context.Context, page browser.Page, q Query) []Posting
}

// ObstacleResolver clears a verification challenge on page if one is present.
type ObstacleResolver interface {
	Resolve(ctx context.Context, page browser.Page) (bool, error)
}
