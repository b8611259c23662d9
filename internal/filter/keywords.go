package filter

import (
	"strings"

	"go-jobpilot-automation/internal/scraper"
)

// Policy decides which postings are worth applying to. It is read-only
// once built.
type Policy struct {
	Keywords   []string
	Location   string
	RemoteOnly bool
}

// Match reports whether p passes every predicate of the policy.
// All comparisons are case-insensitive substring checks.
func (pol Policy) Match(p scraper.Posting) bool {
	return pol.matchKeywords(p) && pol.matchLocation(p) && pol.matchRemote(p)
}

// any keyword in title or description; no keywords matches everything
func (pol Policy) matchKeywords(p scraper.Posting) bool {
	if len(pol.Keywords) == 0 {
		return true
	}
	title := scraper.Fold(p.Title)
	description := scraper.Fold(p.Description)
	for _, k := range pol.Keywords {
		k = scraper.Fold(k)
		if k == "" {
			continue
		}
		if strings.Contains(title, k) || strings.Contains(description, k) {
			return true
		}
	}
	return false
}

func (pol Policy) matchLocation(p scraper.Posting) bool {
	return strings.Contains(scraper.Fold(p.Location), scraper.Fold(pol.Location))
}

func (pol Policy) matchRemote(p scraper.Posting) bool {
	return !pol.RemoteOnly || strings.Contains(scraper.Fold(p.Location), "remote")
}
