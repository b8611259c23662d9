package dedup

import (
	"strings"

	"go-jobpilot-automation/internal/scraper"
)

// Key is the identity of a posting: folded, trimmed title, company and location.
// The apply link and source site are not part of it.
func Key(p scraper.Posting) string {
	return strings.Join([]string{
		scraper.Fold(p.Title),
		scraper.Fold(p.Company),
		scraper.Fold(p.Location),
	}, "\x1f")
}

// Dedup keeps the first posting of each identity, preserving order.
func Dedup(postings []scraper.Posting) []scraper.Posting {
	seen := make(map[string]struct{}, len(postings))
	out := make([]scraper.Posting, 0, len(postings))
	for _, p := range postings {
		k := Key(p)
		if _, exists := seen[k]; exists {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}
