package filter

import "go-jobpilot-automation/internal/scraper"

// Apply keeps the postings that match, in input order.
func (pol Policy) Apply(postings []scraper.Posting) []scraper.Posting {
	out := make([]scraper.Posting, 0, len(postings))
	for _, p := range postings {
		if pol.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Select returns the first n postings. It is a cap, not a ranking.
func Select(postings []scraper.Posting, n int) []scraper.Posting {
	if n < 0 {
		n = 0
	}
	if n > len(postings) {
		n = len(postings)
	}
	out := make([]scraper.Posting, n)
	copy(out, postings[:n])
	return out
}
