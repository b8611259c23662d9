package linkedin

import (
	"fmt"
	"net/url"

	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/site"
)

func SearchURL(q scraper.Query) string {
	return fmt.Sprintf("https://www.linkedin.com/jobs/search/?keywords=%s&location=%s",
		scraper.JoinKeywords(q.Keywords, "%20"), url.QueryEscape(q.Location))
}

// Public guest search results. The full link carries tracking params which are kept;
// identity is title/company/location, not the link.
var Variant = scraper.Variant{
	Site:      site.LinkedIn,
	SearchURL: SearchURL,
	Card: scraper.CardSpec{
		Card:        ".base-card",
		Title:       "h3",
		Company:     "h4",
		Location:    ".job-search-card__location",
		Description: ".job-search-card__snippet",
		Link:        "a.base-card__full-link",
	},
}

func New(opts scraper.Options) *scraper.Adapter {
	return scraper.NewAdapter(Variant, opts)
}
