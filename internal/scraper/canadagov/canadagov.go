// Package canadagov reads the Government of Canada Job Bank search results.
package canadagov

import (
	"fmt"
	"net/url"

	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/site"
)

func SearchURL(q scraper.Query) string {
	return fmt.Sprintf("https://www.jobbank.gc.ca/jobsearch/jobsearch?searchstring=%s&locationstring=%s",
		scraper.JoinKeywords(q.Keywords, "+"), url.QueryEscape(q.Location))
}

var Variant = scraper.Variant{
	Site:      site.CanadaGov,
	SearchURL: SearchURL,
	Card: scraper.CardSpec{
		Card:     "article.action-buttons",
		Title:    ".noctitle",
		Company:  ".business",
		Location: ".location",
		// Job Bank cards carry salary and date only; there is no snippet.
		Link: "a.resultJobItem",
	},
}

func New(opts scraper.Options) *scraper.Adapter {
	return scraper.NewAdapter(Variant, opts)
}
