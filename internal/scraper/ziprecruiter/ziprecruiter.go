package ziprecruiter

import (
	"fmt"
	"net/url"

	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/site"
)

func SearchURL(q scraper.Query) string {
	return fmt.Sprintf("https://www.ziprecruiter.com/candidate/search?search=%s&location=%s",
		scraper.JoinKeywords(q.Keywords, "+"), url.QueryEscape(q.Location))
}

// Every field is mandatory on ZipRecruiter cards, and a results page
// without cards means the search itself failed.
var Variant = scraper.Variant{
	Site:      site.ZipRecruiter,
	SearchURL: SearchURL,
	Card: scraper.CardSpec{
		Card:        ".job_content",
		Title:       ".job_title",
		Company:     ".t_org_link",
		Location:    ".location",
		Description: ".job_snippet",
		Link:        "a",
		Required: []string{
			scraper.FieldTitle,
			scraper.FieldCompany,
			scraper.FieldLocation,
			scraper.FieldDescription,
			scraper.FieldApplyLink,
		},
	},
	EmptyIsError: true,
}

func New(opts scraper.Options) *scraper.Adapter {
	return scraper.NewAdapter(Variant, opts)
}
