package glassdoor

import (
	"fmt"
	"net/url"

	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/site"
)

func SearchURL(q scraper.Query) string {
	return fmt.Sprintf("https://www.glassdoor.ca/Job/jobs.htm?sc.keyword=%s&locKeyword=%s",
		scraper.JoinKeywords(q.Keywords, "+"), url.QueryEscape(q.Location))
}

var Variant = scraper.Variant{
	Site:      site.Glassdoor,
	SearchURL: SearchURL,
	Card: scraper.CardSpec{
		Card:        "li[data-test=\"jobListing\"]",
		Title:       "a[data-test=\"job-title\"]",
		Company:     "[class*=\"EmployerProfile_compactEmployerName\"]",
		Location:    "[data-test=\"emp-location\"]",
		Description: "[class*=\"JobCard_jobDescriptionSnippet\"]",
		Link:        "a[data-test=\"job-title\"]",
	},
}

func New(opts scraper.Options) *scraper.Adapter {
	return scraper.NewAdapter(Variant, opts)
}
