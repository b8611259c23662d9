package monster

import (
	"fmt"
	"net/url"

	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/site"
)

func SearchURL(q scraper.Query) string {
	return fmt.Sprintf("https://www.monster.ca/jobs/search/?q=%s&where=%s",
		scraper.JoinKeywords(q.Keywords, "-"), url.QueryEscape(q.Location))
}

var Variant = scraper.Variant{
	Site:      site.Monster,
	SearchURL: SearchURL,
	Card: scraper.CardSpec{
		Card:        ".card-content",
		Title:       "h2.title",
		Company:     ".company",
		Location:    ".location",
		Description: ".summary",
		Link:        "a",
	},
}

func New(opts scraper.Options) *scraper.Adapter {
	return scraper.NewAdapter(Variant, opts)
}
