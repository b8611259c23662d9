package indeed

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/site"
)

const baseURL = "https://ca.indeed.com"

func SearchURL(q scraper.Query) string {
	return fmt.Sprintf("%s/jobs?q=%s&l=%s", baseURL, scraper.JoinKeywords(q.Keywords, "+"), url.QueryEscape(q.Location))
}

// applyLink builds the canonical view link from the card's job key.
func applyLink(card *goquery.Selection, _ *url.URL) string {
	jk, ok := card.Find("a[data-jk]").First().Attr("data-jk")
	jk = strings.TrimSpace(jk)
	if !ok || jk == "" {
		return ""
	}
	return baseURL + "/viewjob?jk=" + url.QueryEscape(jk)
}

var Variant = scraper.Variant{
	Site:      site.Indeed,
	SearchURL: SearchURL,
	Card: scraper.CardSpec{
		Card:        "div.job_seen_beacon",
		Title:       "h2.jobTitle span",
		Company:     ".companyName",
		Location:    ".companyLocation",
		Description: ".job-snippet",
		BuildLink:   applyLink,
	},
}

func New(opts scraper.Options) *scraper.Adapter {
	return scraper.NewAdapter(Variant, opts)
}
