package indeed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobpilot-automation/internal/browser/browsertest"
	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/site"
)

const resultsHTML = `<html><body>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a data-jk="abc123" href="/rc/clk?jk=abc123"><span>Go Developer</span></a></h2>
  <span class="companyName">Acme</span><div class="companyLocation">Toronto, ON</div>
  <div class="job-snippet"><ul><li>Build APIs in Go</li></ul></div>
</div>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><span>Sponsored</span></h2>
</div>
</body></html>`

func TestSearchURL(t *testing.T) {
	got := SearchURL(scraper.Query{Keywords: []string{"golang", "backend"}, Location: "Toronto, ON"})
	assert.Equal(t, "https://ca.indeed.com/jobs?q=golang+backend&l=Toronto%2C+ON", got)
}

func TestFetch(t *testing.T) {
	q := scraper.Query{Keywords: []string{"golang"}, Location: "Canada"}
	page := browsertest.NewPage(map[string]string{SearchURL(q): resultsHTML})

	postings := New(scraper.Options{}).Fetch(context.Background(), page, q)
	require.Len(t, postings, 2)

	assert.Equal(t, "Go Developer", postings[0].Title)
	assert.Equal(t, "Acme", postings[0].Company)
	assert.Equal(t, "Build APIs in Go", postings[0].Description)
	assert.Equal(t, "https://ca.indeed.com/viewjob?jk=abc123", postings[0].ApplyLink)
	assert.Equal(t, site.Indeed, postings[0].Source)

	// no job key, no link
	assert.Equal(t, "", postings[1].ApplyLink)
}
