package scraper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobpilot-automation/internal/browser"
	"go-jobpilot-automation/internal/browser/browsertest"
	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/site"
)

const searchURL = "https://jobs.example.com/search"

var variant = scraper.Variant{
	Site:      site.Monster,
	SearchURL: func(scraper.Query) string { return searchURL },
	Card: scraper.CardSpec{
		Card:  ".card",
		Title: "h3",
		Link:  "a",
	},
}

type stubResolver struct {
	calls int
	err   error
}

func (r *stubResolver) Resolve(ctx context.Context, page browser.Page) (bool, error) {
	r.calls++
	return r.err == nil, r.err
}

func TestAdapter_Fetch(t *testing.T) {
	page := browsertest.NewPage(map[string]string{
		searchURL: `<div class="card"><h3>Go Dev</h3><a href="/1">x</a></div><div class="card"><h3>Rust Dev</h3></div>`,
	})
	resolver := &stubResolver{}
	a := scraper.NewAdapter(variant, scraper.Options{Resolver: resolver})

	postings := a.Fetch(context.Background(), page, scraper.Query{Keywords: []string{"go"}})
	require.Len(t, postings, 2)
	assert.Equal(t, "https://jobs.example.com/1", postings[0].ApplyLink)
	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, "Monster", a.Name())
}

func TestAdapter_NavigationFailureReturnsEmpty(t *testing.T) {
	page := browsertest.NewPage(nil)
	a := scraper.NewAdapter(variant, scraper.Options{})

	assert.Empty(t, a.Fetch(context.Background(), page, scraper.Query{}))
}

func TestAdapter_UnresolvedObstacleAbortsSite(t *testing.T) {
	page := browsertest.NewPage(map[string]string{
		searchURL: `<div class="g-recaptcha" data-sitekey="k"></div><div class="card"><h3>Go Dev</h3></div>`,
	})
	a := scraper.NewAdapter(variant, scraper.Options{Resolver: &stubResolver{err: errors.New("cancelled")}})

	assert.Empty(t, a.Fetch(context.Background(), page, scraper.Query{}))
}

func TestAdapter_EmptyPage(t *testing.T) {
	page := browsertest.NewPage(map[string]string{searchURL: `<html><body>No results</body></html>`})

	lenient := scraper.NewAdapter(variant, scraper.Options{})
	assert.Empty(t, lenient.Fetch(context.Background(), page, scraper.Query{}))

	strict := variant
	strict.EmptyIsError = true
	a := scraper.NewAdapter(strict, scraper.Options{})
	assert.Empty(t, a.Fetch(context.Background(), page, scraper.Query{}))
}

func TestSiteUnavailableError(t *testing.T) {
	err := error(&scraper.SiteUnavailableError{Site: site.ZipRecruiter, URL: searchURL, Err: scraper.ErrNoListings})
	assert.ErrorIs(t, err, scraper.ErrNoListings)
	assert.Contains(t, err.Error(), "ZipRecruiter")
}
