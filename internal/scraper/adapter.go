package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-jobpilot-automation/internal/browser"
	"go-jobpilot-automation/internal/site"
)

// ErrNoListings is wrapped in SiteUnavailableError when a variant treats an
// empty results page as a failure.
var ErrNoListings = errors.New("no job listings found")

// Variant is everything site specific about a listing source.
type Variant struct {
	Site      site.Site
	SearchURL func(Query) string
	Card      CardSpec
	// EmptyIsError reports a results page without any card as unavailable.
	EmptyIsError bool
}

type Options struct {
	Resolver    ObstacleResolver
	MaxCards    int
	Humanize    bool
	Screenshots *browser.ScreenshotDebugger
}

// Adapter runs the common fetch flow for one Variant.
type Adapter struct {
	variant Variant
	opts    Options
}

func NewAdapter(v Variant, opts Options) *Adapter {
	return &Adapter{variant: v, opts: opts}
}

func (a *Adapter) Name() string { return a.variant.Site.String() }

func (a *Adapter) Site() site.Site { return a.variant.Site }

// SearchURL returns the results page fetched for q.
func (a *Adapter) SearchURL(q Query) string { return a.variant.SearchURL(q) }

func (a *Adapter) Fetch(ctx context.Context, page browser.Page, q Query) []Posting {
	postings, err := a.fetch(ctx, page, q)
	if err != nil {
		log.Printf("⚠️ %s skipped: %v", a.Name(), err)
		return postings
	}
	log.Printf("✅ %s: %d postings", a.Name(), len(postings))
	return postings
}

func (a *Adapter) fetch(ctx context.Context, page browser.Page, q Query) (postings []Posting, err error) {
	searchURL := a.variant.SearchURL(q)
	unavailable := func(cause error) error {
		return &SiteUnavailableError{Site: a.variant.Site, URL: searchURL, Err: cause}
	}
	defer func() {
		if r := recover(); r != nil {
			err = unavailable(fmt.Errorf("panic: %v", r))
		}
	}()

	log.Printf("🔍 Searching %s: %s", a.Name(), searchURL)
	if err := page.Goto(ctx, searchURL); err != nil {
		a.opts.Screenshots.CaptureAndLog(page, string(a.variant.Site)+"-goto", a.Name()+": navigation failed")
		return nil, unavailable(err)
	}

	if a.opts.Resolver != nil {
		if _, err := a.opts.Resolver.Resolve(ctx, page); err != nil {
			a.opts.Screenshots.CaptureAndLog(page, string(a.variant.Site)+"-obstacle", a.Name()+": obstacle not resolved")
			return nil, unavailable(err)
		}
	}

	if a.opts.Humanize {
		if err := browser.Humanize(ctx, page); err != nil {
			if ctx.Err() != nil {
				return nil, unavailable(ctx.Err())
			}
			log.Printf("   ⚠️ %s: humanize failed: %v", a.Name(), err)
		}
	}

	html, err := page.Content()
	if err != nil {
		return nil, unavailable(fmt.Errorf("read content: %w", err))
	}

	postings, errs := ExtractCards(html, page.URL(), a.variant.Card, a.opts.MaxCards, a.variant.Site)
	for _, e := range errs {
		log.Printf("   ⚠️ %s: skipped listing: %v", a.Name(), e)
	}
	if len(postings) == 0 && len(errs) == 0 && a.variant.EmptyIsError {
		return nil, unavailable(ErrNoListings)
	}
	return postings, nil
}
