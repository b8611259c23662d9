// Package sources is the registry of listing adapters, one per site.
package sources

import (
	"fmt"

	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/scraper/canadagov"
	"go-jobpilot-automation/internal/scraper/glassdoor"
	"go-jobpilot-automation/internal/scraper/indeed"
	"go-jobpilot-automation/internal/scraper/linkedin"
	"go-jobpilot-automation/internal/scraper/monster"
	"go-jobpilot-automation/internal/scraper/ziprecruiter"
	"go-jobpilot-automation/internal/site"
)

var constructors = map[site.Site]func(scraper.Options) *scraper.Adapter{
	site.Indeed:       indeed.New,
	site.LinkedIn:     linkedin.New,
	site.Glassdoor:    glassdoor.New,
	site.Monster:      monster.New,
	site.ZipRecruiter: ziprecruiter.New,
	site.CanadaGov:    canadagov.New,
}

func New(s site.Site, opts scraper.Options) (scraper.Scraper, error) {
	ctor, ok := constructors[s]
	if !ok {
		return nil, fmt.Errorf("no listing source for %q", s)
	}
	return ctor(opts), nil
}

// For builds the adapters for sites in the given order.
func For(sites []site.Site, opts scraper.Options) ([]scraper.Scraper, error) {
	out := make([]scraper.Scraper, 0, len(sites))
	for _, s := range sites {
		sc, err := New(s, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}
