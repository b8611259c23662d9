// Package site names the closed set of listing sites the pipeline knows about.
package site

import (
	"net/url"
	"strings"
)

type Site string

const (
	Indeed       Site = "indeed"
	LinkedIn     Site = "linkedin"
	Glassdoor    Site = "glassdoor"
	Monster      Site = "monster"
	ZipRecruiter Site = "ziprecruiter"
	CanadaGov    Site = "canadagov"
)

// All lists every supported site in registry order.
var All = []Site{Indeed, LinkedIn, Glassdoor, Monster, ZipRecruiter, CanadaGov}

// registrable domains owned by each site; subdomains match, lookalikes do not
var domains = map[Site][]string{
	Indeed:       {"indeed.com", "indeed.ca"},
	LinkedIn:     {"linkedin.com"},
	Glassdoor:    {"glassdoor.com", "glassdoor.ca"},
	Monster:      {"monster.com", "monster.ca"},
	ZipRecruiter: {"ziprecruiter.com", "ziprecruiter.ca"},
	CanadaGov:    {"jobbank.gc.ca", "canada.ca"},
}

var displayNames = map[Site]string{
	Indeed:       "Indeed",
	LinkedIn:     "LinkedIn",
	Glassdoor:    "Glassdoor",
	Monster:      "Monster",
	ZipRecruiter: "ZipRecruiter",
	CanadaGov:    "Canada.ca",
}

func (s Site) String() string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return string(s)
}

// EnvPrefix is the prefix used for credential env vars, e.g. LINKEDIN_USER.
func (s Site) EnvPrefix() string {
	return strings.ToUpper(string(s))
}

// Parse accepts a site identifier in any casing.
func Parse(name string) (Site, bool) {
	n := Site(strings.ToLower(strings.TrimSpace(name)))
	for _, s := range All {
		if s == n {
			return s, true
		}
	}
	return "", false
}

// FromHost returns the site that owns host, either the domain itself or one
// of its subdomains.
func FromHost(host string) (Site, bool) {
	h := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if h == "" {
		return "", false
	}
	for _, s := range All {
		for _, d := range domains[s] {
			if h == d || strings.HasSuffix(h, "."+d) {
				return s, true
			}
		}
	}
	return "", false
}

// FromLink resolves the site that hosts an apply link.
// Links on employer career pages resolve to no site.
func FromLink(link string) (Site, bool) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", false
	}
	return FromHost(u.Hostname())
}
