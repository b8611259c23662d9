package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-jobpilot-automation/internal/site"
)

// Field names used in ExtractionError and CardSpec.Required.
const (
	FieldTitle       = "title"
	FieldCompany     = "company"
	FieldLocation    = "location"
	FieldDescription = "description"
	FieldApplyLink   = "applyLink"
)

// CardSpec describes where a site puts each posting field inside a result card.
// Selectors are relative to the card. Empty selectors leave the field empty.
type CardSpec struct {
	Card        string
	Title       string
	Company     string
	Location    string
	Description string
	Link        string
	// LinkAttr defaults to href.
	LinkAttr string
	// BuildLink overrides Link/LinkAttr when the apply link has to be assembled.
	BuildLink func(card *goquery.Selection, base *url.URL) string
	// Required fields turn an empty value into an ExtractionError for that card.
	Required []string
}

// ExtractCards parses html and returns up to limit postings (limit <= 0 means
// no cap). Cards that fail are reported in the error slice and skipped.
func ExtractCards(html, pageURL string, spec CardSpec, limit int, source site.Site) ([]Posting, []error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, []error{&ExtractionError{Site: source, Index: -1, Err: fmt.Errorf("parse page: %w", err)}}
	}
	base, _ := url.Parse(pageURL)

	var postings []Posting
	var errs []error
	doc.Find(spec.Card).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if limit > 0 && len(postings) >= limit {
			return false
		}
		p, err := extractCard(card, base, spec, i, source)
		if err != nil {
			errs = append(errs, err)
			return true
		}
		postings = append(postings, p)
		return true
	})
	return postings, errs
}

func extractCard(card *goquery.Selection, base *url.URL, spec CardSpec, index int, source site.Site) (p Posting, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExtractionError{Site: source, Index: index, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	p = Posting{
		Title:       textOf(card, spec.Title),
		Company:     textOf(card, spec.Company),
		Location:    textOf(card, spec.Location),
		Description: textOf(card, spec.Description),
		Source:      source,
	}
	if spec.BuildLink != nil {
		p.ApplyLink = spec.BuildLink(card, base)
	} else {
		p.ApplyLink = linkOf(card, spec.Link, spec.LinkAttr, base)
	}

	values := map[string]string{
		FieldTitle:       p.Title,
		FieldCompany:     p.Company,
		FieldLocation:    p.Location,
		FieldDescription: p.Description,
		FieldApplyLink:   p.ApplyLink,
	}
	for _, field := range spec.Required {
		if values[field] == "" {
			return Posting{}, &ExtractionError{Site: source, Index: index, Field: field}
		}
	}
	return p, nil
}

func textOf(card *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return CleanText(card.Find(selector).First().Text())
}

func linkOf(card *goquery.Selection, selector, attr string, base *url.URL) string {
	if attr == "" {
		attr = "href"
	}
	sel := card
	if selector != "" {
		sel = card.Find(selector).First()
	}
	href, ok := sel.Attr(attr)
	if !ok {
		return ""
	}
	return ResolveLink(base, href)
}

// ResolveLink makes href absolute against base. Unparseable links come back trimmed.
func ResolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// JoinKeywords query-escapes each keyword and joins them with sep.
func JoinKeywords(keywords []string, sep string) string {
	parts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		parts = append(parts, url.QueryEscape(k))
	}
	return strings.Join(parts, sep)
}
