package obstacle

import (
	"strings"

	"go-jobpilot-automation/internal/browser"
)

// markers that identify a verification widget, most specific first
var markers = []string{
	".g-recaptcha[data-sitekey]",
	"div#g-recaptcha",
	".g-recaptcha",
	`iframe[src*="captcha"]`,
}

var interstitialTitles = []string{"Just a moment", "Attention Required", "Cloudflare"}

// Challenge is a detected verification challenge. SiteKey is empty when the
// widget does not expose one, which leaves only the manual strategy.
type Challenge struct {
	Marker  string
	SiteKey string
	PageURL string
}

// Detect returns nil when the page carries no known challenge.
func Detect(page browser.Page) (*Challenge, error) {
	for _, m := range markers {
		n, err := page.Count(m)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}
		key, err := page.Attribute("[data-sitekey]", "data-sitekey")
		if err != nil {
			return nil, err
		}
		return &Challenge{Marker: m, SiteKey: strings.TrimSpace(key), PageURL: page.URL()}, nil
	}

	title, err := page.Title()
	if err != nil {
		return nil, err
	}
	for _, t := range interstitialTitles {
		if strings.Contains(title, t) {
			return &Challenge{Marker: "title:" + t, PageURL: page.URL()}, nil
		}
	}
	return nil, nil
}
