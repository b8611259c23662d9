package auth

import "go-jobpilot-automation/internal/site"

// Flow is the login page layout of one site.
type Flow struct {
	LoginURL string
	// PortalLink is clicked first when present, for portals that put the
	// actual sign-in form behind a landing page.
	PortalLink string
	UserField  string
	PassField  string
	Submit     string
	// SecurityField is the security question input some portals show after
	// the password step. Empty means the site never asks.
	SecurityField string
}

const submitButton = `button[type="submit"]`

var flows = map[site.Site]Flow{
	site.LinkedIn: {
		LoginURL:  "https://www.linkedin.com/login",
		UserField: "input#username",
		PassField: "input#password",
		Submit:    submitButton,
	},
	site.Glassdoor: {
		LoginURL:  "https://www.glassdoor.ca/profile/login_input.htm",
		UserField: "input#userEmail",
		PassField: "input#userPassword",
		Submit:    submitButton,
	},
	site.Monster: {
		LoginURL:  "https://www.monster.ca/login/",
		UserField: `input[name="email"]`,
		PassField: `input[name="password"]`,
		Submit:    submitButton,
	},
	site.ZipRecruiter: {
		LoginURL:  "https://www.ziprecruiter.com/login",
		UserField: `input[name="email"]`,
		PassField: `input[name="password"]`,
		Submit:    submitButton,
	},
	site.CanadaGov: {
		LoginURL:      "https://www.canada.ca/en/services/jobs/opportunities/government.html",
		PortalLink:    `a[href*="login"]`,
		UserField:     `input[name="username"]`,
		PassField:     `input[name="password"]`,
		Submit:        submitButton,
		SecurityField: `input[name="securityAnswer"]`,
	},
}

// FlowFor returns the login flow of s. Sites without one need no login.
func FlowFor(s site.Site) (Flow, bool) {
	f, ok := flows[s]
	return f, ok
}
