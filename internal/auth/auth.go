// Package auth signs a browser session into a listing site.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-jobpilot-automation/internal/browser"
	"go-jobpilot-automation/internal/config"
	"go-jobpilot-automation/internal/site"
)

type State int

const (
	NotStarted State = iota
	NavigatedToLogin
	CredentialsEntered
	Submitted
	SecurityChallengeAnswered
	Done
)

var stateNames = [...]string{"NotStarted", "NavigatedToLogin", "CredentialsEntered", "Submitted", "SecurityChallengeAnswered", "Done"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrMissingCredentials    = errors.New("missing credentials")
	ErrMissingSecurityAnswer = errors.New("security question asked but no answer configured")
)

// AuthenticationError carries the state the login reached before failing.
type AuthenticationError struct {
	Site  site.Site
	State State
	Err   error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s login failed at %s: %v", e.Site, e.State, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// CredentialSource is satisfied by *config.Config.
type CredentialSource interface {
	CredentialFor(s site.Site) (config.Credential, bool)
}

type Authenticator struct {
	creds       CredentialSource
	screenshots *browser.ScreenshotDebugger
	observe     func(site.Site, State)
}

type Option func(*Authenticator)

func WithScreenshots(s *browser.ScreenshotDebugger) Option {
	return func(a *Authenticator) { a.screenshots = s }
}

// WithObserver is called on every state transition.
func WithObserver(fn func(site.Site, State)) Option {
	return func(a *Authenticator) { a.observe = fn }
}

func New(creds CredentialSource, opts ...Option) *Authenticator {
	a := &Authenticator{creds: creds}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Authenticate runs the login flow of s on page. There is no retry; a
// failure is returned as *AuthenticationError.
func (a *Authenticator) Authenticate(ctx context.Context, page browser.Page, s site.Site) error {
	flow, ok := FlowFor(s)
	if !ok {
		log.Printf("ℹ️ No login flow for %s, continuing unauthenticated", s)
		return nil
	}

	cred, ok := a.creds.CredentialFor(s)
	if !ok {
		return &AuthenticationError{Site: s, State: NotStarted, Err: ErrMissingCredentials}
	}

	l := &login{site: s, flow: flow, page: page, observe: a.observe}
	if err := l.run(ctx, cred); err != nil {
		a.screenshots.CaptureAndLog(page, string(s)+"-login", fmt.Sprintf("%s: login failed", s))
		return &AuthenticationError{Site: s, State: l.state, Err: err}
	}
	log.Printf("✅ Logged into %s", s)
	return nil
}

type login struct {
	site    site.Site
	flow    Flow
	page    browser.Page
	state   State
	observe func(site.Site, State)
}

func (l *login) to(s State) {
	l.state = s
	log.Printf("   🔐 %s login: %s", l.site, s)
	if l.observe != nil {
		l.observe(l.site, s)
	}
}

func (l *login) run(ctx context.Context, cred config.Credential) error {
	log.Printf("🔑 Logging into %s...", l.site)
	if err := l.page.Goto(ctx, l.flow.LoginURL); err != nil {
		return err
	}
	if l.flow.PortalLink != "" {
		if err := l.followPortal(); err != nil {
			return err
		}
	}
	l.to(NavigatedToLogin)

	if err := l.page.Fill(l.flow.UserField, cred.Username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := l.page.Fill(l.flow.PassField, cred.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	l.to(CredentialsEntered)

	if err := l.submit(); err != nil {
		return err
	}
	l.to(Submitted)

	if l.flow.SecurityField != "" {
		n, err := l.page.Count(l.flow.SecurityField)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("   ❓ %s security question detected. Answering...", l.site)
			if cred.SecurityAnswer == "" {
				return ErrMissingSecurityAnswer
			}
			if err := l.page.Fill(l.flow.SecurityField, cred.SecurityAnswer); err != nil {
				return fmt.Errorf("fill security answer: %w", err)
			}
			if err := l.submit(); err != nil {
				return err
			}
			l.to(SecurityChallengeAnswered)
		}
	}

	l.to(Done)
	return nil
}

func (l *login) followPortal() error {
	n, err := l.page.Count(l.flow.PortalLink)
	if err != nil || n == 0 {
		return err
	}
	if err := l.page.Click(l.flow.PortalLink); err != nil {
		return fmt.Errorf("open sign-in portal: %w", err)
	}
	return l.page.WaitForLoad()
}

func (l *login) submit() error {
	if err := l.page.Click(l.flow.Submit); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	return l.page.WaitForLoad()
}
