package runner

import (
	"context"
	"log"

	"go-jobpilot-automation/internal/browser"
	"go-jobpilot-automation/internal/site"
)

type siteSession struct {
	session browser.Session
	// err is remembered so a failed login is not retried within the run.
	err error
}

// sessionCache holds one session per site for the length of a run.
type sessionCache struct {
	opener     SessionOpener
	auth       Authenticator
	needsLogin func(site.Site) bool
	byName     map[string]*siteSession
}

func newSessionCache(opener SessionOpener, auth Authenticator, needsLogin func(site.Site) bool) *sessionCache {
	return &sessionCache{opener: opener, auth: auth, needsLogin: needsLogin, byName: map[string]*siteSession{}}
}

func (c *sessionCache) get(ctx context.Context, name string, s site.Site, known bool) (browser.Session, error) {
	if cached, ok := c.byName[name]; ok {
		return cached.session, cached.err
	}

	entry := &siteSession{}
	c.byName[name] = entry

	session, err := c.opener.OpenSession(ctx, name)
	if err != nil {
		entry.err = &stageError{stage: StageSession, err: err}
		return nil, entry.err
	}
	entry.session = session

	if known && c.auth != nil && c.needsLogin(s) {
		if err := c.login(ctx, session, s); err != nil {
			entry.err = &stageError{stage: StageAuthenticate, err: err}
			return nil, entry.err
		}
	}
	return session, nil
}

func (c *sessionCache) login(ctx context.Context, session browser.Session, s site.Site) error {
	page, err := session.NewPage()
	if err != nil {
		return err
	}
	defer page.Close()
	return c.auth.Authenticate(ctx, page, s)
}

func (c *sessionCache) closeAll() {
	for name, entry := range c.byName {
		if entry.session == nil {
			continue
		}
		if err := entry.session.Close(); err != nil {
			log.Printf("⚠️ Could not close %s session: %v", name, err)
		}
	}
}
