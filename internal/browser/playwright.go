package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

type Options struct {
	Headless   bool
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	// CookiesDir holds optional cookies-<session>.json files used to seed a session.
	CookiesDir string
}

// Session is one browser context. Pages opened from it share cookies and
// are expected to be used one at a time.
type Session interface {
	Name() string
	NewPage() (Page, error)
	Close() error
}

// PlaywrightManager owns the playwright driver and the launched browser.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
	limiter *HostLimiter
}

func NewPlaywright(ctx context.Context, opts Options) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     []string{"--disable-blink-features=AutomationControlled"},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}

	rate := opts.RatePerSec
	if rate <= 0 {
		rate = 1
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &PlaywrightManager{
		pw:      pw,
		browser: browser,
		opts:    opts,
		limiter: NewHostLimiter(rate, burst),
	}, nil
}

// NewContext creates a browser context seeded with cookies.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	browserCtx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
		Viewport:  &playwright.Size{Width: 1366, Height: 768},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if len(cookies) > 0 {
		if err := browserCtx.AddCookies(cookies); err != nil {
			_ = browserCtx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return browserCtx, nil
}

// OpenSession creates a fresh context for the site or purpose called name,
// seeded from cookies-<name>.json in the cookies directory when that file exists.
func (pm *PlaywrightManager) OpenSession(ctx context.Context, name string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browserCtx, err := pm.NewContext(sessionCookies(pm.opts.CookiesDir, name))
	if err != nil {
		return nil, err
	}
	return &pwSession{name: name, ctx: browserCtx, limiter: pm.limiter, timeout: pm.opts.Timeout}, nil
}

// CookieFile is where the saved cookies of session name live.
func CookieFile(dir, name string) string {
	return filepath.Join(dir, fmt.Sprintf("cookies-%s.json", name))
}

// sessionCookies returns nil when dir is unset or the file is missing.
func sessionCookies(dir, name string) []playwright.OptionalCookie {
	if dir == "" {
		return nil
	}
	loaded, err := LoadCookies(CookieFile(dir, name))
	switch {
	case err == nil:
		log.Printf("🍪 Loaded %s cookies (%d)", name, len(loaded))
		return loaded
	case !errors.Is(err, os.ErrNotExist):
		log.Printf("⚠️ Could not load %s cookies: %v. Continuing.", name, err)
	}
	return nil
}

func (pm *PlaywrightManager) Close() error {
	var errs []error
	if pm.browser != nil {
		errs = append(errs, pm.browser.Close())
	}
	if pm.pw != nil {
		errs = append(errs, pm.pw.Stop())
	}
	return errors.Join(errs...)
}

type pwSession struct {
	name    string
	ctx     playwright.BrowserContext
	limiter *HostLimiter
	timeout time.Duration
}

func (s *pwSession) Name() string { return s.name }

func (s *pwSession) NewPage() (Page, error) {
	p, err := s.ctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	return newPage(p, s.limiter, s.timeout), nil
}

func (s *pwSession) Close() error {
	return s.ctx.Close()
}
