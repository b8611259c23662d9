// Package obstacle detects verification challenges and clears them either by
// waiting for a human or through the 2captcha solving service.
package obstacle

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-jobpilot-automation/internal/browser"
	"go-jobpilot-automation/internal/config"
)

const injectTokenJS = `(token) => {
	const el = document.querySelector('#g-recaptcha-response');
	if (el) { el.innerHTML = token; el.value = token; }
}`

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// UnresolvedError is logged when the solving service could not clear a
// challenge. It is never returned: the resolver falls back to a manual wait.
type UnresolvedError struct {
	Strategy string
	PageURL  string
	Attempts int
	Err      error
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("obstacle unresolved via %s after %d polls on %s: %v", e.Strategy, e.Attempts, e.PageURL, e.Err)
}

func (e *UnresolvedError) Unwrap() error { return e.Err }

type Resolver struct {
	cfg         config.Captcha
	sleep       Sleeper
	solver      *TwoCaptcha
	screenshots *browser.ScreenshotDebugger
}

type Option func(*Resolver)

// WithSleeper replaces the real clock, mainly for tests.
func WithSleeper(s Sleeper) Option {
	return func(r *Resolver) { r.sleep = s }
}

func WithScreenshots(s *browser.ScreenshotDebugger) Option {
	return func(r *Resolver) { r.screenshots = s }
}

func New(cfg config.Captcha, opts ...Option) *Resolver {
	r := &Resolver{cfg: cfg, sleep: browser.Sleep}
	for _, o := range opts {
		o(r)
	}
	if cfg.Strategy == config.StrategyTwoCaptcha && cfg.APIKey != "" {
		r.solver = NewTwoCaptcha(cfg.APIKey, cfg.BaseURL, cfg.PollInterval, cfg.PollAttempts, r.sleep)
	}
	return r
}

// MaxWait bounds the time Resolve spends on a challenge, service round trips
// included. Page access is not counted.
func (r *Resolver) MaxWait() time.Duration {
	if r.solver == nil {
		return r.cfg.ManualWait
	}
	return time.Duration(r.cfg.PollAttempts)*r.cfg.PollInterval + r.cfg.ManualWait
}

// Resolve reports false when no challenge is present. After a manual wait it
// reports true without checking that the challenge is gone. Errors come only
// from page access or cancellation.
func (r *Resolver) Resolve(ctx context.Context, page browser.Page) (bool, error) {
	ch, err := Detect(page)
	if err != nil {
		return false, fmt.Errorf("detect challenge: %w", err)
	}
	if ch == nil {
		return false, nil
	}
	log.Printf("🛡️ Challenge detected (%s) on %s", ch.Marker, ch.PageURL)
	r.screenshots.CaptureAndLog(page, "challenge", "Verification challenge detected")

	if r.solver != nil && ch.SiteKey != "" {
		ok, err := r.solve(ctx, page, ch)
		if ok {
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		log.Printf("⚠️ %v. Falling back to manual wait.", err)
	}
	return r.manual(ctx)
}

// solve gets the whole polling budget for submit, polls, and the sleeps
// between them. A slow service runs out of budget and the caller goes manual.
func (r *Resolver) solve(ctx context.Context, page browser.Page, ch *Challenge) (bool, error) {
	solveCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.PollAttempts)*r.cfg.PollInterval)
	defer cancel()

	token, polls, err := r.solver.Solve(solveCtx, ch.SiteKey, ch.PageURL)
	if err == nil {
		_, err = page.Evaluate(injectTokenJS, token)
	}
	if err != nil {
		return false, &UnresolvedError{Strategy: config.StrategyTwoCaptcha, PageURL: ch.PageURL, Attempts: polls, Err: err}
	}
	log.Println("✅ Captcha solved and token injected.")
	return true, nil
}

func (r *Resolver) manual(ctx context.Context) (bool, error) {
	log.Printf("⏸️ Waiting %s for manual verification...", r.cfg.ManualWait)
	if err := r.sleep(ctx, r.cfg.ManualWait); err != nil {
		return false, err
	}
	return true, nil
}
