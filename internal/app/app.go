// Package app builds a runnable pipeline from the configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-jobpilot-automation/internal/ai"
	"go-jobpilot-automation/internal/auth"
	"go-jobpilot-automation/internal/browser"
	"go-jobpilot-automation/internal/config"
	"go-jobpilot-automation/internal/documents"
	"go-jobpilot-automation/internal/obstacle"
	"go-jobpilot-automation/internal/outcome"
	"go-jobpilot-automation/internal/pdf"
	"go-jobpilot-automation/internal/reporter"
	"go-jobpilot-automation/internal/runner"
	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/scraper/sources"
	"go-jobpilot-automation/internal/submit"
)

// renderSession is the browser session reserved for printing documents.
const renderSession = "render"

type App struct {
	Runner  *runner.Runner
	Log     *outcome.Log
	closers []func() error
}

// Close releases the browser. It is safe to call on a partially built App.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Start launches chromium and wires every component against it.
func Start(ctx context.Context, cfg *config.Config) (*App, error) {
	pm, err := browser.NewPlaywright(ctx, browser.Options{
		Headless:   cfg.Browser.Headless,
		Timeout:    cfg.Browser.Timeout,
		RatePerSec: cfg.Browser.NavRatePerSec,
		Burst:      cfg.Browser.NavBurst,
		CookiesDir: cfg.Paths.CookiesDir,
	})
	if err != nil {
		return nil, err
	}
	log.Println("✅ Browser initialized successfully!")

	render, err := pm.OpenSession(ctx, renderSession)
	if err != nil {
		_ = pm.Close()
		return nil, fmt.Errorf("open render session: %w", err)
	}

	a, err := Wire(ctx, cfg, pm, render)
	if err != nil {
		_ = render.Close()
		_ = pm.Close()
		return nil, err
	}
	a.closers = append(a.closers, pm.Close, render.Close)
	return a, nil
}

// Wire builds the runner from already opened browser resources.
func Wire(ctx context.Context, cfg *config.Config, opener runner.SessionOpener, render pdf.PageSource) (*App, error) {
	shots := browser.NewScreenshotDebugger(cfg.Paths.Screenshots)
	resolver := obstacle.New(cfg.Captcha, obstacle.WithScreenshots(shots))

	scrapers, err := sources.For(cfg.EnabledSites(), scraper.Options{
		Resolver:    resolver,
		MaxCards:    cfg.Browser.MaxCards,
		Humanize:    cfg.Browser.Humanize,
		Screenshots: shots,
	})
	if err != nil {
		return nil, err
	}

	client, err := ai.New(ctx, cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("init ai client: %w", err)
	}

	baseResume, err := documents.LoadBaseResume(cfg.Paths.Resume)
	if err != nil {
		return nil, fmt.Errorf("load base resume: %w", err)
	}

	gen, err := pdf.NewGenerator(cfg.Paths.Template, cfg.Paths.OutputDir, render)
	if err != nil {
		return nil, err
	}

	outcomes := outcome.Open(cfg.Paths.LogDir)
	r := runner.New(runner.Deps{
		Browser:         opener,
		Scrapers:        scrapers,
		Auth:            auth.New(cfg, auth.WithScreenshots(shots)),
		Documents:       documents.NewPreparer(client, gen, baseResume, cfg.Applicant.Name),
		Submitter:       submit.New(cfg.Applicant, cfg.AnswerPlaceholder, resolver, shots),
		Log:             outcomes,
		Reporter:        buildReporter(cfg.Telegram),
		Query:           scraper.Query{Keywords: cfg.Keywords, Location: cfg.Location},
		Policy:          cfg.FilterPolicy(),
		MaxApplications: cfg.MaxApplications,
		NeedsLogin:      cfg.NeedsLogin,
	})

	return &App{Runner: r, Log: outcomes}, nil
}

func buildReporter(cfg config.Telegram) reporter.Reporter {
	reporters := reporter.Multi{reporter.LogReporter{}}
	if cfg.Token == "" {
		return reporters
	}
	tg, err := reporter.NewTelegramReporter(cfg)
	if err != nil {
		log.Printf("⚠️ Telegram reporting disabled: %v", err)
		return reporters
	}
	log.Println("🤖 Telegram Bot initialized.")
	return append(reporters, tg)
}
