// Command probe opens one site's search page in a real browser and reports
// what the pipeline would see there: cookies, obstacles and listings.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"go-jobpilot-automation/internal/browser"
	"go-jobpilot-automation/internal/config"
	"go-jobpilot-automation/internal/obstacle"
	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/scraper/sources"
	"go-jobpilot-automation/internal/site"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	siteName := flag.String("site", "indeed", "site to probe")
	headed := flag.Bool("headed", false, "show the browser window")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	s, ok := site.Parse(*siteName)
	if !ok {
		log.Fatalf("❌ Unknown site %q", *siteName)
	}

	cookiePath := browser.CookieFile(cfg.Paths.CookiesDir, string(s))
	if cookies, err := browser.LoadCookies(cookiePath); err != nil {
		fmt.Printf("🍪 No cookies for %s: %v\n", s, err)
	} else {
		fmt.Printf("🍪 Loaded %d cookies from %s\n", len(cookies), cookiePath)
	}

	ctx := context.Background()
	pm, err := browser.NewPlaywright(ctx, browser.Options{
		Headless:   !*headed,
		Timeout:    cfg.Browser.Timeout,
		RatePerSec: cfg.Browser.NavRatePerSec,
		Burst:      cfg.Browser.NavBurst,
		CookiesDir: cfg.Paths.CookiesDir,
	})
	if err != nil {
		log.Fatalf("Failed to create Playwright: %v", err)
	}
	defer pm.Close()
	fmt.Println("✅ Playwright started")

	session, err := pm.OpenSession(ctx, string(s))
	if err != nil {
		log.Fatalf("Failed to open session: %v", err)
	}
	defer session.Close()

	page, err := session.NewPage()
	if err != nil {
		log.Fatalf("Failed to create page: %v", err)
	}
	defer page.Close()

	shots := browser.NewScreenshotDebugger(cfg.Paths.Screenshots)
	adapter, err := sources.New(s, scraper.Options{MaxCards: cfg.Browser.MaxCards, Screenshots: shots})
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	q := scraper.Query{Keywords: cfg.Keywords, Location: cfg.Location}
	postings := adapter.Fetch(ctx, page, q)

	title, _ := page.Title()
	fmt.Printf("✅ Page title: %s\n", title)

	if ch, err := obstacle.Detect(page); err != nil {
		fmt.Printf("⚠️ Obstacle check failed: %v\n", err)
	} else if ch != nil {
		fmt.Printf("🧩 Obstacle present: %s (sitekey %q)\n", ch.Marker, ch.SiteKey)
	}

	fmt.Printf("📦 %d postings\n", len(postings))
	for i, p := range postings {
		fmt.Printf("  %2d. %s | %s | %s\n     %s\n", i+1, p.Title, p.Company, strings.TrimSpace(p.Location), p.ApplyLink)
	}

	_ = shots.CaptureAndLog(page, "probe-"+string(s), "Probe finished")
	fmt.Println("✨ Probe complete!")
}
