package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Page is the subset of a browser tab the pipeline drives. Selectors follow
// CSS syntax. Methods that act on an element use the first match.
type Page interface {
	Goto(ctx context.Context, url string) error
	URL() string
	Title() (string, error)
	Content() (string, error)
	SetContent(html string) error
	WaitForLoad() error

	// Count returns how many elements match selector; zero is not an error.
	Count(selector string) (int, error)
	// Attribute returns "" with a nil error when nothing matches.
	Attribute(selector, name string) (string, error)
	Fill(selector, value string) error
	// FillAll fills every match and returns how many were filled.
	FillAll(selector, value string) (int, error)
	Click(selector string) error
	SetInputFiles(selector string, files ...string) error
	Evaluate(expression string, arg any) (any, error)

	MoveMouse(x, y float64) error
	Wheel(dx, dy float64) error
	Screenshot(path string) error
	PDF(path string) error
	Close() error
}

type pwPage struct {
	page    playwright.Page
	limiter *HostLimiter
	timeout time.Duration
}

func newPage(p playwright.Page, limiter *HostLimiter, timeout time.Duration) *pwPage {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &pwPage{page: p, limiter: limiter, timeout: timeout}
}

func (p *pwPage) ms() *float64 {
	return playwright.Float(float64(p.timeout.Milliseconds()))
}

func (p *pwPage) Goto(ctx context.Context, url string) error {
	if p.limiter != nil {
		if err := p.limiter.WaitURL(ctx, url); err != nil {
			return err
		}
	}
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   p.ms(),
	}); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

func (p *pwPage) URL() string { return p.page.URL() }

func (p *pwPage) Title() (string, error) { return p.page.Title() }

func (p *pwPage) Content() (string, error) { return p.page.Content() }

func (p *pwPage) SetContent(html string) error {
	return p.page.SetContent(html, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   p.ms(),
	})
}

func (p *pwPage) WaitForLoad() error {
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: p.ms(),
	})
}

func (p *pwPage) Count(selector string) (int, error) {
	return p.page.Locator(selector).Count()
}

func (p *pwPage) Attribute(selector, name string) (string, error) {
	n, err := p.Count(selector)
	if err != nil || n == 0 {
		return "", err
	}
	return p.page.Locator(selector).First().GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(2000),
	})
}

func (p *pwPage) Fill(selector, value string) error {
	return p.page.Locator(selector).First().Fill(value, playwright.LocatorFillOptions{
		Timeout: p.ms(),
	})
}

func (p *pwPage) FillAll(selector, value string) (int, error) {
	items, err := p.page.Locator(selector).All()
	if err != nil {
		return 0, err
	}
	filled := 0
	var errs []error
	for _, item := range items {
		// hidden fields cannot be typed into
		if visible, err := item.IsVisible(); err == nil && !visible {
			continue
		}
		if err := item.Fill(value, playwright.LocatorFillOptions{Timeout: playwright.Float(5000)}); err != nil {
			errs = append(errs, err)
			continue
		}
		filled++
	}
	return filled, errors.Join(errs...)
}

func (p *pwPage) Click(selector string) error {
	return p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: p.ms(),
	})
}

func (p *pwPage) SetInputFiles(selector string, files ...string) error {
	return p.page.Locator(selector).First().SetInputFiles(files, playwright.LocatorSetInputFilesOptions{
		Timeout: p.ms(),
	})
}

func (p *pwPage) Evaluate(expression string, arg any) (any, error) {
	return p.page.Evaluate(expression, arg)
}

func (p *pwPage) MoveMouse(x, y float64) error {
	return p.page.Mouse().Move(x, y)
}

func (p *pwPage) Wheel(dx, dy float64) error {
	return p.page.Mouse().Wheel(dx, dy)
}

func (p *pwPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (p *pwPage) PDF(path string) error {
	_, err := p.page.PDF(playwright.PagePdfOptions{
		Path:            playwright.String(path),
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("0"),
			Bottom: playwright.String("0"),
			Left:   playwright.String("0"),
			Right:  playwright.String("0"),
		},
	})
	return err
}

func (p *pwPage) Close() error { return p.page.Close() }
