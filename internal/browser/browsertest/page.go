// Package browsertest provides in-memory fakes of browser.Page and
// browser.Session that answer selector queries with goquery.
package browsertest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"go-jobpilot-automation/internal/browser"
)

// Page serves fixed HTML per URL. Every interaction is recorded.
type Page struct {
	mu sync.Mutex

	pages   map[string]string
	url     string
	html    string
	gotoErr map[string]error

	Visited   []string
	Filled    map[string]string
	Clicked   []string
	Uploads   map[string][]string
	Evaluated []string
	PDFs      []string
	Closed    bool

	// EvaluateResult is returned from every Evaluate call.
	EvaluateResult any
	// OnClick runs after a successful click, e.g. to swap the page with SetContent.
	OnClick func(p *Page, selector string) error
}

var _ browser.Page = (*Page)(nil)

// NewPage returns a page that knows the given url -> html routes.
func NewPage(pages map[string]string) *Page {
	if pages == nil {
		pages = map[string]string{}
	}
	return &Page{
		pages:   pages,
		gotoErr: map[string]error{},
		Filled:  map[string]string{},
		Uploads: map[string][]string{},
	}
}

// FailGoto makes navigation to url fail with err.
func (p *Page) FailGoto(url string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gotoErr[url] = err
}

func (p *Page) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Visited = append(p.Visited, url)
	if err := p.gotoErr[url]; err != nil {
		return err
	}
	html, ok := p.pages[url]
	if !ok {
		return fmt.Errorf("goto %s: net::ERR_NAME_NOT_RESOLVED", url)
	}
	p.url = url
	p.html = html
	return nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) Title() (string, error) {
	doc, err := p.doc()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(doc.Find("title").First().Text()), nil
}

func (p *Page) Content() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.html, nil
}

func (p *Page) SetContent(html string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.html = html
	return nil
}

func (p *Page) WaitForLoad() error { return nil }

func (p *Page) Count(selector string) (int, error) {
	doc, err := p.doc()
	if err != nil {
		return 0, err
	}
	return doc.Find(selector).Length(), nil
}

func (p *Page) Attribute(selector, name string) (string, error) {
	doc, err := p.doc()
	if err != nil {
		return "", err
	}
	v, _ := doc.Find(selector).First().Attr(name)
	return v, nil
}

func (p *Page) Fill(selector, value string) error {
	if err := p.require(selector); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Filled[selector] = value
	return nil
}

func (p *Page) FillAll(selector, value string) (int, error) {
	n, err := p.Count(selector)
	if err != nil || n == 0 {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Filled[selector] = value
	return n, nil
}

func (p *Page) Click(selector string) error {
	if err := p.require(selector); err != nil {
		return err
	}
	p.mu.Lock()
	p.Clicked = append(p.Clicked, selector)
	hook := p.OnClick
	p.mu.Unlock()

	if hook != nil {
		return hook(p, selector)
	}
	return nil
}

func (p *Page) SetInputFiles(selector string, files ...string) error {
	if err := p.require(selector); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Uploads[selector] = append(p.Uploads[selector], files...)
	return nil
}

func (p *Page) Evaluate(expression string, arg any) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Evaluated = append(p.Evaluated, expression)
	return p.EvaluateResult, nil
}

func (p *Page) MoveMouse(x, y float64) error { return nil }

func (p *Page) Wheel(dx, dy float64) error { return nil }

func (p *Page) Screenshot(path string) error { return nil }

// PDF writes a small placeholder file holding the current HTML.
func (p *Page) PDF(path string) error {
	p.mu.Lock()
	html := p.html
	p.PDFs = append(p.PDFs, path)
	p.mu.Unlock()
	return os.WriteFile(path, []byte("%PDF-1.4\n"+html), 0o644)
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// Has reports whether selector matches the current document.
func (p *Page) Has(selector string) bool {
	n, _ := p.Count(selector)
	return n > 0
}

func (p *Page) doc() (*goquery.Document, error) {
	p.mu.Lock()
	html := p.html
	p.mu.Unlock()
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (p *Page) require(selector string) error {
	n, err := p.Count(selector)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no element matches %q", selector)
	}
	return nil
}
