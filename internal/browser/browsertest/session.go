package browsertest

import (
	"context"
	"sync"

	"go-jobpilot-automation/internal/browser"
)

// Session hands out fake pages sharing one route table.
type Session struct {
	mu sync.Mutex

	Label  string
	Routes map[string]string
	Pages  []*Page
	Closed bool

	// Prepare runs on every new page before it is returned.
	Prepare func(p *Page)
	// NewPageErr makes NewPage fail.
	NewPageErr error
}

var _ browser.Session = (*Session)(nil)

func (s *Session) Name() string { return s.Label }

func (s *Session) NewPage() (browser.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.NewPageErr != nil {
		return nil, s.NewPageErr
	}
	p := NewPage(s.Routes)
	if s.Prepare != nil {
		s.Prepare(p)
	}
	s.Pages = append(s.Pages, p)
	return p, nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// AllPagesClosed reports whether every page opened from s was closed.
func (s *Session) AllPagesClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.Pages {
		p.mu.Lock()
		closed := p.Closed
		p.mu.Unlock()
		if !closed {
			return false
		}
	}
	return true
}

// Browser opens fake sessions, one per call, all sharing Routes.
type Browser struct {
	mu sync.Mutex

	Routes   map[string]string
	Prepare  func(p *Page)
	Sessions []*Session
	OpenErr  error
}

func (b *Browser) OpenSession(ctx context.Context, name string) (browser.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	s := &Session{Label: name, Routes: b.Routes, Prepare: b.Prepare}
	b.Sessions = append(b.Sessions, s)
	return s, nil
}
