// Package runner drives one pass of the pipeline: scrape every site, reduce
// the listings to a bounded batch, then apply to each posting in turn.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"go-jobpilot-automation/internal/browser"
	"go-jobpilot-automation/internal/dedup"
	"go-jobpilot-automation/internal/documents"
	"go-jobpilot-automation/internal/filter"
	"go-jobpilot-automation/internal/outcome"
	"go-jobpilot-automation/internal/reporter"
	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/site"
	"go-jobpilot-automation/internal/submit"
)

type SessionOpener interface {
	OpenSession(ctx context.Context, name string) (browser.Session, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, page browser.Page, s site.Site) error
}

type DocumentPreparer interface {
	Prepare(ctx context.Context, posting scraper.Posting) (documents.Set, error)
}

type Submitter interface {
	Submit(ctx context.Context, session browser.Session, posting scraper.Posting, docs documents.Set) submit.Report
}

type OutcomeLog interface {
	Record(ctx context.Context, e outcome.Entry) error
	Fail(ctx context.Context, f outcome.Failure) error
}

// Deps is everything a run needs, built once from the configuration.
type Deps struct {
	Browser   SessionOpener
	Scrapers  []scraper.Scraper
	Auth      Authenticator
	Documents DocumentPreparer
	Submitter Submitter
	Log       OutcomeLog
	Reporter  reporter.Reporter

	Query           scraper.Query
	Policy          filter.Policy
	MaxApplications int
	// NeedsLogin reports whether postings on a site require a signed-in session.
	NeedsLogin func(site.Site) bool
}

// Stage names recorded in the failure log.
const (
	StageSession      = "session"
	StageAuthenticate = "authenticate"
	StageDocuments    = "documents"
	StageSubmit       = "submit"
	StageLog          = "log"
	StagePanic        = "panic"
)

// externalSession serves apply links on hosts outside the known sites.
const externalSession = "external"

type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

type Runner struct {
	deps    Deps
	phase   Phase
	observe func(Phase)
	newID   func() string
	now     func() time.Time
}

type Option func(*Runner)

// WithPhaseObserver is called on every phase change.
func WithPhaseObserver(fn func(Phase)) Option {
	return func(r *Runner) { r.observe = fn }
}

func WithRunID(fn func() string) Option {
	return func(r *Runner) { r.newID = fn }
}

func New(deps Deps, opts ...Option) *Runner {
	if deps.Reporter == nil {
		deps.Reporter = reporter.LogReporter{}
	}
	if deps.NeedsLogin == nil {
		deps.NeedsLogin = func(site.Site) bool { return false }
	}
	r := &Runner{deps: deps, newID: uuid.NewString, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Runner) Phase() Phase { return r.phase }

func (r *Runner) enter(p Phase) {
	r.phase = p
	if r.observe != nil {
		r.observe(p)
	}
}

// Run executes one complete pass. The summary is always reported; the
// returned error is set only when acquisition failed or ctx was cancelled.
func (r *Runner) Run(ctx context.Context) (summary reporter.Summary, err error) {
	summary = reporter.Summary{RunID: r.newID(), StartedAt: r.now()}
	log.Printf("🚀 [%s] JobPilot run started", summary.RunID)

	defer func() {
		summary.FinishedAt = r.now()
		if err != nil {
			summary.Error = err.Error()
		}
		r.enter(Complete)
		if rerr := r.deps.Reporter.Summary(context.WithoutCancel(ctx), summary); rerr != nil {
			log.Printf("⚠️ [%s] Could not report summary: %v", summary.RunID, rerr)
		}
	}()

	r.enter(Scraping)
	all, err := r.scrape(ctx, summary.RunID)
	if err != nil {
		return summary, fmt.Errorf("scrape: %w", err)
	}
	summary.Scraped = len(all)

	r.enter(Deduplicating)
	unique := dedup.Dedup(all)
	summary.Unique = len(unique)
	log.Printf("🧹 [%s] %d unique of %d scraped", summary.RunID, len(unique), len(all))

	r.enter(Filtering)
	matched := r.deps.Policy.Apply(unique)
	summary.Matched = len(matched)

	r.enter(Selecting)
	selected := filter.Select(matched, r.deps.MaxApplications)
	summary.Selected = len(selected)
	log.Printf("🎯 [%s] %d matched, %d selected", summary.RunID, len(matched), len(selected))

	r.enter(ProcessingBatch)
	sessions := newSessionCache(r.deps.Browser, r.deps.Auth, r.deps.NeedsLogin)
	defer sessions.closeAll()

	for i, p := range selected {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		log.Printf("📌 [%s] (%d/%d) %s at %s", summary.RunID, i+1, len(selected), p.Title, p.Company)
		summary.Processed++

		perr := r.processOne(ctx, summary.RunID, p, sessions)
		if perr == nil {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		r.recordFailure(ctx, summary.RunID, p, perr)
	}
	return summary, nil
}

func (r *Runner) scrape(ctx context.Context, runID string) ([]scraper.Posting, error) {
	var all []scraper.Posting
	for _, sc := range r.deps.Scrapers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		postings, err := r.fetchOne(ctx, sc)
		if err != nil {
			return nil, err
		}
		log.Printf("📥 [%s] %s returned %d postings", runID, sc.Name(), len(postings))
		all = append(all, postings...)
	}
	return all, nil
}

// fetchOne gives the adapter its own session and page for the duration of the
// fetch. The session is named after the site so its saved cookies apply.
func (r *Runner) fetchOne(ctx context.Context, sc scraper.Scraper) (postings []scraper.Posting, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			postings, err = nil, fmt.Errorf("%s adapter panicked: %v", sc.Name(), rec)
		}
	}()

	session, err := r.deps.Browser.OpenSession(ctx, string(sc.Site()))
	if err != nil {
		return nil, fmt.Errorf("open %s session: %w", sc.Name(), err)
	}
	defer session.Close()

	page, err := session.NewPage()
	if err != nil {
		return nil, fmt.Errorf("open %s page: %w", sc.Name(), err)
	}
	defer page.Close()

	return sc.Fetch(ctx, page, r.deps.Query), nil
}

// processOne is the isolation boundary for one posting.
func (r *Runner) processOne(ctx context.Context, runID string, p scraper.Posting, sessions *sessionCache) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &stageError{stage: StagePanic, err: fmt.Errorf("%v", rec)}
		}
	}()

	s, known := site.FromLink(p.ApplyLink)
	name := externalSession
	if known {
		name = string(s)
	}

	sess, err := sessions.get(ctx, name, s, known)
	if err != nil {
		return err
	}

	docs, err := r.deps.Documents.Prepare(ctx, p)
	if err != nil {
		return &stageError{stage: StageDocuments, err: err}
	}

	rep := r.deps.Submitter.Submit(ctx, sess, p, docs)
	if rep.Err != nil {
		return &stageError{stage: StageSubmit, err: rep.Err}
	}

	entry := outcome.Entry{
		RunID:       runID,
		JobTitle:    p.Title,
		Company:     p.Company,
		Location:    p.Location,
		ApplyLink:   p.ApplyLink,
		Resume:      filepath.Base(docs.Resume),
		CoverLetter: filepath.Base(docs.CoverLetter),
		Status:      string(rep.Status),
	}
	if err := r.deps.Log.Record(ctx, entry); err != nil {
		return &stageError{stage: StageLog, err: err}
	}
	return nil
}

func (r *Runner) recordFailure(ctx context.Context, runID string, p scraper.Posting, err error) {
	stage := "unknown"
	var se *stageError
	if errors.As(err, &se) {
		stage = se.stage
		err = se.err
	}

	log.Printf("❌ [%s] Error processing job: %s (%s) at %s: %v", runID, p.Title, p.Source, stage, err)
	f := outcome.Failure{
		RunID:     runID,
		JobTitle:  p.Title,
		Company:   p.Company,
		ApplyLink: p.ApplyLink,
		Site:      string(p.Source),
		Stage:     stage,
		Error:     err.Error(),
	}
	if lerr := r.deps.Log.Fail(context.WithoutCancel(ctx), f); lerr != nil {
		log.Printf("⚠️ [%s] Could not write failure log: %v", runID, lerr)
	}
	if rerr := r.deps.Reporter.Failure(context.WithoutCancel(ctx), reporter.Failure{RunID: runID, Posting: p, Stage: stage, Err: err}); rerr != nil {
		log.Printf("⚠️ [%s] Could not report failure: %v", runID, rerr)
	}
}
