package runner

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobpilot-automation/internal/auth"
	"go-jobpilot-automation/internal/browser"
	"go-jobpilot-automation/internal/browser/browsertest"
	"go-jobpilot-automation/internal/config"
	"go-jobpilot-automation/internal/documents"
	"go-jobpilot-automation/internal/filter"
	"go-jobpilot-automation/internal/outcome"
	"go-jobpilot-automation/internal/reporter"
	"go-jobpilot-automation/internal/scraper"
	"go-jobpilot-automation/internal/site"
	"go-jobpilot-automation/internal/submit"
)

const applyForm = `<html><body><form>
	<input name="name"><input name="email">
	<input type="file" name="resume"><input type="file" name="cover_letter">
	<textarea name="why"></textarea>
	<button type="submit">Apply</button>
</form></body></html>`

type fakeScraper struct {
	site     site.Site
	postings []scraper.Posting
	panics   bool
}

func (f *fakeScraper) Name() string { return f.site.String() }
func (f *fakeScraper) Site() site.Site { return f.site }
func (f *fakeScraper) Fetch(_ context.Context, _ browser.Page, _ scraper.Query) []scraper.Posting {
	if f.panics {
		panic("adapter blew up")
	}
	return f.postings
}

type fakeDocs struct {
	dir     string
	panicOn string
	failOn  string
}

func (f *fakeDocs) Prepare(_ context.Context, p scraper.Posting) (documents.Set, error) {
	if p.Title == f.panicOn {
		panic("renderer crashed")
	}
	if p.Title == f.failOn {
		return documents.Set{}, errors.New("render failed")
	}
	return documents.Set{
		Resume:      filepath.Join(f.dir, p.Title+"_resume.pdf"),
		CoverLetter: filepath.Join(f.dir, p.Title+"_cover_letter.pdf"),
	}, nil
}

type recordingReporter struct {
	mu        sync.Mutex
	summaries []reporter.Summary
	failures  []reporter.Failure
}

func (r *recordingReporter) Summary(_ context.Context, s reporter.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, s)
	return nil
}

func (r *recordingReporter) Failure(_ context.Context, f reporter.Failure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
	return nil
}

type countingAuth struct {
	calls int
	err   error
}

func (a *countingAuth) Authenticate(_ context.Context, _ browser.Page, _ site.Site) error {
	a.calls++
	return a.err
}

func posting(title, company, link string, source site.Site) scraper.Posting {
	return scraper.Posting{Title: title, Company: company, Location: "Toronto, ON", ApplyLink: link, Source: source}
}

type harness struct {
	browser  *browsertest.Browser
	log      *outcome.Log
	reporter *recordingReporter
	deps     Deps
}

func newHarness(t *testing.T, routes map[string]string, scrapers ...scraper.Scraper) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		browser:  &browsertest.Browser{Routes: routes},
		log:      outcome.Open(dir),
		reporter: &recordingReporter{},
	}
	h.deps = Deps{
		Browser:         h.browser,
		Scrapers:        scrapers,
		Documents:       &fakeDocs{dir: filepath.Join(dir, "output")},
		Submitter:       submit.New(config.Applicant{Name: "Jane Doe", Email: "jane@example.com"}, "See resume", nil, nil),
		Log:             h.log,
		Reporter:        h.reporter,
		Policy:          filter.Policy{Keywords: []string{"developer"}, Location: "Toronto"},
		MaxApplications: 10,
	}
	return h
}

func fixedID() string { return "run-1" }

func TestRun_OneFailureDoesNotStopBatch(t *testing.T) {
	routes := map[string]string{
		"https://jobs.example.com/apply/1": applyForm,
		"https://jobs.example.com/apply/3": applyForm,
	}
	sc := &fakeScraper{site: site.Indeed, postings: []scraper.Posting{
		posting("Go Developer", "Acme", "https://jobs.example.com/apply/1", site.Indeed),
		posting("Java Developer", "Globex", "https://jobs.example.com/apply/2", site.Indeed),
		posting("Rust Developer", "Initech", "https://jobs.example.com/apply/3", site.Indeed),
	}}
	h := newHarness(t, routes, sc)

	summary, err := New(h.deps, WithRunID(fixedID)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Selected)
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	entries, err := h.log.Outcomes.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Go Developer", entries[0].JobTitle)
	assert.Equal(t, "Rust Developer", entries[1].JobTitle)
	assert.Equal(t, "Go Developer_resume.pdf", entries[0].Resume)
	assert.Equal(t, "Go Developer_cover_letter.pdf", entries[0].CoverLetter)
	assert.Equal(t, string(submit.StatusSubmitted), entries[0].Status)
	assert.Equal(t, "run-1", entries[0].RunID)
	assert.NotEmpty(t, entries[0].Timestamp)

	failures, err := h.log.Failures.ReadAll()
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "Java Developer", failures[0].JobTitle)
	assert.Equal(t, StageSubmit, failures[0].Stage)
	assert.Equal(t, "indeed", failures[0].Site)

	require.Len(t, h.reporter.failures, 1)
	var subErr *submit.SubmissionError
	assert.ErrorAs(t, h.reporter.failures[0].Err, &subErr)

	require.Len(t, h.reporter.summaries, 1)
	assert.Equal(t, summary, h.reporter.summaries[0])
}

func TestRun_NoListings(t *testing.T) {
	h := newHarness(t, nil, &fakeScraper{site: site.Monster})

	summary, err := New(h.deps).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Scraped)
	assert.Zero(t, summary.Selected)
	assert.Zero(t, summary.Processed)
	assert.NotEmpty(t, summary.RunID)

	entries, err := h.log.Outcomes.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Len(t, h.reporter.summaries, 1)
}

func TestRun_CrossSiteDuplicates(t *testing.T) {
	routes := map[string]string{"https://jobs.example.com/apply/1": applyForm}
	indeed := &fakeScraper{site: site.Indeed, postings: []scraper.Posting{
		posting("Senior Go Developer", "Acme Corp", "https://jobs.example.com/apply/1", site.Indeed),
	}}
	monster := &fakeScraper{site: site.Monster, postings: []scraper.Posting{
		posting("SENIOR GO DEVELOPER", "acme corp", "https://jobs.example.com/apply/9", site.Monster),
	}}
	h := newHarness(t, routes, indeed, monster)

	summary, err := New(h.deps).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Scraped)
	assert.Equal(t, 1, summary.Unique)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Zero(t, summary.Failed)
}

func TestRun_SelectionCapAndFilter(t *testing.T) {
	routes := map[string]string{}
	var postings []scraper.Posting
	for _, title := range []string{"Go Developer", "Chef", "Python Developer", "Web Developer", "Driver"} {
		link := "https://jobs.example.com/apply/" + title
		routes[link] = applyForm
		postings = append(postings, posting(title, "Co "+title, link, site.Glassdoor))
	}
	h := newHarness(t, routes, &fakeScraper{site: site.Glassdoor, postings: postings})
	h.deps.MaxApplications = 2

	summary, err := New(h.deps).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Matched)
	assert.Equal(t, 2, summary.Selected)

	entries, err := h.log.Outcomes.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Go Developer", entries[0].JobTitle)
	assert.Equal(t, "Python Developer", entries[1].JobTitle)
}

func TestRun_FailedLoginIsNotRetried(t *testing.T) {
	routes := map[string]string{
		"https://www.linkedin.com/jobs/view/1": applyForm,
		"https://www.linkedin.com/jobs/view/2": applyForm,
		"https://jobs.example.com/apply/3":     applyForm,
	}
	sc := &fakeScraper{site: site.LinkedIn, postings: []scraper.Posting{
		posting("Go Developer", "Acme", "https://www.linkedin.com/jobs/view/1", site.LinkedIn),
		posting("Web Developer", "Globex", "https://www.linkedin.com/jobs/view/2", site.LinkedIn),
		posting("API Developer", "Initech", "https://jobs.example.com/apply/3", site.LinkedIn),
	}}
	h := newHarness(t, routes, sc)
	login := &countingAuth{err: &auth.AuthenticationError{Site: site.LinkedIn, State: auth.Submitted, Err: errors.New("still on login page")}}
	h.deps.Auth = login
	h.deps.NeedsLogin = func(s site.Site) bool { return s == site.LinkedIn }

	summary, err := New(h.deps).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, login.calls)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 1, summary.Succeeded)

	failures, err := h.log.Failures.ReadAll()
	require.NoError(t, err)
	require.Len(t, failures, 2)
	for _, f := range failures {
		assert.Equal(t, StageAuthenticate, f.Stage)
	}
}

func TestRun_PanicIsContained(t *testing.T) {
	routes := map[string]string{
		"https://jobs.example.com/apply/1": applyForm,
		"https://jobs.example.com/apply/2": applyForm,
		"https://jobs.example.com/apply/3": applyForm,
	}
	sc := &fakeScraper{site: site.Indeed, postings: []scraper.Posting{
		posting("Go Developer", "Acme", "https://jobs.example.com/apply/1", site.Indeed),
		posting("Java Developer", "Globex", "https://jobs.example.com/apply/2", site.Indeed),
		posting("Rust Developer", "Initech", "https://jobs.example.com/apply/3", site.Indeed),
	}}
	h := newHarness(t, routes, sc)
	h.deps.Documents = &fakeDocs{dir: t.TempDir(), panicOn: "Go Developer", failOn: "Java Developer"}

	summary, err := New(h.deps).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)

	failures, err := h.log.Failures.ReadAll()
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, StagePanic, failures[0].Stage)
	assert.Contains(t, failures[0].Error, "renderer crashed")
	assert.Equal(t, StageDocuments, failures[1].Stage)
}

func TestRun_SessionsAreReusedAndClosed(t *testing.T) {
	routes := map[string]string{
		"https://jobs.example.com/apply/1": applyForm,
		"https://jobs.example.com/apply/2": applyForm,
	}
	sc := &fakeScraper{site: site.Indeed, postings: []scraper.Posting{
		posting("Go Developer", "Acme", "https://jobs.example.com/apply/1", site.Indeed),
		posting("Web Developer", "Globex", "https://jobs.example.com/apply/2", site.Indeed),
	}}
	h := newHarness(t, routes, sc)

	_, err := New(h.deps).Run(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(h.browser.Sessions))
	for _, s := range h.browser.Sessions {
		names = append(names, s.Label)
		assert.True(t, s.Closed, "session %s left open", s.Label)
		assert.True(t, s.AllPagesClosed(), "session %s leaked a page", s.Label)
	}
	assert.Equal(t, []string{"indeed", externalSession}, names)
}

func TestRun_AcquisitionFailureAborts(t *testing.T) {
	h := newHarness(t, nil, &fakeScraper{site: site.Indeed})
	h.browser.OpenErr = errors.New("chromium exited")

	summary, err := New(h.deps).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chromium exited")
	assert.Zero(t, summary.Processed)

	require.Len(t, h.reporter.summaries, 1)
	assert.Contains(t, h.reporter.summaries[0].Error, "chromium exited")
}

func TestRun_ScrapeSessionUsesSiteName(t *testing.T) {
	linkedin := &fakeScraper{site: site.LinkedIn}
	glassdoor := &fakeScraper{site: site.Glassdoor}
	h := newHarness(t, nil, linkedin, glassdoor)

	_, err := New(h.deps).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, h.browser.Sessions, 2)
	assert.Equal(t, "linkedin", h.browser.Sessions[0].Label)
	assert.Equal(t, "glassdoor", h.browser.Sessions[1].Label)
	assert.Equal(t, filepath.Join(".cookies", "cookies-linkedin.json"), browser.CookieFile(".cookies", h.browser.Sessions[0].Label))
}

func TestRun_AdapterPanicAborts(t *testing.T) {
	h := newHarness(t, nil, &fakeScraper{site: site.Indeed, panics: true})

	_, err := New(h.deps).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adapter blew up")
	require.Len(t, h.browser.Sessions, 1)
	assert.True(t, h.browser.Sessions[0].Closed)
}

func TestRun_PhasesInOrder(t *testing.T) {
	h := newHarness(t, nil, &fakeScraper{site: site.Indeed})
	var seen []Phase
	r := New(h.deps, WithPhaseObserver(func(p Phase) { seen = append(seen, p) }))

	_, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Phase{Scraping, Deduplicating, Filtering, Selecting, ProcessingBatch, Complete}, seen)
	assert.Equal(t, Complete, r.Phase())
	assert.Equal(t, "ProcessingBatch", ProcessingBatch.String())
}
