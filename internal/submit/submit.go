// Package submit fills and sends an application form on the posting's apply page.
package submit

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-jobpilot-automation/internal/browser"
	"go-jobpilot-automation/internal/config"
	"go-jobpilot-automation/internal/documents"
	"go-jobpilot-automation/internal/scraper"
)

type Status string

const (
	StatusSubmitted       Status = "submitted"
	StatusNoSubmitControl Status = "no_submit_control"
	// StatusIncomplete means the form was sent but some free-text fields could not be filled.
	StatusIncomplete Status = "incomplete"
)

const (
	resumeInput      = `input[type="file"][name="resume"]`
	coverLetterInput = `input[type="file"][name="cover_letter"]`
	submitControl    = `button[type="submit"], input[type="submit"]`
)

// questionFields are the editable free-text fields, minus identity inputs and
// the captcha token field.
const questionFields = `textarea:not([name="g-recaptcha-response"]):not(#g-recaptcha-response):not([readonly]):not([disabled]):not([hidden]), ` +
	`input[type="text"]:not([name="name"]):not([name="email"]):not([name="phone"]):not([readonly]):not([disabled]):not([hidden])`

var ErrNoApplyLink = errors.New("posting has no apply link")

// SubmissionError is a failed form interaction. Step names what was being done.
type SubmissionError struct {
	Title string
	Step  string
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit %q failed at %s: %v", e.Title, e.Step, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Report describes one submission attempt. Err is set only when the attempt failed.
type Report struct {
	Status Status
	Notes  []string
	Err    error
}

func (r *Report) note(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Notes = append(r.Notes, msg)
	log.Printf("   📝 %s", msg)
}

type Driver struct {
	applicant   config.Applicant
	placeholder string
	resolver    scraper.ObstacleResolver
	screenshots *browser.ScreenshotDebugger
}

func New(applicant config.Applicant, placeholder string, resolver scraper.ObstacleResolver, screenshots *browser.ScreenshotDebugger) *Driver {
	return &Driver{applicant: applicant, placeholder: placeholder, resolver: resolver, screenshots: screenshots}
}

// Submit never panics and always closes the page it opened.
func (d *Driver) Submit(ctx context.Context, session browser.Session, posting scraper.Posting, docs documents.Set) (rep Report) {
	fail := func(step string, err error) Report {
		rep.Err = &SubmissionError{Title: posting.Title, Step: step, Err: err}
		return rep
	}
	defer func() {
		if r := recover(); r != nil {
			rep = fail("panic", fmt.Errorf("%v", r))
		}
	}()

	page, err := session.NewPage()
	if err != nil {
		return fail("open page", err)
	}
	defer page.Close()

	rep = d.fill(ctx, page, posting, docs)
	if rep.Err != nil {
		d.screenshots.CaptureAndLog(page, "submit-failed", fmt.Sprintf("Submission failed for %s", posting.Title))
	}
	return rep
}

func (d *Driver) fill(ctx context.Context, page browser.Page, posting scraper.Posting, docs documents.Set) (rep Report) {
	fail := func(step string, err error) Report {
		rep.Err = &SubmissionError{Title: posting.Title, Step: step, Err: err}
		return rep
	}

	log.Printf("🧾 Applying to: %s at %s", posting.Title, posting.Company)
	if posting.ApplyLink == "" {
		return fail("navigate", ErrNoApplyLink)
	}
	if err := page.Goto(ctx, posting.ApplyLink); err != nil {
		return fail("navigate", err)
	}
	if d.resolver != nil {
		if _, err := d.resolver.Resolve(ctx, page); err != nil {
			return fail("obstacle", err)
		}
	}

	identity := []struct{ name, value string }{
		{"name", d.applicant.Name},
		{"email", d.applicant.Email},
		{"phone", d.applicant.Phone},
	}
	for _, f := range identity {
		sel := fmt.Sprintf(`input[name=%q]`, f.name)
		ok, err := present(page, sel)
		if err != nil {
			return fail("find "+f.name, err)
		}
		switch {
		case !ok:
			rep.note("no %s field found", f.name)
		case f.value == "":
			rep.note("no applicant %s configured", f.name)
		default:
			if err := page.Fill(sel, f.value); err != nil {
				return fail("fill "+f.name, err)
			}
		}
	}

	uploads := []struct{ label, sel, path string }{
		{"resume", resumeInput, docs.Resume},
		{"cover letter", coverLetterInput, docs.CoverLetter},
	}
	for _, u := range uploads {
		ok, err := present(page, u.sel)
		if err != nil {
			return fail("find "+u.label+" upload", err)
		}
		if !ok || u.path == "" {
			rep.note("no %s upload field found", u.label)
			continue
		}
		if err := page.SetInputFiles(u.sel, u.path); err != nil {
			return fail("upload "+u.label, err)
		}
	}

	incomplete := false
	answered, err := page.FillAll(questionFields, d.placeholder)
	if err != nil {
		incomplete = true
		rep.note("could not answer every question field: %v", err)
	}
	if answered > 0 {
		log.Printf("   ✍️ Answered %d question field(s)", answered)
	}

	ok, err := present(page, submitControl)
	if err != nil {
		return fail("find submit control", err)
	}
	if !ok {
		rep.note("no submit control found")
		log.Printf("⚠️ Submit button not found for %s", posting.Title)
		rep.Status = StatusNoSubmitControl
		return rep
	}
	if err := page.Click(submitControl); err != nil {
		return fail("submit", err)
	}
	if err := page.WaitForLoad(); err != nil {
		rep.note("page did not settle after submit: %v", err)
	}

	rep.Status = StatusSubmitted
	if incomplete {
		rep.Status = StatusIncomplete
	}
	log.Printf("✅ Application submitted for %s", posting.Title)
	return rep
}

func present(page browser.Page, selector string) (bool, error) {
	n, err := page.Count(selector)
	return n > 0, err
}
