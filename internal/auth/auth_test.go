package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobpilot-automation/internal/browser/browsertest"
	"go-jobpilot-automation/internal/config"
	"go-jobpilot-automation/internal/site"
)

type staticCreds map[site.Site]config.Credential

func (c staticCreds) CredentialFor(s site.Site) (config.Credential, bool) {
	cred, ok := c[s]
	return cred, ok
}

type recorder struct{ states []State }

func (r *recorder) observe(_ site.Site, s State) { r.states = append(r.states, s) }

const loginForm = `<form>
	<input id="username"><input id="password" type="password">
	<input id="userEmail"><input id="userPassword">
	<input name="email"><input name="password"><input name="username">
	<button type="submit">Sign in</button></form>`

func TestAuthenticate_MissingCredentialsBeforeNavigation(t *testing.T) {
	page := browsertest.NewPage(nil)
	a := New(staticCreds{})

	err := a.Authenticate(context.Background(), page, site.LinkedIn)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, NotStarted, authErr.State)
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Empty(t, page.Visited, "no navigation without credentials")
}

func TestAuthenticate_NoFlowIsSkipped(t *testing.T) {
	page := browsertest.NewPage(nil)
	assert.NoError(t, New(staticCreds{}).Authenticate(context.Background(), page, site.Indeed))
	assert.Empty(t, page.Visited)
}

func TestAuthenticate_SimpleFlows(t *testing.T) {
	for _, s := range []site.Site{site.LinkedIn, site.Glassdoor, site.Monster, site.ZipRecruiter} {
		t.Run(string(s), func(t *testing.T) {
			flow, ok := FlowFor(s)
			require.True(t, ok)
			page := browsertest.NewPage(map[string]string{flow.LoginURL: loginForm})
			rec := &recorder{}
			a := New(staticCreds{s: {Username: "me@example.com", Password: "hunter2"}}, WithObserver(rec.observe))

			require.NoError(t, a.Authenticate(context.Background(), page, s))
			assert.Equal(t, []State{NavigatedToLogin, CredentialsEntered, Submitted, Done}, rec.states)
			assert.Equal(t, "me@example.com", page.Filled[flow.UserField])
			assert.Equal(t, "hunter2", page.Filled[flow.PassField])
			assert.Equal(t, []string{submitButton}, page.Clicked)
		})
	}
}

func TestAuthenticate_CanadaGovSecurityQuestion(t *testing.T) {
	flow, _ := FlowFor(site.CanadaGov)
	landing := `<a href="https://gcjobs.example/login">Sign in</a>`
	page := browsertest.NewPage(map[string]string{flow.LoginURL: landing})

	// portal link leads to the form; first submit shows the security question
	page.OnClick = func(p *browsertest.Page, selector string) error {
		switch len(p.Clicked) {
		case 1:
			return p.SetContent(loginForm)
		case 2:
			return p.SetContent(`<form><input name="securityAnswer"><button type="submit">Go</button></form>`)
		}
		return p.SetContent(`<h1>Welcome</h1>`)
	}

	rec := &recorder{}
	a := New(staticCreds{site.CanadaGov: {Username: "u", Password: "p", SecurityAnswer: "blue"}}, WithObserver(rec.observe))

	require.NoError(t, a.Authenticate(context.Background(), page, site.CanadaGov))
	assert.Equal(t, []State{NavigatedToLogin, CredentialsEntered, Submitted, SecurityChallengeAnswered, Done}, rec.states)
	assert.Equal(t, "blue", page.Filled[flow.SecurityField])
	assert.Equal(t, []string{flow.PortalLink, submitButton, submitButton}, page.Clicked)
}

func TestAuthenticate_CanadaGovWithoutSecurityQuestion(t *testing.T) {
	flow, _ := FlowFor(site.CanadaGov)
	page := browsertest.NewPage(map[string]string{flow.LoginURL: loginForm})
	page.OnClick = func(p *browsertest.Page, _ string) error { return p.SetContent(`<h1>Welcome</h1>`) }

	rec := &recorder{}
	a := New(staticCreds{site.CanadaGov: {Username: "u", Password: "p"}}, WithObserver(rec.observe))

	require.NoError(t, a.Authenticate(context.Background(), page, site.CanadaGov))
	assert.Equal(t, []State{NavigatedToLogin, CredentialsEntered, Submitted, Done}, rec.states)
}

func TestAuthenticate_FailureReportsState(t *testing.T) {
	flow, _ := FlowFor(site.Monster)
	page := browsertest.NewPage(map[string]string{flow.LoginURL: `<input name="email"><input name="password">`})

	err := New(staticCreds{site.Monster: {Username: "u", Password: "p"}}).Authenticate(context.Background(), page, site.Monster)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, CredentialsEntered, authErr.State, "failed at the submit step")
}

func TestAuthenticate_NavigationFailure(t *testing.T) {
	flow, _ := FlowFor(site.LinkedIn)
	page := browsertest.NewPage(map[string]string{flow.LoginURL: loginForm})
	page.FailGoto(flow.LoginURL, errors.New("timeout"))

	err := New(staticCreds{site.LinkedIn: {Username: "u", Password: "p"}}).Authenticate(context.Background(), page, site.LinkedIn)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, NotStarted, authErr.State)
}
