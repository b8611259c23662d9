package browser

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireBrowser skips unless a real chromium run was asked for.
func requireBrowser(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	if os.Getenv("JOBPILOT_BROWSER_TESTS") != "1" {
		t.Skip("set JOBPILOT_BROWSER_TESTS=1 to run against chromium")
	}
}

func TestPlaywrightPage_Real(t *testing.T) {
	requireBrowser(t)

	ctx := context.Background()
	pm, err := NewPlaywright(ctx, Options{Headless: true, Timeout: 15 * time.Second, RatePerSec: 10, Burst: 5})
	require.NoError(t, err)
	defer pm.Close()

	browserCtx, err := pm.NewContext(nil)
	require.NoError(t, err)
	defer browserCtx.Close()

	mockHTML := `<html><head><title>Apply</title></head><body>
		<form><input name="email"><textarea></textarea><textarea></textarea>
		<button type="submit">Send</button></form></body></html>`
	require.NoError(t, browserCtx.Route("**/*", func(route playwright.Route) {
		_ = route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(200),
			ContentType: playwright.String("text/html"),
			Body:        mockHTML,
		})
	}))

	raw, err := browserCtx.NewPage()
	require.NoError(t, err)
	page := newPage(raw, pm.limiter, 15*time.Second)
	defer page.Close()

	require.NoError(t, page.Goto(ctx, "https://jobs.example.com/apply/1"))

	title, err := page.Title()
	require.NoError(t, err)
	assert.Equal(t, "Apply", title)

	n, err := page.Count("textarea")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	filled, err := page.FillAll("textarea", "See resume")
	require.NoError(t, err)
	assert.Equal(t, 2, filled)

	missing, err := page.Attribute(".g-recaptcha", "data-sitekey")
	require.NoError(t, err)
	assert.Empty(t, missing)
}
