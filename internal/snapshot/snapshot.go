// Package snapshot renders the dashboard for a run in headless Chromium and
// saves it as a PNG.
package snapshot

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kamilpajak/runalyze/internal/server"
	"github.com/playwright-community/playwright-go"
)

// DefaultTimeout bounds how long the page may take to finish the analysis.
const DefaultTimeout = 2 * time.Minute

// ErrAnalysisFailed is returned when the dashboard reports an error for the run.
var ErrAnalysisFailed = errors.New("dashboard reported an analysis error")

// Shooter captures a screenshot of a URL once the page is ready.
type Shooter interface {
	Screenshot(url, outPath string, timeout time.Duration) error
}

// Capture serves h on a loopback port, opens the dashboard for runID and
// writes a full-page screenshot to outPath.
func Capture(h http.Handler, runID int, outPath string, shooter Shooter, timeout time.Duration) error {
	if runID <= 0 {
		return fmt.Errorf("invalid run ID %d", runID)
	}
	if shooter == nil {
		shooter = Playwright{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	srv, err := server.Start(h)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	defer srv.Stop()

	if err := shooter.Screenshot(srv.URL(fmt.Sprintf("/?run_id=%d", runID)), outPath, timeout); err != nil {
		return fmt.Errorf("failed to capture snapshot: %w", err)
	}
	return nil
}

// Playwright is the headless Chromium Shooter.
type Playwright struct{}

// Screenshot opens url, waits until the dashboard marks the body with a
// data-state attribute and saves a full-page PNG.
func (Playwright) Screenshot(url, outPath string, timeout time.Duration) error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop() //nolint:errcheck // best-effort cleanup

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	defer browser.Close() //nolint:errcheck // best-effort cleanup

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{Width: 1600, Height: 1000},
	})
	if err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}

	if _, err = page.Goto(url); err != nil {
		return fmt.Errorf("could not navigate: %w", err)
	}

	ms := float64(timeout.Milliseconds())
	if err := page.Locator("body[data-state]").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(ms),
	}); err != nil {
		return fmt.Errorf("dashboard did not finish: %w", err)
	}

	state, err := page.Locator("body").GetAttribute("data-state")
	if err != nil {
		return fmt.Errorf("could not read dashboard state: %w", err)
	}
	if state == "error" {
		msg, _ := page.Locator("#error").InnerText()
		return fmt.Errorf("%w: %s", ErrAnalysisFailed, msg)
	}

	// Let chart animations settle.
	page.WaitForTimeout(1000)

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(outPath),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return fmt.Errorf("could not take screenshot: %w", err)
	}
	return nil
}

// Install installs the Chromium build used by playwright.
func Install() error {
	return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
}

// IsAvailable checks if playwright browsers are installed
func IsAvailable() bool {
	pw, err := playwright.Run()
	if err != nil {
		return false
	}
	_ = pw.Stop()
	return true
}
