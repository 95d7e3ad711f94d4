// Package browser manages Playwright browser sessions: launch, navigation,
// cookie injection, and teardown. It does not interpret page content — that
// is the crawler and action packages' job.
package browser

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/webqa-agent/webqa-engine/pkg/model"
	"github.com/webqa-agent/webqa-engine/pkg/webqaerrors"
)

// Session wraps one browser + context + page triple for a single test.
type Session struct {
	ID      string
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// Page returns the session's current page.
func (s *Session) Page() playwright.Page { return s.page }

// Context returns the session's browser context.
func (s *Session) Context() playwright.BrowserContext { return s.context }

// NewSession launches a fresh browser + context + page for cfg.
func NewSession(pw *playwright.Playwright, id string, cfg model.BrowserConfig) (*Session, error) {
	vp := cfg.Viewport
	if vp == (model.Viewport{}) {
		vp = model.DefaultViewport
	}

	headless := cfg.Headless
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", webqaerrors.ErrBrowserLaunch, err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: vp.Width, Height: vp.Height},
	}
	if cfg.Language != "" {
		contextOpts.Locale = playwright.String(cfg.Language)
	}

	bctx, err := browser.NewContext(contextOpts)
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("%w: %v", webqaerrors.ErrBrowserLaunch, err)
	}

	if err := applyCookies(bctx, cfg.Cookies); err != nil {
		_ = browser.Close()
		return nil, err
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("%w: %v", webqaerrors.ErrBrowserLaunch, err)
	}

	return &Session{ID: id, browser: browser, context: bctx, page: page}, nil
}

// applyCookies normalizes cookies, which may arrive as a JSON string, a
// map[string]string, or a []playwright.OptionalCookie, and injects them into
// the context before first navigation.
func applyCookies(ctx playwright.BrowserContext, cookies any) error {
	if cookies == nil {
		return nil
	}

	var list []playwright.OptionalCookie
	switch v := cookies.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		var raw []map[string]any
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			return fmt.Errorf("%w: add context cookies error: %v", webqaerrors.ErrBrowserLaunch, err)
		}
		list = cookiesFromRaw(raw)
	case map[string]string:
		for name, value := range v {
			list = append(list, playwright.OptionalCookie{Name: name, Value: value})
		}
	case []playwright.OptionalCookie:
		list = v
	case []map[string]any:
		list = cookiesFromRaw(v)
	default:
		return fmt.Errorf("%w: unsupported cookie payload type %T", webqaerrors.ErrBrowserLaunch, cookies)
	}

	if len(list) == 0 {
		return nil
	}
	if err := ctx.AddCookies(list); err != nil {
		return fmt.Errorf("%w: add context cookies error: %v", webqaerrors.ErrBrowserLaunch, err)
	}
	return nil
}

func cookiesFromRaw(raw []map[string]any) []playwright.OptionalCookie {
	out := make([]playwright.OptionalCookie, 0, len(raw))
	for _, m := range raw {
		c := playwright.OptionalCookie{}
		if name, ok := m["name"].(string); ok {
			c.Name = name
		}
		if value, ok := m["value"].(string); ok {
			c.Value = value
		}
		if domain, ok := m["domain"].(string); ok {
			c.Domain = playwright.String(domain)
		}
		if path, ok := m["path"].(string); ok {
			c.Path = playwright.String(path)
		}
		out = append(out, c)
	}
	return out
}

// Navigate loads targetURL, waiting for DOM content then network idle.
func (s *Session) Navigate(targetURL string) error {
	if _, err := s.page.Goto(targetURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("%w: %v", webqaerrors.ErrNavigation, err)
	}
	_ = s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(60000),
	})

	body, err := s.page.InnerText("body")
	if err == nil && strings.TrimSpace(body) == "" {
		return webqaerrors.ErrBlankPage
	}
	return nil
}

// SmartNavigate navigates only if the current page is not already at
// targetURL, comparing normalized URLs (scheme, lowercase host minus
// www., path without trailing slash). Returns whether navigation ran.
func (s *Session) SmartNavigate(targetURL string, cookies any) (bool, error) {
	current := s.page.URL()
	if normalizeURL(current) == normalizeURL(targetURL) {
		slog.Debug("smart navigation skipped, already at target", "url", current)
		return false, nil
	}
	if err := applyCookies(s.context, cookies); err != nil {
		return false, err
	}
	if err := s.Navigate(targetURL); err != nil {
		return true, err
	}
	return true, nil
}

// NormalizeURL exposes the comparison form used by SmartNavigate, so
// callers outside this package (the agent loop's preamble skip-check) can
// apply the same rule without re-navigating.
func NormalizeURL(raw string) string {
	return normalizeURL(raw)
}

func normalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	host := strings.ToLower(parsed.Host)
	host = strings.TrimPrefix(host, "www.")
	path := strings.TrimSuffix(parsed.Path, "/")
	return fmt.Sprintf("%s://%s%s", parsed.Scheme, host, path)
}

// GetNewPage switches the session to the most recently opened tab in the
// same context, if one exists (e.g. after a target="_blank" click).
func (s *Session) GetNewPage() bool {
	pages := s.context.Pages()
	if len(pages) > 1 {
		s.page = pages[len(pages)-1]
		return true
	}
	return false
}

// ClosePage closes the current page only, leaving the context open.
func (s *Session) ClosePage() {
	if s.page == nil {
		return
	}
	if err := s.page.Close(); err != nil {
		slog.Error("error closing page", "session_id", s.ID, "error", err)
	}
}

// Close tears down the whole browser. Safe to call more than once.
func (s *Session) Close() error {
	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.browser = nil
	return err
}

// WaitSettle gives the page a brief moment after an action before the next
// crawl, matching the reference implementation's fixed settle delay.
func (s *Session) WaitSettle(d time.Duration) {
	if d <= 0 {
		d = 500 * time.Millisecond
	}
	s.page.WaitForTimeout(float64(d.Milliseconds()))
}
