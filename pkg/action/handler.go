package action

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/webqa-agent/webqa-engine/pkg/crawler"
	"github.com/webqa-agent/webqa-engine/pkg/webqaerrors"
)

// Handler owns a page reference and the current element buffer. All
// operations are keyed by the crawler's short external id.
type Handler struct {
	page   playwright.Page
	buffer crawler.ElementBuffer
}

// NewHandler builds a Handler for page with an empty buffer; call
// UpdateBuffer after each crawl.
func NewHandler(page playwright.Page) *Handler {
	return &Handler{page: page, buffer: make(crawler.ElementBuffer)}
}

// UpdateBuffer replaces the handler's view of interactive elements; call
// this after every crawl, since ids are only valid for the crawl that
// produced them.
func (h *Handler) UpdateBuffer(buf crawler.ElementBuffer) {
	h.buffer = buf
}

func (h *Handler) element(id string) (*crawler.Node, error) {
	n := h.buffer.Lookup(id)
	if n == nil {
		return nil, fmt.Errorf("%w: element %q not found in buffer", webqaerrors.ErrAction, id)
	}
	return n, nil
}

// stripAnchorTargets removes target= from every anchor so navigation stays
// in the current tab, matching the reference click handler.
func (h *Handler) stripAnchorTargets() {
	_, _ = h.page.Evaluate(`() => {
		for (const a of document.getElementsByTagName('a')) a.removeAttribute('target');
	}`, nil)
}

// Click clicks the element at id via coordinate-based mouse click.
func (h *Handler) Click(id string) (Result, error) {
	h.stripAnchorTargets()
	el, err := h.element(id)
	if err != nil {
		return fail(err.Error()), nil
	}
	return h.clickAt(el.CenterX, el.CenterY)
}

func (h *Handler) clickAt(x, y float64) (Result, error) {
	if err := h.page.Mouse().Click(x, y); err != nil {
		return fail(fmt.Sprintf("mouse click error: %v", err)), nil
	}
	return ok("clicked"), nil
}

// Hover moves the mouse to the element's center, compensating for scroll.
func (h *Handler) Hover(id string) (Result, error) {
	el, err := h.element(id)
	if err != nil {
		return fail(err.Error()), nil
	}
	scrollY, _ := h.page.Evaluate(`() => window.scrollY`, nil)
	offset, _ := scrollY.(float64)
	if err := h.page.Mouse().Move(el.CenterX, el.CenterY-offset); err != nil {
		return fail(fmt.Sprintf("hover error: %v", err)), nil
	}
	time.Sleep(500 * time.Millisecond)
	return ok("hovered"), nil
}

// Type clicks the element for focus then fills it, preferring a validated
// CSS selector and falling back to XPath.
func (h *Handler) Type(id, text string, clearBeforeType bool) (Result, error) {
	el, err := h.element(id)
	if err != nil {
		return fail(err.Error()), nil
	}
	if clearBeforeType {
		if res, _ := h.Clear(id); !res.Success {
			// Best-effort: still attempt to type.
			_ = res
		}
	}
	if res, _ := h.Click(id); !res.Success {
		return res, nil
	}
	time.Sleep(1 * time.Second)
	return h.fillBySelectorOrXPath(el, text)
}

func (h *Handler) fillBySelectorOrXPath(el *crawler.Node, text string) (Result, error) {
	if crawler.IsValidCSSSelector(el.Selector) {
		if err := h.page.Locator(el.Selector).Fill(text); err == nil {
			return ok("typed via css selector"), nil
		}
	}
	if el.XPath != "" {
		if err := h.page.Locator("xpath=" + el.XPath).Fill(text); err == nil {
			return ok("typed via xpath"), nil
		}
	}
	return fail("both css selector and xpath fill attempts failed"), nil
}

// Clear empties the element's value via its selector/xpath.
func (h *Handler) Clear(id string) (Result, error) {
	el, err := h.element(id)
	if err != nil {
		return fail(err.Error()), nil
	}
	if crawler.IsValidCSSSelector(el.Selector) {
		if err := h.page.Locator(el.Selector).Fill(""); err == nil {
			return ok("cleared"), nil
		}
	}
	if el.XPath != "" {
		if err := h.page.Locator("xpath=" + el.XPath).Fill(""); err == nil {
			return ok("cleared via xpath"), nil
		}
	}
	return fail("clear failed"), nil
}

// Sleep blocks for timeMs milliseconds.
func (h *Handler) Sleep(timeMs int) (Result, error) {
	time.Sleep(time.Duration(timeMs) * time.Millisecond)
	return ok(fmt.Sprintf("slept %dms", timeMs)), nil
}

// KeyboardPress sends a single key press to the page.
func (h *Handler) KeyboardPress(key string) (Result, error) {
	if err := h.page.Keyboard().Press(key); err != nil {
		return fail(fmt.Sprintf("key press error: %v", err)), nil
	}
	return ok("pressed " + key), nil
}

// Upload enumerates every input[type=file] on the page and picks the one
// whose accept attribute matches the first upload's extension, falling
// back to the first input found if none matches. id is not used to
// resolve an element for this action, matching the reference handler.
func (h *Handler) Upload(id string, filePaths []string) (Result, error) {
	valid := make([]string, 0, len(filePaths))
	for _, fp := range filePaths {
		if fp == "" {
			continue
		}
		if _, statErr := os.Stat(fp); statErr != nil {
			continue
		}
		valid = append(valid, fp)
	}
	if len(valid) == 0 {
		return fail("no valid file paths to upload"), nil
	}

	inputs, err := h.page.Locator("input[type=file]").All()
	if err != nil || len(inputs) == 0 {
		return fail("no file input elements found on page"), nil
	}

	ext := strings.ToLower(filepath.Ext(valid[0]))
	target := inputs[0]
	for _, in := range inputs {
		accept, _ := in.GetAttribute("accept")
		if acceptMatchesExt(accept, ext) {
			target = in
			break
		}
	}

	if err := target.SetInputFiles(valid); err != nil {
		return fail(fmt.Sprintf("upload failed: %v", err)), nil
	}
	return ok("uploaded"), nil
}

// acceptMatchesExt reports whether a comma-separated accept attribute
// value (e.g. ".png,.jpg,image/*") lists ext (e.g. ".png").
func acceptMatchesExt(accept, ext string) bool {
	if accept == "" || ext == "" {
		return false
	}
	for _, part := range strings.Split(accept, ",") {
		if strings.TrimSpace(strings.ToLower(part)) == ext {
			return true
		}
	}
	return false
}

// GetNewPage switches focus to the most recently opened tab, if any.
func (h *Handler) GetNewPage() (Result, error) {
	pages := h.page.Context().Pages()
	if len(pages) > 1 {
		h.page = pages[len(pages)-1]
		return ok("switched to new page"), nil
	}
	return fail("no new page available"), nil
}

// Drag drags fromID's element onto toID's element.
func (h *Handler) Drag(fromID, toID string) (Result, error) {
	from, err := h.element(fromID)
	if err != nil {
		return fail(err.Error()), nil
	}
	to, err := h.element(toID)
	if err != nil {
		return fail(err.Error()), nil
	}
	mouse := h.page.Mouse()
	if err := mouse.Move(from.CenterX, from.CenterY); err != nil {
		return fail(fmt.Sprintf("drag move error: %v", err)), nil
	}
	if err := mouse.Down(); err != nil {
		return fail(fmt.Sprintf("drag down error: %v", err)), nil
	}
	if err := mouse.Move(to.CenterX, to.CenterY); err != nil {
		_ = mouse.Up()
		return fail(fmt.Sprintf("drag move error: %v", err)), nil
	}
	if err := mouse.Up(); err != nil {
		return fail(fmt.Sprintf("drag up error: %v", err)), nil
	}
	return ok("dragged"), nil
}

// B64Screenshot captures the full page as a base64-encoded PNG.
func (h *Handler) B64Screenshot() (string, error) {
	data, err := h.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Timeout:  playwright.Float(30000),
	})
	if err != nil {
		return "", fmt.Errorf("%w: screenshot: %v", webqaerrors.ErrAction, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// GoBack navigates the page history back one entry.
func (h *Handler) GoBack() (Result, error) {
	if _, err := h.page.GoBack(); err != nil {
		return fail(fmt.Sprintf("go back failed: %v", err)), nil
	}
	return ok("navigated back"), nil
}
