package crawler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/webqa-agent/webqa-engine/pkg/webqaerrors"
)

// Result is the output of one Crawl call: the built tree plus the flat
// buffer of interactive elements the Action Handler operates on.
type Result struct {
	Tree   *Tree
	Buffer ElementBuffer
}

// Crawl walks page's DOM, computing interactivity/visibility for every
// element and assigning short external ids to the interactive ones. When
// highlight is true it injects numbered overlay boxes on the page; when
// highlightText is true the overlay also labels each box with its inner
// text. viewportOnly restricts the walk to elements currently on-screen.
//
// IDs are assigned in traversal order and are only stable for the
// lifetime of this crawl — a subsequent Crawl call reassigns them.
func Crawl(page playwright.Page, highlight, highlightText, viewportOnly bool) (*Result, error) {
	raw, err := page.Evaluate(crawlScript, map[string]any{
		"highlight":     highlight,
		"highlightText": highlightText,
		"viewportOnly":  viewportOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", webqaerrors.ErrCrawl, err)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: re-encoding crawl result: %v", webqaerrors.ErrCrawl, err)
	}
	var payload rawPayload
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding crawl result: %v", webqaerrors.ErrCrawl, err)
	}

	tree := buildTree(payload)
	return &Result{Tree: tree, Buffer: bufferFromTree(tree)}, nil
}

// RemoveMarker strips any highlight overlays Crawl injected.
func RemoveMarker(page playwright.Page) error {
	if _, err := page.Evaluate(removeMarkerScript, nil); err != nil {
		return fmt.Errorf("%w: removing markers: %v", webqaerrors.ErrCrawl, err)
	}
	return nil
}

// GetText renders a compact text summary of the tree, suitable as LLM
// context: one line per node carrying visible text or an external id,
// indented by depth.
func GetText(t *Tree) string {
	var b strings.Builder
	for _, n := range t.PreOrder() {
		if n.InnerText == "" && n.ExternalID == "" {
			continue
		}
		b.WriteString(strings.Repeat("  ", n.Depth))
		if n.ExternalID != "" {
			fmt.Fprintf(&b, "[%s] ", n.ExternalID)
		}
		b.WriteString(n.Tag)
		if n.InnerText != "" {
			b.WriteString(": ")
			b.WriteString(n.InnerText)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// crawlScript is injected into the page to walk the DOM and compute
// interactivity/visibility/bounding boxes for every element, assigning a
// highlightIndex to each element judged interactive. It mirrors the
// contract in buildTree: a {node, children} tree keyed by tagName/
// className/innerText/type/placeholder/attributes/selector/xpath/
// viewport/center_x/center_y/isVisible/isInteractive/isTopElement/
// isInViewport/highlightIndex/id.
const crawlScript = `(opts) => {
	let nextId = 0;
	let nextHighlight = 0;
	const interactiveTags = new Set(['a','button','input','select','textarea','option']);

	function cssPath(el) {
		if (el.id) return '#' + el.id;
		if (el.className && typeof el.className === 'string') {
			const cls = el.className.trim().split(/\s+/).join('.');
			if (cls) return el.tagName.toLowerCase() + '.' + cls;
		}
		return el.tagName.toLowerCase();
	}

	function xpathFor(el) {
		if (el.id) return '//*[@id="' + el.id + '"]';
		const parts = [];
		let node = el;
		while (node && node.nodeType === 1) {
			let index = 1, sib = node.previousElementSibling;
			while (sib) { if (sib.tagName === node.tagName) index++; sib = sib.previousElementSibling; }
			parts.unshift(node.tagName.toLowerCase() + '[' + index + ']');
			node = node.parentElement;
		}
		return '/' + parts.join('/');
	}

	function isInteractive(el) {
		if (interactiveTags.has(el.tagName.toLowerCase())) return true;
		if (el.hasAttribute('onclick') || el.getAttribute('role') === 'button') return true;
		const style = window.getComputedStyle(el);
		return style.cursor === 'pointer';
	}

	function build(el, depth) {
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		const visible = style.display !== 'none' && style.visibility !== 'hidden' && rect.width > 0 && rect.height > 0;
		const inViewport = rect.top < window.innerHeight && rect.bottom > 0 && rect.left < window.innerWidth && rect.right > 0;
		if (opts.viewportOnly && !inViewport) return null;

		const interactive = visible && isInteractive(el);
		const attrs = [];
		for (const a of el.attributes) attrs.push({name: a.name, value: a.value});

		const node = {
			id: nextId++,
			highlightIndex: interactive ? nextHighlight : null,
			tagName: el.tagName,
			className: typeof el.className === 'string' ? el.className : '',
			innerText: el.innerText || el.value || '',
			type: el.getAttribute('type'),
			placeholder: el.getAttribute('placeholder'),
			attributes: attrs,
			selector: cssPath(el),
			xpath: xpathFor(el),
			viewport: {x: rect.left, y: rect.top, width: rect.width, height: rect.height},
			center_x: rect.left + rect.width / 2,
			center_y: rect.top + rect.height / 2,
			isVisible: visible,
			isInteractive: interactive,
			isTopElement: document.elementFromPoint(rect.left + rect.width / 2, rect.top + rect.height / 2) === el,
			isInViewport: inViewport,
		};
		if (interactive) {
			nextHighlight++;
			if (opts.highlight) {
				const box = document.createElement('div');
				box.style.cssText = 'position:fixed;z-index:2147483647;pointer-events:none;border:2px solid red;left:' + rect.left + 'px;top:' + rect.top + 'px;width:' + rect.width + 'px;height:' + rect.height + 'px;';
				box.className = '__webqa_marker__';
				if (opts.highlightText) box.textContent = String(node.highlightIndex);
				document.body.appendChild(box);
			}
		}

		const children = [];
		for (const child of el.children) {
			const c = build(child, depth + 1);
			if (c) children.push(c);
		}
		return {node, children};
	}

	return build(document.body, 0);
}`

const removeMarkerScript = `() => {
	document.querySelectorAll('.__webqa_marker__').forEach(e => e.remove());
}`
