package crawler

import (
	"strconv"
	"strings"
)

// rawPayload mirrors the JSON shape produced by the page-side evaluation:
// a (possibly absent) node plus a list of child payloads. It is the wire
// format dom_tree construction consumes.
type rawPayload struct {
	Node     *rawNode     `json:"node"`
	Children []rawPayload `json:"children"`
}

type rawNode struct {
	ID            *int           `json:"id"`
	HighlightIdx  *int           `json:"highlightIndex"`
	TagName       string         `json:"tagName"`
	ClassName     string         `json:"className"`
	InnerText     string         `json:"innerText"`
	Type          string         `json:"type"`
	Placeholder   string         `json:"placeholder"`
	Attributes    []rawAttribute `json:"attributes"`
	Selector      string         `json:"selector"`
	XPath         string         `json:"xpath"`
	Viewport      BoundingBox    `json:"viewport"`
	CenterX       float64        `json:"center_x"`
	CenterY       float64        `json:"center_y"`
	IsVisible     bool           `json:"isVisible"`
	IsInteractive bool           `json:"isInteractive"`
	IsTopElement  bool           `json:"isTopElement"`
	IsInViewport  bool           `json:"isInViewport"`
}

type rawAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// buildTree converts a rawPayload into a Tree arena, assigning short
// external ids (in traversal order, starting at 1) to every node whose raw
// highlightIndex was non-nil — those are the elements the crawl marked
// interactive. If the payload has no single root node (a fragment result),
// it is wrapped in a synthetic "__root__" node first, matching the
// reference tree builder's fallback.
func buildTree(payload rawPayload) *Tree {
	if payload.Node == nil {
		payload = rawPayload{
			Node: &rawNode{
				TagName:       "__root__",
				IsVisible:     true,
				IsInteractive: false,
				Attributes:    nil,
			},
			Children: payload.Children,
		}
	}

	tree := &Tree{}
	nextExternalID := 1

	var build func(p rawPayload, parentIdx, depth int) int
	build = func(p rawPayload, parentIdx, depth int) int {
		n := p.Node
		attrs := make(map[string]string, len(n.Attributes))
		for _, a := range n.Attributes {
			attrs[a.Name] = a.Value
		}

		node := Node{
			Tag:           strings.ToLower(n.TagName),
			ClassName:     n.ClassName,
			InnerText:     strings.TrimSpace(n.InnerText),
			ElementType:   n.Type,
			Placeholder:   n.Placeholder,
			Attributes:    attrs,
			Selector:      n.Selector,
			XPath:         n.XPath,
			Viewport:      n.Viewport,
			CenterX:       n.CenterX,
			CenterY:       n.CenterY,
			IsVisible:     n.IsVisible,
			IsInteractive: n.IsInteractive,
			IsTopElement:  n.IsTopElement,
			IsInViewport:  n.IsInViewport,
			Depth:         depth,
			ParentIdx:     parentIdx,
		}
		if n.ID != nil {
			node.InternalID = *n.ID
		}
		if n.HighlightIdx != nil {
			node.ExternalID = strconv.Itoa(nextExternalID)
			nextExternalID++
		}

		idx := len(tree.Nodes)
		tree.Nodes = append(tree.Nodes, node)

		for _, child := range p.Children {
			if child.Node == nil {
				continue
			}
			childIdx := build(child, idx, depth+1)
			tree.Nodes[idx].ChildIdxs = append(tree.Nodes[idx].ChildIdxs, childIdx)
		}
		return idx
	}

	build(payload, -1, 0)
	return tree
}
