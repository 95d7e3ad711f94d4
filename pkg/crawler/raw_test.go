package crawler

import "testing"

func TestBuildTree_SingleRootIsNotWrapped(t *testing.T) {
	hi := 0
	payload := rawPayload{
		Node: &rawNode{TagName: "BUTTON", InnerText: " Submit ", HighlightIdx: &hi},
	}
	tree := buildTree(payload)
	if len(tree.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(tree.Nodes))
	}
	root := tree.Root()
	if root.Tag != "button" {
		t.Errorf("expected lowercased tag, got %q", root.Tag)
	}
	if root.InnerText != "Submit" {
		t.Errorf("expected trimmed inner text, got %q", root.InnerText)
	}
	if root.ExternalID != "1" {
		t.Errorf("expected external id 1 for the first interactive node, got %q", root.ExternalID)
	}
}

func TestBuildTree_AssignsSequentialExternalIDs(t *testing.T) {
	hi0, hi1 := 0, 1
	payload := rawPayload{
		Node: &rawNode{TagName: "DIV"},
		Children: []rawPayload{
			{Node: &rawNode{TagName: "A", HighlightIdx: &hi0}},
			{Node: &rawNode{TagName: "SPAN"}},
			{Node: &rawNode{TagName: "INPUT", HighlightIdx: &hi1}},
		},
	}
	tree := buildTree(payload)
	buf := bufferFromTree(tree)
	if len(buf) != 2 {
		t.Fatalf("expected 2 buffered elements, got %d", len(buf))
	}
	if buf["1"].Tag != "a" || buf["2"].Tag != "input" {
		t.Errorf("unexpected buffer contents: %+v", buf)
	}
}

func TestGetText_SkipsEmptyNodes(t *testing.T) {
	payload := rawPayload{
		Node: &rawNode{TagName: "DIV"},
		Children: []rawPayload{
			{Node: &rawNode{TagName: "SPAN"}},
			{Node: &rawNode{TagName: "P", InnerText: "hello"}},
		},
	}
	tree := buildTree(payload)
	text := GetText(tree)
	if text == "" {
		t.Fatal("expected non-empty text summary")
	}
	if text != "  p: hello\n" {
		t.Errorf("expected only the non-empty node in the summary, got %q", text)
	}
}
