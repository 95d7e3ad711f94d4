package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webqa-agent/webqa-engine/pkg/crawler"
	"github.com/webqa-agent/webqa-engine/pkg/model"
)

func TestFor_DispatchesKnownTestTypes(t *testing.T) {
	assert.IsType(t, &UIAgentLangGraphRunner{}, For(model.TestTypeUIAgentLangGraph))
	assert.IsType(t, &UXTestRunner{}, For(model.TestTypeUXTest))
	assert.IsType(t, &ButtonTestRunner{}, For(model.TestTypeButtonTest))
	assert.IsType(t, &WebBasicCheckRunner{}, For(model.TestTypeWebBasicCheck))
	assert.IsType(t, &SecurityTestRunner{}, For(model.TestTypeSecurityTest))
	assert.Nil(t, For(model.TestType("unknown")))
}

func TestStartsWithPassed(t *testing.T) {
	assert.True(t, startsWithPassed("Validation Passed"))
	assert.True(t, startsWithPassed("Validation Passed, no issues found"))
	assert.False(t, startsWithPassed("Validation Failed: typo on line 3"))
}

func TestExtractLinks_DedupesAndResolvesRelative(t *testing.T) {
	tree := &crawler.Tree{Nodes: []crawler.Node{
		{Tag: "html", ParentIdx: -1, ChildIdxs: []int{1, 2, 3, 4}},
		{Tag: "a", ParentIdx: 0, Attributes: map[string]string{"href": "/about"}},
		{Tag: "a", ParentIdx: 0, Attributes: map[string]string{"href": "/about"}},
		{Tag: "a", ParentIdx: 0, Attributes: map[string]string{"href": "#section"}},
		{Tag: "a", ParentIdx: 0, Attributes: map[string]string{"href": "https://other.example/x"}},
	}}

	links := extractLinks(tree, "https://example.com/home")

	assert.ElementsMatch(t, []string{"https://example.com/about", "https://other.example/x"}, links)
}

func TestClickableExternalIDs_OnlyInteractiveWithExternalID(t *testing.T) {
	tree := &crawler.Tree{Nodes: []crawler.Node{
		{Tag: "div", ParentIdx: -1, ChildIdxs: []int{1, 2, 3}},
		{Tag: "button", ParentIdx: 0, IsInteractive: true, ExternalID: "1"},
		{Tag: "span", ParentIdx: 0, IsInteractive: false},
		{Tag: "a", ParentIdx: 0, IsInteractive: true, ExternalID: "2"},
	}}

	ids := clickableExternalIDs(tree)
	assert.Equal(t, []string{"1", "2"}, ids)
}
