package agentloop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webqa-agent/webqa-engine/pkg/model"
)

func TestLooksLikeNavigation(t *testing.T) {
	cases := map[string]bool{
		"navigate to the homepage":  true,
		"Go to /settings":           true,
		"打开设置页面":                    true,
		"click the submit button":   false,
		"visit https://example.com": true,
	}
	for instruction, want := range cases {
		assert.Equal(t, want, looksLikeNavigation(instruction), instruction)
	}
}

func TestIsTerminalFailure(t *testing.T) {
	assert.True(t, isTerminalFailure("[failure] could not find element"))
	assert.True(t, isTerminalFailure("step failed unexpectedly"))
	assert.True(t, isTerminalFailure("agent stopped due to max iterations"))
	assert.False(t, isTerminalFailure("clicked successfully"))
}

func TestDeriveCaseStatus(t *testing.T) {
	assert.Equal(t, "failed", deriveCaseStatus("FINAL_SUMMARY: test case failed at step 2", nil))
	assert.Equal(t, "passed", deriveCaseStatus("FINAL_SUMMARY: completed successfully", nil))
	assert.Equal(t, "failed", deriveCaseStatus("FINAL_SUMMARY: did something ambiguous", []string{"step 1"}))
	assert.Equal(t, "passed", deriveCaseStatus("FINAL_SUMMARY: did something ambiguous", nil))
}

func TestStatusFromWorkerResult(t *testing.T) {
	assert.Equal(t, model.StatusPassed, statusFromWorkerResult("passed"))
	assert.Equal(t, model.StatusFailed, statusFromWorkerResult("failed"))
	assert.Equal(t, model.StatusWarning, statusFromWorkerResult("unknown"))
}

func TestParseCaseList_AcceptsBareArrayOrWrappedObject(t *testing.T) {
	bare, err := parseCaseList(`[{"name":"case a"}]`)
	assert.NoError(t, err)
	assert.Len(t, bare, 1)

	wrapped, err := parseCaseList(`{"cases":[{"name":"case b"},{"name":"case c"}]}`)
	assert.NoError(t, err)
	assert.Len(t, wrapped, 2)
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence(`{"a":1}`))
}
