package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webqa-agent/webqa-engine/pkg/model"
)

func TestErrorResult_SetsFailedStatusAndMessage(t *testing.T) {
	cfg := model.TestConfiguration{TestID: "t1"}
	result := errorResult(cfg, errors.New("boom"))

	assert.Equal(t, model.StatusFailed, result.Status)
	assert.Equal(t, "boom", result.ErrorMessage)
	assert.False(t, result.EndTime.IsZero())
}

func TestCancelTest_ReturnsFalseWhenNotRunning(t *testing.T) {
	e := &ParallelExecutor{running: make(map[string]context.CancelFunc)}
	assert.False(t, e.CancelTest("missing"))
}

func TestCancelTest_CancelsRegisteredContext(t *testing.T) {
	e := &ParallelExecutor{running: make(map[string]context.CancelFunc)}
	_, cancel := context.WithCancel(context.Background())
	canceled := false
	e.register("t1", func() { canceled = true; cancel() })

	assert.True(t, e.CancelTest("t1"))
	assert.True(t, canceled)
}

func TestRegisterUnregister_RemovesEntry(t *testing.T) {
	e := &ParallelExecutor{running: make(map[string]context.CancelFunc)}
	e.register("t1", func() {})
	e.unregister("t1")
	assert.False(t, e.CancelTest("t1"))
}
