package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddTask_ReturnsOneBasedPosition(t *testing.T) {
	q := New()
	assert.Equal(t, 1, q.AddTask("a", nil))
	assert.Equal(t, 2, q.AddTask("b", nil))
}

func TestGetNextTask_TransitionsToRunning(t *testing.T) {
	q := New()
	q.AddTask("a", nil)

	taskID, ok := q.GetNextTask()
	assert.True(t, ok)
	assert.Equal(t, "a", taskID)

	status := q.GetTaskStatus("a")
	assert.Equal(t, StatusRunning, status.Status)
	assert.NotNil(t, status.StartedAt)
}

func TestGetNextTask_EmptyQueueReturnsFalse(t *testing.T) {
	q := New()
	_, ok := q.GetNextTask()
	assert.False(t, ok)
}

func TestCompleteTask_SetsCompletedOrFailedByResultPresence(t *testing.T) {
	q := New()
	q.AddTask("a", nil)
	q.GetNextTask()
	assert.NoError(t, q.CompleteTask("a", map[string]any{"ok": true}, ""))
	assert.Equal(t, StatusCompleted, q.GetTaskStatus("a").Status)

	q.AddTask("b", nil)
	q.GetNextTask()
	assert.NoError(t, q.CompleteTask("b", nil, "boom"))
	assert.Equal(t, StatusFailed, q.GetTaskStatus("b").Status)
}

func TestCompleteTask_UnknownTaskReturnsError(t *testing.T) {
	q := New()
	err := q.CompleteTask("missing", "x", "")
	assert.Error(t, err)
}

func TestGetTaskStatus_UnknownTaskIsNotFound(t *testing.T) {
	q := New()
	assert.Equal(t, StatusNotFound, q.GetTaskStatus("missing").Status)
}

func TestPosition_ZeroForCurrentNegativeOneForUnknown(t *testing.T) {
	q := New()
	q.AddTask("a", nil)
	q.AddTask("b", nil)
	q.GetNextTask() // a becomes current

	assert.Equal(t, 0, q.Position("a"))
	assert.Equal(t, 1, q.Position("b"))
	assert.Equal(t, -1, q.Position("missing"))
}
