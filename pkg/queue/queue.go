// Package queue is the in-process FIFO submission queue the API surface
// enqueues runs against: one background worker drains it, so at most one
// task executes at a time.
package queue

import (
	"sync"
	"time"

	"github.com/webqa-agent/webqa-engine/pkg/webqaerrors"
)

// Status is a task's lifecycle state.
type Status string

// Supported statuses.
const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusNotFound  Status = "not_found"
)

// UserInfo is opaque caller-supplied metadata attached to a submission
// (e.g. requester identity); the queue does not interpret it.
type UserInfo map[string]any

// Task is one submission's full record.
type Task struct {
	TaskID      string     `json:"task_id"`
	UserInfo    UserInfo   `json:"user_info,omitempty"`
	Status      Status     `json:"status"`
	Result      any        `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Queue is a mutex-guarded FIFO of tasks. Exactly one task is "current"
// (running) at a time.
type Queue struct {
	mu      sync.Mutex
	pending []string
	tasks   map[string]*Task
	current string
}

// New builds an empty Queue.
func New() *Queue {
	return &Queue{tasks: make(map[string]*Task)}
}

// AddTask appends a new queued task and returns its 1-based position (the
// currently running task, if any, occupies position 0).
func (q *Queue) AddTask(taskID string, userInfo UserInfo) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.tasks[taskID] = &Task{
		TaskID: taskID, UserInfo: userInfo, Status: StatusQueued, CreatedAt: time.Now(),
	}
	q.pending = append(q.pending, taskID)
	return len(q.pending)
}

// GetNextTask pops the head of the queue, transitions it to running, and
// records started_at. Returns ("", false) when the queue is empty.
func (q *Queue) GetNextTask() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return "", false
	}
	taskID := q.pending[0]
	q.pending = q.pending[1:]

	now := time.Now()
	task := q.tasks[taskID]
	task.Status = StatusRunning
	task.StartedAt = &now
	q.current = taskID
	return taskID, true
}

// CompleteTask records a task's outcome: completed if result is non-nil,
// failed otherwise (errMsg is stored regardless, for diagnostics).
func (q *Queue) CompleteTask(taskID string, result any, errMsg string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	task, ok := q.tasks[taskID]
	if !ok {
		return webqaerrors.ErrTaskNotFound
	}

	now := time.Now()
	task.CompletedAt = &now
	task.Result = result
	task.Error = errMsg
	if result != nil {
		task.Status = StatusCompleted
	} else {
		task.Status = StatusFailed
	}
	if q.current == taskID {
		q.current = ""
	}
	return nil
}

// GetTaskStatus returns a snapshot of the task, or a Task with
// Status=StatusNotFound if taskID is unknown.
func (q *Queue) GetTaskStatus(taskID string) Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	task, ok := q.tasks[taskID]
	if !ok {
		return Task{TaskID: taskID, Status: StatusNotFound}
	}
	return *task
}

// Position returns taskID's 1-based queue position, or 0 if it is the
// current (running) task, or -1 if it is neither queued nor running.
func (q *Queue) Position(taskID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.current == taskID {
		return 0
	}
	for i, id := range q.pending {
		if id == taskID {
			return i + 1
		}
	}
	return -1
}
