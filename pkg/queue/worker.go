package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/webqa-agent/webqa-engine/pkg/model"
)

// RunFunc executes one submitted run to completion and returns its
// aggregated result (or an error). It owns TestSession construction for
// this one run; the browser manager and parallel executor it uses are
// shared across runs.
type RunFunc func(ctx context.Context, taskID string, req Submission) (*model.TestSession, error)

// Submission is the payload accepted by AddTask's caller: a target URL,
// LLM settings, optional browser defaults, and the list of test
// configurations to run.
type Submission struct {
	TargetURL      string                      `json:"target_url"`
	LLMConfig      map[string]any              `json:"llm_config,omitempty"`
	BrowserConfig  *model.BrowserConfig        `json:"browser_config,omitempty"`
	Configurations []model.TestConfiguration   `json:"test_configurations"`
}

// Worker drains one task at a time from a Queue, invoking run for each.
type Worker struct {
	queue        *Queue
	run          RunFunc
	pollInterval time.Duration
	submissions  map[string]Submission
}

// NewWorker builds a worker bound to queue, invoking run for each drained
// task. submissions must be populated by the caller (e.g. the API layer)
// before the task_id reaches the front of the queue.
func NewWorker(q *Queue, run RunFunc, pollInterval time.Duration) *Worker {
	return &Worker{queue: q, run: run, pollInterval: pollInterval, submissions: make(map[string]Submission)}
}

// SetSubmission attaches the run payload for a queued task_id.
func (w *Worker) SetSubmission(taskID string, sub Submission) {
	w.submissions[taskID] = sub
}

// Start runs the drain loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drainOne(ctx)
		}
	}
}

func (w *Worker) drainOne(ctx context.Context) {
	taskID, ok := w.queue.GetNextTask()
	if !ok {
		return
	}

	sub, ok := w.submissions[taskID]
	if !ok {
		_ = w.queue.CompleteTask(taskID, nil, "no submission payload recorded for task")
		return
	}
	delete(w.submissions, taskID)

	session, err := w.run(ctx, taskID, sub)
	if err != nil {
		slog.Error("task run failed", "task_id", taskID, "error", err)
		_ = w.queue.CompleteTask(taskID, nil, err.Error())
		return
	}
	_ = w.queue.CompleteTask(taskID, session.MarshalSnapshot(), "")
}
