package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/webqa-agent/webqa-engine/pkg/aggregator"
	"github.com/webqa-agent/webqa-engine/pkg/browser"
	"github.com/webqa-agent/webqa-engine/pkg/config"
	"github.com/webqa-agent/webqa-engine/pkg/llmclient"
	"github.com/webqa-agent/webqa-engine/pkg/model"
	"github.com/webqa-agent/webqa-engine/pkg/runner"
)

// securityTestSessionID is the sentinel session_id recorded for
// SECURITY_TEST tasks, which run without a browser session.
const securityTestSessionID = "security_test_no_session"

// ParallelExecutor runs a TestSession's enabled configurations to
// completion: batching by dependency, bounding per-batch concurrency with
// a weighted semaphore, and guaranteeing a finalize step (close sessions,
// aggregate, write reports, mark the session complete) on every exit path.
type ParallelExecutor struct {
	Manager   *browser.Manager
	LLMConfig config.LLMConfig
	ReportDir string

	// TemplatePath/CSSPath/JSPath locate the static HTML report assets (see
	// pkg/aggregator.GenerateHTMLReport). They are external front-end
	// deliverables, not part of this engine; when any is empty or missing on
	// disk, the HTML report is skipped and only the JSON report is written.
	TemplatePath string
	CSSPath      string
	JSPath       string

	llm llmclient.Client

	mu      sync.RWMutex
	running map[string]context.CancelFunc
}

// NewParallelExecutor builds an executor bound to manager for browser
// sessions and llmCfg for every runner's LLM client. A failure constructing
// the aggregator's own LLM client is non-fatal: issue extraction falls
// back to the keyword heuristic.
func NewParallelExecutor(manager *browser.Manager, llmCfg config.LLMConfig, reportDir string) *ParallelExecutor {
	var llm llmclient.Client
	if client, err := llmclient.NewOpenAIClient(llmCfg); err != nil {
		slog.Warn("aggregator LLM client unavailable, issues will use the keyword heuristic", "error", err)
	} else {
		llm = client
	}

	return &ParallelExecutor{
		Manager:   manager,
		LLMConfig: llmCfg,
		ReportDir: reportDir,
		llm:       llm,
		running:   make(map[string]context.CancelFunc),
	}
}

// ExecuteParallel starts the session, runs every batch of its enabled
// configurations to completion, and finalizes unconditionally — including
// on context cancellation.
func (e *ParallelExecutor) ExecuteParallel(ctx context.Context, session *model.TestSession, maxConcurrent int) error {
	session.StartSession()

	batches := ResolveBatches(session.EnabledConfigurations(), maxConcurrent)

	var runErr error
	for _, batch := range batches {
		if err := e.runBatch(ctx, session, batch, maxConcurrent); err != nil {
			runErr = err
			break
		}
		if ctx.Err() != nil {
			runErr = ctx.Err()
			break
		}
	}

	if finalizeErr := e.finalizeSession(ctx, session); finalizeErr != nil && runErr == nil {
		runErr = finalizeErr
	}
	return runErr
}

func (e *ParallelExecutor) runBatch(ctx context.Context, session *model.TestSession, batch []model.TestConfiguration, maxConcurrent int) error {
	weight := int64(maxConcurrent)
	if weight > int64(len(batch)) {
		weight = int64(len(batch))
	}
	if weight <= 0 {
		weight = 1
	}
	sem := semaphore.NewWeighted(weight)

	var wg sync.WaitGroup
	defer wg.Wait()

	var acquireErr error
	for _, cfg := range batch {
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = err
			break
		}
		wg.Add(1)
		go func(cfg model.TestConfiguration) {
			defer wg.Done()
			defer sem.Release(1)
			e.runOne(ctx, session, cfg)
		}(cfg)
	}
	return acquireErr
}

func (e *ParallelExecutor) runOne(ctx context.Context, session *model.TestSession, cfg model.TestConfiguration) {
	taskCtx, cancel := context.WithCancel(ctx)
	e.register(cfg.TestID, cancel)
	defer e.unregister(cfg.TestID)

	execCtx := session.Context(cfg.TestID)
	if execCtx != nil {
		if cfg.TestType == model.TestTypeSecurityTest {
			execCtx.SessionID = securityTestSessionID
		}
		execCtx.StartExecution()
	}

	result := e.dispatch(taskCtx, session, cfg)

	if execCtx != nil {
		execCtx.CompleteExecution(result.Status == model.StatusPassed, result.ErrorMessage)
	}
	session.UpdateTestResult(cfg.TestID, result)
}

func (e *ParallelExecutor) dispatch(ctx context.Context, session *model.TestSession, cfg model.TestConfiguration) *model.TestResult {
	r := runner.For(cfg.TestType)
	if r == nil {
		return errorResult(cfg, fmt.Errorf("no runner registered for test type %q", cfg.TestType))
	}

	targetURL := cfg.StringConfig("target_url")
	if targetURL == "" {
		targetURL = session.TargetURL
	}

	if cfg.TestType == model.TestTypeSecurityTest {
		return e.runWithRecovery(ctx, r, nil, cfg, targetURL)
	}

	sess, err := e.Manager.CreateSession(cfg.BrowserConfig)
	if err != nil {
		return errorResult(cfg, err)
	}
	defer func() {
		if closeErr := e.Manager.Remove(sess.ID); closeErr != nil {
			slog.Warn("closing browser session", "test_id", cfg.TestID, "error", closeErr)
		}
	}()

	if err := sess.Navigate(targetURL); err != nil {
		return errorResult(cfg, err)
	}

	return e.runWithRecovery(ctx, r, sess, cfg, targetURL)
}

// runWithRecovery invokes the runner, converting a cancelled context into a
// CANCELLED result and a panic into a FAILED result, matching the "always
// produce a result" contract around one task's execution.
func (e *ParallelExecutor) runWithRecovery(ctx context.Context, r runner.Runner, sess *browser.Session, cfg model.TestConfiguration, targetURL string) (result *model.TestResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = errorResult(cfg, fmt.Errorf("runner panic: %v", rec))
		}
	}()

	if ctx.Err() != nil {
		result = model.NewTestResult(cfg)
		result.Status = model.StatusCancelled
		result.EndTime = time.Now()
		return result
	}

	result = r.Run(ctx, sess, cfg, e.LLMConfig, targetURL)
	if ctx.Err() != nil && result.Status != model.StatusPassed {
		result.Status = model.StatusCancelled
	}
	return result
}

func errorResult(cfg model.TestConfiguration, err error) *model.TestResult {
	result := model.NewTestResult(cfg)
	result.Status = model.StatusFailed
	result.ErrorMessage = err.Error()
	result.EndTime = time.Now()
	return result
}

func (e *ParallelExecutor) register(testID string, cancel context.CancelFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running[testID] = cancel
}

func (e *ParallelExecutor) unregister(testID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.running, testID)
}

// CancelTest cancels one running task's context. Returns false if no such
// task is currently running.
func (e *ParallelExecutor) CancelTest(testID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cancel, ok := e.running[testID]
	if ok {
		cancel()
	}
	return ok
}

// CancelAllTests cancels every running task and closes the browser manager.
func (e *ParallelExecutor) CancelAllTests() error {
	e.mu.RLock()
	cancels := make([]context.CancelFunc, 0, len(e.running))
	for _, c := range e.running {
		cancels = append(cancels, c)
	}
	e.mu.RUnlock()

	for _, c := range cancels {
		c()
	}
	return e.Manager.Stop()
}

// finalizeSession closes remaining browser sessions, runs the aggregator,
// writes the JSON report, and marks the session complete. It always runs,
// regardless of how ExecuteParallel exits.
func (e *ParallelExecutor) finalizeSession(ctx context.Context, session *model.TestSession) error {
	if err := e.Manager.CloseAll(); err != nil {
		slog.Warn("closing remaining browser sessions during finalize", "error", err)
	}

	report := aggregator.Aggregate(ctx, session, e.llm)
	session.AggregatedResults = report

	jsonPath, err := aggregator.GenerateJSONReport(session, e.ReportDir)
	if err != nil {
		session.CompleteSession()
		return err
	}
	session.ReportPath = jsonPath

	if e.TemplatePath != "" {
		htmlPath, err := aggregator.GenerateHTMLReport(session, report, e.ReportDir, e.TemplatePath, e.CSSPath, e.JSPath)
		if err != nil {
			slog.Warn("skipping HTML report", "error", err)
		} else {
			session.HTMLReportPath = htmlPath
		}
	}

	session.CompleteSession()
	return nil
}
