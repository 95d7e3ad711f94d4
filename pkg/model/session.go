package model

import (
	"sync"
	"time"
)

// BrowserConfig describes the viewport/locale/headless settings a
// BrowserSession is launched with.
type BrowserConfig struct {
	Viewport Viewport          `yaml:"viewport" json:"viewport"`
	Headless bool              `yaml:"headless" json:"headless"`
	Language string            `yaml:"language" json:"language"`
	Cookies  any               `yaml:"cookies,omitempty" json:"cookies,omitempty"`
	Extra    map[string]string `yaml:"extra,omitempty" json:"extra,omitempty"`
}

// Viewport is a browser window size in CSS pixels.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// DefaultViewport is used when a TestConfiguration omits one.
var DefaultViewport = Viewport{Width: 1920, Height: 1080}

// TestConfiguration is immutable after session assembly.
type TestConfiguration struct {
	TestID              string         `json:"test_id" yaml:"test_id"`
	TestType            TestType       `json:"test_type" yaml:"test_type"`
	TestName            string         `json:"test_name" yaml:"test_name"`
	Enabled             bool           `json:"enabled" yaml:"enabled"`
	BrowserConfig       BrowserConfig  `json:"browser_config" yaml:"browser_config"`
	TestSpecificConfig  map[string]any `json:"test_specific_config,omitempty" yaml:"test_specific_config,omitempty"`
	Timeout             time.Duration  `json:"timeout" yaml:"timeout"`
	RetryCount          int            `json:"retry_count" yaml:"retry_count"`
	Dependencies        []string       `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// StringConfig returns a string value from TestSpecificConfig, or "" if
// absent or not a string.
func (c TestConfiguration) StringConfig(key string) string {
	v, ok := c.TestSpecificConfig[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// TestExecutionContext tracks one test's execution interval.
// start_execution/complete_execution are one-shot.
type TestExecutionContext struct {
	TestID       string        `json:"test_id"`
	SessionID    string        `json:"session_id"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Duration     time.Duration `json:"duration"`
	Success      bool          `json:"success"`
	ErrorMessage string        `json:"error_message,omitempty"`

	started bool
}

// StartExecution records the start of execution. One-shot: subsequent
// calls are no-ops.
func (c *TestExecutionContext) StartExecution() {
	if c.started {
		return
	}
	c.started = true
	c.StartTime = time.Now()
}

// CompleteExecution records the end of execution. Invariant: end_time >=
// start_time, duration = end_time - start_time. One-shot: subsequent calls
// are no-ops.
func (c *TestExecutionContext) CompleteExecution(success bool, errMsg string) {
	if !c.EndTime.IsZero() {
		return
	}
	c.EndTime = time.Now()
	if c.EndTime.Before(c.StartTime) {
		c.EndTime = c.StartTime
	}
	c.Duration = c.EndTime.Sub(c.StartTime)
	c.Success = success
	c.ErrorMessage = errMsg
}

// TestSession is the root entity. It exclusively owns
// configurations, contexts, and results for one run.
type TestSession struct {
	SessionID   string    `json:"session_id"`
	TargetURL   string    `json:"target_url"`
	LLMConfig   any       `json:"llm_config,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`

	AggregatedResults any    `json:"aggregated_results,omitempty"`
	ReportPath         string `json:"report_path,omitempty"`
	HTMLReportPath     string `json:"html_report_path,omitempty"`

	mu             sync.RWMutex
	configurations map[string]TestConfiguration
	contexts       map[string]*TestExecutionContext
	results        map[string]*TestResult
}

// NewTestSession creates an empty session for targetURL.
func NewTestSession(sessionID, targetURL string) *TestSession {
	return &TestSession{
		SessionID:      sessionID,
		TargetURL:      targetURL,
		configurations: make(map[string]TestConfiguration),
		contexts:       make(map[string]*TestExecutionContext),
		results:        make(map[string]*TestResult),
	}
}

// AddTestConfiguration registers a configuration and its execution context.
func (s *TestSession) AddTestConfiguration(cfg TestConfiguration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configurations[cfg.TestID] = cfg
	s.contexts[cfg.TestID] = &TestExecutionContext{TestID: cfg.TestID}
}

// Configurations returns a snapshot slice of all registered configurations.
func (s *TestSession) Configurations() []TestConfiguration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TestConfiguration, 0, len(s.configurations))
	for _, c := range s.configurations {
		out = append(out, c)
	}
	return out
}

// EnabledConfigurations returns configurations with Enabled == true.
func (s *TestSession) EnabledConfigurations() []TestConfiguration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TestConfiguration, 0, len(s.configurations))
	for _, c := range s.configurations {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

// Context returns the execution context for a test_id, or nil.
func (s *TestSession) Context(testID string) *TestExecutionContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contexts[testID]
}

// UpdateTestResult stores (or replaces) the result for a test_id.
// Invariant 1: every test_id in results appears in
// configurations — enforced here by only accepting known test_ids.
func (s *TestSession) UpdateTestResult(testID string, result *TestResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, known := s.configurations[testID]; !known {
		return
	}
	s.results[testID] = result
}

// Results returns a snapshot copy of the results map.
func (s *TestSession) Results() map[string]*TestResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*TestResult, len(s.results))
	for k, v := range s.results {
		out[k] = v
	}
	return out
}

// StartSession records the session start time. Idempotent.
func (s *TestSession) StartSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.StartTime.IsZero() {
		s.StartTime = time.Now()
	}
}

// CompleteSession seals the session, recording the end time if not already
// set.
func (s *TestSession) CompleteSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.EndTime.IsZero() {
		s.EndTime = time.Now()
	}
}

// IsComplete reports whether CompleteSession has run.
func (s *TestSession) IsComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.EndTime.IsZero()
}

// SummaryStats returns coarse counters used by the aggregator's executive
// summary tab.
func (s *TestSession) SummaryStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := map[string]any{
		"target_url":      s.TargetURL,
		"total_tests":     len(s.configurations),
		"completed_tests":  len(s.results),
	}
	if !s.StartTime.IsZero() && !s.EndTime.IsZero() {
		stats["duration_seconds"] = s.EndTime.Sub(s.StartTime).Seconds()
	}
	return stats
}

// MarshalSnapshot builds a plain, JSON-stable snapshot of the whole session
// for report serialization. Using an explicit
// snapshot type (rather than marshaling TestSession directly) keeps the
// exported field layout stable regardless of internal map/mutex changes.
func (s *TestSession) MarshalSnapshot() TestSessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	configs := make(map[string]TestConfiguration, len(s.configurations))
	for k, v := range s.configurations {
		configs[k] = v
	}
	contexts := make(map[string]*TestExecutionContext, len(s.contexts))
	for k, v := range s.contexts {
		contexts[k] = v
	}
	results := make(map[string]*TestResult, len(s.results))
	for k, v := range s.results {
		results[k] = v
	}

	return TestSessionSnapshot{
		SessionID:         s.SessionID,
		TargetURL:         s.TargetURL,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		Configurations:    configs,
		ExecutionContexts: contexts,
		Results:           results,
		AggregatedResults: s.AggregatedResults,
		ReportPath:        s.ReportPath,
		HTMLReportPath:    s.HTMLReportPath,
	}
}

// TestSessionSnapshot is the serializable view of a TestSession.
type TestSessionSnapshot struct {
	SessionID         string                           `json:"session_id"`
	TargetURL         string                           `json:"target_url"`
	StartTime         time.Time                        `json:"start_time"`
	EndTime           time.Time                        `json:"end_time"`
	Configurations    map[string]TestConfiguration     `json:"configurations"`
	ExecutionContexts map[string]*TestExecutionContext `json:"execution_contexts"`
	Results           map[string]*TestResult           `json:"results"`
	AggregatedResults any                              `json:"aggregated_results,omitempty"`
	ReportPath        string                           `json:"report_path,omitempty"`
	HTMLReportPath    string                           `json:"html_report_path,omitempty"`
}
