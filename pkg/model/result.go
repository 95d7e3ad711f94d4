package model

import "time"

// SubTestStep is one recorded action+observation inside a sub-test.
// step.id is monotonically increasing within a single case and never
// reused.
type SubTestStep struct {
	ID          int            `json:"id"`
	Description string         `json:"description"`
	ActionType  string         `json:"action_type"`
	Success     bool           `json:"success"`
	Screenshot  string         `json:"screenshot,omitempty"`
	Observation string         `json:"observation,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// SubTestResult is one named check within a TestResult.
// Sub-test statuses are authoritative: the parent TestResult's status is
// derived from them, never set independently.
type SubTestResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Steps     []SubTestStep `json:"steps,omitempty"`
	Summary   string        `json:"summary,omitempty"`
	Severity  string        `json:"severity,omitempty"`
	IssueType string        `json:"issue_type,omitempty"`
	StartTime time.Time     `json:"start_time,omitempty"`
	EndTime   time.Time     `json:"end_time,omitempty"`

	nextStepID int
}

// NextStep appends a step, assigning it the next monotonic id starting
// at 1, with no gaps.
func (r *SubTestResult) NextStep(description, actionType string, success bool) *SubTestStep {
	r.nextStepID++
	step := SubTestStep{
		ID:          r.nextStepID,
		Description: description,
		ActionType:  actionType,
		Success:     success,
	}
	r.Steps = append(r.Steps, step)
	return &r.Steps[len(r.Steps)-1]
}

// TestResult is the outcome of one TestConfiguration's execution. If any
// SubTest is FAILED, Status is FAILED; if none failed but at least one is
// WARNING, Status is WARNING; otherwise PASSED — unless the run was
// CANCELLED or never completed (INCOMPLETED), which override sub-test-
// derived status entirely.
type TestResult struct {
	TestID      string          `json:"test_id"`
	TestType    TestType        `json:"test_type"`
	TestName    string          `json:"test_name"`
	Category    Category        `json:"category"`
	Status      Status          `json:"status"`
	SubTests    []SubTestResult `json:"sub_tests,omitempty"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	Duration    time.Duration   `json:"duration"`
	ErrorMessage string         `json:"error_message,omitempty"`
	ReportPaths []string        `json:"report_paths,omitempty"`
}

// DeriveStatus recomputes Status from SubTests following the priority
// FAILED > WARNING > PASSED. When SubTests is non-empty it overwrites any
// Status set earlier, CANCELLED and INCOMPLETED included, so callers that
// need to force one of those set Status after calling DeriveStatus. With no
// sub-tests, Status is left unchanged.
func (r *TestResult) DeriveStatus() {
	if len(r.SubTests) == 0 {
		return
	}
	sawWarning := false
	for _, st := range r.SubTests {
		switch st.Status {
		case StatusFailed:
			r.Status = StatusFailed
			return
		case StatusWarning:
			sawWarning = true
		}
	}
	if sawWarning {
		r.Status = StatusWarning
		return
	}
	r.Status = StatusPassed
}

// NewTestResult builds a TestResult in PENDING status for a configuration.
func NewTestResult(cfg TestConfiguration) *TestResult {
	return &TestResult{
		TestID:   cfg.TestID,
		TestType: cfg.TestType,
		TestName: cfg.TestName,
		Category: CategoryForTestType(cfg.TestType),
		Status:   StatusPending,
	}
}
