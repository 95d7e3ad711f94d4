package model

// TestType enumerates the supported test kinds.
type TestType string

// Supported test types.
const (
	TestTypeUIAgentLangGraph TestType = "ui_agent_langgraph"
	TestTypeUXTest           TestType = "ux_test"
	TestTypePerformance      TestType = "performance"
	TestTypeWebBasicCheck    TestType = "web_basic_check"
	TestTypeButtonTest       TestType = "button_test"
	TestTypeSecurityTest     TestType = "security"
)

// Category groups test types for reporting purposes.
type Category string

// Supported categories.
const (
	CategoryFunction    Category = "FUNCTION"
	CategoryUI          Category = "UI"
	CategoryPerformance Category = "PERFORMANCE"
	CategorySecurity    Category = "SECURITY"
)

// CategoryForTestType maps a TestType to its reporting Category.
func CategoryForTestType(t TestType) Category {
	switch t {
	case TestTypeUIAgentLangGraph, TestTypeButtonTest:
		return CategoryFunction
	case TestTypeUXTest:
		return CategoryUI
	case TestTypePerformance:
		return CategoryPerformance
	case TestTypeSecurityTest:
		return CategorySecurity
	case TestTypeWebBasicCheck:
		return CategoryFunction
	default:
		return CategoryFunction
	}
}

// Status is the lifecycle/outcome status of a TestResult or SubTestResult.
type Status string

// Supported statuses.
const (
	StatusPending     Status = "PENDING"
	StatusRunning     Status = "RUNNING"
	StatusPassed      Status = "PASSED"
	StatusFailed      Status = "FAILED"
	StatusWarning     Status = "WARNING"
	StatusCancelled   Status = "CANCELLED"
	StatusIncompleted Status = "INCOMPLETED"
)

// IsTerminal reports whether a status will not transition further.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusWarning, StatusCancelled, StatusIncompleted:
		return true
	default:
		return false
	}
}
