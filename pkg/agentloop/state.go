// Package agentloop implements the LangGraph-style state machine that
// drives one ui_agent_langgraph test: plan cases, execute them one by
// one, reflect after each, and either continue, replan, or finish.
package agentloop

import (
	"time"

	"github.com/webqa-agent/webqa-engine/pkg/uitester"
)

const maxReplans = 2

// TestCase is one planner-produced unit of work.
type TestCase struct {
	Name             string         `json:"name"`
	Objective        string         `json:"objective"`
	SuccessCriteria  string         `json:"success_criteria,omitempty"`
	Steps            []CaseStep     `json:"steps"`
	PreambleActions  []CaseStep     `json:"preamble_actions,omitempty"`
	ResetSession     bool           `json:"reset_session,omitempty"`
	URL              string         `json:"url"`
	Status           string         `json:"status"`
}

// CaseStep is one planned action or verify instruction inside a TestCase.
type CaseStep struct {
	Kind        string `json:"kind"` // "action" | "verify"
	Instruction string `json:"instruction"`
}

// CaseResult is what execute_single_case appends to CompletedCases.
type CaseResult struct {
	Case    TestCase
	Status  string
	Summary string
}

// ReflectionEntry is one reflect_and_replan outcome.
type ReflectionEntry struct {
	Decision  string      `json:"decision"` // CONTINUE | REPLAN | FINISH
	Reasoning string      `json:"reasoning"`
	NewPlan   []TestCase  `json:"new_plan,omitempty"`
	At        time.Time   `json:"at"`
}

// State is the agent's LangGraph-shaped working memory for one test. The
// reflector is the sole writer of CurrentTestCaseIndex; it is advanced
// exactly once per case and only ever increases.
type State struct {
	URL                  string
	BusinessObjectives   string
	Cookies              any

	TestCases            []TestCase
	CurrentTestCaseIndex int
	CurrentCase          *TestCase

	CompletedCases    []CaseResult
	ReflectionHistory []ReflectionEntry

	IsReplan        bool
	ReplanCount     int
	ReplannedCases  []TestCase

	GenerateOnly bool

	UITester *uitester.UITester
}

// NewState builds the initial state: current_test_case_index=0,
// is_replan=false, replan_count=0.
func NewState(url, businessObjectives string, cookies any) *State {
	return &State{URL: url, BusinessObjectives: businessObjectives, Cookies: cookies}
}
