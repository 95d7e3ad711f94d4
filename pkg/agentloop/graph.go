package agentloop

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/webqa-agent/webqa-engine/pkg/action"
	"github.com/webqa-agent/webqa-engine/pkg/browser"
	"github.com/webqa-agent/webqa-engine/pkg/crawler"
	"github.com/webqa-agent/webqa-engine/pkg/llmclient"
	"github.com/webqa-agent/webqa-engine/pkg/model"
	"github.com/webqa-agent/webqa-engine/pkg/uitester"
)

// Loop wires the state machine's node functions to the collaborators one
// ui_agent_langgraph test needs: a browser session to re-navigate on
// reset_session, the per-case recorder, and an LLM client for planning and
// reflection.
type Loop struct {
	Session  *browser.Session
	UITester *uitester.UITester
	LLM      llmclient.Client

	ReportDir string
}

// Run drives State through setup_session -> plan_test_cases ->
// get_next_test_case -> execute_single_case -> reflect_and_replan ->
// {plan_test_cases|get_next_test_case|aggregate_results} ->
// cleanup_session -> END, returning the final state.
func (l *Loop) Run(ctx context.Context, st *State) (*State, error) {
	l.setupSession(st)

planning:
	for {
		if err := l.planTestCases(ctx, st); err != nil {
			return st, err
		}

		if st.GenerateOnly {
			l.cleanupSession(st)
			return st, nil
		}
		if len(st.TestCases) == 0 {
			l.aggregateResults(st)
			l.cleanupSession(st)
			return st, nil
		}

		for {
			l.getNextTestCase(st)
			if err := l.executeSingleCase(ctx, st); err != nil {
				return st, err
			}

			switch l.reflectAndReplan(ctx, st) {
			case "FINISH":
				l.aggregateResults(st)
				l.cleanupSession(st)
				return st, nil
			case "REPLAN":
				continue planning
			default: // CONTINUE
				if st.CurrentTestCaseIndex >= len(st.TestCases) {
					l.aggregateResults(st)
					l.cleanupSession(st)
					return st, nil
				}
			}
		}
	}
}

// setupSession resets progress counters; NewState already does this,
// this exists as the named node for symmetry with the transition table.
func (l *Loop) setupSession(st *State) {
	st.CurrentTestCaseIndex = 0
}

// planTestCases either asks the LLM for a fresh case list (first pass) or
// splices a reflector-produced new_plan into the existing list immediately
// after the current index (replan pass), and persists the result to
// cases.json.
func (l *Loop) planTestCases(ctx context.Context, st *State) error {
	if st.IsReplan {
		insertAt := st.CurrentTestCaseIndex
		if insertAt > len(st.TestCases) {
			insertAt = len(st.TestCases)
		}
		merged := make([]TestCase, 0, len(st.TestCases)+len(st.ReplannedCases))
		merged = append(merged, st.TestCases[:insertAt]...)
		merged = append(merged, st.ReplannedCases...)
		merged = append(merged, st.TestCases[insertAt:]...)
		st.TestCases = merged
		st.IsReplan = false
		st.ReplanCount++
	} else {
		result, err := crawler.Crawl(l.Session.Page(), true, false, true)
		if err != nil {
			return err
		}
		handler := action.NewHandler(l.Session.Page())
		handler.UpdateBuffer(result.Buffer)
		shot, err := handler.B64Screenshot()
		if err != nil {
			return err
		}
		_ = crawler.RemoveMarker(l.Session.Page())

		cases, err := callPlanner(ctx, l.LLM, st.URL, st.BusinessObjectives, shot)
		if err != nil {
			return err
		}
		st.TestCases = cases
	}

	return l.persistCases(st)
}

func (l *Loop) persistCases(st *State) error {
	if l.ReportDir == "" {
		return nil
	}
	data, err := json.MarshalIndent(st.TestCases, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cases.json: %w", err)
	}
	if err := os.MkdirAll(l.ReportDir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}
	return os.WriteFile(filepath.Join(l.ReportDir, "cases.json"), data, 0o644)
}

// getNextTestCase selects test_cases[current_test_case_index] into
// current_case.
func (l *Loop) getNextTestCase(st *State) {
	if st.CurrentTestCaseIndex < 0 || st.CurrentTestCaseIndex >= len(st.TestCases) {
		st.CurrentCase = nil
		return
	}
	st.CurrentCase = &st.TestCases[st.CurrentTestCaseIndex]
}

// executeSingleCase opens a UITester case, re-navigates if the case
// requests a fresh session, runs agentWorkerNode, and appends the result.
func (l *Loop) executeSingleCase(ctx context.Context, st *State) error {
	c := st.CurrentCase
	if c == nil {
		return nil
	}

	l.UITester.StartCase(c.Name)

	if c.ResetSession {
		if _, err := l.Session.SmartNavigate(c.URL, nil); err != nil {
			return err
		}
	}

	result := agentWorkerNode(ctx, l.UITester, l.LLM, l.Session.Page(), *c)
	l.UITester.FinishCase(statusFromWorkerResult(result.Status), result.Summary)

	st.CompletedCases = append(st.CompletedCases, CaseResult{
		Case:    *c,
		Status:  result.Status,
		Summary: result.Summary,
	})
	return nil
}

// reflectAndReplan increments current_test_case_index (the sole place
// progress advances), force-finishes once replan_count reaches maxReplans, and
// otherwise asks the reflector for CONTINUE/REPLAN/FINISH.
func (l *Loop) reflectAndReplan(ctx context.Context, st *State) string {
	st.CurrentTestCaseIndex++

	if st.ReplanCount >= maxReplans {
		st.ReflectionHistory = append(st.ReflectionHistory, ReflectionEntry{
			Decision: "FINISH", Reasoning: "replan budget exhausted",
		})
		return "FINISH"
	}

	result, err := crawler.Crawl(l.Session.Page(), true, false, false)
	var pageText string
	if err == nil {
		pageText = crawler.GetText(result.Tree)
	}

	resp := callReflector(ctx, l.LLM, st.BusinessObjectives, st.TestCases, st.CompletedCases, pageText, pageText)
	st.ReflectionHistory = append(st.ReflectionHistory, ReflectionEntry{
		Decision: resp.Decision, Reasoning: resp.Reasoning, NewPlan: resp.NewPlan,
	})

	if resp.Decision == "REPLAN" && len(resp.NewPlan) > 0 {
		st.IsReplan = true
		st.ReplannedCases = resp.NewPlan
		return "REPLAN"
	}
	if resp.Decision == "FINISH" {
		return "FINISH"
	}
	return "CONTINUE"
}

func (l *Loop) aggregateResults(st *State) {
	// Folding completed_cases into a runner-format report happens in
	// UITester.GenerateRunnerFormatReport, invoked by the runner that owns
	// this Loop; this node only marks the loop's own bookkeeping done.
}

func (l *Loop) cleanupSession(st *State) {
	// Session lifetime is owned by the caller (the parallel executor);
	// this node is a no-op placeholder matching the transition table.
}

// statusFromWorkerResult maps agent_worker_node's passed/failed vocabulary
// onto the shared Status enum used by SubTestResult.
func statusFromWorkerResult(status string) model.Status {
	switch status {
	case "passed", "completed":
		return model.StatusPassed
	case "failed":
		return model.StatusFailed
	case "running":
		return model.StatusRunning
	default:
		return model.StatusWarning
	}
}
