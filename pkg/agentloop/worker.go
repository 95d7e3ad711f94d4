package agentloop

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/webqa-agent/webqa-engine/pkg/browser"
	"github.com/webqa-agent/webqa-engine/pkg/llmclient"
	"github.com/webqa-agent/webqa-engine/pkg/uitester"
)

// navigationKeywords flags a preamble instruction as "this just navigates",
// in English and Chinese, so a redundant navigation can be skipped when the
// current page is already at the case's target URL.
var navigationKeywords = []string{
	"navigate", "go to", "open", "visit", "browse", "load",
	"导航", "打开", "访问", "跳转", "前往",
}

func looksLikeNavigation(instruction string) bool {
	lower := strings.ToLower(instruction)
	for _, kw := range navigationKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return strings.Contains(lower, "http://") || strings.Contains(lower, "https://")
}

const failureMarker = "[failure]"

// workerResult is what agentWorkerNode hands back to execute_single_case.
type workerResult struct {
	Status      string
	Summary     string
	FailedSteps []string
}

// agentWorkerNode drives one case to completion: a preamble loop (skipping
// redundant navigation when reset_session already landed on the right URL),
// a main loop over the planned action/verify steps, and a final summary
// synthesis step. It is the single-case executor invoked by
// execute_single_case; it does not itself advance current_test_case_index.
func agentWorkerNode(ctx context.Context, u *uitester.UITester, llm llmclient.Client, page playwright.Page, c TestCase) workerResult {
	for _, step := range c.PreambleActions {
		if c.ResetSession && looksLikeNavigation(step.Instruction) &&
			browser.NormalizeURL(page.URL()) == browser.NormalizeURL(c.URL) {
			continue
		}
		if res := runStep(ctx, u, step); res != nil && strings.Contains(res.Observation, failureMarker) {
			return workerResult{
				Status:  "failed",
				Summary: "FINAL_SUMMARY: failed during preamble: " + res.Observation,
			}
		}
	}

	var failedSteps []string
	for _, step := range c.Steps {
		res := runStep(ctx, u, step)
		if res == nil {
			continue
		}
		if !res.Success {
			failedSteps = append(failedSteps, step.Instruction)
		}
		if isTerminalFailure(res.Observation) {
			break
		}
	}

	summary := synthesizeFinalSummary(ctx, llm, c, failedSteps)
	status := deriveCaseStatus(summary, failedSteps)
	return workerResult{Status: status, Summary: summary, FailedSteps: failedSteps}
}

type stepOutcome struct {
	Success     bool
	Observation string
}

func runStep(ctx context.Context, u *uitester.UITester, step CaseStep) *stepOutcome {
	var err error
	var success bool
	var observation string

	switch step.Kind {
	case "verify":
		s, e := u.Verify(ctx, step.Instruction)
		err = e
		if s != nil {
			success, observation = s.Success, s.Observation
		}
	default:
		s, e := u.Action(ctx, step.Instruction)
		err = e
		if s != nil {
			success, observation = s.Success, s.Observation
		}
	}

	if err != nil {
		return &stepOutcome{Success: false, Observation: failureMarker + " " + err.Error()}
	}
	return &stepOutcome{Success: success, Observation: observation}
}

func isTerminalFailure(observation string) bool {
	lower := strings.ToLower(observation)
	return strings.Contains(lower, failureMarker) ||
		strings.Contains(lower, "failed") ||
		strings.Contains(lower, "stopped due to max iterations")
}

const summarySystemPrompt = `Summarize the outcome of this UI test case in one paragraph. The
response MUST start with "FINAL_SUMMARY:".`

// synthesizeFinalSummary calls the LLM directly (no tool loop) with a
// compact prompt describing the case's objective, success criteria, and
// any failed steps, and enforces the FINAL_SUMMARY: prefix on the result.
func synthesizeFinalSummary(ctx context.Context, llm llmclient.Client, c TestCase, failedSteps []string) string {
	userPrompt := fmt.Sprintf(
		"Objective: %s\nSuccess criteria: %s\nTotal steps: %d\nFailed steps: %s",
		c.Objective, c.SuccessCriteria, len(c.Steps), strings.Join(failedSteps, "; "),
	)

	raw, err := llm.GetResponse(ctx, summarySystemPrompt, userPrompt, nil)
	if err != nil || strings.TrimSpace(raw) == "" {
		raw = fallbackSummary(c, failedSteps)
	}

	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "FINAL_SUMMARY:") {
		raw = "FINAL_SUMMARY: " + raw
	}
	return raw
}

func fallbackSummary(c TestCase, failedSteps []string) string {
	if len(failedSteps) == 0 {
		return fmt.Sprintf("test case completed successfully: %s", c.Objective)
	}
	return fmt.Sprintf("test case failed at step %q", failedSteps[0])
}

// deriveCaseStatus applies the tie-break order from the case status rule:
// explicit failure phrasing wins, then a clean "completed successfully"
// with no failure indicators, otherwise fall back on whether any step
// failed.
func deriveCaseStatus(summary string, failedSteps []string) string {
	lower := strings.ToLower(summary)
	switch {
	case strings.Contains(lower, "failed at step"), strings.Contains(lower, "test case failed"):
		return "failed"
	case strings.Contains(lower, "completed successfully") && len(failedSteps) == 0:
		return "passed"
	case len(failedSteps) > 0:
		return "failed"
	default:
		return "passed"
	}
}
