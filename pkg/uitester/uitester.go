// Package uitester is the per-case recorder: it drives one
// crawl→screenshot→plan→act→settle→record cycle (action) and one
// crawl→screenshot→verify cycle (verify), and accumulates the resulting
// cases into a runner-shaped report.
package uitester

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/webqa-agent/webqa-engine/pkg/action"
	"github.com/webqa-agent/webqa-engine/pkg/crawler"
	"github.com/webqa-agent/webqa-engine/pkg/llmclient"
	"github.com/webqa-agent/webqa-engine/pkg/model"
	"github.com/webqa-agent/webqa-engine/pkg/webqaerrors"
)

// CaseData is one recorded test case: its steps and final outcome.
type CaseData struct {
	Name      string               `json:"name"`
	Status    model.Status         `json:"status"`
	Summary   string               `json:"final_summary,omitempty"`
	Steps     []model.SubTestStep  `json:"steps"`
	Messages  map[string]any       `json:"messages,omitempty"`
	StartTime time.Time            `json:"start_time"`
	EndTime   time.Time            `json:"end_time"`
}

// UITester is the per-case recorder. Only one case may be open at a time;
// starting a new one while another is open force-finishes the old one with
// status INCOMPLETED, matching the reference's "interrupted" handling.
type UITester struct {
	page    playwright.Page
	handler *action.Handler
	llm     llmclient.Client

	currentName  string
	currentSteps []model.SubTestStep
	stepCounter  int
	caseOpen     bool
	caseStart    time.Time

	allCases []CaseData
}

// New builds a UITester bound to page, driving actions through handler and
// planning/verifying through llm.
func New(page playwright.Page, handler *action.Handler, llm llmclient.Client) *UITester {
	return &UITester{page: page, handler: handler, llm: llm}
}

// StartCase opens a new case, force-finishing any still-open one.
func (u *UITester) StartCase(name string) {
	if u.caseOpen {
		u.finishCaseLocked(model.StatusIncompleted, "interrupted by new case start")
	}
	u.currentName = name
	u.currentSteps = nil
	u.stepCounter = 0
	u.caseOpen = true
	u.caseStart = time.Now()
}

// plannerResponse is the JSON shape expected back from the planner prompt.
type plannerResponse struct {
	Actions               []action.Plan `json:"actions"`
	TaskWillBeAccomplished bool          `json:"taskWillBeAccomplished"`
	Error                  string        `json:"error,omitempty"`
}

// Action runs one planner-driven action cycle: crawl, screenshot, plan,
// dispatch each planned action, settle, and record the step. It retries
// the planner call once, after a one-second pause, if the call fails or the
// plan is empty.
func (u *UITester) Action(ctx context.Context, instruction string) (*model.SubTestStep, error) {
	if !u.caseOpen {
		return nil, fmt.Errorf("%w: no case is open", webqaerrors.ErrRunner)
	}

	result, err := crawler.Crawl(u.page, true, false, true)
	if err != nil {
		return nil, err
	}
	u.handler.UpdateBuffer(result.Buffer)
	defer crawler.RemoveMarker(u.page)

	shot, err := u.handler.B64Screenshot()
	if err != nil {
		return nil, err
	}

	var plan plannerResponse
	var planErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
			}
		}
		plan, planErr = u.callPlanner(ctx, instruction, crawler.GetText(result.Tree), shot)
		if planErr == nil && len(plan.Actions) > 0 {
			break
		}
	}
	if planErr != nil {
		return nil, fmt.Errorf("%w: %v", webqaerrors.ErrPlan, planErr)
	}
	if len(plan.Actions) == 0 {
		return nil, webqaerrors.ErrPlan
	}

	step := u.newStep(instruction, "action")
	step.Success = true
	for _, p := range plan.Actions {
		res, execErr := action.Execute(ctx, u.handler, p)
		if execErr != nil || !res.Success {
			step.Success = false
			if execErr != nil {
				step.Observation = execErr.Error()
			} else {
				step.Observation = res.Message
			}
			break
		}
		u.settleAfterAction()
	}

	u.recordStep(step)
	return step, nil
}

func (u *UITester) settleAfterAction() {
	_ = u.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(10000),
	})
	time.Sleep(1500 * time.Millisecond)
}

// verifyResponse is the normalized shape of a verification call.
type verifyResponse struct {
	Result  string   `json:"Validation Result"`
	Details []string `json:"Details"`
}

// Verify crawls with text highlighting, captures marker + plain
// screenshots, and asks the LLM to validate assertion against both.
func (u *UITester) Verify(ctx context.Context, assertion string) (*model.SubTestStep, error) {
	if !u.caseOpen {
		return nil, fmt.Errorf("%w: no case is open", webqaerrors.ErrRunner)
	}

	result, err := crawler.Crawl(u.page, true, true, false)
	if err != nil {
		return nil, err
	}
	u.handler.UpdateBuffer(result.Buffer)

	markerShot, err := u.handler.B64Screenshot()
	if err != nil {
		return nil, err
	}
	_ = crawler.RemoveMarker(u.page)

	plainShot, err := u.handler.B64Screenshot()
	if err != nil {
		return nil, err
	}

	resp, err := u.callVerifier(ctx, assertion, crawler.GetText(result.Tree), markerShot, plainShot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", webqaerrors.ErrLLM, err)
	}

	step := u.newStep(assertion, "verify")
	step.Success = resp.Result == "Validation Passed"
	if len(resp.Details) > 0 {
		step.Observation = resp.Details[0]
	}
	u.recordStep(step)
	return step, nil
}

func (u *UITester) newStep(description, actionType string) *model.SubTestStep {
	u.stepCounter++
	step := model.SubTestStep{ID: u.stepCounter, Description: description, ActionType: actionType}
	return &step
}

func (u *UITester) recordStep(step *model.SubTestStep) {
	u.currentSteps = append(u.currentSteps, *step)
}

// FinishCase seals the open case with status and summary.
func (u *UITester) FinishCase(status model.Status, summary string) {
	u.finishCaseLocked(status, summary)
}

func (u *UITester) finishCaseLocked(status model.Status, summary string) {
	u.allCases = append(u.allCases, CaseData{
		Name:      u.currentName,
		Status:    status,
		Summary:   summary,
		Steps:     u.currentSteps,
		StartTime: u.caseStart,
		EndTime:   time.Now(),
	})
	u.caseOpen = false
}

// AllCases returns every case recorded so far.
func (u *UITester) AllCases() []CaseData {
	return u.allCases
}

// GenerateRunnerFormatReport folds every recorded case into a TestResult,
// deriving the parent status from the sub-tests: sub-test statuses are
// authoritative.
func (u *UITester) GenerateRunnerFormatReport(cfg model.TestConfiguration) *model.TestResult {
	tr := model.NewTestResult(cfg)
	for _, c := range u.allCases {
		tr.SubTests = append(tr.SubTests, model.SubTestResult{
			Name:      c.Name,
			Status:    c.Status,
			Steps:     c.Steps,
			Summary:   c.Summary,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
		})
	}
	tr.DeriveStatus()
	return tr
}
