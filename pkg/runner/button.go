package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/webqa-agent/webqa-engine/pkg/action"
	"github.com/webqa-agent/webqa-engine/pkg/browser"
	"github.com/webqa-agent/webqa-engine/pkg/config"
	"github.com/webqa-agent/webqa-engine/pkg/crawler"
	"github.com/webqa-agent/webqa-engine/pkg/model"
)

// ButtonTestRunner crawls clickable elements and clicks each in turn,
// re-navigating to the starting URL between clicks so every click starts
// from the same page state.
type ButtonTestRunner struct{}

func (r *ButtonTestRunner) Run(ctx context.Context, session *browser.Session, cfg model.TestConfiguration, llmCfg config.LLMConfig, targetURL string) *model.TestResult {
	result := model.NewTestResult(cfg)
	start := time.Now()

	tree, err := crawler.Crawl(session.Page(), false, false, false)
	if err != nil {
		return failResult(result, err)
	}

	clickable := clickableExternalIDs(tree.Tree)

	for _, id := range clickable {
		sub := r.clickOne(session, id)
		result.SubTests = append(result.SubTests, sub)

		if _, err := session.SmartNavigate(targetURL, cfg.BrowserConfig.Cookies); err != nil {
			sub2 := model.SubTestResult{
				Name: "re-navigate after " + id, Status: model.StatusWarning,
				Summary: err.Error(), StartTime: time.Now(), EndTime: time.Now(),
			}
			result.SubTests = append(result.SubTests, sub2)
		}
	}

	result.DeriveStatus()
	result.StartTime = start
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result
}

func (r *ButtonTestRunner) clickOne(session *browser.Session, elementID string) model.SubTestResult {
	sub := model.SubTestResult{Name: fmt.Sprintf("click element %s", elementID), StartTime: time.Now()}

	handler := action.NewHandler(session.Page())
	result, _ := crawler.Crawl(session.Page(), false, false, false)
	if result != nil {
		handler.UpdateBuffer(result.Buffer)
	}

	before, _ := handler.B64Screenshot()
	res, err := handler.Click(elementID)
	after, _ := handler.B64Screenshot()

	step := model.SubTestStep{
		ID: 1, Description: sub.Name, ActionType: "click",
		Success: err == nil && res.Success,
		Extra:   map[string]any{"before_screenshot": before, "after_screenshot": after},
	}
	if err != nil {
		step.Observation = err.Error()
	} else {
		step.Observation = res.Message
	}
	sub.Steps = []model.SubTestStep{step}

	if step.Success {
		sub.Status = model.StatusPassed
	} else {
		sub.Status = model.StatusFailed
		sub.Summary = step.Observation
	}
	sub.EndTime = time.Now()
	return sub
}

// clickableExternalIDs returns the short external ids of every interactive
// element in pre-order, so clicks proceed in a stable, deterministic order.
func clickableExternalIDs(tree *crawler.Tree) []string {
	var ids []string
	for _, n := range tree.PreOrder() {
		if n.IsInteractive && n.ExternalID != "" {
			ids = append(ids, n.ExternalID)
		}
	}
	return ids
}
