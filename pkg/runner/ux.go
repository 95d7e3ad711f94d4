package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/webqa-agent/webqa-engine/pkg/browser"
	"github.com/webqa-agent/webqa-engine/pkg/config"
	"github.com/webqa-agent/webqa-engine/pkg/crawler"
	"github.com/webqa-agent/webqa-engine/pkg/llmclient"
	"github.com/webqa-agent/webqa-engine/pkg/model"
)

// UXTestRunner runs a text-content check and a visual-content check over
// the page, using the LLM as the judge for both.
type UXTestRunner struct{}

func (r *UXTestRunner) Run(ctx context.Context, session *browser.Session, cfg model.TestConfiguration, llmCfg config.LLMConfig, targetURL string) *model.TestResult {
	result := model.NewTestResult(cfg)

	llm, err := llmclient.NewOpenAIClient(llmCfg)
	if err != nil {
		return failResult(result, err)
	}
	defer llm.Close()

	start := time.Now()
	textResult := r.textCheck(ctx, session, llm)
	contentResult := r.contentCheck(ctx, session, llm)

	result.SubTests = []model.SubTestResult{textResult, contentResult}
	result.DeriveStatus()
	result.StartTime = start
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result
}

const uxSystemPrompt = `You review web page text for clarity, spelling, and consistency issues.
Respond with "Validation Passed" or "Validation Failed: <reason>".`

func (r *UXTestRunner) textCheck(ctx context.Context, session *browser.Session, llm llmclient.Client) model.SubTestResult {
	sub := model.SubTestResult{Name: "text_check", Status: model.StatusPassed, StartTime: time.Now()}

	body, err := session.Page().InnerText("body")
	if err != nil {
		sub.Status = model.StatusFailed
		sub.Summary = err.Error()
		sub.EndTime = time.Now()
		return sub
	}

	raw, err := llm.GetResponse(ctx, uxSystemPrompt, fmt.Sprintf("Page text:\n%s", body), nil)
	if err != nil {
		sub.Status = model.StatusFailed
		sub.Summary = err.Error()
	} else if !startsWithPassed(raw) {
		sub.Status = model.StatusFailed
		sub.Summary = raw
	} else {
		sub.Summary = "text content looks consistent"
	}
	sub.EndTime = time.Now()
	return sub
}

const contentSystemPrompt = `You review a sequence of full-page screenshots (scrolled top to bottom)
for layout, overlap, or rendering issues. Respond with "Validation Passed" or
"Validation Failed: <reason>".`

func (r *UXTestRunner) contentCheck(ctx context.Context, session *browser.Session, llm llmclient.Client) model.SubTestResult {
	sub := model.SubTestResult{Name: "content_check", Status: model.StatusPassed, StartTime: time.Now()}

	result, err := crawler.Crawl(session.Page(), false, false, false)
	if err != nil {
		sub.Status = model.StatusFailed
		sub.Summary = err.Error()
		sub.EndTime = time.Now()
		return sub
	}

	shots, err := scrolledScreenshots(session)
	if err != nil {
		sub.Status = model.StatusFailed
		sub.Summary = err.Error()
		sub.EndTime = time.Now()
		return sub
	}

	images := make([]llmclient.Image, 0, len(shots))
	for _, s := range shots {
		images = append(images, llmclient.Image{URL: "data:image/png;base64," + s, Detail: "low"})
	}

	raw, err := llm.GetResponse(ctx, contentSystemPrompt, fmt.Sprintf("Element count on page: %d", len(result.Tree.Nodes)), images)
	switch {
	case err != nil:
		sub.Status = model.StatusFailed
		sub.Summary = err.Error()
	case !startsWithPassed(raw):
		sub.Status = model.StatusFailed
		sub.Summary = raw
	default:
		sub.Summary = "visual layout looks consistent"
	}
	sub.EndTime = time.Now()
	return sub
}

func startsWithPassed(s string) bool {
	return len(s) >= len("Validation Passed") && s[:len("Validation Passed")] == "Validation Passed"
}
