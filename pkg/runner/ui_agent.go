package runner

import (
	"context"
	"time"

	"github.com/webqa-agent/webqa-engine/pkg/action"
	"github.com/webqa-agent/webqa-engine/pkg/agentloop"
	"github.com/webqa-agent/webqa-engine/pkg/browser"
	"github.com/webqa-agent/webqa-engine/pkg/config"
	"github.com/webqa-agent/webqa-engine/pkg/llmclient"
	"github.com/webqa-agent/webqa-engine/pkg/model"
	"github.com/webqa-agent/webqa-engine/pkg/uitester"
)

// UIAgentLangGraphRunner drives the agent loop state machine to
// termination and folds its per-case recordings into a TestResult.
type UIAgentLangGraphRunner struct{}

func (r *UIAgentLangGraphRunner) Run(ctx context.Context, session *browser.Session, cfg model.TestConfiguration, llmCfg config.LLMConfig, targetURL string) *model.TestResult {
	result := model.NewTestResult(cfg)
	result.Status = model.StatusRunning

	llm, err := llmclient.NewOpenAIClient(llmCfg)
	if err != nil {
		return failResult(result, err)
	}
	defer llm.Close()

	handler := action.NewHandler(session.Page())
	tester := uitester.New(session.Page(), handler, llm)

	objectives := cfg.StringConfig("business_objectives")
	cookies := cfg.BrowserConfig.Cookies

	st := agentloop.NewState(targetURL, objectives, cookies)
	loop := &agentloop.Loop{Session: session, UITester: tester, LLM: llm}

	start := time.Now()
	if _, err := loop.Run(ctx, st); err != nil {
		return failResult(result, err)
	}

	report := tester.GenerateRunnerFormatReport(cfg)
	report.StartTime = start
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	return report
}

func failResult(result *model.TestResult, err error) *model.TestResult {
	result.Status = model.StatusFailed
	result.ErrorMessage = err.Error()
	result.EndTime = time.Now()
	return result
}
