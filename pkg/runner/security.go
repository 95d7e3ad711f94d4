package runner

import (
	"context"
	"os/exec"
	"time"

	"github.com/webqa-agent/webqa-engine/pkg/browser"
	"github.com/webqa-agent/webqa-engine/pkg/config"
	"github.com/webqa-agent/webqa-engine/pkg/model"
)

// SecurityTestRunner shells out to nuclei. It needs no browser session
// (the parallel executor assigns it the sentinel session_id) and skips
// with INCOMPLETED if the tool isn't installed.
type SecurityTestRunner struct{}

func (r *SecurityTestRunner) Run(ctx context.Context, session *browser.Session, cfg model.TestConfiguration, llmCfg config.LLMConfig, targetURL string) *model.TestResult {
	result := model.NewTestResult(cfg)
	start := time.Now()

	if _, err := exec.LookPath("nuclei"); err != nil {
		result.Status = model.StatusIncompleted
		result.ErrorMessage = "nuclei CLI not found on PATH"
		result.StartTime = start
		result.EndTime = time.Now()
		return result
	}

	cmd := exec.CommandContext(ctx, "nuclei", "-u", targetURL, "-jsonl")
	output, err := cmd.CombinedOutput()

	sub := model.SubTestResult{Name: "nuclei_scan", StartTime: start, EndTime: time.Now()}
	if err != nil {
		sub.Status = model.StatusWarning
		sub.Summary = "nuclei exited non-zero: " + string(output)
	} else if len(output) > 0 {
		sub.Status = model.StatusWarning
		sub.Summary = "findings reported"
	} else {
		sub.Status = model.StatusPassed
		sub.Summary = "no findings"
	}
	result.SubTests = []model.SubTestResult{sub}
	result.DeriveStatus()
	result.StartTime = start
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result
}
