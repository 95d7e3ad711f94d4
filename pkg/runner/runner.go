// Package runner implements the per-test-type drivers the parallel
// executor dispatches to: each accepts a browser session, a test
// configuration, LLM settings, and a target URL, and returns a TestResult.
package runner

import (
	"context"

	"github.com/webqa-agent/webqa-engine/pkg/browser"
	"github.com/webqa-agent/webqa-engine/pkg/config"
	"github.com/webqa-agent/webqa-engine/pkg/model"
)

// Runner executes one TestConfiguration against an already-navigated
// browser session (nil for SECURITY_TEST, which needs no browser).
type Runner interface {
	Run(ctx context.Context, session *browser.Session, cfg model.TestConfiguration, llmCfg config.LLMConfig, targetURL string) *model.TestResult
}

// For dispatches a TestType to its concrete Runner.
func For(t model.TestType) Runner {
	switch t {
	case model.TestTypeUIAgentLangGraph:
		return &UIAgentLangGraphRunner{}
	case model.TestTypeUXTest:
		return &UXTestRunner{}
	case model.TestTypeButtonTest:
		return &ButtonTestRunner{}
	case model.TestTypeWebBasicCheck:
		return &WebBasicCheckRunner{}
	case model.TestTypePerformance:
		return &LighthouseTestRunner{}
	case model.TestTypeSecurityTest:
		return &SecurityTestRunner{}
	default:
		return nil
	}
}
