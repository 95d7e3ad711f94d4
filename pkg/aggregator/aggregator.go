// Package aggregator folds a finished TestSession into the two-tab report
// structure the HTML/JSON reports render: an executive summary and an
// issue list, plus the JSON/HTML report writers.
package aggregator

import (
	"context"
	"strings"

	"github.com/webqa-agent/webqa-engine/pkg/llmclient"
	"github.com/webqa-agent/webqa-engine/pkg/model"
)

// Issue is one entry in the "问题列表" tab.
type Issue struct {
	TestID   string `json:"test_id"`
	SubTest  string `json:"sub_test,omitempty"`
	Severity string `json:"severity"` // high | medium | low
	Message  string `json:"message"`
}

// Summary is the "摘要与建议" tab.
type Summary struct {
	TotalSubtests  int `json:"total_subtests"`
	PassedSubtests int `json:"passed_subtests"`
	FailedSubtests int `json:"failed_subtests"`
}

// Report is the full aggregate_results output.
type Report struct {
	Summary Summary `json:"summary"`
	Issues  []Issue `json:"issues"`
}

// Aggregate folds session into a Report. When llm is non-nil, non-passed
// sub-tests are sent to it for issue extraction; otherwise (or on LLM
// failure) severity falls back to a keyword heuristic.
func Aggregate(ctx context.Context, session *model.TestSession, llm llmclient.Client) Report {
	results := session.Results()

	report := Report{}
	for testID, result := range results {
		if result.ErrorMessage != "" {
			report.Issues = append(report.Issues, Issue{
				TestID: testID, Severity: "high", Message: result.ErrorMessage,
			})
		}

		for _, sub := range result.SubTests {
			report.Summary.TotalSubtests++
			if sub.Status == model.StatusPassed {
				report.Summary.PassedSubtests++
				continue
			}
			report.Issues = append(report.Issues, issueFor(ctx, llm, testID, sub))
		}
	}
	report.Summary.FailedSubtests = report.Summary.TotalSubtests - report.Summary.PassedSubtests
	return report
}

func issueFor(ctx context.Context, llm llmclient.Client, testID string, sub model.SubTestResult) Issue {
	if llm != nil {
		if issue, ok := extractWithLLM(ctx, llm, testID, sub); ok {
			return issue
		}
	}
	return Issue{
		TestID:   testID,
		SubTest:  sub.Name,
		Severity: heuristicSeverity(sub),
		Message:  sub.Summary,
	}
}

// heuristicSeverity scans final_summary for keywords, then falls back to
// status-derived severity when neither keyword group matches.
func heuristicSeverity(sub model.SubTestResult) string {
	lower := strings.ToLower(sub.Summary)
	highKeywords := []string{"error", "fail", "严重", "错误", "崩溃", "无法"}
	lowKeywords := []string{"warning", "警告", "建议", "优化", "改进"}

	for _, kw := range highKeywords {
		if strings.Contains(lower, kw) {
			return "high"
		}
	}
	for _, kw := range lowKeywords {
		if strings.Contains(lower, kw) {
			return "low"
		}
	}

	switch sub.Status {
	case model.StatusWarning:
		return "low"
	case model.StatusFailed:
		return "high"
	default:
		return "medium"
	}
}
