package aggregator

import (
	"context"
	"encoding/json"

	"github.com/webqa-agent/webqa-engine/pkg/llmclient"
	"github.com/webqa-agent/webqa-engine/pkg/model"
)

const issueSystemPrompt = `You review one failing or warning UI test sub-result and extract its
issues. Respond with a single JSON object: {"issue_count": int, "issues": ["..."], "severity":
"high"|"medium"|"low"}. Respond with JSON only.`

type issueExtraction struct {
	IssueCount int      `json:"issue_count"`
	Issues     []string `json:"issues"`
	Severity   string   `json:"severity"`
}

// extractWithLLM asks the LLM to extract issues from one sub-test's
// compact JSON (name, status, summary, steps). Returns ok=false on any
// transport or parse failure so the caller falls back to the heuristic.
func extractWithLLM(ctx context.Context, llm llmclient.Client, testID string, sub model.SubTestResult) (Issue, bool) {
	compact, err := json.Marshal(map[string]any{
		"name":          sub.Name,
		"status":        sub.Status,
		"final_summary": sub.Summary,
		"step_count":    len(sub.Steps),
	})
	if err != nil {
		return Issue{}, false
	}

	raw, err := llm.GetResponse(ctx, issueSystemPrompt, string(compact), nil)
	if err != nil {
		return Issue{}, false
	}

	var extraction issueExtraction
	if err := json.Unmarshal([]byte(raw), &extraction); err != nil {
		return Issue{}, false
	}

	severity := extraction.Severity
	if severity == "" {
		severity = heuristicSeverity(sub)
	}

	message := sub.Summary
	if len(extraction.Issues) > 0 {
		message = extraction.Issues[0]
	}

	return Issue{TestID: testID, SubTest: sub.Name, Severity: severity, Message: message}, true
}
