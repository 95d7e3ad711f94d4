package agentloop

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/webqa-agent/webqa-engine/pkg/llmclient"
)

const plannerSystemPrompt = `You are a web QA test planner. Given a target URL and business
objectives, produce a JSON array of test cases, each shaped as
{"name":"...", "objective":"...", "success_criteria":"...",
"steps":[{"kind":"action"|"verify","instruction":"..."}],
"preamble_actions":[...], "reset_session": bool}. Respond with JSON only.`

type planList struct {
	Cases []TestCase `json:"cases"`
}

// callPlanner asks the LLM for a fresh list of test cases against a
// highlighted screenshot of the target page.
func callPlanner(ctx context.Context, llm llmclient.Client, targetURL, objectives, screenshotB64 string) ([]TestCase, error) {
	userPrompt := fmt.Sprintf("Target URL: %s\nBusiness objectives: %s", targetURL, objectives)
	raw, err := llm.GetResponse(ctx, plannerSystemPrompt, userPrompt, []llmclient.Image{
		{URL: "data:image/png;base64," + screenshotB64, Detail: "low"},
	})
	if err != nil {
		return nil, err
	}

	cases, err := parseCaseList(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing planner response: %w", err)
	}
	for i := range cases {
		cases[i].Status = "pending"
		if cases[i].URL == "" {
			cases[i].URL = targetURL
		}
	}
	return cases, nil
}

// parseCaseList accepts either a bare JSON array or {"cases":[...]}, since
// planner prompts are not always disciplined about the outer shape.
func parseCaseList(raw string) ([]TestCase, error) {
	var cases []TestCase
	if err := json.Unmarshal([]byte(raw), &cases); err == nil {
		return cases, nil
	}
	var wrapped planList
	if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Cases, nil
}

const reflectionSystemPrompt = `You are a web QA test reflector. Given business objectives, the
current plan, completed cases, the page structure, and interactive elements, decide whether to
CONTINUE to the next case, REPLAN with a revised case list, or FINISH. Respond with a single JSON
object: {"decision":"CONTINUE"|"REPLAN"|"FINISH","reasoning":"...","new_plan":[...]}. Respond with
JSON only.`

type reflectionResponse struct {
	Decision  string     `json:"decision"`
	Reasoning string     `json:"reasoning"`
	NewPlan   []TestCase `json:"new_plan,omitempty"`
}

// callReflector is defensive per the reflection prompt contract: malformed
// JSON or an LLM error falls back to CONTINUE with a low-confidence reason
// rather than aborting the run.
func callReflector(ctx context.Context, llm llmclient.Client, objectives string, plan []TestCase, completed []CaseResult, pageStructure, interactiveElements string) reflectionResponse {
	userPrompt := fmt.Sprintf(
		"Business objectives: %s\nCurrent plan: %s\nCompleted cases: %s\nPage structure:\n%s\nInteractive elements:\n%s",
		objectives, summarizeCases(plan), summarizeResults(completed), pageStructure, interactiveElements,
	)

	raw, err := llm.GetResponse(ctx, reflectionSystemPrompt, userPrompt, nil)
	if err != nil {
		return reflectionResponse{Decision: "CONTINUE", Reasoning: "reflection call failed, continuing: " + err.Error()}
	}

	var resp reflectionResponse
	if err := json.Unmarshal([]byte(stripFence(raw)), &resp); err != nil {
		return reflectionResponse{Decision: "CONTINUE", Reasoning: "unparseable reflection response, continuing"}
	}
	if resp.Decision == "" {
		resp.Decision = "CONTINUE"
	}
	return resp
}

func summarizeCases(cases []TestCase) string {
	names := make([]string, 0, len(cases))
	for _, c := range cases {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

func summarizeResults(results []CaseResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("%s:%s", r.Case.Name, r.Status))
	}
	return strings.Join(parts, ", ")
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
