package uitester

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/webqa-agent/webqa-engine/pkg/llmclient"
)

const plannerSystemPrompt = `You are a web UI test planner. Given an instruction, the page's
interactive element map, and a screenshot, respond with a single JSON object:
{"actions": [{"type": "...", "id": "...", ...}], "taskWillBeAccomplished": bool}.
Only reference element ids that appear in the element map. Respond with JSON only.`

func (u *UITester) callPlanner(ctx context.Context, instruction, pageText, screenshotB64 string) (plannerResponse, error) {
	userPrompt := fmt.Sprintf("Instruction: %s\n\nInteractive elements:\n%s", instruction, pageText)
	raw, err := u.llm.GetResponse(ctx, plannerSystemPrompt, userPrompt, []llmclient.Image{
		{URL: dataURI(screenshotB64), Detail: "low"},
	})
	if err != nil {
		return plannerResponse{}, err
	}

	var resp plannerResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return plannerResponse{}, fmt.Errorf("parsing planner response: %w", err)
	}
	return resp, nil
}

const verifierSystemPrompt = `You are a web UI test verifier. Given an assertion, the page's text
structure, and two screenshots (one with elements highlighted, one plain), respond with a single
JSON object: {"Validation Result": "Validation Passed"|"Validation Failed", "Details": ["..."]}.
Respond with JSON only.`

func (u *UITester) callVerifier(ctx context.Context, assertion, pageText, markerShotB64, plainShotB64 string) (verifyResponse, error) {
	userPrompt := fmt.Sprintf("Assertion: %s\n\nPage structure:\n%s", assertion, pageText)
	raw, err := u.llm.GetResponse(ctx, verifierSystemPrompt, userPrompt, []llmclient.Image{
		{URL: dataURI(markerShotB64), Detail: "low"},
		{URL: dataURI(plainShotB64), Detail: "low"},
	})
	if err != nil {
		return verifyResponse{}, err
	}

	var resp verifyResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		// Defensive: a bare string "Details" is coerced to a one-element
		// slice rather than accepted, per the verifier's output contract.
		var loose struct {
			Result  string `json:"Validation Result"`
			Details any    `json:"Details"`
		}
		if jsonErr := json.Unmarshal([]byte(raw), &loose); jsonErr == nil {
			resp.Result = loose.Result
			resp.Details = coerceDetails(loose.Details)
			return resp, nil
		}
		return verifyResponse{}, fmt.Errorf("parsing verifier response: %w", err)
	}
	return resp, nil
}

func coerceDetails(v any) []string {
	switch d := v.(type) {
	case []any:
		out := make([]string, 0, len(d))
		for _, item := range d {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{d}
	default:
		return nil
	}
}

func dataURI(b64 string) string {
	return "data:image/png;base64," + b64
}
