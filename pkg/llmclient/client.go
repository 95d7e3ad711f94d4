// Package llmclient is the engine's single point of contact with the
// language model: a synchronous, OpenAI-compatible chat-completion
// contract consumed by the planner, the verifier, and the agent loop.
package llmclient

import "context"

// Client is the capability surface the rest of the engine depends on.
// Implementations are expected to normalize the raw completion text
// (stripping markdown code fences) before returning it.
type Client interface {
	// GetResponse sends systemPrompt + userPrompt (plus optional images) and
	// returns the model's normalized text response.
	GetResponse(ctx context.Context, systemPrompt, userPrompt string, images []Image) (string, error)
	Close() error
}

// Image is either a remote URL or a base64-encoded data URI; Detail
// mirrors the OpenAI vision "detail" hint and defaults to "low" to keep
// per-screenshot token cost down across the many calls one test makes.
type Image struct {
	URL    string
	Detail string
}
