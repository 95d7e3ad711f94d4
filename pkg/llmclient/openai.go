package llmclient

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/webqa-agent/webqa-engine/pkg/config"
	"github.com/webqa-agent/webqa-engine/pkg/webqaerrors"
)

// OpenAIClient is the default Client, backed by an OpenAI-compatible chat
// completions endpoint (works against OpenAI itself or any
// gateway/proxy that speaks the same wire format, via BaseURL).
type OpenAIClient struct {
	client      openai.Client
	model       string
	temperature float64
	topP        float64
	timeout     time.Duration
}

// NewOpenAIClient builds a Client from cfg. The API key is read from the
// environment variable cfg.APIKeyEnv — never taken directly from YAML.
func NewOpenAIClient(cfg config.LLMConfig) (*OpenAIClient, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s is unset", webqaerrors.ErrConfig, cfg.APIKeyEnv)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		timeout:     cfg.Timeout(),
	}, nil
}

// GetResponse builds a system+user message (optionally with image_url
// content parts at low detail) and returns the normalized completion text.
func (c *OpenAIClient) GetResponse(ctx context.Context, systemPrompt, userPrompt string, images []Image) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	userParts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(userPrompt),
	}
	for _, img := range images {
		detail := img.Detail
		if detail == "" {
			detail = "low"
		}
		userParts = append(userParts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    img.URL,
			Detail: detail,
		}))
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(userParts),
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    messages,
		Temperature: openai.Float(c.temperature),
		TopP:        openai.Float(c.topP),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", webqaerrors.ErrLLM, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices in completion response", webqaerrors.ErrLLM)
	}

	return CleanResponse(resp.Choices[0].Message.Content), nil
}

// Close releases client resources. The OpenAI SDK's HTTP client needs no
// explicit teardown; this exists to satisfy Client and mirror the
// reference implementation's symmetrical initialize/close pair.
func (c *OpenAIClient) Close() error { return nil }

// CleanResponse strips a single layer of markdown code-fence wrapping
// (```json ... ``` or ``` ... ```) from a completion's raw text, exactly as
// the reference LLM client does before handing the text to a JSON parser.
func CleanResponse(response string) string {
	trimmed := strings.TrimSpace(response)
	switch {
	case strings.HasPrefix(trimmed, "```json") && strings.HasSuffix(trimmed, "```"):
		return strings.TrimSpace(trimmed[len("```json") : len(trimmed)-len("```")])
	case strings.HasPrefix(trimmed, "```") && strings.HasSuffix(trimmed, "```"):
		return strings.TrimSpace(trimmed[len("```") : len(trimmed)-len("```")])
	default:
		return trimmed
	}
}
