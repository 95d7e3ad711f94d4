package config

import (
	"time"

	"github.com/webqa-agent/webqa-engine/pkg/model"
)

// Defaults mirror the reference implementation's hard-coded constants,
// applied wherever the YAML document leaves a field zero-valued.
var Defaults = Config{
	LLM: LLMConfig{
		API:         "openai",
		Temperature: 0.0,
		TopP:        1.0,
		TimeoutSecs: 60,
	},
	Browser: model.BrowserConfig{
		Viewport: model.DefaultViewport,
		Headless: true,
		Language: "en-US",
	},
	Queue: QueueConfig{
		PollInterval:       2 * time.Second,
		MaxConcurrentTests: 4,
		SessionTimeout:     10 * time.Minute,
		HeartbeatInterval:  5 * time.Second,
	},
}
