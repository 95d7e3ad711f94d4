// Package config loads and validates the engine's YAML configuration:
// LLM credentials, browser defaults, queue tuning, and the run-scoped
// report-directory context.
package config

import (
	"time"

	"github.com/webqa-agent/webqa-engine/pkg/model"
)

// LLMConfig describes how to reach the model backend.
type LLMConfig struct {
	API         string  `yaml:"api" validate:"required,oneof=openai"`
	Model       string  `yaml:"model" validate:"required"`
	APIKeyEnv   string  `yaml:"api_key_env" validate:"required"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty" validate:"omitempty,min=0,max=2"`
	TopP        float64 `yaml:"top_p,omitempty" validate:"omitempty,min=0,max=1"`
	TimeoutSecs int     `yaml:"timeout_seconds,omitempty" validate:"omitempty,min=1"`
}

// Timeout returns the configured LLM request timeout, defaulting to 60s
// to match the reference client's per-call timeout.
func (c LLMConfig) Timeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// QueueConfig tunes the submission queue's single background worker.
type QueueConfig struct {
	PollInterval       time.Duration `yaml:"poll_interval,omitempty"`
	MaxConcurrentTests int           `yaml:"max_concurrent_tests,omitempty" validate:"omitempty,min=1"`
	SessionTimeout     time.Duration `yaml:"session_timeout,omitempty"`
	HeartbeatInterval  time.Duration `yaml:"heartbeat_interval,omitempty"`
}

// RunContext carries per-invocation values (timestamp, report directory,
// whether we're in a container) threaded explicitly instead of through
// environment/global state.
type RunContext struct {
	Timestamp string
	ReportDir string
	DockerEnv bool
}

// EngineYAMLConfig is the root of the on-disk YAML document.
type EngineYAMLConfig struct {
	LLM     *LLMConfig          `yaml:"llm"`
	Browser *model.BrowserConfig `yaml:"browser"`
	Queue   *QueueConfig        `yaml:"queue"`
	Tests   []model.TestConfiguration `yaml:"tests"`
}

// Config is the fully loaded, validated, default-merged configuration
// ready for use by the rest of the engine.
type Config struct {
	LLM     LLMConfig
	Browser model.BrowserConfig
	Queue   QueueConfig
	Tests   []model.TestConfiguration
	Run     RunContext
}
