package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/webqa-agent/webqa-engine/pkg/model"
)

// Load reads configPath, expands environment references, merges it over
// Defaults, and validates the result. This is the single entry point the
// rest of the engine uses to obtain a *Config.
func Load(configPath string) (*Config, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, err
	}
	raw = ExpandEnv(raw)

	var doc EngineYAMLConfig
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	cfg := Defaults
	if doc.LLM != nil {
		if err := mergo.Merge(&cfg.LLM, *doc.LLM, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging llm config: %w", err)
		}
	}
	if doc.Browser != nil {
		if err := mergo.Merge(&cfg.Browser, *doc.Browser, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging browser config: %w", err)
		}
	}
	if doc.Queue != nil {
		if err := mergo.Merge(&cfg.Queue, *doc.Queue, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging queue config: %w", err)
		}
	}
	cfg.Tests = applyTestDefaults(doc.Tests, cfg.Browser)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyTestDefaults fills a TestConfiguration's viewport and language from
// the global browser defaults, and its Timeout with 5 minutes, when the
// test entry leaves them zero-valued.
func applyTestDefaults(tests []model.TestConfiguration, browserDefaults model.BrowserConfig) []model.TestConfiguration {
	out := make([]model.TestConfiguration, len(tests))
	for i, t := range tests {
		if t.BrowserConfig.Viewport == (model.Viewport{}) {
			t.BrowserConfig.Viewport = browserDefaults.Viewport
		}
		if t.BrowserConfig.Language == "" {
			t.BrowserConfig.Language = browserDefaults.Language
		}
		if t.Timeout == 0 {
			t.Timeout = 5 * time.Minute
		}
		out[i] = t
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg.LLM); err != nil {
		return err
	}
	if cfg.LLM.APIKeyEnv != "" {
		if _, ok := os.LookupEnv(cfg.LLM.APIKeyEnv); !ok {
			return fmt.Errorf("%w: %s", ErrNoAPIKey, cfg.LLM.APIKeyEnv)
		}
	}
	if err := validate.Struct(cfg.Queue); err != nil {
		return err
	}
	anyEnabled := false
	for _, t := range cfg.Tests {
		if t.Enabled {
			anyEnabled = true
		}
	}
	if len(cfg.Tests) > 0 && !anyEnabled {
		return ErrNoTestsEnabled
	}
	return nil
}

// NewRunContext resolves the report-directory context for one invocation.
// Timestamp comes from the WEBQA_TIMESTAMP environment variable if set
// (useful for reproducible test fixtures), otherwise it is computed from
// the current time. reportsRoot defaults to "./reports" unless dockerEnv
// is true, matching the reference implementation's /app/reports rewrite.
func NewRunContext(reportsRoot string) RunContext {
	ts := os.Getenv("WEBQA_TIMESTAMP")
	if ts == "" {
		ts = strconv.FormatInt(time.Now().Unix(), 10)
	}
	dockerEnv := os.Getenv("DOCKER_ENV") == "true"
	if reportsRoot == "" {
		if dockerEnv {
			reportsRoot = "/app/reports"
		} else {
			reportsRoot = "./reports"
		}
	}
	return RunContext{
		Timestamp: ts,
		ReportDir: filepath.Join(reportsRoot, "test_"+ts),
		DockerEnv: dockerEnv,
	}
}
