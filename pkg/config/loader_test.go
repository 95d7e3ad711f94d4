package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "webqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaultsAndMergesOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	path := writeConfig(t, `
llm:
  api: openai
  model: gpt-4o
  api_key_env: OPENAI_API_KEY
  temperature: 0.5
tests:
  - test_id: t1
    test_type: web_basic_check
    test_name: basic check
    enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 0.5, cfg.LLM.Temperature)
	assert.Equal(t, 1.0, cfg.LLM.TopP) // inherited from Defaults, not overridden
	assert.True(t, cfg.Browser.Headless)
	require.Len(t, cfg.Tests, 1)
	assert.Equal(t, cfg.Browser.Viewport, cfg.Tests[0].BrowserConfig.Viewport)
}

func TestLoad_MissingAPIKeyEnv(t *testing.T) {
	os.Unsetenv("MISSING_KEY_XYZ")
	path := writeConfig(t, `
llm:
  api: openai
  model: gpt-4o
  api_key_env: MISSING_KEY_XYZ
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestLoad_AllTestsDisabled(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	path := writeConfig(t, `
llm:
  api: openai
  model: gpt-4o
  api_key_env: OPENAI_API_KEY
tests:
  - test_id: t1
    test_type: web_basic_check
    test_name: disabled check
    enabled: false
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTestsEnabled)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestNewRunContext_UsesTimestampOverride(t *testing.T) {
	t.Setenv("WEBQA_TIMESTAMP", "20260730")
	t.Setenv("DOCKER_ENV", "")
	rc := NewRunContext("")
	assert.Equal(t, "20260730", rc.Timestamp)
	assert.Contains(t, rc.ReportDir, "test_20260730")
	assert.False(t, rc.DockerEnv)
}
