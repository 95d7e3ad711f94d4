package config

import "errors"

// Load/validation sentinel errors.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidYAML    = errors.New("invalid yaml")
	ErrNoAPIKey       = errors.New("llm api key environment variable is unset")
	ErrNoTestsEnabled = errors.New("no test configurations are enabled")
)
