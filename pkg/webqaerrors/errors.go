// Package webqaerrors defines the sentinel and typed errors shared across
// the engine's components, so callers can classify failures with
// errors.Is/errors.As instead of string matching.
package webqaerrors

import "errors"

// Sentinel errors. Low-level operations prefer returning a structured
// {success, message} result over raising one of these; these are reserved
// for system-level failures that a caller cannot route around.
var (
	// ErrConfig covers missing/invalid LLM credentials, all-disabled test
	// configurations, or an invalid browser configuration.
	ErrConfig = errors.New("configuration error")

	// ErrBrowserLaunch is returned when the underlying browser process or
	// context fails to start.
	ErrBrowserLaunch = errors.New("browser launch failed")

	// ErrNavigation is returned when page navigation fails outright (as
	// opposed to landing on a blank page, see ErrBlankPage).
	ErrNavigation = errors.New("navigation failed")

	// ErrBlankPage is returned when navigation completes but
	// document.body.innerText is blank.
	ErrBlankPage = errors.New("page body is blank after navigation")

	// ErrCrawl covers page-side evaluate failures during DOM crawling.
	ErrCrawl = errors.New("dom crawl failed")

	// ErrAction covers invalid action parameters or an unknown action type.
	ErrAction = errors.New("action error")

	// ErrLLM covers LLM API failures, invalid JSON, or an empty response.
	ErrLLM = errors.New("llm error")

	// ErrPlan is returned when the planner produced no actions after
	// exhausting its retries.
	ErrPlan = errors.New("planner produced no actions")

	// ErrDependency is returned for unresolvable or cyclic test
	// dependencies (cycles are not supported; ordering is linear).
	ErrDependency = errors.New("dependency error")

	// ErrRunner covers unrecoverable errors inside a test runner.
	ErrRunner = errors.New("runner error")

	// ErrNoTaskAvailable indicates the submission queue has nothing queued.
	ErrNoTaskAvailable = errors.New("no task available")

	// ErrTaskNotFound indicates a lookup against an unknown task_id.
	ErrTaskNotFound = errors.New("task not found")
)

// ValidationError wraps a field-specific configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error on field '" + e.Field + "': " + e.Message
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
