package aggregator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/webqa-agent/webqa-engine/pkg/model"
)

// GenerateJSONReport writes the session's full snapshot (configurations,
// contexts, results) as test_results.json under reportDir.
func GenerateJSONReport(session *model.TestSession, reportDir string) (string, error) {
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	data, err := json.MarshalIndent(session.MarshalSnapshot(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling test_results.json: %w", err)
	}

	path := filepath.Join(reportDir, "test_results.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing test_results.json: %w", err)
	}
	return path, nil
}

var (
	stylesheetTag = regexp.MustCompile(`<link rel="stylesheet" href="/assets/style\.css">`)
	dataScriptTag = regexp.MustCompile(`<script src="/data\.js"></script>`)
	moduleTag     = regexp.MustCompile(`<script type="module" crossorigin src="/assets/index\.js"></script>`)
)

// GenerateHTMLReport reads templatePath, inlines the report's stylesheet,
// data blob (window.testResultData = ...), and module script by replacing
// three known placeholder tag shapes, and writes test_report.html beside
// the JSON report.
func GenerateHTMLReport(session *model.TestSession, report Report, reportDir, templatePath, cssPath, jsPath string) (string, error) {
	template, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("reading report template: %w", err)
	}
	css, err := os.ReadFile(cssPath)
	if err != nil {
		return "", fmt.Errorf("reading report stylesheet: %w", err)
	}
	js, err := os.ReadFile(jsPath)
	if err != nil {
		return "", fmt.Errorf("reading report script: %w", err)
	}

	dataBlob, err := json.Marshal(struct {
		Session model.TestSessionSnapshot `json:"session"`
		Report  Report                    `json:"report"`
	}{session.MarshalSnapshot(), report})
	if err != nil {
		return "", fmt.Errorf("marshaling report data blob: %w", err)
	}

	html := template
	html = stylesheetTag.ReplaceAll(html, []byte("<style>"+string(css)+"</style>"))
	html = dataScriptTag.ReplaceAll(html, []byte("<script>window.testResultData = "+string(dataBlob)+";</script>"))
	html = moduleTag.ReplaceAll(html, []byte("<script type=\"module\">"+string(js)+"</script>"))

	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}
	path := filepath.Join(reportDir, "test_report.html")
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return "", fmt.Errorf("writing test_report.html: %w", err)
	}
	return path, nil
}
