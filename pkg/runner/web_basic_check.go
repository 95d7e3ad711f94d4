package runner

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/webqa-agent/webqa-engine/pkg/browser"
	"github.com/webqa-agent/webqa-engine/pkg/config"
	"github.com/webqa-agent/webqa-engine/pkg/crawler"
	"github.com/webqa-agent/webqa-engine/pkg/model"
	"github.com/webqa-agent/webqa-engine/pkg/webaccess"
)

const maxProbedLinks = 20

// WebBasicCheckRunner extracts hyperlinks from the page and probes the
// main URL plus every extracted link for HTTPS certificate health and
// HTTP reachability.
type WebBasicCheckRunner struct{}

func (r *WebBasicCheckRunner) Run(ctx context.Context, session *browser.Session, cfg model.TestConfiguration, llmCfg config.LLMConfig, targetURL string) *model.TestResult {
	result := model.NewTestResult(cfg)
	start := time.Now()

	tree, err := crawler.Crawl(session.Page(), false, false, false)
	if err != nil {
		return failResult(result, err)
	}

	links := extractLinks(tree.Tree, targetURL)
	targets := append([]string{targetURL}, links...)

	probes := webaccess.CheckAll(ctx, targets, 8)

	for _, p := range probes {
		sub := model.SubTestResult{Name: p.URL, StartTime: time.Now(), EndTime: time.Now()}
		switch {
		case !p.Reachable:
			sub.Status = model.StatusFailed
			sub.Summary = p.Error
		case p.StatusCode >= 400:
			sub.Status = model.StatusFailed
			sub.Summary = fmt.Sprintf("http status %d", p.StatusCode)
		case !p.CertExpiresAt.IsZero() && p.CertExpiringIn < 7*24*time.Hour:
			sub.Status = model.StatusWarning
			sub.Summary = fmt.Sprintf("certificate expires in %s", p.CertExpiringIn.Round(time.Hour))
		default:
			sub.Status = model.StatusPassed
			sub.Summary = fmt.Sprintf("http status %d", p.StatusCode)
		}
		result.SubTests = append(result.SubTests, sub)
	}

	result.DeriveStatus()
	result.StartTime = start
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result
}

// extractLinks walks the tree for anchor href attributes, resolves them
// against base, dedupes, and caps the result at maxProbedLinks.
func extractLinks(tree *crawler.Tree, base string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var links []string
	for _, n := range tree.PreOrder() {
		if n.Tag != "a" {
			continue
		}
		href, ok := n.Attributes["href"]
		if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			continue
		}
		resolved, err := baseURL.Parse(href)
		if err != nil {
			continue
		}
		abs := resolved.String()
		if seen[abs] {
			continue
		}
		seen[abs] = true
		links = append(links, abs)
		if len(links) >= maxProbedLinks {
			break
		}
	}
	return links
}
