// Package executor runs a TestSession's configurations to completion:
// batching by dependency, bounding concurrency per batch, and guaranteeing
// a finalize step that closes sessions and produces report artifacts.
package executor

import (
	"github.com/webqa-agent/webqa-engine/pkg/model"
)

// ResolveBatches splits configs into ordered batches: independent tests
// (no Dependencies) first, chunked by maxConcurrent, followed by
// dependent tests chunked the same way. Dependent batches always run
// after every independent batch, in submission order within each group.
func ResolveBatches(configs []model.TestConfiguration, maxConcurrent int) [][]model.TestConfiguration {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	var independent, dependent []model.TestConfiguration
	for _, c := range configs {
		if len(c.Dependencies) == 0 {
			independent = append(independent, c)
		} else {
			dependent = append(dependent, c)
		}
	}

	batches := chunk(independent, maxConcurrent)
	batches = append(batches, chunk(dependent, maxConcurrent)...)
	return batches
}

func chunk(items []model.TestConfiguration, size int) [][]model.TestConfiguration {
	var out [][]model.TestConfiguration
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}
