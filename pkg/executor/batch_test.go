package executor

import (
	"testing"

	"github.com/webqa-agent/webqa-engine/pkg/model"
)

func cfg(id string, deps ...string) model.TestConfiguration {
	return model.TestConfiguration{TestID: id, Dependencies: deps}
}

func TestResolveBatches_IndependentBeforeDependent(t *testing.T) {
	configs := []model.TestConfiguration{
		cfg("a"), cfg("b"), cfg("c"),
		cfg("d", "a"), cfg("e", "a"),
	}
	batches := ResolveBatches(configs, 2)

	if len(batches) != 3 {
		t.Fatalf("expected 3 batches (2 independent chunks + 1 dependent chunk), got %d", len(batches))
	}
	if len(batches[0]) != 2 || len(batches[1]) != 1 {
		t.Errorf("unexpected independent chunk sizes: %d, %d", len(batches[0]), len(batches[1]))
	}
	if len(batches[2]) != 2 {
		t.Errorf("expected dependent chunk of 2, got %d", len(batches[2]))
	}
	for _, c := range batches[2] {
		if len(c.Dependencies) == 0 {
			t.Errorf("dependent batch contains an independent config: %s", c.TestID)
		}
	}
}

func TestResolveBatches_ZeroMaxConcurrentTreatedAsOne(t *testing.T) {
	batches := ResolveBatches([]model.TestConfiguration{cfg("a"), cfg("b")}, 0)
	if len(batches) != 2 {
		t.Fatalf("expected 2 single-item batches, got %d", len(batches))
	}
}
