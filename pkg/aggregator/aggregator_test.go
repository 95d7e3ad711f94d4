package aggregator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webqa-agent/webqa-engine/pkg/model"
)

func session(t *testing.T) *model.TestSession {
	t.Helper()
	s := model.NewTestSession("sess-1", "https://example.com")
	s.AddTestConfiguration(model.TestConfiguration{TestID: "t1", Enabled: true})
	s.AddTestConfiguration(model.TestConfiguration{TestID: "t2", Enabled: true})
	return s
}

func TestAggregate_CountsAndErrorMessages(t *testing.T) {
	s := session(t)
	s.UpdateTestResult("t1", &model.TestResult{
		TestID:       "t1",
		ErrorMessage: "browser launch failed",
		SubTests: []model.SubTestResult{
			{Name: "a", Status: model.StatusPassed},
			{Name: "b", Status: model.StatusFailed, Summary: "element not found"},
		},
	})
	s.UpdateTestResult("t2", &model.TestResult{
		TestID: "t2",
		SubTests: []model.SubTestResult{
			{Name: "c", Status: model.StatusWarning, Summary: "slow response, 建议 optimizing"},
		},
	})

	report := Aggregate(context.Background(), s, nil)

	assert.Equal(t, 3, report.Summary.TotalSubtests)
	assert.Equal(t, 1, report.Summary.PassedSubtests)
	assert.Equal(t, 2, report.Summary.FailedSubtests)

	// one issue from the non-empty error_message, two from non-passed sub-tests
	assert.Len(t, report.Issues, 3)
}

func TestHeuristicSeverity_KeywordsThenStatusFallback(t *testing.T) {
	assert.Equal(t, "high", heuristicSeverity(model.SubTestResult{Summary: "崩溃 during checkout", Status: model.StatusWarning}))
	assert.Equal(t, "low", heuristicSeverity(model.SubTestResult{Summary: "建议 improving contrast", Status: model.StatusFailed}))
	assert.Equal(t, "low", heuristicSeverity(model.SubTestResult{Summary: "", Status: model.StatusWarning}))
	assert.Equal(t, "high", heuristicSeverity(model.SubTestResult{Summary: "", Status: model.StatusFailed}))
	assert.Equal(t, "medium", heuristicSeverity(model.SubTestResult{Summary: "", Status: model.StatusIncompleted}))
}
