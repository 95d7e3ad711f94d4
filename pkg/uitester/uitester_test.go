package uitester

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webqa-agent/webqa-engine/pkg/model"
)

func TestStartCase_ForceFinishesOpenCaseAsIncompleted(t *testing.T) {
	u := &UITester{}

	u.StartCase("case one")
	u.recordStep(u.newStep("do a thing", "action"))

	u.StartCase("case two")

	if assert.Len(t, u.allCases, 1) {
		assert.Equal(t, "case one", u.allCases[0].Name)
		assert.Equal(t, model.StatusIncompleted, u.allCases[0].Status)
		assert.Equal(t, "interrupted by new case start", u.allCases[0].Summary)
	}
	assert.Equal(t, "case two", u.currentName)
	assert.Equal(t, 0, u.stepCounter)
}

func TestNewStep_AssignsMonotonicIDs(t *testing.T) {
	u := &UITester{}
	u.StartCase("case")

	s1 := u.newStep("first", "action")
	s2 := u.newStep("second", "verify")

	assert.Equal(t, 1, s1.ID)
	assert.Equal(t, 2, s2.ID)
}

func TestGenerateRunnerFormatReport_DerivesStatusFromCases(t *testing.T) {
	u := &UITester{}
	u.StartCase("passing case")
	u.FinishCase(model.StatusPassed, "all good")
	u.StartCase("failing case")
	u.FinishCase(model.StatusFailed, "broke")

	report := u.GenerateRunnerFormatReport(model.TestConfiguration{
		TestID:   "t1",
		TestType: model.TestTypeUIAgentLangGraph,
		TestName: "example",
	})

	assert.Len(t, report.SubTests, 2)
	assert.Equal(t, model.StatusFailed, report.Status)
}

func TestCoerceDetails(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, coerceDetails([]any{"a", "b", 3}))
	assert.Equal(t, []string{"only"}, coerceDetails("only"))
	assert.Nil(t, coerceDetails(nil))
}
