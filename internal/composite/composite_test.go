package composite

import (
	"testing"

	"github.com/oceanic/riskscreen/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateTakesMaxOfComponents(t *testing.T) {
	results := []models.CheckResult{
		{DescriptorID: "a", Level: models.RiskNone},
		{DescriptorID: "b", Level: models.RiskMedium},
		{DescriptorID: "c", Level: models.RiskNone},
	}
	out := Evaluate("vessel_composite", "9842190", "", results)
	assert.Equal(t, models.RiskMedium, out.Level)
}

func TestEvaluateAllCleanIsNone(t *testing.T) {
	results := []models.CheckResult{
		{DescriptorID: "a", Level: models.RiskNone},
		{DescriptorID: "b", Level: models.RiskNone},
	}
	out := Evaluate("vessel_composite", "9842190", "", results)
	assert.Equal(t, models.RiskNone, out.Level)
}
