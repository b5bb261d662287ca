// Package composite folds a set of atomic CheckResults into the composite
// verdict a registry.CheckDescriptor with Components names: the highest
// risk level among its components, carrying every component result forward
// as evidence for audit.
package composite

import (
	"github.com/oceanic/riskscreen/internal/models"
)

// Evaluate reduces componentResults (already computed by internal/checks)
// into one CheckResult for the composite descriptor, using the total order
// over RiskLevel: the composite's level is the maximum of its components'.
func Evaluate(descriptorID, imo, name string, componentResults []models.CheckResult) models.CheckResult {
	level := models.RiskNone
	sources := make([]string, 0, len(componentResults))
	for _, c := range componentResults {
		level = models.Max(level, c.Level)
		sources = append(sources, c.DescriptorID)
	}

	return models.CheckResult{
		DescriptorID: descriptorID,
		EntityIMO:    imo,
		EntityName:   name,
		Level:        level,
		Source:       "composite",
		Evidence: map[string]interface{}{
			"components": sources,
			"results":    componentResults,
		},
	}
}
