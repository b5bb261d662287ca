// Package aggregator projects per-check CheckResults into StakeholderVerdict
// and OperationVerdict risk levels, per the ordering and precedence rules in
// spec §4.G: every projected status is the max-severity reduction over a
// fixed subset of the verdict's own check results. A missing or empty
// result contributes "none" (models.RiskNone is the zero value).
package aggregator

import (
	"time"

	"github.com/oceanic/riskscreen/internal/models"
)

// Stakeholder folds a set of check results for one entity into a
// StakeholderVerdict. changedAt/changeReason are threaded in by the caller,
// since whether the classification changed depends on the *previous*
// verdict for the same (operation, role, name) — information the
// orchestrator has and this package does not.
func Stakeholder(entity models.Entity, results []models.CheckResult, screenedAt time.Time, changedAt time.Time, changeReason string) models.StakeholderVerdict {
	level := models.RiskNone
	evidence := make(map[string]interface{}, len(results))
	for _, r := range results {
		level = models.Max(level, r.Level)
		evidence[r.DescriptorID] = r.Evidence
	}
	return models.StakeholderVerdict{
		Entity:       entity,
		Level:        level,
		ScreenedAt:   screenedAt,
		ChangeReason: changeReason,
		ChangedAt:    changedAt,
		Evidence:     evidence,
		Results:      results,
	}
}

// DomainSubset names a projected domain status and the check-category
// subset that feeds it (§4.G "domain sub-statuses"). Verticals that don't
// use a given domain simply omit it from their subset list.
type DomainSubset struct {
	Name       string
	Categories []models.CheckCategory
}

// Operation folds vessel-level checks and every stakeholder verdict into
// the four projected statuses (§4.G) and assembles the OperationVerdict.
// domains lists the vertical's named domain sub-status subsets (e.g.
// cargo-risk, port-risk, customer-risk); stakeholder checks are always
// folded into Stakeholder regardless of domain membership.
func Operation(id, businessNumber, vertical, vesselIMO, vesselName, operator string, vesselChecks []models.CheckResult, byRole map[string][]models.StakeholderVerdict, requestedAt time.Time, domains []DomainSubset) models.OperationVerdict {
	v := models.OperationVerdict{
		ID:                 id,
		BusinessNumber:     businessNumber,
		Vertical:           vertical,
		VesselIMO:          vesselIMO,
		VesselName:         vesselName,
		StakeholdersByRole: byRole,
		VesselChecks:       vesselChecks,
		Operator:           operator,
		RequestedAt:        requestedAt,
		ComputedAt:         time.Now().UTC(),
	}
	Reaggregate(&v, domains)
	return v
}

// Reaggregate recomputes the four projected statuses in place from a
// verdict's current embedded check results and stakeholder entries. Used
// both by Operation (initial assembly) and by approval reconciliation
// (§4.H step 4), which must not re-run upstream checks, only refold
// already-mutated data.
func Reaggregate(v *models.OperationVerdict, domains []DomainSubset) {
	vesselLevel := models.RiskNone
	for _, c := range v.VesselChecks {
		vesselLevel = models.Max(vesselLevel, c.Level)
	}

	stakeholderLevel := models.RiskNone
	for _, list := range v.StakeholdersByRole {
		for _, sv := range list {
			stakeholderLevel = models.Max(stakeholderLevel, sv.Level)
		}
	}

	domainStatuses := make(map[string]models.RiskLevel, len(domains))
	for _, d := range domains {
		want := make(map[models.CheckCategory]bool, len(d.Categories))
		for _, c := range d.Categories {
			want[c] = true
		}
		level := models.RiskNone
		for _, c := range v.VesselChecks {
			if want[c.Category] {
				level = models.Max(level, c.Level)
			}
		}
		domainStatuses[d.Name] = level
	}

	v.Vessel = vesselLevel
	v.Stakeholder = stakeholderLevel
	v.Overall = models.Max(vesselLevel, stakeholderLevel)
	v.DomainStatuses = domainStatuses
}
