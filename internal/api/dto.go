package api

import (
	"net/http"
	"time"

	"github.com/oceanic/riskscreen/internal/models"
	"github.com/oceanic/riskscreen/internal/riskerr"
)

// stakeholderVerdictDTO renders models.StakeholderVerdict onto the wire
// (spec §3 StakeholderVerdict, §6 response shape), using the risk
// vocabulary from §4.2 (无风险/中风险/高风险) rather than the internal
// ordinal.
type stakeholderVerdictDTO struct {
	Name         string                 `json:"name"`
	RiskLevel    string                 `json:"risk_level"`
	ScreenedAt   string                 `json:"screened_at"`
	ChangeReason string                 `json:"change_reason,omitempty"`
	ChangedAt    string                 `json:"changed_at,omitempty"`
	Evidence     map[string]interface{} `json:"evidence,omitempty"`
}

// vesselCheckDTO renders one models.CheckResult vessel-level field (spec §6
// "per-check VesselRiskItem").
type vesselCheckDTO struct {
	CheckID     string                 `json:"check_id"`
	RiskLevel   string                 `json:"risk_level"`
	Description string                 `json:"description,omitempty"`
	Reason      map[string]interface{} `json:"reason,omitempty"`
	Evidence    map[string]interface{} `json:"evidence,omitempty"`
	Source      string                 `json:"source,omitempty"`
}

// operationVerdictDTO is the full response shape for both the screening and
// approval endpoints (spec §6: "Response mirrors request structure plus
// per-role arrays of StakeholderVerdict, per-check vessel-level
// VesselRiskItem, the four projected statuses, and operator echo").
type operationVerdictDTO struct {
	UUID           string                             `json:"uuid"`
	BusinessNumber string                             `json:"business_number,omitempty"`
	Vertical       string                             `json:"vertical"`
	VesselIMO      string                             `json:"vessel_imo"`
	VesselName     string                             `json:"vessel_name"`
	Stakeholders   map[string][]stakeholderVerdictDTO `json:"stakeholders"`
	VesselChecks   []vesselCheckDTO                   `json:"vessel_checks"`
	OverallStatus  string                             `json:"overall_status"`
	VesselStatus   string                             `json:"vessel_status"`
	StakeholderStatus string                          `json:"stakeholder_status"`
	DomainStatuses map[string]string                  `json:"domain_statuses,omitempty"`
	Operator       string                             `json:"operator,omitempty"`
	RequestedAt    string                             `json:"requested_at"`
	ComputedAt     string                             `json:"computed_at"`
	Revision       int                                `json:"revision"`
}

func toVerdictDTO(v models.OperationVerdict) operationVerdictDTO {
	stakeholders := make(map[string][]stakeholderVerdictDTO, len(v.StakeholdersByRole))
	for role, entries := range v.StakeholdersByRole {
		list := make([]stakeholderVerdictDTO, 0, len(entries))
		for _, e := range entries {
			dto := stakeholderVerdictDTO{
				Name:      e.Entity.Name,
				RiskLevel: e.Level.Wire(),
				Evidence:  e.Evidence,
			}
			if !e.ScreenedAt.IsZero() {
				dto.ScreenedAt = e.ScreenedAt.UTC().Format(time.RFC3339)
			}
			if !e.ChangedAt.IsZero() {
				dto.ChangedAt = e.ChangedAt.UTC().Format(time.RFC3339)
				dto.ChangeReason = e.ChangeReason
			}
			list = append(list, dto)
		}
		stakeholders[role] = list
	}

	checks := make([]vesselCheckDTO, 0, len(v.VesselChecks))
	for _, c := range v.VesselChecks {
		checks = append(checks, vesselCheckDTO{
			CheckID:     c.DescriptorID,
			RiskLevel:   c.Level.Wire(),
			Description: c.Description,
			Reason:      c.Reason,
			Evidence:    c.Evidence,
			Source:      c.Source,
		})
	}

	domains := make(map[string]string, len(v.DomainStatuses))
	for name, level := range v.DomainStatuses {
		domains[name] = level.Wire()
	}

	return operationVerdictDTO{
		UUID:              v.ID,
		BusinessNumber:    v.BusinessNumber,
		Vertical:          v.Vertical,
		VesselIMO:         v.VesselIMO,
		VesselName:        v.VesselName,
		Stakeholders:      stakeholders,
		VesselChecks:      checks,
		OverallStatus:     v.Overall.OperationalStatus(),
		VesselStatus:      v.Vessel.Wire(),
		StakeholderStatus: v.Stakeholder.Wire(),
		DomainStatuses:    domains,
		Operator:          v.Operator,
		RequestedAt:       v.RequestedAt.UTC().Format(time.RFC3339),
		ComputedAt:        v.ComputedAt.UTC().Format(time.RFC3339),
		Revision:          v.Revision,
	}
}

// writeOrchestratorError maps the riskerr taxonomy to HTTP status codes
// (spec §7: "User-visible responses carry the error cause for terminal
// errors"): ConfigError and AdapterError map to 502, LookupMiss to 404,
// ReconciliationConflict to 409, and PersistFailure or any error without a
// riskerr kind to 500.
func writeOrchestratorError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case riskerr.Is(err, riskerr.KindConfig):
		status = http.StatusBadGateway
	case riskerr.Is(err, riskerr.KindLookupMiss):
		status = http.StatusNotFound
	case riskerr.Is(err, riskerr.KindReconciliation):
		status = http.StatusConflict
	case riskerr.Is(err, riskerr.KindPersistFailure):
		status = http.StatusInternalServerError
	case riskerr.Is(err, riskerr.KindAdapter):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
