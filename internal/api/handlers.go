package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/oceanic/riskscreen/internal/models"
	"github.com/oceanic/riskscreen/internal/orchestrator"
	"github.com/oceanic/riskscreen/internal/registry"
)

// screenRequestDTO is the inbound JSON shape shared by all five screening
// verticals (spec §6: "Inbound screening endpoints ... one per vertical ...
// JSON request with a UUID, subject vessel IMO and name, arrays of
// stakeholder names by role, optional business metadata, and operator
// info"). Stakeholders is decoded generically since role cardinality
// (single name vs. list) varies per role, not per vertical.
type screenRequestDTO struct {
	UUID           string                     `json:"uuid"`
	BusinessNumber string                     `json:"business_number,omitempty"`
	VesselIMO      string                     `json:"vessel_imo"`
	VesselName     string                     `json:"vessel_name"`
	DateWindow     string                     `json:"date_window,omitempty"`
	PortCountry    string                     `json:"port_country,omitempty"`
	CargoOrigin    string                     `json:"cargo_origin,omitempty"`
	Stakeholders   map[string]json.RawMessage `json:"stakeholders"`
	Operator       string                     `json:"operator,omitempty"`
}

// decodeStakeholders coerces each role's raw JSON value (a bare string for
// single-name roles, an array of strings for list roles, per
// SPEC_FULL.md §4.3) into the []string shape orchestrator.ScreeningRequest
// expects. An absent role decodes to an empty slice rather than being
// omitted, matching the §8 testable property "empty role input -> empty
// result array for that role; never missing key".
func decodeStakeholders(vertical string, raw map[string]json.RawMessage) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, role := range registry.StakeholderRoles(vertical) {
		msg, ok := raw[role]
		if !ok {
			out[role] = []string{}
			continue
		}
		if registry.IsListRole(role) {
			var names []string
			if err := json.Unmarshal(msg, &names); err != nil {
				return nil, err
			}
			out[role] = names
		} else {
			var name string
			if err := json.Unmarshal(msg, &name); err != nil {
				return nil, err
			}
			if name == "" {
				out[role] = []string{}
			} else {
				out[role] = []string{name}
			}
		}
	}
	return out, nil
}

// handleScreen builds the generic POST handler shared by all five vertical
// endpoints: decode -> build orchestrator.ScreeningRequest -> Screen ->
// encode OperationVerdict.
func (s *Server) handleScreen(vertical string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var dto screenRequestDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if dto.VesselIMO == "" || dto.VesselName == "" {
			http.Error(w, `{"error":"vessel_imo and vessel_name are required"}`, http.StatusBadRequest)
			return
		}

		stakeholders, err := decodeStakeholders(vertical, dto.Stakeholders)
		if err != nil {
			http.Error(w, `{"error":"invalid stakeholders payload"}`, http.StatusBadRequest)
			return
		}

		req := orchestrator.ScreeningRequest{
			ID:             dto.UUID,
			BusinessNumber: dto.BusinessNumber,
			Vertical:       vertical,
			VesselIMO:      dto.VesselIMO,
			VesselName:     dto.VesselName,
			DateWindow:     dto.DateWindow,
			PortCountry:    dto.PortCountry,
			CargoOrigin:    dto.CargoOrigin,
			Stakeholders:   stakeholders,
			Operator:       dto.Operator,
		}

		start := time.Now()
		verdict, err := s.orchestrator.Screen(r.Context(), req)
		if err != nil {
			writeOrchestratorError(w, err)
			return
		}
		if s.metrics != nil {
			s.metrics.RecordScreening(vertical, verdict.Overall.String(), time.Since(start).Seconds())
		}
		if s.bus != nil {
			s.bus.Emit("com.riskscreen.verdict.computed", "riskscreen/api", verdict.ID, map[string]interface{}{
				"operation_id": verdict.ID,
				"overall":      verdict.Overall.OperationalStatus(),
				"vertical":     verdict.Vertical,
			})
		}

		writeJSON(w, http.StatusOK, toVerdictDTO(verdict))
	}
}

// approvalItemDTO is one tuple of the approval endpoint's payload array
// (spec §6: "{role, name, risk_screening_status, risk_change_status,
// change_reason}").
type approvalItemDTO struct {
	Role                string `json:"role"`
	Name                string `json:"name"`
	RiskScreeningStatus string `json:"risk_screening_status,omitempty"`
	RiskChangeStatus    string `json:"risk_change_status"`
	ChangeReason        string `json:"change_reason,omitempty"`
}

type approvalRequestDTO struct {
	UUID       string            `json:"uuid"`
	Approvals  []approvalItemDTO `json:"approvals"`
	ApprovedAt string            `json:"approved_at"`
	Applicant  string            `json:"applicant,omitempty"`
	Approvers  []string          `json:"approvers,omitempty"`
}

// handleApproval implements the approval endpoint (spec §6, §4.H): persist
// the incoming approval tuples, then replay §4.H reconciliation for the
// operation and return the reconciled OperationVerdict.
func (s *Server) handleApproval(w http.ResponseWriter, r *http.Request) {
	var dto approvalRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if dto.UUID == "" {
		http.Error(w, `{"error":"uuid is required"}`, http.StatusBadRequest)
		return
	}

	approvedAt := time.Now().UTC()
	if dto.ApprovedAt != "" {
		parsed, err := time.Parse(time.RFC3339, dto.ApprovedAt)
		if err != nil {
			http.Error(w, `{"error":"approved_at must be RFC3339"}`, http.StatusBadRequest)
			return
		}
		approvedAt = parsed.UTC()
	}

	records := make([]models.ApprovalRecord, 0, len(dto.Approvals))
	for _, item := range dto.Approvals {
		records = append(records, models.ApprovalRecord{
			OperationID:   dto.UUID,
			Role:          item.Role,
			Name:          item.Name,
			OverrideLevel: models.ParseRiskLevel(item.RiskChangeStatus),
			Reason:        item.ChangeReason,
			ApprovedAt:    approvedAt,
		})
	}

	if err := s.approvals.AppendApprovals(r.Context(), records); err != nil {
		writeOrchestratorError(w, err)
		return
	}

	verdict, appended, err := s.reconciler.Reconcile(r.Context(), dto.UUID)
	if err != nil {
		writeOrchestratorError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordReconciliation(appended)
	}
	if s.bus != nil && appended {
		s.bus.Emit("com.riskscreen.approval.reconciled", "riskscreen/api", verdict.ID, map[string]interface{}{
			"operation_id": verdict.ID,
			"overall":      verdict.Overall.OperationalStatus(),
			"revision":     verdict.Revision,
		})
	}

	writeJSON(w, http.StatusOK, toVerdictDTO(verdict))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
