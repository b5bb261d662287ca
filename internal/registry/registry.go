// Package registry is the check descriptor catalog: a mutex-guarded map of
// every atomic and composite check the service knows how to run, plus the
// fixed per-vertical inclusion lists that decide which checks apply to a
// given business operation (spec §4.C: "The catalog is the only place where
// vertical-specific inclusion is expressed"). Adapted from the
// tool-classification registry pattern (map[string]*X, Register/Get, JSON
// export/import) to catalog risk checks instead of escrow tool policies.
package registry

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/oceanic/riskscreen/internal/aggregator"
	"github.com/oceanic/riskscreen/internal/models"
)

// Registry is the descriptor catalog.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*models.CheckDescriptor
	verticals   map[string][]string // vertical -> ordered vessel-check descriptor IDs
}

// New creates a Registry pre-loaded with the fixed descriptor set and
// vertical inclusion lists defined in SPEC_FULL.md §4.3.
func New() *Registry {
	r := &Registry{
		descriptors: make(map[string]*models.CheckDescriptor),
		verticals:   make(map[string][]string),
	}
	r.loadDefaultDescriptors()
	r.loadDefaultVerticals()
	return r
}

// RegisterDescriptor adds or replaces a descriptor in the catalog.
func (r *Registry) RegisterDescriptor(d *models.CheckDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[d.ID] = d
}

// GetDescriptor retrieves a descriptor by ID.
func (r *Registry) GetDescriptor(id string) (*models.CheckDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[id]
	if !ok {
		return nil, fmt.Errorf("registry: descriptor %q not found", id)
	}
	return d, nil
}

// SetVertical defines (or replaces) the ordered vessel-check descriptor list
// for a screening vertical.
func (r *Registry) SetVertical(vertical string, descriptorIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verticals[vertical] = descriptorIDs
}

// Resolve returns the full vessel-check descriptor list for a vertical, in
// registration order. Every entry must be evaluated and appear in the
// verdict (spec §3 invariant), even when the evaluator produces
// level=none/evidence=empty for missing inputs.
func (r *Registry) Resolve(vertical string) ([]*models.CheckDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, ok := r.verticals[vertical]
	if !ok {
		return nil, fmt.Errorf("registry: vertical %q not found", vertical)
	}

	out := make([]*models.CheckDescriptor, 0, len(ids))
	for _, id := range ids {
		d, ok := r.descriptors[id]
		if !ok {
			return nil, fmt.Errorf("registry: vertical %q references unknown descriptor %q", vertical, id)
		}
		out = append(out, d)
	}
	return out, nil
}

// ExportDescriptors serializes the full descriptor catalog as JSON, for
// operator-facing introspection endpoints.
func (r *Registry) ExportDescriptors() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return json.Marshal(r.descriptors)
}

// ImportDescriptors replaces the descriptor catalog from JSON.
func (r *Registry) ImportDescriptors(data []byte) error {
	var descriptors map[string]*models.CheckDescriptor
	if err := json.Unmarshal(data, &descriptors); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors = descriptors
	return nil
}

func atomicVessel(id, label string, category models.CheckCategory) *models.CheckDescriptor {
	return &models.CheckDescriptor{ID: id, Label: label, Category: category, Atomic: true, AppliesTo: "vessel"}
}

func atomicStakeholder(id, label string) *models.CheckDescriptor {
	return &models.CheckDescriptor{ID: id, Label: label, Category: models.CategoryStakeholderSanctions, Atomic: true, AppliesTo: "stakeholder"}
}

// allVesselChecks is the full SPEC_FULL.md §4.3 "voyage" omnibus list, in
// the fixed registry order that §5 requires vessel-level fields to follow.
var allVesselChecks = []string{
	"vessel_current_sanctions", "vessel_historical_sanctions", "vessel_watchlist",
	"vessel_risk_score_a", "vessel_risk_score_b", "vessel_ais_gap_a", "vessel_ais_gap_b",
	"vessel_ais_manipulation", "vessel_dark_port_call", "vessel_risky_port_call",
	"vessel_dark_sts", "vessel_sanctioned_sts", "vessel_loitering", "vessel_flag_change",
	"vessel_cargo_sanctioned", "vessel_sanctioned_companies",
	"port_country_risk", "cargo_origin_risk",
}

func (r *Registry) loadDefaultDescriptors() {
	vessel := []*models.CheckDescriptor{
		atomicVessel("vessel_current_sanctions", "Current vessel sanctions", models.CategoryVesselSanctions),
		atomicVessel("vessel_historical_sanctions", "Historical vessel sanctions", models.CategoryVesselSanctions),
		atomicVessel("vessel_watchlist", "Vessel watchlist membership", models.CategoryVesselSanctions),
		atomicVessel("vessel_risk_score_a", "Intelligence-A vessel risk score", models.CategoryVesselBehavior),
		atomicVessel("vessel_risk_score_b", "Intelligence-B vessel risk score", models.CategoryVesselBehavior),
		atomicVessel("vessel_ais_gap_a", "Intelligence-A AIS gap", models.CategoryVesselBehavior),
		atomicVessel("vessel_ais_gap_b", "Intelligence-B AIS gap", models.CategoryVesselBehavior),
		atomicVessel("vessel_ais_manipulation", "AIS manipulation", models.CategoryVesselBehavior),
		atomicVessel("vessel_dark_port_call", "Dark port call", models.CategoryVesselBehavior),
		atomicVessel("vessel_risky_port_call", "Risky port call", models.CategoryVesselBehavior),
		atomicVessel("vessel_dark_sts", "Dark ship-to-ship transfer", models.CategoryVesselBehavior),
		atomicVessel("vessel_sanctioned_sts", "Sanctioned ship-to-ship transfer", models.CategoryVesselBehavior),
		atomicVessel("vessel_loitering", "Loitering behavior", models.CategoryVesselBehavior),
		atomicVessel("vessel_flag_change", "Flag change", models.CategoryVesselBehavior),
		atomicVessel("vessel_cargo_sanctioned", "Sanctioned cargo/trade", models.CategoryCargoOrigin),
		atomicVessel("vessel_sanctioned_companies", "Sanctioned company association", models.CategoryVesselSanctions),
		atomicVessel("port_country_risk", "High-risk port country", models.CategoryPortCountry),
		atomicVessel("cargo_origin_risk", "High-risk cargo origin country", models.CategoryCargoOrigin),
		{ID: "vessel_composite", Label: "Composite vessel risk", Atomic: false, AppliesTo: "vessel", Components: allVesselChecks},
	}

	stakeholder := []*models.CheckDescriptor{
		atomicStakeholder("stakeholder_sanctions", "Stakeholder sanctions screening"),
		atomicStakeholder("stakeholder_watchlist", "Stakeholder watchlist membership"),
		{ID: "stakeholder_composite", Label: "Composite stakeholder risk", Atomic: false, AppliesTo: "stakeholder",
			Category:   models.CategoryStakeholderSanctions,
			Components: []string{"stakeholder_sanctions", "stakeholder_watchlist"},
		},
	}

	for _, d := range vessel {
		r.RegisterDescriptor(d)
	}
	for _, d := range stakeholder {
		r.RegisterDescriptor(d)
	}
}

// loadDefaultVerticals loads the per-vertical vessel-check subsets from
// SPEC_FULL.md §4.3. Each list names the atomic descriptors that apply;
// the orchestrator additionally computes a synthetic "vessel_composite"
// result (internal/composite) over whichever subset was resolved, purely
// for audit evidence — it never changes the projected vessel status, which
// is already the max over the resolved atomics.
func (r *Registry) loadDefaultVerticals() {
	r.SetVertical("sts_bunkering", []string{
		"vessel_current_sanctions", "vessel_historical_sanctions", "vessel_watchlist",
		"vessel_risk_score_a", "vessel_risk_score_b", "vessel_ais_gap_a", "vessel_ais_gap_b",
		"vessel_ais_manipulation", "vessel_dark_port_call", "vessel_risky_port_call",
		"vessel_dark_sts", "vessel_sanctioned_sts", "vessel_loitering", "vessel_flag_change",
		"vessel_cargo_sanctioned", "vessel_sanctioned_companies",
	})
	r.SetVertical("purchase", []string{
		"vessel_current_sanctions", "vessel_historical_sanctions", "vessel_watchlist",
		"vessel_risk_score_a", "vessel_risk_score_b", "vessel_ais_manipulation", "vessel_flag_change",
	})
	r.SetVertical("second_hand_disposal", []string{
		"vessel_current_sanctions", "vessel_historical_sanctions", "vessel_watchlist",
		"vessel_risk_score_a", "vessel_risk_score_b", "cargo_origin_risk",
	})
	r.SetVertical("warehousing", []string{
		"vessel_current_sanctions", "vessel_historical_sanctions", "vessel_watchlist", "port_country_risk",
	})
	r.SetVertical("voyage", allVesselChecks)
}

// StakeholderRoles returns the fixed per-vertical stakeholder role list from
// SPEC_FULL.md §4.3. This lives alongside the descriptor catalog since it is
// the other half of "what gets checked for this vertical".
func StakeholderRoles(vertical string) []string {
	switch vertical {
	case "sts_bunkering":
		return []string{"vessel_owner", "vessel_manager", "vessel_operator", "charterer", "consignee", "consignor", "agent", "vessel_broker"}
	case "purchase":
		return []string{"seller", "buyer", "broker"}
	case "second_hand_disposal":
		return []string{"buyer", "seller", "broker"}
	case "warehousing":
		return []string{"warehouse_operator", "cargo_owner"}
	default:
		return []string{"vessel_owner", "vessel_manager", "vessel_operator", "charterer", "consignee", "consignor", "agent", "vessel_broker", "seller", "buyer", "broker", "warehouse_operator", "cargo_owner"}
	}
}

// listStakeholderRoles are roles whose request value is an array of names
// rather than a single name (spec §4.F step 4: "for each per-role list of
// names, one check per name; for single-name roles, one check").
var listStakeholderRoles = map[string]bool{
	"consignee": true, "consignor": true, "agent": true, "vessel_broker": true,
	"broker": true, "cargo_owner": true,
}

// IsListRole reports whether role takes a list of names on the wire.
func IsListRole(role string) bool {
	return listStakeholderRoles[role]
}

// DomainSubsetsForVertical names the projected domain sub-statuses each
// vertical exposes (§4.G), as categories the aggregator folds over.
func DomainSubsetsForVertical(vertical string) []models.CheckCategory {
	switch vertical {
	case "second_hand_disposal":
		return []models.CheckCategory{models.CategoryCargoOrigin}
	case "warehousing":
		return []models.CheckCategory{models.CategoryPortCountry}
	case "sts_bunkering":
		return []models.CheckCategory{models.CategoryCargoOrigin, models.CategoryVesselBehavior}
	default:
		return nil
	}
}

// categoryDomainNames gives each vessel-check category a wire-facing domain
// name for the projected domain sub-statuses (§4.G: "cargo-risk, port-risk,
// customer-risk").
var categoryDomainNames = map[models.CheckCategory]string{
	models.CategoryCargoOrigin:    "cargo_risk",
	models.CategoryPortCountry:    "port_risk",
	models.CategoryVesselBehavior: "behavior_risk",
}

// DomainSubsets builds the aggregator.DomainSubset list a vertical exposes,
// shared by both the orchestrator (initial assembly) and reconciliation
// (re-aggregation) so the two stay in lockstep by construction.
func DomainSubsets(vertical string) []aggregator.DomainSubset {
	var out []aggregator.DomainSubset
	for _, cat := range DomainSubsetsForVertical(vertical) {
		name, ok := categoryDomainNames[cat]
		if !ok {
			continue
		}
		out = append(out, aggregator.DomainSubset{Name: name, Categories: []models.CheckCategory{cat}})
	}
	return out
}
