package orchestrator

import (
	"time"

	"github.com/oceanic/riskscreen/internal/checks"
	"github.com/oceanic/riskscreen/internal/models"
)

// evaluateVessel runs every atomic vessel-level check (spec §4.D) over one
// bulk-prefetched bundle, keyed by descriptor ID so the caller can select
// the subset a vertical's registry entry names.
func evaluateVessel(imo, portCountry, cargoOrigin string, b vesselBundle) map[string]models.CheckResult {
	out := make(map[string]models.CheckResult)

	var current, historical []string
	for _, it := range getItems(b.sanctionsA) {
		src := getString(it, "source")
		if getString(it, "endDate") == "" {
			current = append(current, src)
		} else {
			historical = append(historical, src)
		}
	}
	out["vessel_current_sanctions"] = checks.VesselSanctions(imo, current, historical)
	out["vessel_historical_sanctions"] = checks.VesselHistoricalSanctions(imo, historical)

	out["vessel_watchlist"] = checks.VesselWatchlist(imo, b.onWatchlist, b.watchlistErr)

	var totalScore *float64
	if f, ok := getFloat(firstItem(b.riskScoreA), "TotalRiskScore"); ok {
		totalScore = &f
	}
	out["vessel_risk_score_a"] = checks.VesselRiskScoreA(imo, totalScore)

	var sanctionCount *float64
	if f, ok := getFloat(b.riskB, "sanctionCount"); ok {
		sanctionCount = &f
	}
	out["vessel_risk_score_b"] = checks.VesselRiskScoreB(imo, sanctionCount)

	voyageItems := getItems(b.voyageEventsA)
	var gapZoneNames []string
	for _, it := range voyageItems {
		if getString(it, "EventType") == "Suspicious AIS Gap" {
			gapZoneNames = append(gapZoneNames, getString(it, "AisGapStartEezName"))
		}
	}
	out["vessel_ais_gap_a"] = checks.VesselAISGapA(imo, gapZoneNames)
	out["vessel_ais_gap_b"] = checks.VesselAISGap("vessel_ais_gap_b", imo, "intelligenceb", listLen(b.riskB, "aisGaps") > 0)

	manipScore := ""
	for _, it := range getItems(b.advComplianceA) {
		if getString(it, "Type") == "VesselAisManipulation" {
			manipScore = getString(it, "ComplianceRiskScore")
		}
	}
	out["vessel_ais_manipulation"] = checks.VesselAISManipulation(imo, "intelligencea", manipScore)

	out["vessel_dark_port_call"] = worstEventType(imo, "intelligencea", voyageItems, checks.VesselDarkPortCall)
	out["vessel_risky_port_call"] = worstEventType(imo, "intelligencea", voyageItems, checks.VesselRiskyPortCall)
	out["vessel_dark_sts"] = worstEventType(imo, "intelligencea", voyageItems, checks.VesselDarkSTS)
	out["vessel_sanctioned_sts"] = worstEventType(imo, "intelligencea", voyageItems, checks.VesselSanctionedSTS)
	out["vessel_loitering"] = worstEventType(imo, "intelligencea", voyageItems, checks.VesselLoitering)

	flagChanged := false
	if flagStart := getString(getMap(firstItem(b.riskScoreA), "Flag"), "FlagStartDate"); flagStart != "" {
		if t, err := time.Parse("2006-01-02", flagStart); err == nil {
			flagChanged = time.Since(t) <= 365*24*time.Hour
		}
	}
	out["vessel_flag_change"] = checks.VesselFlagChange(imo, "intelligencea", flagChanged)

	compliance := getMap(b.complianceB, "compliance")
	if compliance == nil {
		compliance = getMap(b.riskB, "compliance")
	}
	sanctionRisks := getMap(compliance, "sanctionRisks")
	cargoSanctioned := len(getStringSlice(sanctionRisks, "sanctionedCargo")) > 0 || len(getStringSlice(sanctionRisks, "sanctionedTrades")) > 0
	out["vessel_cargo_sanctioned"] = checks.VesselCargoSanctioned(imo, "intelligenceb", cargoSanctioned)
	out["vessel_sanctioned_companies"] = checks.VesselSanctionedCompanies(imo, "intelligenceb", getStringSlice(compliance, "sanctionedCompanies"))

	out["port_country_risk"] = checks.PortCountryRisk(imo, portCountry)
	out["cargo_origin_risk"] = checks.CargoOriginRisk(imo, cargoOrigin)

	return out
}

// worstEventType evaluates fn over every voyage item's EventType field and
// keeps the highest-severity result, matching "any voyage with risk-type
// string in fixed set" (spec §4.D) without exposing the per-type fixed sets
// outside internal/checks.
func worstEventType(imo, source string, items []map[string]interface{}, fn func(imo, source, eventType string) models.CheckResult) models.CheckResult {
	best := fn(imo, source, "")
	for _, it := range items {
		r := fn(imo, source, getString(it, "EventType"))
		if r.Level > best.Level {
			best = r
		}
	}
	return best
}

func listLen(m map[string]interface{}, key string) int {
	if m == nil {
		return 0
	}
	raw, _ := m[key].([]interface{})
	return len(raw)
}
