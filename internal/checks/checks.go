// Package checks implements the atomic check evaluators: pure functions
// that turn already-fetched provider data into a models.CheckResult for one
// entity. None of these functions perform I/O; the orchestrator is
// responsible for fetching data through the cache and adapters first.
// Grounded on the per-field evaluation blocks in
// original_source/sts_bunkering_risk.py's execute_all_checks_optimized.
package checks

import (
	"strings"
	"time"

	"github.com/oceanic/riskscreen/internal/models"
)

// highWeightSources escalates a current-hit sanctions source to high risk for the
// named list authorities, per SPEC_FULL.md §4.7.
var highWeightSources = map[string]bool{
	"OFAC": true, "EU": true, "HM": true, "UN": true,
}

func now() time.Time { return time.Now().UTC() }

// categoryByDescriptor tags each atomic check with the §4.G domain category
// its registry descriptor carries, so the aggregator can fold the right
// subset of results into each projected domain status.
var categoryByDescriptor = map[string]models.CheckCategory{
	"vessel_current_sanctions":    models.CategoryVesselSanctions,
	"vessel_historical_sanctions": models.CategoryVesselSanctions,
	"vessel_watchlist":            models.CategoryVesselSanctions,
	"vessel_sanctioned_companies": models.CategoryVesselSanctions,
	"vessel_risk_score_a":         models.CategoryVesselBehavior,
	"vessel_risk_score_b":         models.CategoryVesselBehavior,
	"vessel_ais_gap_a":            models.CategoryVesselBehavior,
	"vessel_ais_gap_b":            models.CategoryVesselBehavior,
	"vessel_ais_manipulation":     models.CategoryVesselBehavior,
	"vessel_dark_port_call":       models.CategoryVesselBehavior,
	"vessel_risky_port_call":      models.CategoryVesselBehavior,
	"vessel_dark_sts":             models.CategoryVesselBehavior,
	"vessel_sanctioned_sts":       models.CategoryVesselBehavior,
	"vessel_loitering":            models.CategoryVesselBehavior,
	"vessel_flag_change":          models.CategoryVesselBehavior,
	"vessel_cargo_sanctioned":     models.CategoryCargoOrigin,
	"cargo_origin_risk":           models.CategoryCargoOrigin,
	"port_country_risk":           models.CategoryPortCountry,
	"stakeholder_sanctions":       models.CategoryStakeholderSanctions,
	"stakeholder_watchlist":       models.CategoryStakeholderSanctions,
}

func result(descriptorID, imo, name string, level models.RiskLevel, source string, evidence map[string]interface{}) models.CheckResult {
	return models.CheckResult{
		DescriptorID: descriptorID,
		Category:     categoryByDescriptor[descriptorID],
		EntityIMO:    imo,
		EntityName:   name,
		Level:        level,
		Source:       source,
		Evidence:     evidence,
		EvaluatedAt:  now(),
	}
}

// VesselSanctions evaluates current + historical sanctions hits against the
// fixed source-weighting table: a current hit from a high-weight authority
// escalates to RiskHigh, any other current hit or any historical-only hit
// is RiskMedium, no hit is RiskNone.
func VesselSanctions(imo string, currentHits, historicalHits []string) models.CheckResult {
	level := models.RiskNone
	for _, src := range currentHits {
		if highWeightSources[strings.ToUpper(src)] {
			level = models.RiskHigh
			break
		}
		level = models.Max(level, models.RiskMedium)
	}
	if level == models.RiskNone && len(historicalHits) > 0 {
		level = models.RiskMedium
	}
	return result("vessel_current_sanctions", imo, "", level, "intelligencea",
		map[string]interface{}{"current": currentHits, "historical": historicalHits})
}

// VesselWatchlist evaluates watchlist membership: present is always
// RiskHigh, since the watchlist is a hard block list, not a graduated score.
// A non-nil lookupErr means the watchlist was unreachable; per spec §7 the
// check yields RiskNone with the error recorded in evidence rather than
// fabricating a hit.
func VesselWatchlist(imo string, onWatchlist bool, lookupErr error) models.CheckResult {
	level := models.RiskNone
	evidence := map[string]interface{}{"on_watchlist": onWatchlist}
	if lookupErr != nil {
		evidence["error"] = lookupErr.Error()
	} else if onWatchlist {
		level = models.RiskHigh
	}
	return result("vessel_watchlist", imo, "", level, "watchlist", evidence)
}

// VesselHistoricalSanctions considers only sanctions-endpoint records with a
// non-empty end date: any such record is RiskMedium, none is RiskNone. The
// current-vs-historical split in the same endpoint data is why this is a
// separate descriptor from VesselSanctions rather than a derived field.
func VesselHistoricalSanctions(imo string, historicalHits []string) models.CheckResult {
	level := models.RiskNone
	if len(historicalHits) > 0 {
		level = models.RiskMedium
	}
	return result("vessel_historical_sanctions", imo, "", level, "intelligencea",
		map[string]interface{}{"historical": historicalHits})
}

// VesselRiskScoreA evaluates Intelligence-A's 12-month vessel risk score:
// TotalRiskScore == 100 is RiskHigh, any other present numeric score is
// RiskMedium, an absent score is RiskNone.
func VesselRiskScoreA(imo string, totalScore *float64) models.CheckResult {
	level := models.RiskNone
	if totalScore != nil {
		if *totalScore == 100 {
			level = models.RiskHigh
		} else {
			level = models.RiskMedium
		}
	}
	return result("vessel_risk_score_a", imo, "", level, "intelligencea",
		map[string]interface{}{"total_risk_score": totalScore})
}

// VesselRiskScoreB evaluates Intelligence-B's fleet sanction counter: any
// positive sanctionCount is RiskHigh.
func VesselRiskScoreB(imo string, sanctionCount *float64) models.CheckResult {
	level := models.RiskNone
	if sanctionCount != nil && *sanctionCount > 0 {
		level = models.RiskHigh
	}
	return result("vessel_risk_score_b", imo, "", level, "intelligenceb",
		map[string]interface{}{"sanction_count": sanctionCount})
}

// riskTypeHit reports RiskMedium if eventType is in the fixed set for the
// named risk category, RiskNone otherwise. Mirrors the fixed risk-type
// string tables in SPEC_FULL.md §4.6.
func riskTypeHit(descriptorID, imo, source, eventType string, set map[string]bool) models.CheckResult {
	level := models.RiskNone
	if set[eventType] {
		level = models.RiskMedium
	}
	return result(descriptorID, imo, "", level, source,
		map[string]interface{}{"event_type": eventType})
}

var darkPortSet = map[string]bool{"Possible Dark Port Calling": true, "Probable Dark Port Calling": true}
var riskyPortSet = map[string]bool{"High Risk Port Calling": true}
var darkSTSSet = map[string]bool{"Possible Dark STS": true, "Probable Dark STS": true}
var sanctionedSTSSet = map[string]bool{"Sanctioned STS Event": true}
var loiteringSet = map[string]bool{"Loitering Behaviour Detected": true}

func VesselDarkPortCall(imo, source, eventType string) models.CheckResult {
	return riskTypeHit("vessel_dark_port_call", imo, source, eventType, darkPortSet)
}

func VesselRiskyPortCall(imo, source, eventType string) models.CheckResult {
	return riskTypeHit("vessel_risky_port_call", imo, source, eventType, riskyPortSet)
}

func VesselDarkSTS(imo, source, eventType string) models.CheckResult {
	return riskTypeHit("vessel_dark_sts", imo, source, eventType, darkSTSSet)
}

func VesselSanctionedSTS(imo, source, eventType string) models.CheckResult {
	return riskTypeHit("vessel_sanctioned_sts", imo, source, eventType, sanctionedSTSSet)
}

func VesselLoitering(imo, source, eventType string) models.CheckResult {
	return riskTypeHit("vessel_loitering", imo, source, eventType, loiteringSet)
}

// VesselAISGap evaluates a "Suspicious AIS Gap" event type flag.
func VesselAISGap(descriptorID, imo, source string, hasGap bool) models.CheckResult {
	level := models.RiskNone
	if hasGap {
		level = models.RiskMedium
	}
	return result(descriptorID, imo, "", level, source,
		map[string]interface{}{"ais_gap": hasGap})
}

var sanctionedEEZs = map[string]bool{
	"iranian exclusive economic zone":      true,
	"syrian exclusive economic zone":       true,
	"north korean exclusive economic zone": true,
	"cuban exclusive economic zone":        true,
	"venezuelan exclusive economic zone":   true,
	"russian exclusive economic zone":      true,
}

// VesselAISGapA evaluates Intelligence-A's "Suspicious AIS Gap" voyage
// events: any such event is RiskMedium. Each gapZoneNames entry (the voyage
// event's AisGapStartEezName, per spec.md §8 scenario 6) gets an
// is_sanctioned_eez evidence flag, wire values "是"/"否" for case-insensitive
// membership in the fixed sanctioned-EEZ set. The EEZ hit is evidentiary on
// the gap, not a separately escalating check.
func VesselAISGapA(imo string, gapZoneNames []string) models.CheckResult {
	level := models.RiskNone
	gaps := make([]map[string]interface{}, 0, len(gapZoneNames))
	for _, zone := range gapZoneNames {
		level = models.RiskMedium
		wire := "否"
		if sanctionedEEZs[strings.ToLower(strings.TrimSpace(zone))] {
			wire = "是"
		}
		gaps = append(gaps, map[string]interface{}{
			"ais_gap_start_eez_name": zone,
			"is_sanctioned_eez":      wire,
		})
	}
	return result("vessel_ais_gap_a", imo, "", level, "intelligencea",
		map[string]interface{}{"ais_gap": len(gaps) > 0, "gaps": gaps})
}

// VesselAISManipulation maps Intelligence-A's advanced-compliance-risk
// ComplianceRiskScore label for the VesselAisManipulation item type:
// High->high, Medium->medium, Low (or absent)->none.
func VesselAISManipulation(imo, source, complianceRiskScore string) models.CheckResult {
	level := models.RiskNone
	switch complianceRiskScore {
	case "High":
		level = models.RiskHigh
	case "Medium":
		level = models.RiskMedium
	}
	return result("vessel_ais_manipulation", imo, "", level, source,
		map[string]interface{}{"compliance_risk_score": complianceRiskScore})
}

// VesselFlagChange is a boolean flag promoted to RiskMedium when true;
// neither provider distinguishes severity further.
func VesselFlagChange(imo, source string, changed bool) models.CheckResult {
	level := models.RiskNone
	if changed {
		level = models.RiskMedium
	}
	return result("vessel_flag_change", imo, "", level, source,
		map[string]interface{}{"changed": changed})
}

var highRiskCountries = map[string]bool{
	"iran": true, "north korea": true, "syria": true, "cuba": true, "russia": true, "venezuela": true,
}

// PortCountryRisk and CargoOriginRisk both check a country name against the
// same fixed high-risk country set, but are named separately per
// SPEC_FULL.md §4.5 so the registry can let them diverge later.
func PortCountryRisk(imo, country string) models.CheckResult {
	return countryRisk("port_country_risk", imo, country)
}

func CargoOriginRisk(imo, country string) models.CheckResult {
	return countryRisk("cargo_origin_risk", imo, country)
}

func countryRisk(descriptorID, imo, country string) models.CheckResult {
	level := models.RiskNone
	if highRiskCountries[strings.ToLower(strings.TrimSpace(country))] {
		level = models.RiskHigh
	}
	return result(descriptorID, imo, "", level, "registry",
		map[string]interface{}{"country": country})
}

// VesselCargoSanctioned evaluates a boolean upstream flag and
// VesselSanctionedCompanies a list of sanctioned company names (high when
// non-empty), since neither provider exposes a graduated score for these two
// checks.
func VesselCargoSanctioned(imo, source string, sanctioned bool) models.CheckResult {
	level := models.RiskNone
	if sanctioned {
		level = models.RiskHigh
	}
	return result("vessel_cargo_sanctioned", imo, "", level, source,
		map[string]interface{}{"sanctioned": sanctioned})
}

func VesselSanctionedCompanies(imo, source string, hit []string) models.CheckResult {
	level := models.RiskNone
	if len(hit) > 0 {
		level = models.RiskHigh
	}
	return result("vessel_sanctioned_companies", imo, "", level, source,
		map[string]interface{}{"companies": hit})
}

// StakeholderSanctions evaluates an entity-name sanctions lookup result,
// carrying the DowJones hit arrays and flags verbatim into Reason per
// SPEC_FULL.md's normalized-array resolution of the DowJones open question.
func StakeholderSanctions(name string, level models.RiskLevel, sanctionsList, midSanctionsList, noSanctionsList []string, flags map[string]interface{}) models.CheckResult {
	r := result("stakeholder_sanctions", "", name, level, "sanctions",
		map[string]interface{}{
			"sanctions_list":     sanctionsList,
			"mid_sanctions_list": midSanctionsList,
			"no_sanctions_list":  noSanctionsList,
			"flags":              flags,
		})
	r.Reason = r.Evidence
	return r
}

// StakeholderWatchlist mirrors VesselWatchlist's hard block logic for a
// stakeholder entity rather than a vessel.
func StakeholderWatchlist(name string, onWatchlist bool) models.CheckResult {
	level := models.RiskNone
	if onWatchlist {
		level = models.RiskHigh
	}
	return result("stakeholder_watchlist", "", name, level, "watchlist",
		map[string]interface{}{"on_watchlist": onWatchlist})
}
