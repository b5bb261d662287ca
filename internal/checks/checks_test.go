package checks

import (
	"errors"
	"testing"

	"github.com/oceanic/riskscreen/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestVesselSanctionsEscalatesOnHighWeightSource(t *testing.T) {
	r := VesselSanctions("9842190", []string{"OFAC"}, nil)
	assert.Equal(t, models.RiskHigh, r.Level)
}

func TestVesselSanctionsMediumOnOtherSource(t *testing.T) {
	r := VesselSanctions("9842190", []string{"SomeOtherList"}, nil)
	assert.Equal(t, models.RiskMedium, r.Level)
}

func TestVesselSanctionsMediumOnHistoricalOnly(t *testing.T) {
	r := VesselSanctions("9842190", nil, []string{"OFAC"})
	assert.Equal(t, models.RiskMedium, r.Level)
}

func TestVesselSanctionsNoneOnClean(t *testing.T) {
	r := VesselSanctions("9842190", nil, nil)
	assert.Equal(t, models.RiskNone, r.Level)
}

func TestVesselWatchlistHighWhenPresent(t *testing.T) {
	assert.Equal(t, models.RiskHigh, VesselWatchlist("9842190", true, nil).Level)
	assert.Equal(t, models.RiskNone, VesselWatchlist("9842190", false, nil).Level)
}

func TestVesselWatchlistFailsOpenOnLookupError(t *testing.T) {
	r := VesselWatchlist("9842190", true, errors.New("dial tcp: timeout"))
	assert.Equal(t, models.RiskNone, r.Level)
	assert.NotEmpty(t, r.Evidence["error"])
}

// TestVesselAISGapAMarksSanctionedEEZ mirrors spec.md §8 scenario 6: a
// Suspicious AIS Gap starting in the Iranian Exclusive Economic Zone is
// RiskMedium with is_sanctioned_eez wire value "是".
func TestVesselAISGapAMarksSanctionedEEZ(t *testing.T) {
	r := VesselAISGapA("9842190", []string{"Iranian Exclusive Economic Zone"})
	assert.Equal(t, models.RiskMedium, r.Level)
	gaps := r.Evidence["gaps"].([]map[string]interface{})
	assert.Equal(t, "是", gaps[0]["is_sanctioned_eez"])
}

func TestVesselAISGapANoSanctionedEEZOnBenignZone(t *testing.T) {
	r := VesselAISGapA("9842190", []string{"Pacific"})
	assert.Equal(t, models.RiskMedium, r.Level)
	gaps := r.Evidence["gaps"].([]map[string]interface{})
	assert.Equal(t, "否", gaps[0]["is_sanctioned_eez"])
}

func TestVesselAISGapANoneWhenNoGaps(t *testing.T) {
	r := VesselAISGapA("9842190", nil)
	assert.Equal(t, models.RiskNone, r.Level)
}

func TestPortCountryRisk(t *testing.T) {
	assert.Equal(t, models.RiskHigh, PortCountryRisk("9842190", "Iran").Level)
	assert.Equal(t, models.RiskNone, PortCountryRisk("9842190", "Germany").Level)
}

func TestRiskTypeHitFunctions(t *testing.T) {
	assert.Equal(t, models.RiskMedium, VesselDarkPortCall("imo", "src", "Possible Dark Port Calling").Level)
	assert.Equal(t, models.RiskNone, VesselDarkPortCall("imo", "src", "Normal").Level)
	assert.Equal(t, models.RiskMedium, VesselLoitering("imo", "src", "Loitering Behaviour Detected").Level)
}
