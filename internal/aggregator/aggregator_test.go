package aggregator

import (
	"testing"
	"time"

	"github.com/oceanic/riskscreen/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestStakeholderTakesMaxOfResults(t *testing.T) {
	entity := models.Entity{Kind: "stakeholder", Role: "buyer", Name: "Acme"}
	results := []models.CheckResult{{Level: models.RiskNone}, {Level: models.RiskHigh}}
	now := time.Now().UTC()
	v := Stakeholder(entity, results, now, time.Time{}, "")
	assert.Equal(t, models.RiskHigh, v.Level)
}

func TestOperationOverallIsMaxOfVesselAndStakeholders(t *testing.T) {
	byRole := map[string][]models.StakeholderVerdict{
		"buyer":  {{Entity: models.Entity{Role: "buyer"}, Level: models.RiskMedium}},
		"seller": {{Entity: models.Entity{Role: "seller"}, Level: models.RiskNone}},
	}
	op := Operation("op-1", "biz-1", "purchase", "9842190", "MV Test", "operator-1", nil, byRole, time.Now().UTC(), nil)
	assert.Equal(t, models.RiskMedium, op.Overall)
	assert.Equal(t, models.RiskMedium, op.Stakeholder)
	assert.Equal(t, models.RiskNone, op.Vessel)
}

func TestOperationVesselLevelDominates(t *testing.T) {
	byRole := map[string][]models.StakeholderVerdict{
		"buyer": {{Entity: models.Entity{Role: "buyer"}, Level: models.RiskNone}},
	}
	vesselChecks := []models.CheckResult{{DescriptorID: "vessel_composite", Level: models.RiskHigh}}
	op := Operation("op-1", "biz-1", "purchase", "9842190", "MV Test", "operator-1", vesselChecks, byRole, time.Now().UTC(), nil)
	assert.Equal(t, models.RiskHigh, op.Overall)
	assert.Equal(t, models.RiskHigh, op.Vessel)
}

func TestDomainSubsetIsolatesCategory(t *testing.T) {
	vesselChecks := []models.CheckResult{
		{DescriptorID: "port_country_risk", Category: models.CategoryPortCountry, Level: models.RiskHigh},
		{DescriptorID: "vessel_watchlist", Category: models.CategoryVesselSanctions, Level: models.RiskNone},
	}
	op := Operation("op-1", "biz-1", "warehousing", "9842190", "MV Test", "operator-1", vesselChecks, nil, time.Now().UTC(),
		[]DomainSubset{{Name: "port-risk", Categories: []models.CheckCategory{models.CategoryPortCountry}}})
	assert.Equal(t, models.RiskHigh, op.DomainStatuses["port-risk"])
	assert.Equal(t, models.RiskHigh, op.Vessel) // still dominates overall vessel status
}

func TestReaggregateRecomputesWithoutNewChecks(t *testing.T) {
	v := models.OperationVerdict{
		VesselChecks: []models.CheckResult{{Level: models.RiskHigh}},
		StakeholdersByRole: map[string][]models.StakeholderVerdict{
			"buyer": {{Level: models.RiskNone}},
		},
	}
	Reaggregate(&v, nil)
	assert.Equal(t, models.RiskHigh, v.Overall)
	assert.Equal(t, models.RiskHigh, v.Vessel)
	assert.Equal(t, models.RiskNone, v.Stakeholder)
}
