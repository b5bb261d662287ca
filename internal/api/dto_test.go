package api

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oceanic/riskscreen/internal/models"
	"github.com/oceanic/riskscreen/internal/riskerr"
)

func TestToVerdictDTO_RendersWireVocabulary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v := models.OperationVerdict{
		ID:       "op-1",
		Vertical: "sts_bunkering",
		Overall:  models.RiskHigh,
		Vessel:   models.RiskHigh,
		Stakeholder: models.RiskMedium,
		VesselChecks: []models.CheckResult{
			{DescriptorID: "vessel_current_sanctions", Level: models.RiskHigh, EvaluatedAt: now},
		},
		StakeholdersByRole: map[string][]models.StakeholderVerdict{
			"seller": {
				{Entity: models.Entity{Name: "Acme"}, Level: models.RiskMedium, ScreenedAt: now, ChangedAt: now, ChangeReason: "escalated"},
			},
		},
		DomainStatuses: map[string]models.RiskLevel{"cargo_risk": models.RiskMedium},
		RequestedAt:    now,
		ComputedAt:     now,
	}

	dto := toVerdictDTO(v)

	assert.Equal(t, "拦截", dto.OverallStatus)
	assert.Equal(t, "高风险", dto.VesselStatus)
	assert.Equal(t, "中风险", dto.StakeholderStatus)
	assert.Equal(t, "高风险", dto.VesselChecks[0].RiskLevel)
	assert.Equal(t, "中风险", dto.Stakeholders["seller"][0].RiskLevel)
	assert.Equal(t, "escalated", dto.Stakeholders["seller"][0].ChangeReason)
	assert.Equal(t, "中风险", dto.DomainStatuses["cargo_risk"])
}

func TestWriteOrchestratorError_MapsTaxonomyToStatus(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
	}{
		{riskerr.Config("test", errors.New("missing token")), 502},
		{riskerr.LookupMiss("test", errors.New("no row")), 404},
		{riskerr.Reconciliation("test", errors.New("role missing")), 409},
		{riskerr.Persist("test", errors.New("insert failed")), 500},
		{riskerr.Adapter("test", errors.New("timeout")), 502},
		{errors.New("unclassified"), 500},
	}

	for _, c := range cases {
		w := httptest.NewRecorder()
		writeOrchestratorError(w, c.err)
		assert.Equal(t, c.wantCode, w.Code)
	}
}
