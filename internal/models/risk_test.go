package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelOrdering(t *testing.T) {
	assert.True(t, RiskNone < RiskMedium)
	assert.True(t, RiskMedium < RiskHigh)
}

func TestMax(t *testing.T) {
	assert.Equal(t, RiskHigh, Max(RiskHigh, RiskNone))
	assert.Equal(t, RiskMedium, Max(RiskNone, RiskMedium))
	assert.Equal(t, RiskNone, Max(RiskNone, RiskNone))
}

func TestWireVocabulary(t *testing.T) {
	assert.Equal(t, "高风险", RiskHigh.Wire())
	assert.Equal(t, "中风险", RiskMedium.Wire())
	assert.Equal(t, "无风险", RiskNone.Wire())
	assert.Equal(t, "拦截", RiskHigh.OperationalStatus())
	assert.Equal(t, "关注", RiskMedium.OperationalStatus())
	assert.Equal(t, "正常", RiskNone.OperationalStatus())
}

func TestMaxOf(t *testing.T) {
	assert.Equal(t, RiskNone, MaxOf())
	assert.Equal(t, RiskHigh, MaxOf(RiskNone, RiskHigh, RiskMedium))
}

func TestParseRiskLevel(t *testing.T) {
	cases := map[string]RiskLevel{
		"High":           RiskHigh,
		"高风险":            RiskHigh,
		"Sanctioned":     RiskHigh,
		"Medium":         RiskMedium,
		"中风险":            RiskMedium,
		"Risks detected": RiskMedium,
		"无风险":            RiskNone,
		"":               RiskNone,
		"garbage":        RiskNone,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseRiskLevel(in), "input %q", in)
	}
}
