// Package orchestrator drives a single screening session (spec §4.F): it
// resolves the check list for a vertical, bulk-prefetches upstream data
// through the coalescing cache, evaluates every check, assembles the
// verdict, and persists it. Grounded on the teacher's
// internal/escrow/interfaces.go pattern of narrow, mockable client
// interfaces plus a staged pipeline method.
package orchestrator

import (
	"context"

	"github.com/oceanic/riskscreen/internal/adapters/sanctions"
	"github.com/oceanic/riskscreen/internal/models"
)

// IntelligenceAClient is the subset of intelligencea.Client the orchestrator
// calls. Declared here so tests substitute a fake without touching net/http.
type IntelligenceAClient interface {
	ComplianceScreening(ctx context.Context, imo, dateWindow string) (map[string]interface{}, error)
	RiskScore(ctx context.Context, imo, dateWindow string) (map[string]interface{}, error)
	Sanctions(ctx context.Context, imo string) (map[string]interface{}, error)
	AdvancedComplianceRisk(ctx context.Context, imo string) (map[string]interface{}, error)
	VoyageEvents(ctx context.Context, imo, dateWindow string) (map[string]interface{}, error)
}

// IntelligenceBClient is the subset of intelligenceb.Client the orchestrator
// calls.
type IntelligenceBClient interface {
	VesselRisks(ctx context.Context, imos []int, startDate, endDate string) ([]map[string]interface{}, error)
	ComplianceScreening(ctx context.Context, imo int) (map[string]interface{}, error)
}

// WatchlistClient is the subset of watchlist.Client the orchestrator calls.
type WatchlistClient interface {
	Contains(ctx context.Context, imo string) (bool, error)
}

// SanctionsClient is the subset of sanctions.Client the orchestrator calls.
type SanctionsClient interface {
	Lookup(ctx context.Context, entityName string) (sanctions.Result, error)
}

// VerdictStore is the subset of store.Store the orchestrator depends on.
// Kept as an interface (rather than *store.Store directly) so tests can
// substitute an in-memory fake instead of a real Postgres connection.
type VerdictStore interface {
	AppendVerdict(ctx context.Context, v models.OperationVerdict) error
	LatestVerdict(ctx context.Context, operationID string) (models.OperationVerdict, error)
}
