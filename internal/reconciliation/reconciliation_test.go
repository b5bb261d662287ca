package reconciliation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanic/riskscreen/internal/models"
)

type fakeStore struct {
	verdict       models.OperationVerdict
	approvals     []models.ApprovalRecord
	changeLog     []models.OperationVerdict
	appendedCalls int
}

func (s *fakeStore) LatestVerdict(ctx context.Context, operationID string) (models.OperationVerdict, error) {
	return s.verdict, nil
}

func (s *fakeStore) Approvals(ctx context.Context, operationID string) ([]models.ApprovalRecord, error) {
	return s.approvals, nil
}

func (s *fakeStore) LatestChangeLogEntry(ctx context.Context, operationID string) (models.OperationVerdict, bool, error) {
	if len(s.changeLog) == 0 {
		return models.OperationVerdict{}, false, nil
	}
	return s.changeLog[len(s.changeLog)-1], true, nil
}

func (s *fakeStore) AppendChangeLog(ctx context.Context, v models.OperationVerdict) error {
	s.changeLog = append(s.changeLog, v)
	s.appendedCalls++
	return nil
}

func baseVerdict() models.OperationVerdict {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.OperationVerdict{
		ID:       "op-1",
		Vertical: "purchase",
		StakeholdersByRole: map[string][]models.StakeholderVerdict{
			"seller": {
				{Entity: models.Entity{Kind: "stakeholder", Role: "seller", Name: "Risky Co"}, Level: models.RiskHigh, ScreenedAt: t0, ChangedAt: t0},
			},
			"buyer": {
				{Entity: models.Entity{Kind: "stakeholder", Role: "buyer", Name: "Clean Co"}, Level: models.RiskNone, ScreenedAt: t0, ChangedAt: t0},
			},
		},
	}
}

func TestReconcileOverturnsLaterApprovalAndAppendsChangeLog(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(24 * time.Hour)

	store := &fakeStore{verdict: baseVerdict(), approvals: []models.ApprovalRecord{
		{OperationID: "op-1", Role: "Seller", Name: "risky co", OverrideLevel: models.RiskNone, Reason: "cleared by compliance", ApprovedAt: t1},
	}}

	r := New(store)
	v, appended, err := r.Reconcile(context.Background(), "op-1")

	require.NoError(t, err)
	assert.True(t, appended)
	assert.Equal(t, 1, store.appendedCalls)
	entry := v.StakeholdersByRole["seller"][0]
	assert.Equal(t, models.RiskNone, entry.Level)
	assert.True(t, entry.ChangedAt.Equal(t1))
	assert.Equal(t, "cleared by compliance", entry.ChangeReason)
	assert.Equal(t, models.RiskNone, v.Stakeholder)
	assert.Equal(t, 1, v.Revision)
}

func TestReconcileIgnoresApprovalOlderThanChangedAt(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	stale := t0.Add(-24 * time.Hour)

	store := &fakeStore{verdict: baseVerdict(), approvals: []models.ApprovalRecord{
		{OperationID: "op-1", Role: "seller", Name: "Risky Co", OverrideLevel: models.RiskNone, ApprovedAt: stale},
	}}

	r := New(store)
	v, appended, err := r.Reconcile(context.Background(), "op-1")

	require.NoError(t, err)
	assert.Equal(t, models.RiskHigh, v.StakeholdersByRole["seller"][0].Level)
	assert.True(t, appended, "projection still diverges from empty change log on first reconciliation")
}

func TestReconcileIsIdempotentWhenProjectionUnchanged(t *testing.T) {
	t1 := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{verdict: baseVerdict(), approvals: []models.ApprovalRecord{
		{OperationID: "op-1", Role: "seller", Name: "Risky Co", OverrideLevel: models.RiskNone, ApprovedAt: t1},
	}}

	r := New(store)
	_, appended1, err := r.Reconcile(context.Background(), "op-1")
	require.NoError(t, err)
	require.True(t, appended1)

	_, appended2, err := r.Reconcile(context.Background(), "op-1")
	require.NoError(t, err)
	assert.False(t, appended2, "repeating reconciliation with the same approvals must not append again")
	assert.Equal(t, 1, store.appendedCalls)
}
