// Package reconciliation replays human approval overrides onto the latest
// machine-computed verdict for an operation (spec §4.H). It never re-runs
// upstream checks — only aggregator.Reaggregate over already-mutated
// stakeholder entries — and only appends a new change-log revision when the
// resulting projection actually differs from the last one recorded.
package reconciliation

import (
	"context"

	"github.com/oceanic/riskscreen/internal/aggregator"
	"github.com/oceanic/riskscreen/internal/models"
	"github.com/oceanic/riskscreen/internal/normalize"
	"github.com/oceanic/riskscreen/internal/registry"
)

// Store is the subset of store.Store reconciliation depends on. Kept as an
// interface so tests substitute an in-memory fake.
type Store interface {
	LatestVerdict(ctx context.Context, operationID string) (models.OperationVerdict, error)
	Approvals(ctx context.Context, operationID string) ([]models.ApprovalRecord, error)
	LatestChangeLogEntry(ctx context.Context, operationID string) (models.OperationVerdict, bool, error)
	AppendChangeLog(ctx context.Context, v models.OperationVerdict) error
}

// Reconciler runs §4.H over one store.
type Reconciler struct {
	store Store
}

// New wires a Reconciler.
func New(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile loads the latest verdict and every approval recorded for
// operationID, applies each approval by timestamp precedence, re-aggregates,
// and appends a change-log revision only on divergence. The bool result
// reports whether a new row was appended.
func (r *Reconciler) Reconcile(ctx context.Context, operationID string) (models.OperationVerdict, bool, error) {
	verdict, err := r.store.LatestVerdict(ctx, operationID)
	if err != nil {
		return models.OperationVerdict{}, false, err
	}

	approvals, err := r.store.Approvals(ctx, operationID)
	if err != nil {
		return models.OperationVerdict{}, false, err
	}

	for _, a := range approvals {
		applyApproval(&verdict, a)
	}

	aggregator.Reaggregate(&verdict, registry.DomainSubsets(verdict.Vertical))

	previous, hasPrevious, err := r.store.LatestChangeLogEntry(ctx, operationID)
	if err != nil {
		return models.OperationVerdict{}, false, err
	}

	if hasPrevious && sameProjection(previous, verdict) {
		return verdict, false, nil
	}

	verdict.Revision = previous.Revision + 1
	if err := r.store.AppendChangeLog(ctx, verdict); err != nil {
		return models.OperationVerdict{}, false, err
	}
	return verdict, true, nil
}

// applyApproval locates the (role, name) entry the approval targets — role
// matched case-insensitively against the verdict's role keys, name matched
// via normalize.EqualFold — and overwrites it only if the approval postdates
// the entry's current changed_at (a zero changed_at already sorts before any
// real approved_at, giving the "missing treated as minus-infinity" rule for
// free).
func applyApproval(v *models.OperationVerdict, a models.ApprovalRecord) {
	for role, entries := range v.StakeholdersByRole {
		if !normalize.EqualFold(role, a.Role) {
			continue
		}
		for i, entry := range entries {
			if !normalize.EqualFold(entry.Entity.Name, a.Name) {
				continue
			}
			if a.ApprovedAt.After(entry.ChangedAt) {
				entries[i].Level = a.OverrideLevel
				entries[i].ChangedAt = a.ApprovedAt
				entries[i].ChangeReason = a.Reason
			}
		}
		return
	}
}

type stakeholderKey struct {
	role string
	name string
}

// projection flattens a verdict's stakeholder entries into (role, name) ->
// risk_level, the shape spec §4.H step 5 compares across revisions.
func projection(v models.OperationVerdict) map[stakeholderKey]models.RiskLevel {
	out := make(map[stakeholderKey]models.RiskLevel)
	for role, entries := range v.StakeholdersByRole {
		for _, e := range entries {
			out[stakeholderKey{role: normalize.Name(role), name: normalize.Name(e.Entity.Name)}] = e.Level
		}
	}
	return out
}

func sameProjection(a, b models.OperationVerdict) bool {
	pa, pb := projection(a), projection(b)
	if len(pa) != len(pb) {
		return false
	}
	for k, v := range pa {
		if pb[k] != v {
			return false
		}
	}
	return true
}
