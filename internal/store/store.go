// Package store implements the append-only verdict persistence layer
// (spec §4.I): a primary log of one row per screening call and a change
// log written only on approval-reconciliation divergence. Grounded on the
// teacher's internal/database/supabase.go typed CRUD-wrapper shape, adapted
// from Supabase REST calls to raw parameterized SQL via database/sql +
// lib/pq, since original_source/external_voyage_approval_api.py's
// "SELECT ... ORDER BY request_time DESC LIMIT 1" / "INSERT INTO
// lng.approval_records_table" queries need arbitrary SQL a REST table
// builder doesn't expose.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/oceanic/riskscreen/internal/models"
	"github.com/oceanic/riskscreen/internal/riskerr"
)

// Store wraps the Postgres-compatible connection pool holding the verdict
// primary log, change log, and approval log tables.
type Store struct {
	db     *sql.DB
	schema string
}

// New wraps an already-opened *sql.DB (callers build it with
// sql.Open("postgres", dsn) so the pool can be shared process-wide, per
// spec §5 "Shared resources").
func New(db *sql.DB, schema string) *Store {
	if schema == "" {
		schema = "public"
	}
	return &Store{db: db, schema: schema}
}

// Open is a convenience constructor that opens and pings a fresh pool,
// matching the teacher's "validate DB reachable on first attempt" startup
// behavior (spec §6 exit/fatal conditions).
func Open(dsn, schema string, maxOpen, maxIdle int) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, riskerr.Config("store.Open", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, riskerr.Config("store.Open", fmt.Errorf("database unreachable: %w", err))
	}

	return New(db, schema), nil
}

// verdictRow is the shared row shape for both the primary log and the
// change log: projected columns for query, full JSON body for replay.
type verdictRow struct {
	id             string
	businessNumber string
	vertical       string
	vesselIMO      string
	overall        string
	vessel         string
	stakeholder    string
	payload        []byte
	computedAt     time.Time
}

func toRow(v models.OperationVerdict) (verdictRow, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return verdictRow{}, fmt.Errorf("store: marshaling verdict: %w", err)
	}
	return verdictRow{
		id:             v.ID,
		businessNumber: v.BusinessNumber,
		vertical:       v.Vertical,
		vesselIMO:      v.VesselIMO,
		overall:        v.Overall.String(),
		vessel:         v.Vessel.String(),
		stakeholder:    v.Stakeholder.String(),
		payload:        payload,
		computedAt:     v.ComputedAt,
	}, nil
}

// AppendVerdict inserts one row into the primary verdict log. Writes are
// append-only: there is no update path, matching spec §4.I and §7's
// PersistFailure contract — the verdict must not be reported as persisted
// if the row did not commit, so this returns an error rather than logging
// and swallowing it.
func (s *Store) AppendVerdict(ctx context.Context, v models.OperationVerdict) error {
	row, err := toRow(v)
	if err != nil {
		return riskerr.Persist("store.AppendVerdict", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.voyage_risk_log
			(uuid, business_number, vertical, vessel_imo, overall_status, vessel_status,
			 stakeholder_status, payload, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, s.schema)

	if _, err := s.db.ExecContext(ctx, query,
		row.id, row.businessNumber, row.vertical, row.vesselIMO,
		row.overall, row.vessel, row.stakeholder, row.payload, row.computedAt,
	); err != nil {
		return riskerr.Persist("store.AppendVerdict", err)
	}
	return nil
}

// LatestVerdict loads the most recent primary-log row for an operation UUID,
// matching original_source's "ORDER BY request_time DESC LIMIT 1" shape.
func (s *Store) LatestVerdict(ctx context.Context, operationID string) (models.OperationVerdict, error) {
	query := fmt.Sprintf(`
		SELECT payload FROM %s.voyage_risk_log
		WHERE uuid = $1 ORDER BY computed_at DESC LIMIT 1`, s.schema)

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, operationID).Scan(&payload)
	if err == sql.ErrNoRows {
		return models.OperationVerdict{}, riskerr.LookupMiss("store.LatestVerdict", fmt.Errorf("no verdict for uuid %s", operationID))
	}
	if err != nil {
		return models.OperationVerdict{}, riskerr.Adapter("store.LatestVerdict", err)
	}

	var v models.OperationVerdict
	if err := json.Unmarshal(payload, &v); err != nil {
		return models.OperationVerdict{}, fmt.Errorf("store: decoding verdict: %w", err)
	}
	return v, nil
}

// AppendChangeLog inserts a reconciled verdict revision into the change
// log, used only by approval reconciliation on divergence (spec §4.H step
// 5). Shape mirrors the primary log exactly.
func (s *Store) AppendChangeLog(ctx context.Context, v models.OperationVerdict) error {
	row, err := toRow(v)
	if err != nil {
		return riskerr.Persist("store.AppendChangeLog", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.voyage_risk_change_log
			(uuid, business_number, vertical, vessel_imo, overall_status, vessel_status,
			 stakeholder_status, payload, computed_at, revision)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, s.schema)

	if _, err := s.db.ExecContext(ctx, query,
		row.id, row.businessNumber, row.vertical, row.vesselIMO,
		row.overall, row.vessel, row.stakeholder, row.payload, row.computedAt, v.Revision,
	); err != nil {
		return riskerr.Persist("store.AppendChangeLog", err)
	}
	return nil
}

// LatestChangeLogEntry loads the most recent change-log row for an
// operation, or returns (models.OperationVerdict{}, false, nil) if none
// exists yet — used by reconciliation's §4.H step 5 divergence check.
func (s *Store) LatestChangeLogEntry(ctx context.Context, operationID string) (models.OperationVerdict, bool, error) {
	query := fmt.Sprintf(`
		SELECT payload FROM %s.voyage_risk_change_log
		WHERE uuid = $1 ORDER BY revision DESC LIMIT 1`, s.schema)

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, operationID).Scan(&payload)
	if err == sql.ErrNoRows {
		return models.OperationVerdict{}, false, nil
	}
	if err != nil {
		return models.OperationVerdict{}, false, riskerr.Adapter("store.LatestChangeLogEntry", err)
	}

	var v models.OperationVerdict
	if err := json.Unmarshal(payload, &v); err != nil {
		return models.OperationVerdict{}, false, fmt.Errorf("store: decoding change-log verdict: %w", err)
	}
	return v, true, nil
}

// AppendApprovals inserts one row per ApprovalRecord into the approval log,
// grounded on original_source's insert_approval_record.
func (s *Store) AppendApprovals(ctx context.Context, approvals []models.ApprovalRecord) error {
	if len(approvals) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.approval_records_table
			(uuid, role, name, override_level, reason, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, s.schema)

	for _, a := range approvals {
		if _, err := s.db.ExecContext(ctx, query,
			a.OperationID, a.Role, a.Name, a.OverrideLevel.String(), a.Reason, a.ApprovedAt,
		); err != nil {
			return riskerr.Persist("store.AppendApprovals", err)
		}
	}
	return nil
}

// Approvals loads every approval recorded for an operation, ordered by
// approved_at ascending (spec §4.H step 2).
func (s *Store) Approvals(ctx context.Context, operationID string) ([]models.ApprovalRecord, error) {
	query := fmt.Sprintf(`
		SELECT role, name, override_level, reason, approved_at
		FROM %s.approval_records_table
		WHERE uuid = $1 ORDER BY approved_at ASC`, s.schema)

	rows, err := s.db.QueryContext(ctx, query, operationID)
	if err != nil {
		return nil, riskerr.Adapter("store.Approvals", err)
	}
	defer rows.Close()

	var out []models.ApprovalRecord
	for rows.Next() {
		var role, name, levelStr, reason string
		var approvedAt time.Time
		if err := rows.Scan(&role, &name, &levelStr, &reason, &approvedAt); err != nil {
			return nil, riskerr.Adapter("store.Approvals", err)
		}
		out = append(out, models.ApprovalRecord{
			OperationID:   operationID,
			Role:          role,
			Name:          name,
			OverrideLevel: parseLevel(levelStr),
			Reason:        reason,
			ApprovedAt:    approvedAt,
		})
	}
	return out, rows.Err()
}

func parseLevel(s string) models.RiskLevel {
	switch s {
	case "high":
		return models.RiskHigh
	case "medium":
		return models.RiskMedium
	default:
		return models.RiskNone
	}
}
