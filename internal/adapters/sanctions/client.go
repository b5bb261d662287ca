// Package sanctions implements the entity sanctions lookup (grounded on
// original_source/sts_bunkering_risk.py's get_sanction_info and
// get_sanction_desc_and_info): a fuzzy ILIKE lookup by entity name against
// the sanctions risk result and description tables, with a no-hit default.
package sanctions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/oceanic/riskscreen/internal/riskerr"
)

// Result mirrors the original's default shape: {"sanctions_lev": "无风险",
// "reason": {}} on a miss, populated fields on a hit.
type Result struct {
	SanctionsLevel       string
	SanctionsList        []string
	MidSanctionsList     []string
	NoSanctionsList      []string
	IsSanctioned         bool
	IsStateOwned         bool
	IsOOL                bool
	IsOneYear            bool
	IsSanctionedCountry  bool
}

type Client struct {
	db     *sql.DB
	schema string
}

func New(db *sql.DB, schema string) *Client {
	return &Client{db: db, schema: schema}
}

// Lookup fuzzy-matches entityName against the sanctions risk table. A miss
// is not an error: it returns the no-sanctions default, matching the
// original's fallback behavior on both "not found" and query failure paths
// (query failures are still surfaced as an error here, since silently
// treating a DB outage as "clean" would understate risk).
func (c *Client) Lookup(ctx context.Context, entityName string) (Result, error) {
	query := fmt.Sprintf(`
		SELECT sanctions_lev, sanctions_list, mid_sanctions_list, no_sanctions_list,
		       is_san, is_sco, is_ool, is_one_year, is_sanctioned_countries
		FROM %s.sanctions_risk_result
		WHERE entity_name ILIKE '%%' || $1 || '%%'
		LIMIT 1`, c.schema)

	var (
		level                                                 sql.NullString
		sanctionsJSON, midJSON, noneJSON                      sql.NullString
		isSan, isSco, isOOL, isOneYear, isSanctionedCountry    sql.NullBool
	)
	row := c.db.QueryRowContext(ctx, query, entityName)
	err := row.Scan(&level, &sanctionsJSON, &midJSON, &noneJSON, &isSan, &isSco, &isOOL, &isOneYear, &isSanctionedCountry)
	if err == sql.ErrNoRows {
		return Result{SanctionsLevel: "无风险"}, nil
	}
	if err != nil {
		return Result{}, riskerr.Adapter("sanctions.Lookup", err)
	}

	return Result{
		SanctionsLevel:      level.String,
		SanctionsList:       parseStringList(sanctionsJSON.String),
		MidSanctionsList:    parseStringList(midJSON.String),
		NoSanctionsList:     parseStringList(noneJSON.String),
		IsSanctioned:        isSan.Bool,
		IsStateOwned:        isSco.Bool,
		IsOOL:               isOOL.Bool,
		IsOneYear:           isOneYear.Bool,
		IsSanctionedCountry: isSanctionedCountry.Bool,
	}, nil
}

// DescribeRisk fetches the human-readable description for a risk item,
// grounded on get_sanction_desc_and_info; riskLevel is optional.
func (c *Client) DescribeRisk(ctx context.Context, checkItemKeyword, riskType, riskLevel string) (string, error) {
	query := fmt.Sprintf(`
		SELECT description FROM %s.sanctions_des_info
		WHERE check_item_keyword = $1 AND risk_type = $2`, c.schema)
	args := []interface{}{checkItemKeyword, riskType}
	if riskLevel != "" {
		query += " AND risk_level ILIKE $3"
		args = append(args, riskLevel)
	}

	var desc sql.NullString
	err := c.db.QueryRowContext(ctx, query, args...).Scan(&desc)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", riskerr.Adapter("sanctions.DescribeRisk", err)
	}
	return desc.String, nil
}

// parseStringList normalizes a historical JSON-array-or-delimited-string
// column into a single []string shape, resolving the DESIGN.md open
// question on DowJones flag representation: callers always see []string.
func parseStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}
	return []string{raw}
}
