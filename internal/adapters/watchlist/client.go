// Package watchlist implements the vessel watchlist existence lookup
// (grounded on original_source/sts_bunkering_risk.py's _fetch_uani_data /
// check_uani_imo_from_database): a plain equality lookup by IMO against a
// local table, not a fuzzy match.
package watchlist

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/oceanic/riskscreen/internal/riskerr"
)

type Client struct {
	db    *sql.DB
	table string
}

// New wraps an already-opened *sql.DB. Callers construct the DB with
// sql.Open("postgres", dsn) so that a single connection pool can be shared
// with the verdict store when they point at the same instance.
func New(db *sql.DB, table string) *Client {
	return &Client{db: db, table: table}
}

// Contains reports whether the given IMO appears on the watchlist.
func (c *Client) Contains(ctx context.Context, imo string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE imo = $1 LIMIT 1`, c.table)
	var found int
	err := c.db.QueryRowContext(ctx, query, imo).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, riskerr.Adapter("watchlist.Contains", err)
	}
	return found == 1, nil
}
