// Package intelligencea wraps the five-endpoint vessel compliance/risk
// provider (grounded on original_source/sts_bunkering_risk.py's
// _fetch_all_lloyds_data): compliance screening, risk score, sanctions,
// advanced compliance risk, and voyage events, each a separate GET.
package intelligencea

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oceanic/riskscreen/internal/adapters"
	"github.com/oceanic/riskscreen/internal/riskerr"
)

// ErrAuthDenied is returned when the provider rejects credentials (HTTP
// 403), distinct from a transient failure so callers can surface it as a
// ConfigError rather than retry.
var ErrAuthDenied = errors.New("intelligencea: authentication denied")

type Client struct {
	http *adapters.Client
}

func New(baseURL, bearerToken string) *Client {
	c := adapters.NewClient(baseURL, 120*time.Second, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+bearerToken)
	})
	return &Client{http: c}
}

// ComplianceScreening calls vesselcompliancescreening_v3.
func (c *Client) ComplianceScreening(ctx context.Context, imo, dateWindow string) (map[string]interface{}, error) {
	return c.get(ctx, "/vesselcompliancescreening_v3", imo, dateWindow)
}

// RiskScore calls vesselriskscore.
func (c *Client) RiskScore(ctx context.Context, imo, dateWindow string) (map[string]interface{}, error) {
	return c.get(ctx, "/vesselriskscore", imo, dateWindow)
}

// Sanctions calls vesselsanctions_v2.
func (c *Client) Sanctions(ctx context.Context, imo string) (map[string]interface{}, error) {
	return c.get(ctx, "/vesselsanctions_v2", imo, "")
}

// AdvancedComplianceRisk calls vesseladvancedcompliancerisk_v3, which the
// original gives a 120s timeout since it aggregates the most data.
func (c *Client) AdvancedComplianceRisk(ctx context.Context, imo string) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	return c.get(ctx, "/vesseladvancedcompliancerisk_v3", imo, "")
}

// VoyageEvents calls vesselvoyageevents, also given a 120s timeout upstream.
func (c *Client) VoyageEvents(ctx context.Context, imo, dateWindow string) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	return c.get(ctx, "/vesselvoyageevents", imo, dateWindow)
}

func (c *Client) get(ctx context.Context, path, imo, dateWindow string) (map[string]interface{}, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
	}
	query := map[string]string{"vesselImo": imo}
	if dateWindow != "" {
		query["voyageDateRange"] = dateWindow
	}

	var out map[string]interface{}
	status, err := c.http.Get(ctx, path, query, &out)
	if status == http.StatusForbidden {
		return nil, riskerr.Config(fmt.Sprintf("intelligencea%s", path), ErrAuthDenied)
	}
	if err != nil {
		return nil, riskerr.Adapter(fmt.Sprintf("intelligencea%s", path), err)
	}
	return out, nil
}
