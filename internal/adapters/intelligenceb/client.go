// Package intelligenceb wraps the bulk risk-score provider (grounded on
// original_source/sts_bunkering_risk.py's _fetch_kpler_data): a bulk POST of
// integer IMOs against a date window, plus a compliance-screening GET.
package intelligenceb

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/oceanic/riskscreen/internal/adapters"
	"github.com/oceanic/riskscreen/internal/riskerr"
)

type Client struct {
	http *adapters.Client
}

func New(baseURL, apiKey string) *Client {
	c := adapters.NewClient(baseURL, 120*time.Second, func(r *http.Request) {
		r.Header.Set("X-Api-Key", apiKey)
	})
	return &Client{http: c}
}

// VesselRisks bulk-scores a list of IMOs over a date window in one POST.
func (c *Client) VesselRisks(ctx context.Context, imos []int, startDate, endDate string) ([]map[string]interface{}, error) {
	var out []map[string]interface{}
	status, err := c.http.Post(ctx, "", map[string]string{
		"startDate": startDate,
		"endDate":   endDate,
		"accept":    "application/json",
	}, imos, &out)
	if err != nil {
		return nil, riskerr.Adapter("intelligenceb.VesselRisks", fmt.Errorf("status %d: %w", status, err))
	}
	return out, nil
}

// ComplianceScreening fetches the compliance flags for a single vessel.
func (c *Client) ComplianceScreening(ctx context.Context, imo int) (map[string]interface{}, error) {
	var out map[string]interface{}
	_, err := c.http.Get(ctx, "/compliance/compliance-screening", map[string]string{
		"vessels": strconv.Itoa(imo),
	}, &out)
	if err != nil {
		return nil, riskerr.Adapter("intelligenceb.ComplianceScreening", err)
	}
	return out, nil
}
