package intelligenceb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVesselRisksPostsIntArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-123", r.Header.Get("X-Api-Key"))
		var body []int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int{9842190, 9123456}, body)
		w.Write([]byte(`[{"imo": 9842190, "risk_level": "无风险"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-123")
	out, err := c.VesselRisks(context.Background(), []int{9842190, 9123456}, "2025-01-01", "2025-02-01")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.EqualValues(t, 9842190, out[0]["imo"])
}
