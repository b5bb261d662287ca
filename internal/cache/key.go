package cache

import (
	"encoding/hex"
	"encoding/json"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// Key canonicalizes a request's identity (method, URL, query params, body)
// into a fixed-width digest, so that semantically identical requests made
// with parameters in different orders collapse onto the same cache entry.
// Grounded in the upstream orchestrator's per-vessel/date-window cache key,
// generalized to cover every adapter call instead of one hand-built string.
func Key(method, url string, params map[string]string, body interface{}) string {
	canonical := struct {
		Method string            `json:"method"`
		URL    string            `json:"url"`
		Params map[string]string `json:"params"`
		Body   interface{}       `json:"body,omitempty"`
	}{
		Method: method,
		URL:    url,
		Params: sortedCopy(params),
		Body:   normalizeLists(body),
	}

	// json.Marshal sorts map[string]string keys already, but we copy through
	// a struct with a canonical field order so the digest is stable even if
	// that implementation detail ever changes.
	payload, err := json.Marshal(canonical)
	if err != nil {
		// Marshaling a map[string]string/string/interface{} built from JSON
		// data cannot fail in practice; fall back to a degenerate digest of
		// method+url to preserve cache isolation rather than panic.
		payload = []byte(method + "|" + url)
	}

	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// normalizeLists sorts []int/[]string bodies into a canonical order before
// hashing, so a bulk IMO list reordered between two calls (spec §8: "within
// a single bulk IMO list") still collapses onto the same cache key.
func normalizeLists(body interface{}) interface{} {
	switch v := body.(type) {
	case []int:
		out := make([]int, len(v))
		copy(out, v)
		sort.Ints(out)
		return out
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		sort.Strings(out)
		return out
	default:
		return body
	}
}

func sortedCopy(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]string, len(m))
	for _, k := range keys {
		out[k] = m[k]
	}
	return out
}
