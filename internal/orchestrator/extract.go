package orchestrator

// Small defensive helpers for pulling typed values out of the generic
// map[string]interface{} envelopes the upstream adapters decode JSON into.
// Grounded on the field-by-field dict access in
// original_source/sts_bunkering_risk.py's normalize_* helpers, which never
// assume a key is present or correctly typed.

// unwrapData unwraps Intelligence-A's documented response envelope
// ({IsSuccess, Data: {Items: [...], ...scalar fields}} per spec §4.A) down
// to its Data object. A response with no Data key (Intelligence-B's flat
// contract, or a caller-constructed test fixture) is returned unchanged.
func unwrapData(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	if data, ok := m["Data"].(map[string]interface{}); ok {
		return data
	}
	return m
}

func getItems(m map[string]interface{}) []map[string]interface{} {
	data := unwrapData(m)
	if data == nil {
		return nil
	}
	raw, _ := data["Items"].([]interface{})
	out := make([]map[string]interface{}, 0, len(raw))
	for _, it := range raw {
		if im, ok := it.(map[string]interface{}); ok {
			out = append(out, im)
		}
	}
	return out
}

// firstItem returns the first element of m's Data.Items, the shape
// Intelligence-A uses to carry a single vessel's scalar fields (e.g.
// TotalRiskScore, Flag) alongside its Items array.
func firstItem(m map[string]interface{}) map[string]interface{} {
	items := getItems(m)
	if len(items) == 0 {
		return nil
	}
	return items[0]
}

func getString(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func getFloat(m map[string]interface{}, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	f, ok := m[key].(float64)
	return f, ok
}

func getBool(m map[string]interface{}, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

func getMap(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	sub, _ := m[key].(map[string]interface{})
	return sub
}

func getStringSlice(m map[string]interface{}, key string) []string {
	if m == nil {
		return nil
	}
	raw, _ := m[key].([]interface{})
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
