package data

import "github.com/viant/mdt/internal/model"

// fromInterface converts a generic JSON-shaped Go value (as produced by
// encoding/json, BurntSushi/toml, or yaml.v3 Unmarshal into interface{})
// into the closed model.Value tree. Non-finite floats are rejected.
func fromInterface(v interface{}) (model.Value, error) {
	switch t := v.(type) {
	case nil:
		return model.Null(), nil
	case bool:
		return model.Bool(t), nil
	case string:
		return model.String(t), nil
	case int:
		return model.Number(float64(t)), nil
	case int64:
		return model.Number(float64(t)), nil
	case float64:
		if err := rejectNonFinite(t); err != nil {
			return model.Value{}, err
		}
		return model.Number(t), nil
	case []interface{}:
		items := make([]model.Value, 0, len(t))
		for _, item := range t {
			val, err := fromInterface(item)
			if err != nil {
				return model.Value{}, err
			}
			items = append(items, val)
		}
		return model.Array(items), nil
	case map[string]interface{}:
		obj := model.Object()
		for _, k := range sortedKeys(t) {
			val, err := fromInterface(t[k])
			if err != nil {
				return model.Value{}, err
			}
			obj.Set(k, val)
		}
		return obj, nil
	case map[interface{}]interface{}:
		obj := model.Object()
		for k, raw := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			val, err := fromInterface(raw)
			if err != nil {
				return model.Value{}, err
			}
			obj.Set(ks, val)
		}
		return obj, nil
	}
	return model.Null(), nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Simple insertion sort keeps this dependency-free; data objects are
	// small (config-sized), so O(n^2) is not a concern.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
