package repository

import (
	"encoding/json"
	"os"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// toRecord flattens v into its JSON field map, the shape stored in DynamoDB.
func toRecord(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// fromRecords decodes stored records into out through their JSON form.
func fromRecords(records any, out any) error {
	if out == nil {
		return nil
	}
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
