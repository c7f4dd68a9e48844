package astjson

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FromYAML converts a YAML document into the equivalent JSON so that
// hand-written YAML fixtures go through the same decoder.
func FromYAML(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Msg: fmt.Sprintf("invalid yaml: %v", err)}
	}
	return json.Marshal(jsonCompatible(doc))
}

// jsonCompatible rewrites the map[any]any nodes yaml produces for
// non-string keys.
func jsonCompatible(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = jsonCompatible(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = jsonCompatible(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = jsonCompatible(item)
		}
		return v
	}
	return v
}
