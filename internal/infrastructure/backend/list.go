package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// listKeys are the wrapper fields the backend uses for collections.
var listKeys = []string{"bills", "orders", "books", "customers", "blogs", "posts", "tags", "data", "content"}

// DecodeList accepts either a bare JSON array or an object wrapping the
// array under one of the known collection keys.
func DecodeList[T any](raw []byte) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode list wrapper: %w", err)
	}
	for _, key := range listKeys {
		inner, ok := wrapper[key]
		if !ok {
			continue
		}
		trimmed := bytes.TrimSpace(inner)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			continue
		}
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		return items, nil
	}
	return []T{}, nil
}
