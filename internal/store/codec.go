package store

import (
	"encoding/json"
	"fmt"
)

// decodeList decodes a stored JSON array. An absent key or a JSON null is an
// empty list; anything else that fails to decode is [ErrCorruptedValue].
func decodeList[T any](raw string, found bool) ([]T, error) {
	if !found || raw == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []T{}, fmt.Errorf("%w: %w", ErrCorruptedValue, err)
	}
	if items == nil {
		items = []T{}
	}

	return items, nil
}

func encodeList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
