package cache

import (
	"encoding/json"
	"fmt"
)

// encodeIDs serializes posted image ids for the SQL repositories
func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode posted ids: %w", err)
	}
	return string(data), nil
}

func decodeIDs(data string) ([]string, error) {
	ids := []string{}
	if data == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode posted ids: %w", err)
	}
	return ids, nil
}
