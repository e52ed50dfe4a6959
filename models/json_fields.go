package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/datatypes"
)

// Encoded forms written when a composite field is nil
var (
	EmptyList   = datatypes.JSON("[]")
	EmptyObject = datatypes.JSON("{}")
)

// EncodeJSON marshals v for a JSON text column. A nil slice or map is stored as empty.
func EncodeJSON(v any, empty datatypes.JSON) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json field: %w", err)
	}
	if bytes.Equal(raw, []byte("null")) {
		return empty, nil
	}
	return datatypes.JSON(raw), nil
}

// DecodeList decodes a JSON array of strings. Missing, empty, or malformed input gives an empty slice.
func DecodeList(raw datatypes.JSON) []string {
	out := decodeOr(raw, []string{})
	if out == nil {
		return []string{}
	}
	return out
}

// DecodeObject decodes a JSON object. Missing, empty, or malformed input gives an empty map.
func DecodeObject(raw datatypes.JSON) map[string]any {
	out := decodeOr(raw, map[string]any{})
	if out == nil {
		return map[string]any{}
	}
	return out
}

// DecodeObjectList decodes a JSON array of objects, defaulting to an empty slice.
func DecodeObjectList(raw datatypes.JSON) []map[string]any {
	out := decodeOr(raw, []map[string]any{})
	if out == nil {
		return []map[string]any{}
	}
	return out
}

func decodeOr[T any](raw datatypes.JSON, fallback T) T {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fallback
	}
	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		log.Printf("[PROFILE] Ignoring malformed json field: %v", err)
		return fallback
	}
	return out
}
