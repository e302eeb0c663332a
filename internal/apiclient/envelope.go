package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The inventory API is inconsistent about response keys: some list endpoints
// wrap rows in "data", others in an entity named key, a few return a bare
// array. Everything below translates those shapes into plain slices so the
// rest of the console only sees typed values.

func decodeList[T any](body []byte, alias string) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []T{}, nil
	}
	if body[0] == '[' {
		var rows []T
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return nonNil(rows), nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	for _, key := range []string{"data", alias} {
		raw, ok := envelope[key]
		if !ok || key == "" {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			continue
		}
		var rows []T
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		return nonNil(rows), nil
	}
	return []T{}, nil
}

func decodeOne[T any](body []byte) (T, error) {
	var out T
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return out, fmt.Errorf("decode entity: empty body")
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return out, fmt.Errorf("decode entity: %w", err)
	}
	if raw, ok := envelope["data"]; ok {
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '{' {
			body = raw
		}
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode entity: %w", err)
	}
	return out, nil
}

// errorMessage extracts the backend supplied "message", if any.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
