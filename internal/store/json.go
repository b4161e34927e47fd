package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// object parses data as a JSON object, keeping member values raw.
func object(data []byte) (map[string]json.RawMessage, bool) {
	var obj map[string]json.RawMessage

	err := json.Unmarshal(data, &obj)
	if err != nil || obj == nil {
		return nil, false
	}

	return obj, true
}

// array parses data as a JSON array, keeping elements raw.
func array(data []byte) ([]json.RawMessage, bool) {
	if len(data) == 0 {
		return nil, false
	}

	var elems []json.RawMessage

	err := json.Unmarshal(data, &elems)
	if err != nil || elems == nil {
		return nil, false
	}

	return elems, true
}

// str returns raw as a Go string if it is a JSON string.
func str(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}

	return s, true
}

// textOf returns a JSON string's value, or the compact JSON text of any
// other value.
func textOf(raw json.RawMessage) string {
	if s, ok := str(raw); ok {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}

	return buf.String()
}

// boolean returns raw as a bool if it is a JSON boolean.
func boolean(raw json.RawMessage) (bool, bool) {
	switch string(bytes.TrimSpace(raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// checkUTF8 returns the first of values that is not valid UTF-8, which
// encoding/json would silently replace with U+FFFD.
func checkUTF8(field string, values ...string) error {
	for i, v := range values {
		if !utf8.ValidString(v) {
			return fmt.Errorf("%w: %s %d (%q)", ErrInvalidUTF8, field, i+1, v)
		}
	}

	return nil
}
