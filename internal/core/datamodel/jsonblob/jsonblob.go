// Package jsonblob provides JSON-backed column types whose scan behavior is
// deliberately lenient: a NULL, empty, or malformed stored blob becomes the
// type's empty value instead of an error, so both storage engines behave
// identically regardless of what historical writers left behind.
package jsonblob

import (
	"database/sql/driver"
	"encoding/json"
)

// Map is a JSON object column (settings, notification preferences).
type Map map[string]any

func (m Map) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *Map) Scan(src any) error {
	*m = Map{}
	raw := asBytes(src)
	if len(raw) == 0 {
		return nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// malformed blob reads as empty, never as an error
		return nil
	}
	if decoded != nil {
		*m = decoded
	}
	return nil
}

// Strings is a JSON array-of-strings column (tags).
type Strings []string

func (s Strings) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Strings) Scan(src any) error {
	*s = Strings{}
	raw := asBytes(src)
	if len(raw) == 0 {
		return nil
	}
	var decoded []string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}
	if decoded != nil {
		*s = decoded
	}
	return nil
}

func asBytes(src any) []byte {
	switch v := src.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}
