package storage

import (
	"encoding/json"
	"strconv"
)

// Flag is a boolean-like configuration value. Config sources hand these
// over as real booleans or as strings (environment variables, JSON), so the
// rule is fixed: false and "false" disable, every other value enables —
// including the absent/zero value.
type Flag string

// Enabled reports whether the flag is on.
func (f Flag) Enabled() bool {
	return f != "false"
}

// UnmarshalJSON accepts a JSON bool, string, or any other scalar.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(strconv.FormatBool(b))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = Flag(s)
		return nil
	}

	// Numbers, null, etc. — anything that is not false-shaped enables.
	*f = Flag(string(data))
	return nil
}
