// ABOUTME: Result bag types as delivered by the measurement SDK.
// ABOUTME: Point values arrive as strings or numbers and are kept as raw text.
package results

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is the raw text of a point value. JSON strings are unquoted, numbers
// keep their literal form and null becomes empty.
type Value string

// UnmarshalJSON accepts a string, a number, a boolean or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("point value: %w", err)
		}
		*v = Value(s)
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("point value: unsupported JSON %s", data)
	default:
		*v = Value(data)
	}
	return nil
}

// Float parses the value like JavaScript parseFloat and reports whether a
// finite number was found.
func (v Value) Float() (float64, bool) {
	return ParseFloatPrefix(string(v))
}

// Point is one entry of the result bag. Only Value is interpreted.
type Point struct {
	Value   Value           `json:"value"`
	Channel json.RawMessage `json:"channel,omitempty"`
	Notes   json.RawMessage `json:"notes,omitempty"`
	Dial    json.RawMessage `json:"dial,omitempty"`
	Meta    json.RawMessage `json:"meta,omitempty"`
	Info    json.RawMessage `json:"info,omitempty"`
}

// Bag maps metric keys to result points.
type Bag map[string]Point

// Results is a finished measurement: its points plus the identifiers the
// SDK attaches to it.
type Results struct {
	Points        Bag      `json:"points"`
	MeasurementID string   `json:"measurementId,omitempty"`
	AvgStarRating *float64 `json:"avgStarRating,omitempty"`
}

// Keys returns the metric keys present in the bag.
func (b Bag) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	return keys
}

// OnlySignal reports whether the bag holds nothing but the signal-to-noise
// reading, which the dashboard treats as an empty measurement.
func (b Bag) OnlySignal() bool {
	_, ok := b["SNR"]
	return ok && len(b) == 1
}
