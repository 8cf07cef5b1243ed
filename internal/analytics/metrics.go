package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is a single metric value: either a number or verbatim text.
// Exports mix numeric columns with free-text columns (post titles, links),
// so the distinction is made explicit at parse time instead of at use time.
type Value struct {
	Number float64
	Text   string
	IsText bool
}

// Num wraps a numeric metric value.
func Num(f float64) Value {
	return Value{Number: f}
}

// Str wraps a text metric value.
func Str(s string) Value {
	return Value{Text: s, IsText: true}
}

// Float returns the numeric value, or 0 for text values.
func (v Value) Float() float64 {
	if v.IsText {
		return 0
	}
	return v.Number
}

// MarshalJSON encodes numbers as JSON numbers and text verbatim as JSON
// strings, matching the serialized dataset shape.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsText {
		return json.Marshal(v.Text)
	}
	return json.Marshal(v.Number)
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		v.IsText = true
		v.Number = 0
		return json.Unmarshal(data, &v.Text)
	}
	v.IsText = false
	v.Text = ""
	return json.Unmarshal(data, &v.Number)
}

// Metrics is an insertion-ordered mapping from canonical metric key to
// value. Ordering follows the raw column order of the source export so
// serialized datasets round-trip stably.
type Metrics struct {
	keys   []string
	values map[string]Value
}

// Set stores a value under key, preserving first-insertion order.
// Setting an existing key overwrites its value in place.
func (m *Metrics) Set(key string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// SetNum stores a numeric value under key.
func (m *Metrics) SetNum(key string, f float64) {
	m.Set(key, Num(f))
}

// SetStr stores a text value under key.
func (m *Metrics) SetStr(key, s string) {
	m.Set(key, Str(s))
}

// Get returns the value for key.
func (m Metrics) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Float returns the numeric value for key, 0 when absent or text.
func (m Metrics) Float(key string) float64 {
	return m.values[key].Float()
}

// Keys returns the metric keys in insertion order. The returned slice is
// shared; callers must not modify it.
func (m Metrics) Keys() []string {
	return m.keys
}

// Len returns the number of metrics.
func (m Metrics) Len() int {
	return len(m.keys)
}

// MarshalJSON writes the metrics as a JSON object in insertion order.
func (m Metrics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving its key order.
func (m *Metrics) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("metrics: expected object, got %v", tok)
	}

	m.keys = nil
	m.values = make(map[string]Value)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		switch v := valTok.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return err
			}
			m.Set(key, Num(f))
		case string:
			m.Set(key, Str(v))
		case bool:
			// Tolerated in stored data; coerced to 1/0.
			if v {
				m.Set(key, Num(1))
			} else {
				m.Set(key, Num(0))
			}
		case nil:
			m.Set(key, Num(0))
		default:
			return fmt.Errorf("metrics: unsupported value for %q", key)
		}
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
