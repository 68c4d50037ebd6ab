package shared

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	UnknownWebsiteType = "unknown"
	DefaultCurrency    = "USD"
)

func NonEmpty(a, b string) string {
	a = strings.TrimSpace(a)
	if a != "" {
		return a
	}
	return strings.TrimSpace(b)
}

// Amount is a lenient JSON number: it accepts numbers and numeric strings,
// and silently decodes anything else (null, objects, garbage) as absent.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		b = []byte(strings.TrimSpace(s))
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return nil
	}
	a.Value, a.Valid = d, true
	return nil
}

func (a Amount) Decimal() decimal.Decimal {
	if !a.Valid {
		return decimal.Zero
	}
	return a.Value
}

// StringField reads a string value out of a free-form map, trimming it.
// Non-string values yield "".
func StringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// Text is a lenient JSON string. Numbers are kept as their literal text;
// booleans, objects, arrays and null decode as absent.
type Text struct {
	Value string
	Valid bool
}

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch {
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		t.Value, t.Valid = s, true
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		if json.Valid(b) {
			t.Value, t.Valid = string(b), true
		}
	}
	return nil
}

func (t Text) String() string { return t.Value }

// Fields is a free-form JSON object. Any other JSON value decodes as nil.
type Fields map[string]any

func (f *Fields) UnmarshalJSON(b []byte) error {
	*f = nil
	if !IsObject(b) {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	*f = m
	return nil
}

// IsObject reports whether b holds a JSON object.
func IsObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}
