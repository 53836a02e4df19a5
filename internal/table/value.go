// Package table holds the data model shared by the stores, the view pipeline,
// the CSV codec and the terminal UI: scalar values, rows, columns and themes.
package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind tags the scalar held by a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindText
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "absent"
	}
}

// Value is a tagged scalar: text, number, or absent. The zero Value is absent.
type Value struct {
	kind Kind
	text string
	num  float64
}

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Absent returns the sentinel used for missing fields.
func Absent() Value { return Value{} }

// ParseValue turns cell text into a Value. With inferNumbers set, text becomes
// a number only when it is the canonical rendering of that number, so that
// "007", "1e3" or " 5" stay text and re-encode byte for byte.
func ParseValue(s string, inferNumbers bool) Value {
	if inferNumbers {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			if formatNumber(f) == s {
				return Number(f)
			}
		}
	}
	return Text(s)
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }
func (v Value) IsText() bool   { return v.kind == KindText }
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// AsText returns the text and true when v holds text.
func (v Value) AsText() (string, bool) { return v.text, v.kind == KindText }

// AsNumber returns the number and true when v holds a number.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// String renders the value as cell text. Absent renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return formatNumber(v.num)
	default:
		return ""
	}
}

// Display renders the value for the table body, using "-" for absent fields.
func (v Value) Display() string {
	if v.kind == KindAbsent {
		return "-"
	}
	return v.String()
}

// Equal reports whether both values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	default:
		return true
	}
}

func (v Value) GoString() string {
	switch v.kind {
	case KindText:
		return fmt.Sprintf("table.Text(%q)", v.text)
	case KindNumber:
		return fmt.Sprintf("table.Number(%s)", formatNumber(v.num))
	default:
		return "table.Absent()"
	}
}

// MarshalJSON encodes text as a string, numbers as numbers and absent as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return []byte(formatNumber(v.num)), nil
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Absent()
	case string:
		*v = Text(x)
	case float64:
		*v = Number(x)
	case bool:
		*v = Text(strconv.FormatBool(x))
	default:
		return fmt.Errorf("unsupported json value %s", string(b))
	}
	return nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
