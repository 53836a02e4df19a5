package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is one identified record: a stable ID plus an ordered mapping from
// column key to Value. Rows are values; With returns a modified copy and
// never touches the receiver's storage.
type Row struct {
	ID     string
	keys   []string
	fields map[string]Value
}

// NewRow returns an empty row with the given identifier.
func NewRow(id string) Row {
	return Row{ID: id}
}

// Get returns the value stored under key, or Absent when the row has no such
// field.
func (r Row) Get(key string) Value {
	if r.fields == nil {
		return Absent()
	}
	v, ok := r.fields[key]
	if !ok {
		return Absent()
	}
	return v
}

// Has reports whether the row carries a field for key.
func (r Row) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// With returns a copy of r with key set to v. Setting an absent value removes
// the field. New keys are appended after the existing ones.
func (r Row) With(key string, v Value) Row {
	out := Row{ID: r.ID}
	out.keys = make([]string, 0, len(r.keys)+1)
	out.fields = make(map[string]Value, len(r.fields)+1)
	for _, k := range r.keys {
		if k == key && v.IsAbsent() {
			continue
		}
		out.keys = append(out.keys, k)
		out.fields[k] = r.fields[k]
	}
	if v.IsAbsent() {
		return out
	}
	if _, ok := out.fields[key]; !ok {
		out.keys = append(out.keys, key)
	}
	out.fields[key] = v
	return out
}

// Keys returns the field keys in insertion order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r Row) Len() int { return len(r.keys) }

// Each calls fn for every field in order until fn returns false.
func (r Row) Each(fn func(key string, v Value) bool) {
	for _, k := range r.keys {
		if !fn(k, r.fields[k]) {
			return
		}
	}
}

// Project returns a copy holding only the given keys, in the given order.
// Keys the row lacks stay absent.
func (r Row) Project(keys []string) Row {
	out := NewRow(r.ID)
	for _, k := range keys {
		if v := r.Get(k); !v.IsAbsent() {
			out = out.With(k, v)
		}
	}
	return out
}

// SameFields reports whether both rows hold equal values under the same keys,
// ignoring identifiers and key order.
func (r Row) SameFields(o Row) bool {
	if len(r.keys) != len(o.keys) {
		return false
	}
	for _, k := range r.keys {
		ov, ok := o.fields[k]
		if !ok || !r.fields[k].Equal(ov) {
			return false
		}
	}
	return true
}

// Equal reports whether the rows share an ID and the same fields.
func (r Row) Equal(o Row) bool {
	return r.ID == o.ID && r.SameFields(o)
}

// MarshalFields encodes the fields as a JSON object that keeps key order.
func (r Row) MarshalFields() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := r.fields[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalFields decodes a JSON object produced by MarshalFields into a row
// with the given ID, preserving key order. Null members are skipped.
func UnmarshalFields(id string, b []byte) (Row, error) {
	row := NewRow(id)
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return row, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return row, fmt.Errorf("row %s: fields must be a json object", id)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return row, err
		}
		key, ok := tok.(string)
		if !ok {
			return row, fmt.Errorf("row %s: unexpected token %v", id, tok)
		}
		var v Value
		if err := dec.Decode(&v); err != nil {
			return row, fmt.Errorf("row %s field %q: %w", id, key, err)
		}
		row = row.With(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return row, err
	}
	return row, nil
}
