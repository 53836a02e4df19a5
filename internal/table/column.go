package table

import "strings"

// Column describes one field of the table: the key used to index rows, the
// header label, and whether it is shown (and exported).
type Column struct {
	Key     string `yaml:"key" json:"key"`
	Label   string `yaml:"label" json:"label"`
	Visible bool   `yaml:"visible" json:"visible"`
}

// DefaultColumns is the column set a fresh session starts with.
func DefaultColumns() []Column {
	return []Column{
		{Key: "name", Label: "Name", Visible: true},
		{Key: "email", Label: "Email", Visible: true},
		{Key: "age", Label: "Age", Visible: true},
		{Key: "role", Label: "Role", Visible: true},
	}
}

// DeriveKey normalizes a user-typed label into a column key: trimmed,
// lower-cased, with each run of whitespace replaced by a single underscore.
// "Full Name" becomes "full_name".
func DeriveKey(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}

// Theme is the session colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(s string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return ThemeLight, true
	case "dark":
		return ThemeDark, true
	}
	return "", false
}

// Field is one cell of a decoded CSV line.
type Field struct {
	Key   string
	Value string
}

// Record is a flat, ordered CSV line keyed by the file's header.
type Record []Field

// Get returns the cell text for key.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}
