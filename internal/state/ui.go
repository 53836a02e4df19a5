package state

import (
	"slices"
	"strings"

	ferrors "github.com/jxwalker/tablemgr/internal/errors"
	"github.com/jxwalker/tablemgr/internal/table"
)

// UIState is the column configuration plus session-wide view settings.
type UIState struct {
	Columns []table.Column
	Theme   table.Theme
	Search  string
}

// DefaultUIState is what a fresh session starts with.
func DefaultUIState() UIState {
	return UIState{Columns: table.DefaultColumns(), Theme: table.ThemeLight}
}

// UIAction is a transition applied by ReduceUI.
type UIAction interface{ uiAction() }

type (
	// ToggleColumn flips visibility; unknown keys are ignored.
	ToggleColumn struct{ Key string }
	// AddColumn appends a definition without checking for duplicates; use
	// PrepareColumn first.
	AddColumn struct{ Column table.Column }
	SetTheme  struct{ Theme table.Theme }
	SetSearch struct{ Text string }
	// ReorderColumns replaces the whole column list.
	ReorderColumns struct{ Columns []table.Column }
)

func (ToggleColumn) uiAction()   {}
func (AddColumn) uiAction()      {}
func (SetTheme) uiAction()       {}
func (SetSearch) uiAction()      {}
func (ReorderColumns) uiAction() {}

// ReduceUI returns the state after applying a without touching s.
func ReduceUI(s UIState, a UIAction) UIState {
	switch a := a.(type) {
	case ToggleColumn:
		i := slices.IndexFunc(s.Columns, func(c table.Column) bool { return c.Key == a.Key })
		if i < 0 {
			return s
		}
		cols := slices.Clone(s.Columns)
		cols[i].Visible = !cols[i].Visible
		s.Columns = cols
	case AddColumn:
		cols := make([]table.Column, len(s.Columns), len(s.Columns)+1)
		copy(cols, s.Columns)
		s.Columns = append(cols, a.Column)
	case SetTheme:
		s.Theme = a.Theme
	case SetSearch:
		s.Search = a.Text
	case ReorderColumns:
		s.Columns = slices.Clone(a.Columns)
	}
	return s
}

// PrepareColumn turns a user-typed label into a visible column definition,
// refusing blank labels and labels whose derived key is already taken.
func PrepareColumn(cols []table.Column, label string) (table.Column, error) {
	label = strings.TrimSpace(label)
	key := table.DeriveKey(label)
	if key == "" {
		return table.Column{}, ferrors.EmptyColumnLabel()
	}
	for _, c := range cols {
		if c.Key == key {
			return table.Column{}, ferrors.DuplicateColumnKey(key)
		}
	}
	return table.Column{Key: key, Label: label, Visible: true}, nil
}

// MoveColumn returns a copy of cols with the entry at i shifted by delta.
// Out-of-range moves return cols unchanged.
func MoveColumn(cols []table.Column, i, delta int) []table.Column {
	j := i + delta
	if i < 0 || i >= len(cols) || j < 0 || j >= len(cols) {
		return cols
	}
	out := slices.Clone(cols)
	out[i], out[j] = out[j], out[i]
	return out
}

// UIStore owns a UIState. Like RowStore it is single-goroutine.
type UIStore struct {
	state UIState
}

func NewUIStore(s UIState) *UIStore {
	s.Columns = slices.Clone(s.Columns)
	return &UIStore{state: s}
}

// Dispatch applies a and returns the new state.
func (s *UIStore) Dispatch(a UIAction) UIState {
	s.state = ReduceUI(s.state, a)
	return s.state
}

func (s *UIStore) State() UIState          { return s.state }
func (s *UIStore) Columns() []table.Column { return s.state.Columns }
func (s *UIStore) Theme() table.Theme      { return s.state.Theme }
func (s *UIStore) Search() string          { return s.state.Search }

// VisibleColumns returns the checked columns in display order.
func (s *UIStore) VisibleColumns() []table.Column {
	var out []table.Column
	for _, c := range s.state.Columns {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// VisibleKeys returns the keys of VisibleColumns.
func (s *UIStore) VisibleKeys() []string {
	var out []string
	for _, c := range s.state.Columns {
		if c.Visible {
			out = append(out, c.Key)
		}
	}
	return out
}

// Column returns the definition for key.
func (s *UIStore) Column(key string) (table.Column, bool) {
	for _, c := range s.state.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return table.Column{}, false
}

func (s *UIStore) ToggleVisibility(key string) { s.Dispatch(ToggleColumn{Key: key}) }
func (s *UIStore) AddColumn(c table.Column)    { s.Dispatch(AddColumn{Column: c}) }
func (s *UIStore) SetTheme(t table.Theme)      { s.Dispatch(SetTheme{Theme: t}) }
func (s *UIStore) SetSearch(text string)       { s.Dispatch(SetSearch{Text: text}) }
func (s *UIStore) Reorder(cols []table.Column) { s.Dispatch(ReorderColumns{Columns: cols}) }
