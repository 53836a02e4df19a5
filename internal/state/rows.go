package state

import (
	"slices"

	"github.com/jxwalker/tablemgr/internal/table"
)

// RowState is the full, unfiltered row collection in insertion order.
type RowState struct {
	Rows []table.Row
}

// RowAction is a transition applied by ReduceRows.
type RowAction interface{ rowAction() }

type (
	// InsertRow appends a row. Identifier uniqueness is the caller's job.
	InsertRow struct{ Row table.Row }
	// UpdateRow replaces the row with a matching ID; unknown IDs are ignored.
	UpdateRow struct{ Row table.Row }
	// DeleteRow removes the row with ID; unknown IDs are ignored.
	DeleteRow struct{ ID string }
	// ReplaceRows swaps in a whole new collection, as after an import.
	ReplaceRows struct{ Rows []table.Row }
)

func (InsertRow) rowAction()   {}
func (UpdateRow) rowAction()   {}
func (DeleteRow) rowAction()   {}
func (ReplaceRows) rowAction() {}

// ReduceRows returns the state after applying a. It never writes to the
// backing array of s, so earlier states stay valid.
func ReduceRows(s RowState, a RowAction) RowState {
	switch a := a.(type) {
	case InsertRow:
		out := make([]table.Row, len(s.Rows), len(s.Rows)+1)
		copy(out, s.Rows)
		return RowState{Rows: append(out, a.Row)}
	case UpdateRow:
		i := indexOf(s.Rows, a.Row.ID)
		if i < 0 {
			return s
		}
		out := slices.Clone(s.Rows)
		out[i] = a.Row
		return RowState{Rows: out}
	case DeleteRow:
		i := indexOf(s.Rows, a.ID)
		if i < 0 {
			return s
		}
		out := make([]table.Row, 0, len(s.Rows)-1)
		out = append(out, s.Rows[:i]...)
		return RowState{Rows: append(out, s.Rows[i+1:]...)}
	case ReplaceRows:
		return RowState{Rows: slices.Clone(a.Rows)}
	}
	return s
}

func indexOf(rows []table.Row, id string) int {
	return slices.IndexFunc(rows, func(r table.Row) bool { return r.ID == id })
}

// RowStore owns a RowState and applies actions to it. It is not safe for
// concurrent use; the UI mutates it from a single goroutine.
type RowStore struct {
	state RowState
}

// NewRowStore returns a store holding rows.
func NewRowStore(rows []table.Row) *RowStore {
	return &RowStore{state: RowState{Rows: slices.Clone(rows)}}
}

// Dispatch applies a and returns the new state.
func (s *RowStore) Dispatch(a RowAction) RowState {
	s.state = ReduceRows(s.state, a)
	return s.state
}

func (s *RowStore) State() RowState { return s.state }

// Rows returns the current collection. Callers must not modify it.
func (s *RowStore) Rows() []table.Row { return s.state.Rows }

func (s *RowStore) Len() int { return len(s.state.Rows) }

// Find returns the row with id.
func (s *RowStore) Find(id string) (table.Row, bool) {
	i := indexOf(s.state.Rows, id)
	if i < 0 {
		return table.Row{}, false
	}
	return s.state.Rows[i], true
}

func (s *RowStore) Insert(r table.Row)          { s.Dispatch(InsertRow{Row: r}) }
func (s *RowStore) UpdateByID(r table.Row)      { s.Dispatch(UpdateRow{Row: r}) }
func (s *RowStore) DeleteByID(id string)        { s.Dispatch(DeleteRow{ID: id}) }
func (s *RowStore) ReplaceAll(rows []table.Row) { s.Dispatch(ReplaceRows{Rows: rows}) }
