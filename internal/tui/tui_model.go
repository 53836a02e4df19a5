package tui

import (
	"context"
	"errors"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jxwalker/tablemgr/internal/config"
	"github.com/jxwalker/tablemgr/internal/csvcodec"
	ferrors "github.com/jxwalker/tablemgr/internal/errors"
	"github.com/jxwalker/tablemgr/internal/logging"
	"github.com/jxwalker/tablemgr/internal/state"
	"github.com/jxwalker/tablemgr/internal/table"
	"github.com/jxwalker/tablemgr/internal/view"
)

// TUIModel owns the two stores and the derived view state (sort and page).
type TUIModel struct {
	cfg  *config.Config
	log  *logging.Logger
	db   *state.DB
	rows *state.RowStore
	ui   *state.UIStore
	pipe *view.Pipeline

	sortKey string
	sortDir view.SortDir
	page    int

	// source is the CSV file the rows came from, if any.
	source       string
	importSeq    int
	importCancel context.CancelFunc
	importing    string

	// pendingImport is started by Init.
	pendingImport string

	savedAt time.Time
	newID   func() string
}

// NewTUIModel creates the model from the session options.
func NewTUIModel(opts Options) *TUIModel {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ui := opts.UI
	if len(ui.Columns) == 0 {
		ui.Columns = cfg.Columns()
	}
	if ui.Theme == "" {
		ui.Theme = table.ThemeLight
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	return &TUIModel{
		cfg:     cfg,
		log:     log,
		db:      opts.DB,
		rows:    state.NewRowStore(opts.Rows),
		ui:      state.NewUIStore(ui),
		pipe:    view.New(opts.Locale),
		sortKey: cfg.Table.DefaultSort,
		page:    1,
		newID:   uuid.NewString,

		pendingImport: opts.ImportPath,
	}
}

// Page computes the current page, clamping the page number first so a
// shrinking result set never leaves the user past the last page.
func (m *TUIModel) Page() view.Result {
	res := m.pipe.Compute(m.input())
	if p := view.ClampPage(m.page, res.TotalPages); p != m.page {
		m.page = p
		res = m.pipe.Compute(m.input())
	}
	return res
}

func (m *TUIModel) input() view.Input {
	return view.Input{
		Rows:    m.rows.Rows(),
		Search:  m.ui.Search(),
		SortKey: m.sortKey,
		SortDir: m.sortDir,
		Page:    m.page,
	}
}

func (m *TUIModel) Rows() *state.RowStore { return m.rows }
func (m *TUIModel) UI() *state.UIStore    { return m.ui }
func (m *TUIModel) PageNum() int          { return m.page }
func (m *TUIModel) Source() string        { return m.source }
func (m *TUIModel) Importing() string     { return m.importing }

func (m *TUIModel) Sort() (string, view.SortDir) { return m.sortKey, m.sortDir }

// SetSearch replaces the search text and returns to page 1.
func (m *TUIModel) SetSearch(text string) {
	if text == m.ui.Search() {
		return
	}
	m.ui.SetSearch(text)
	m.page = 1
}

// SortBy applies the header-click rule to key.
func (m *TUIModel) SortBy(key string) {
	m.sortKey, m.sortDir = view.NextSort(m.sortKey, m.sortDir, key)
}

// NextPage and PrevPage move within [1, TotalPages].
func (m *TUIModel) NextPage() bool {
	res := m.Page()
	if m.page >= res.TotalPages {
		return false
	}
	m.page++
	return true
}

func (m *TUIModel) PrevPage() bool {
	if m.page <= 1 {
		return false
	}
	m.page--
	return true
}

// Reveal moves to the page holding id and returns its index on that page.
func (m *TUIModel) Reveal(id string) (int, bool) {
	rows := view.Filter(m.rows.Rows(), m.ui.Search())
	m.pipe.Sort(rows, m.sortKey, m.sortDir)
	for i, r := range rows {
		if r.ID == id {
			m.page = i/view.PageSize + 1
			return i % view.PageSize, true
		}
	}
	return 0, false
}

// AddRow inserts an empty row and returns its ID.
func (m *TUIModel) AddRow() string {
	id := m.newID()
	m.rows.Insert(table.NewRow(id))
	return id
}

func (m *TUIModel) DeleteRow(id string) {
	m.rows.DeleteByID(id)
	m.log.Infof("deleted row %s (%d left)", id, m.rows.Len())
}

// SaveRow replaces the row with id, setting each edited key. Inputs left at
// their original text keep their original value, so numbers stay numbers and
// absent fields stay absent.
func (m *TUIModel) SaveRow(id string, edits map[string]string) {
	row, ok := m.rows.Find(id)
	if !ok {
		return
	}
	for k, text := range edits {
		if text == row.Get(k).String() {
			continue
		}
		row = row.With(k, table.ParseValue(text, m.cfg.Import.InferNumbers))
	}
	m.rows.UpdateByID(row)
}

// AddColumn registers a column from a user-typed label.
func (m *TUIModel) AddColumn(label string) (table.Column, error) {
	col, err := state.PrepareColumn(m.ui.Columns(), label)
	if err != nil {
		return table.Column{}, err
	}
	m.ui.AddColumn(col)
	return col, nil
}

// MoveColumn shifts the column at i by delta and reports the new index.
func (m *TUIModel) MoveColumn(i, delta int) int {
	cols := m.ui.Columns()
	moved := state.MoveColumn(cols, i, delta)
	if slices.Equal(moved, cols) {
		return i
	}
	m.ui.Reorder(moved)
	return i + delta
}

func (m *TUIModel) ToggleTheme() table.Theme {
	m.ui.SetTheme(m.ui.Theme().Toggle())
	return m.ui.Theme()
}

// ImportCmd starts reading path in the background. Any import still in
// flight is cancelled and its result will be ignored: the most recently
// requested import is the one that lands.
func (m *TUIModel) ImportCmd(path string) tea.Cmd {
	if m.importCancel != nil {
		m.importCancel()
	}
	m.importSeq++
	seq := m.importSeq
	ctx, cancel := context.WithCancel(context.Background())
	m.importCancel = cancel
	m.importing = path
	maxBytes := m.cfg.Import.MaxFileBytes
	opt := csvcodec.Options{InferNumbers: m.cfg.Import.InferNumbers, NewID: m.newID}
	m.log.Infof("import #%d started: %s", seq, logging.SanitizePath(path))

	return func() tea.Msg {
		recs, size, err := csvcodec.DecodeFile(ctx, path, maxBytes)
		if err != nil {
			return importDoneMsg{seq: seq, path: path, size: size, err: err}
		}
		var keys []string
		if len(recs) > 0 {
			for _, f := range recs[0] {
				keys = append(keys, f.Key)
			}
		}
		return importDoneMsg{seq: seq, path: path, rows: csvcodec.ToRows(recs, opt), keys: keys, size: size}
	}
}

// FinishImport applies a completed import. Stale or cancelled results are
// dropped and reported as not applied; failures leave the rows untouched.
func (m *TUIModel) FinishImport(msg importDoneMsg) (applied bool, err error) {
	if msg.seq != m.importSeq {
		m.log.Debugf("import #%d superseded by #%d, dropped", msg.seq, m.importSeq)
		return false, nil
	}
	m.importCancel = nil
	m.importing = ""
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return false, nil
		}
		m.log.Warnf("import #%d failed: %v", msg.seq, msg.err)
		return false, msg.err
	}
	m.rows.ReplaceAll(msg.rows)
	m.source = msg.path
	m.page = 1
	m.log.Infof("import #%d applied: %d rows from %s", msg.seq, len(msg.rows), logging.SanitizePath(msg.path))
	return true, nil
}

// CancelImport stops an import in flight, if any.
func (m *TUIModel) CancelImport() {
	if m.importCancel != nil {
		m.importCancel()
		m.importCancel = nil
	}
	m.importSeq++
	m.importing = ""
}

// HiddenKeys returns the keys in keys that no column shows.
func (m *TUIModel) HiddenKeys(keys []string) []string {
	var out []string
	for _, k := range keys {
		if c, ok := m.ui.Column(k); !ok || !c.Visible {
			out = append(out, k)
		}
	}
	return out
}

// ExportCmd writes the visible columns of every row to the export dir.
func (m *TUIModel) ExportCmd() tea.Cmd {
	rows := m.rows.Rows()
	keys := m.ui.VisibleKeys()
	dir := m.cfg.General.ExportDir
	return func() tea.Msg {
		path, err := csvcodec.WriteFile(dir, rows, keys)
		return exportDoneMsg{path: path, rows: len(rows), err: err}
	}
}

// SnapshotCmd saves rows and UI state to the snapshot database.
func (m *TUIModel) SnapshotCmd() tea.Cmd {
	if m.db == nil {
		return func() tea.Msg {
			return snapshotDoneMsg{err: ferrors.SnapshotError(nil).WithDetails(errors.New("snapshots are disabled: set general.state_db in the config"))}
		}
	}
	snap := state.Snapshot{Rows: m.rows.Rows(), UI: m.ui.State(), SavedAt: time.Now()}
	db := m.db
	return func() tea.Msg {
		if err := db.SaveSnapshot(context.Background(), snap); err != nil {
			return snapshotDoneMsg{err: ferrors.SnapshotError(err)}
		}
		return snapshotDoneMsg{at: snap.SavedAt, rows: len(snap.Rows)}
	}
}

func (m *TUIModel) SavedAt() time.Time { return m.savedAt }
