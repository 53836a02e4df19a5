package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"

	ferrors "github.com/jxwalker/tablemgr/internal/errors"
	"github.com/jxwalker/tablemgr/internal/table"
)

type TUIController struct {
	m     *model
	model *TUIModel
	view  *TUIView
	keys  keyMap
	help  help.Model

	// selected indexes the current page.
	selected int
	showHelp bool

	searchOn    bool
	searchInput textinput.Model

	editing    bool
	editRowID  string
	editIsNew  bool
	editKeys   []string
	editInputs []textinput.Model
	editFocus  int

	confirmDelete bool
	deleteID      string

	alertOn    bool
	alertTitle string
	alertBody  string

	columnsOn   bool
	colSelected int
	colAdding   bool
	colInput    textinput.Model

	importOn    bool
	importInput textinput.Model
	importHints []string

	sortOn       bool
	sortInput    textinput.Model
	sortHits     []table.Column
	sortSelected int

	toasts []toast
}

func NewTUIController(model *TUIModel, view *TUIView) *TUIController {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search rows..."
	searchInput.Prompt = "/ "

	colInput := textinput.New()
	colInput.Placeholder = "Column name"
	colInput.CharLimit = 64

	importInput := textinput.New()
	importInput.Placeholder = "/path/to/data.csv"

	sortInput := textinput.New()
	sortInput.Placeholder = "Column to sort by"

	return &TUIController{
		model:       model,
		view:        view,
		keys:        defaultKeyMap(),
		help:        help.New(),
		searchInput: searchInput,
		colInput:    colInput,
		importInput: importInput,
		sortInput:   sortInput,
	}
}

// SetModel links the controller to the tea.Model it returns from Update.
func (c *TUIController) SetModel(m *model) { c.m = m }

func (c *TUIController) Init() tea.Cmd {
	cmds := []tea.Cmd{toastTickCmd()}
	if c.model.pendingImport != "" {
		path := c.model.pendingImport
		c.model.pendingImport = ""
		cmds = append(cmds, c.model.ImportCmd(path))
	}
	return tea.Batch(cmds...)
}

func (c *TUIController) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.view.SetSize(msg.Width, msg.Height)
		c.help.Width = msg.Width
		return c.m, nil

	case tea.KeyMsg:
		return c.handleKeyMsg(msg)

	case toastTickMsg:
		c.gcToasts()
		return c.m, toastTickCmd()

	case importDoneMsg:
		applied, err := c.model.FinishImport(msg)
		if err != nil {
			c.alert(err)
			return c.m, nil
		}
		if applied {
			c.selected = 0
			c.addToast(fmt.Sprintf("Imported %s rows (%s) from %s",
				humanize.Comma(int64(len(msg.rows))), humanize.IBytes(uint64(msg.size)), truncateMiddle(msg.path, 48)))
			if hidden := c.model.HiddenKeys(msg.keys); len(hidden) > 0 {
				c.addToast("Not shown (add them in the column manager): " + strings.Join(hidden, ", "))
			}
		}
		return c.m, nil

	case exportDoneMsg:
		if msg.err != nil {
			c.model.log.Errorf("export failed: %v", msg.err)
			c.alert(msg.err)
			return c.m, nil
		}
		c.model.log.Infof("exported %d rows to %s", msg.rows, msg.path)
		c.addToast(fmt.Sprintf("Exported %s rows to %s", humanize.Comma(int64(msg.rows)), truncateMiddle(msg.path, 48)))
		return c.m, nil

	case snapshotDoneMsg:
		if msg.err != nil {
			c.model.log.Errorf("snapshot failed: %v", msg.err)
			c.alert(msg.err)
			return c.m, nil
		}
		c.model.savedAt = msg.at
		c.addToast(fmt.Sprintf("Saved snapshot (%s rows)", humanize.Comma(int64(msg.rows))))
		return c.m, nil

	case ReloadMsg:
		if msg.Path == "" || msg.Path != c.model.Source() {
			return c.m, nil
		}
		c.addToast("File changed on disk, reloading")
		return c.m, c.model.ImportCmd(msg.Path)
	}

	return c.m, nil
}

func (c *TUIController) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		c.model.CancelImport()
		return c.m, tea.Quit
	}

	switch {
	case c.alertOn:
		return c.handleAlertKeys(msg)
	case c.showHelp:
		return c.handleHelpKeys(msg)
	case c.confirmDelete:
		return c.handleDeleteKeys(msg)
	case c.editing:
		return c.handleEditKeys(msg)
	case c.columnsOn:
		return c.handleColumnKeys(msg)
	case c.importOn:
		return c.handleImportKeys(msg)
	case c.sortOn:
		return c.handleSortKeys(msg)
	case c.searchOn:
		return c.handleSearchKeys(msg)
	}

	return c.handleNormalKeys(msg)
}

func (c *TUIController) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := c.model.Page()

	switch {
	case key.Matches(msg, c.keys.Quit):
		c.model.CancelImport()
		return c.m, tea.Quit

	case key.Matches(msg, c.keys.Help):
		c.showHelp = true

	case key.Matches(msg, c.keys.Up):
		if c.selected > 0 {
			c.selected--
		}

	case key.Matches(msg, c.keys.Down):
		if c.selected < len(page.Rows)-1 {
			c.selected++
		}

	case key.Matches(msg, c.keys.PrevPage):
		if c.model.PrevPage() {
			c.selected = 0
		}

	case key.Matches(msg, c.keys.NextPage):
		if c.model.NextPage() {
			c.selected = 0
		}

	case key.Matches(msg, c.keys.SortCol):
		n := int(msg.Runes[0] - '1')
		cols := c.model.UI().VisibleColumns()
		if n < len(cols) {
			c.model.SortBy(cols[n].Key)
		}

	case key.Matches(msg, c.keys.SortBy):
		c.sortOn = true
		c.sortInput.SetValue("")
		c.sortInput.Focus()
		c.refreshSortHits()

	case key.Matches(msg, c.keys.Search):
		c.searchOn = true
		c.searchInput.SetValue(c.model.UI().Search())
		c.searchInput.CursorEnd()
		c.searchInput.Focus()

	case key.Matches(msg, c.keys.Edit):
		if c.selected < len(page.Rows) {
			c.startEdit(page.Rows[c.selected], false)
		}

	case key.Matches(msg, c.keys.Add):
		id := c.model.AddRow()
		if row, ok := c.model.Rows().Find(id); ok {
			c.startEdit(row, true)
		}

	case key.Matches(msg, c.keys.Delete):
		if c.selected < len(page.Rows) {
			c.confirmDelete = true
			c.deleteID = page.Rows[c.selected].ID
		}

	case key.Matches(msg, c.keys.Columns):
		c.columnsOn = true
		c.colSelected = 0

	case key.Matches(msg, c.keys.Import):
		c.importOn = true
		c.importHints = nil
		c.importInput.SetValue(c.model.Source())
		c.importInput.CursorEnd()
		c.importInput.Focus()

	case key.Matches(msg, c.keys.Export):
		c.addToast("Exporting...")
		return c.m, c.model.ExportCmd()

	case key.Matches(msg, c.keys.Theme):
		c.view.SetTheme(c.model.ToggleTheme())

	case key.Matches(msg, c.keys.Snapshot):
		return c.m, c.model.SnapshotCmd()
	}

	return c.m, nil
}

func (c *TUIController) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		c.showHelp = false
	}
	return c.m, nil
}

func (c *TUIController) handleAlertKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		c.alertOn = false
		c.alertTitle, c.alertBody = "", ""
	}
	return c.m, nil
}

func (c *TUIController) handleDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		c.model.DeleteRow(c.deleteID)
		c.confirmDelete = false
		c.deleteID = ""
		c.clampSelection()
	case "n", "N", "esc":
		c.confirmDelete = false
		c.deleteID = ""
	}
	return c.m, nil
}

// Inline edit

func (c *TUIController) startEdit(row table.Row, isNew bool) {
	keys := c.model.UI().VisibleKeys()
	c.editing = true
	c.editRowID = row.ID
	c.editIsNew = isNew
	c.editKeys = keys
	c.editFocus = 0
	c.editInputs = make([]textinput.Model, len(keys))
	for i, k := range keys {
		in := textinput.New()
		in.Prompt = ""
		if col, ok := c.model.UI().Column(k); ok {
			in.Placeholder = col.Label
		}
		in.SetValue(row.Get(k).String())
		in.CursorEnd()
		c.editInputs[i] = in
	}
	if len(c.editInputs) > 0 {
		c.editInputs[0].Focus()
	}
}

func (c *TUIController) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if c.editIsNew {
			c.model.DeleteRow(c.editRowID)
		}
		c.stopEdit()
		c.clampSelection()
		return c.m, nil

	case "enter":
		edits := make(map[string]string, len(c.editKeys))
		for i, k := range c.editKeys {
			edits[k] = c.editInputs[i].Value()
		}
		id := c.editRowID
		c.model.SaveRow(id, edits)
		c.stopEdit()
		if idx, ok := c.model.Reveal(id); ok {
			c.selected = idx
		} else {
			c.addToast("Saved row is hidden by the current search")
			c.clampSelection()
		}
		return c.m, nil

	case "tab", "down":
		c.focusEdit(c.editFocus + 1)
		return c.m, nil

	case "shift+tab", "up":
		c.focusEdit(c.editFocus - 1)
		return c.m, nil
	}

	if c.editFocus >= len(c.editInputs) {
		return c.m, nil
	}
	var cmd tea.Cmd
	c.editInputs[c.editFocus], cmd = c.editInputs[c.editFocus].Update(msg)
	return c.m, cmd
}

func (c *TUIController) focusEdit(i int) {
	n := len(c.editInputs)
	if n == 0 {
		return
	}
	i = (i%n + n) % n
	c.editInputs[c.editFocus].Blur()
	c.editFocus = i
	c.editInputs[i].Focus()
}

func (c *TUIController) stopEdit() {
	c.editing = false
	c.editRowID = ""
	c.editIsNew = false
	c.editKeys = nil
	c.editInputs = nil
	c.editFocus = 0
}

// Column manager

func (c *TUIController) handleColumnKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if c.colAdding {
		switch msg.String() {
		case "esc":
			c.colAdding = false
			c.colInput.Blur()
			return c.m, nil
		case "enter":
			col, err := c.model.AddColumn(c.colInput.Value())
			if err != nil {
				c.alert(err)
				return c.m, nil
			}
			c.colAdding = false
			c.colInput.Blur()
			c.colSelected = len(c.model.UI().Columns()) - 1
			c.addToast(fmt.Sprintf("Added column %q", col.Label))
			return c.m, nil
		}
		var cmd tea.Cmd
		c.colInput, cmd = c.colInput.Update(msg)
		return c.m, cmd
	}

	cols := c.model.UI().Columns()
	switch msg.String() {
	case "esc", "c", "q":
		c.columnsOn = false

	case "up", "k":
		if c.colSelected > 0 {
			c.colSelected--
		}

	case "down", "j":
		if c.colSelected < len(cols)-1 {
			c.colSelected++
		}

	case " ", "enter":
		if c.colSelected < len(cols) {
			c.model.UI().ToggleVisibility(cols[c.colSelected].Key)
			c.clampSelection()
		}

	case "K":
		c.colSelected = c.model.MoveColumn(c.colSelected, -1)

	case "J":
		c.colSelected = c.model.MoveColumn(c.colSelected, 1)

	case "a":
		c.colAdding = true
		c.colInput.SetValue("")
		c.colInput.Focus()
	}
	return c.m, nil
}

// Import prompt

func (c *TUIController) handleImportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		c.importOn = false
		c.importInput.Blur()
		return c.m, nil

	case "tab":
		completed, hints := completePath(c.importInput.Value())
		c.importInput.SetValue(completed)
		c.importInput.CursorEnd()
		c.importHints = hints
		return c.m, nil

	case "enter":
		path := strings.TrimSpace(c.importInput.Value())
		if path == "" {
			return c.m, nil
		}
		c.importOn = false
		c.importInput.Blur()
		c.importHints = nil
		return c.m, c.model.ImportCmd(expandHome(path))
	}

	var cmd tea.Cmd
	c.importInput, cmd = c.importInput.Update(msg)
	return c.m, cmd
}

// Sort prompt

func (c *TUIController) handleSortKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		c.sortOn = false
		c.sortInput.Blur()
		return c.m, nil

	case "up", "ctrl+p":
		if c.sortSelected > 0 {
			c.sortSelected--
		}
		return c.m, nil

	case "down", "ctrl+n":
		if c.sortSelected < len(c.sortHits)-1 {
			c.sortSelected++
		}
		return c.m, nil

	case "enter":
		if c.sortSelected < len(c.sortHits) {
			c.model.SortBy(c.sortHits[c.sortSelected].Key)
		}
		c.sortOn = false
		c.sortInput.Blur()
		return c.m, nil
	}

	var cmd tea.Cmd
	c.sortInput, cmd = c.sortInput.Update(msg)
	c.refreshSortHits()
	return c.m, cmd
}

// refreshSortHits ranks every column label against the sort prompt.
func (c *TUIController) refreshSortHits() {
	cols := c.model.UI().Columns()
	c.sortSelected = 0
	q := strings.TrimSpace(c.sortInput.Value())
	if q == "" {
		c.sortHits = cols
		return
	}
	labels := make([]string, len(cols))
	for i, col := range cols {
		labels[i] = col.Label
	}
	ranks := fuzzy.RankFindFold(q, labels)
	sort.Stable(ranks)
	hits := make([]table.Column, 0, len(ranks))
	for _, r := range ranks {
		hits = append(hits, cols[r.OriginalIndex])
	}
	c.sortHits = hits
}

// Search

func (c *TUIController) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		c.searchOn = false
		c.searchInput.Blur()
		c.searchInput.SetValue("")
		c.model.SetSearch("")
		c.selected = 0
		return c.m, nil

	case "enter":
		c.searchOn = false
		c.searchInput.Blur()
		return c.m, nil
	}

	var cmd tea.Cmd
	c.searchInput, cmd = c.searchInput.Update(msg)
	if c.searchInput.Value() != c.model.UI().Search() {
		c.model.SetSearch(c.searchInput.Value())
		c.selected = 0
	}
	return c.m, cmd
}

func (c *TUIController) alert(err error) {
	c.alertOn = true
	c.alertTitle, c.alertBody = ferrors.Summary(err)
}

func (c *TUIController) clampSelection() {
	n := len(c.model.Page().Rows)
	if c.selected >= n {
		c.selected = n - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
}
