package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jxwalker/tablemgr/internal/config"
	"github.com/jxwalker/tablemgr/internal/state"
	"github.com/jxwalker/tablemgr/internal/table"
	"github.com/jxwalker/tablemgr/internal/testutil"
	"github.com/jxwalker/tablemgr/internal/view"
)

// setupTestModel creates a sized model over rows with the default config.
func setupTestModel(t *testing.T, rows []table.Row) *model {
	t.Helper()
	return setupWithOptions(t, Options{Rows: rows})
}

func setupWithOptions(t *testing.T, opts Options) *model {
	t.Helper()
	if opts.Config == nil {
		cfg := config.Default()
		cfg.General.ExportDir = t.TempDir()
		opts.Config = cfg
	}
	if opts.Locale == (language.Tag{}) {
		opts.Locale = language.English
	}
	m, ok := New(opts).(*model)
	require.True(t, ok)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(*model)
}

func press(t *testing.T, m *model, keys ...string) (*model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(*model)
	}
	return m, cmd
}

func pageNames(m *model) []string {
	var names []string
	for _, r := range m.tuiModel.Page().Rows {
		names = append(names, r.Get("name").String())
	}
	return names
}

func TestNavigation_SelectionMoves(t *testing.T) {
	m := setupTestModel(t, state.SeedRows())
	c := m.tuiController

	m, _ = press(t, m, "j")
	assert.Equal(t, 1, c.selected)
	m, _ = press(t, m, "down")
	assert.Equal(t, 1, c.selected, "selection stops at the last row")
	m, _ = press(t, m, "k")
	assert.Equal(t, 0, c.selected)
	press(t, m, "up")
	assert.Equal(t, 0, c.selected)
}

func TestNavigation_Paging(t *testing.T) {
	m := setupTestModel(t, testutil.People(23))
	tm := m.tuiModel

	assert.Equal(t, 1, tm.PageNum())
	m, _ = press(t, m, "right")
	assert.Equal(t, 2, tm.PageNum())
	m, _ = press(t, m, "l", "l")
	assert.Equal(t, 3, tm.PageNum(), "next is disabled on the last page")
	assert.Len(t, tm.Page().Rows, 3)

	m, _ = press(t, m, "h")
	assert.Equal(t, 2, tm.PageNum())
	press(t, m, "left", "left")
	assert.Equal(t, 1, tm.PageNum(), "prev is disabled on the first page")
}

func TestNavigation_SortByColumnNumber(t *testing.T) {
	m := setupTestModel(t, state.SeedRows())
	tm := m.tuiModel

	assert.Equal(t, []string{"Ravi Kumar", "Saba Ahmad"}, pageNames(m))

	m, _ = press(t, m, "1")
	key, dir := tm.Sort()
	assert.Equal(t, "name", key)
	assert.Equal(t, view.Desc, dir)
	assert.Equal(t, []string{"Saba Ahmad", "Ravi Kumar"}, pageNames(m))

	m, _ = press(t, m, "3")
	key, dir = tm.Sort()
	assert.Equal(t, "age", key)
	assert.Equal(t, view.Asc, dir)

	// No ninth visible column.
	press(t, m, "9")
	key, _ = tm.Sort()
	assert.Equal(t, "age", key)
}

func TestNavigation_SortPromptFuzzyMatches(t *testing.T) {
	m := setupTestModel(t, state.SeedRows())
	c := m.tuiController

	m, _ = press(t, m, "s")
	require.True(t, c.sortOn)
	assert.Len(t, c.sortHits, 4, "empty query lists every column")

	m, _ = press(t, m, "mil")
	require.NotEmpty(t, c.sortHits)
	assert.Equal(t, "email", c.sortHits[0].Key)

	press(t, m, "enter")
	assert.False(t, c.sortOn)
	key, _ := m.tuiModel.Sort()
	assert.Equal(t, "email", key)
}

func TestNavigation_SearchFiltersLive(t *testing.T) {
	m := setupTestModel(t, state.SeedRows())
	c := m.tuiController

	m, _ = press(t, m, "/")
	require.True(t, c.searchOn)
	m, _ = press(t, m, "SABA")
	assert.Equal(t, []string{"Saba Ahmad"}, pageNames(m))

	m, _ = press(t, m, "enter")
	assert.False(t, c.searchOn)
	assert.Equal(t, "SABA", m.tuiModel.UI().Search(), "enter keeps the search")

	m, _ = press(t, m, "/", "esc")
	assert.Equal(t, "", m.tuiModel.UI().Search())
	assert.Len(t, pageNames(m), 2)
}

func TestNavigation_SearchResetsPage(t *testing.T) {
	m := setupTestModel(t, testutil.People(23))
	m, _ = press(t, m, "right")
	require.Equal(t, 2, m.tuiModel.PageNum())

	press(t, m, "/", "a")
	assert.Equal(t, 1, m.tuiModel.PageNum())
}

func TestNavigation_HelpToggle(t *testing.T) {
	m := setupTestModel(t, nil)
	m, _ = press(t, m, "?")
	assert.True(t, m.tuiController.showHelp)
	m, _ = press(t, m, "j")
	assert.True(t, m.tuiController.showHelp, "help swallows other keys")
	press(t, m, "esc")
	assert.False(t, m.tuiController.showHelp)
}

func TestNavigation_Quit(t *testing.T) {
	m := setupTestModel(t, nil)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestNavigation_ThemeToggle(t *testing.T) {
	m := setupTestModel(t, nil)
	require.Equal(t, table.ThemeLight, m.tuiView.theme)

	m, _ = press(t, m, "t")
	assert.Equal(t, table.ThemeDark, m.tuiView.theme)
	assert.Equal(t, table.ThemeDark, m.tuiModel.UI().Theme())

	press(t, m, "t")
	assert.Equal(t, table.ThemeLight, m.tuiView.theme)
}

func TestView_RendersPage(t *testing.T) {
	m := setupTestModel(t, state.SeedRows())
	out := m.View()

	assert.Contains(t, out, "Saba Ahmad")
	assert.Contains(t, out, "Ravi Kumar")
	assert.Contains(t, out, "Name ↑")
	assert.Contains(t, out, "Page 1 of 1")
	assert.Contains(t, out, "2 of 2 rows")
}

func TestView_AbsentCellsShowDash(t *testing.T) {
	rows := []table.Row{table.NewRow("1").With("name", table.Text("Solo"))}
	m := setupTestModel(t, rows)
	assert.Contains(t, m.View(), "-")
	assert.Contains(t, m.View(), "Solo")
}

func TestView_LoadingBeforeSize(t *testing.T) {
	m, ok := New(Options{}).(*model)
	require.True(t, ok)
	assert.Equal(t, "Loading...", m.View())
}
