package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/jxwalker/tablemgr/internal/config"
	"github.com/jxwalker/tablemgr/internal/logging"
	"github.com/jxwalker/tablemgr/internal/state"
	"github.com/jxwalker/tablemgr/internal/table"
)

type model struct {
	tuiModel      *TUIModel
	tuiView       *TUIView
	tuiController *TUIController
}

// Options seeds a session.
type Options struct {
	Config *config.Config
	Locale language.Tag
	Rows   []table.Row
	UI     state.UIState
	// DB enables ctrl+s snapshots when set.
	DB  *state.DB
	Log *logging.Logger
	// ImportPath, when set, is imported as soon as the program starts.
	ImportPath string
}

type toastTickMsg time.Time

type importDoneMsg struct {
	seq  int
	path string
	rows []table.Row
	keys []string
	size int64
	err  error
}

type exportDoneMsg struct {
	path string
	rows int
	err  error
}

type snapshotDoneMsg struct {
	at   time.Time
	rows int
	err  error
}

// ReloadMsg asks the UI to re-import Path, e.g. after it changed on disk.
type ReloadMsg struct{ Path string }

// New creates a new TUI model that implements the tea.Model interface.
// It orchestrates the MVC components: TUIModel, TUIView, and TUIController.
func New(opts Options) tea.Model {
	tuiModel := NewTUIModel(opts)
	tuiView := NewTUIView(opts.UI.Theme)
	tuiController := NewTUIController(tuiModel, tuiView)

	m := &model{
		tuiModel:      tuiModel,
		tuiView:       tuiView,
		tuiController: tuiController,
	}

	tuiController.SetModel(m)

	return m
}

func (m *model) Init() tea.Cmd {
	return m.tuiController.Init()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.tuiController.Update(msg)
}

func (m *model) View() string {
	return m.tuiView.View(m.tuiModel, m.tuiController)
}

func toastTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return toastTickMsg(t) })
}
