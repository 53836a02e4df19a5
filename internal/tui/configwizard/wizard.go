package configwizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jxwalker/tablemgr/internal/config"
)

type field struct {
	label string
	hint  string
	get   func(c *config.Config) string
	set   func(c *config.Config, v string)
}

var fields = []field{
	{
		label: "general.data_root",
		get:   func(c *config.Config) string { return c.General.DataRoot },
		set:   func(c *config.Config, v string) { c.General.DataRoot = v },
	},
	{
		label: "general.export_dir",
		get:   func(c *config.Config) string { return c.General.ExportDir },
		set:   func(c *config.Config, v string) { c.General.ExportDir = v },
	},
	{
		label: "general.state_db",
		hint:  "empty disables snapshots",
		get:   func(c *config.Config) string { return c.General.StateDB },
		set:   func(c *config.Config, v string) { c.General.StateDB = v },
	},
	{
		label: "table.locale",
		hint:  "BCP 47, e.g. en, de, sv",
		get:   func(c *config.Config) string { return c.Table.Locale },
		set:   func(c *config.Config, v string) { c.Table.Locale = v },
	},
	{
		label: "table.default_sort",
		get:   func(c *config.Config) string { return c.Table.DefaultSort },
		set:   func(c *config.Config, v string) { c.Table.DefaultSort = v },
	},
	{
		label: "import.infer_numbers",
		hint:  "true|false",
		get:   func(c *config.Config) string { return fmt.Sprint(c.Import.InferNumbers) },
		set:   func(c *config.Config, v string) { c.Import.InferNumbers = parseBool(v, c.Import.InferNumbers) },
	},
	{
		label: "import.max_file_bytes",
		hint:  "e.g. 64 MiB, 0 for no limit",
		get: func(c *config.Config) string {
			if c.Import.MaxFileBytes <= 0 {
				return "0"
			}
			return humanize.IBytes(uint64(c.Import.MaxFileBytes))
		},
		set: func(c *config.Config, v string) {
			if n, err := humanize.ParseBytes(v); err == nil {
				c.Import.MaxFileBytes = int64(n)
			}
		},
	},
	{
		label: "ui.theme",
		hint:  "auto|light|dark",
		get:   func(c *config.Config) string { return c.UI.Theme },
		set: func(c *config.Config, v string) {
			switch v = strings.ToLower(v); v {
			case "auto", "light", "dark":
				c.UI.Theme = v
			}
		},
	},
	{
		label: "logging.level",
		hint:  "debug|info|warn|error",
		get:   func(c *config.Config) string { return c.Logging.Level },
		set:   func(c *config.Config, v string) { c.Logging.Level = strings.ToLower(v) },
	},
}

// Wizard collects the main settings and builds a Config from defaults plus
// the edited values.
type Wizard struct {
	inputs   []textinput.Model
	focus    int
	done     bool
	defaults *config.Config
	out      *config.Config
}

func New(defaults *config.Config) *Wizard {
	if defaults == nil {
		defaults = config.Default()
	}
	w := &Wizard{defaults: defaults}
	w.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = f.hint
		ti.SetValue(f.get(defaults))
		ti.CharLimit = 256
		w.inputs[i] = ti
	}
	w.inputs[0].Focus()
	return w
}

func (w *Wizard) Init() tea.Cmd { return nil }

func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m, ok := msg.(tea.KeyMsg); ok {
		switch m.String() {
		case "ctrl+c", "esc":
			w.done = true
			return w, tea.Quit
		case "enter":
			if w.focus == len(w.inputs)-1 {
				w.done = true
				w.out = w.buildConfig()
				return w, tea.Quit
			}
			w.setFocus(w.focus + 1)
			return w, nil
		case "tab", "down":
			w.setFocus(w.focus + 1)
			return w, nil
		case "shift+tab", "up":
			w.setFocus(w.focus - 1)
			return w, nil
		}
	}
	var cmd tea.Cmd
	w.inputs[w.focus], cmd = w.inputs[w.focus].Update(msg)
	return w, cmd
}

func (w *Wizard) setFocus(i int) {
	i = max(0, min(i, len(w.inputs)-1))
	w.inputs[w.focus].Blur()
	w.focus = i
	w.inputs[i].Focus()
}

func (w *Wizard) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("tablemgr config wizard") + "\n")
	b.WriteString("Tab/Shift-Tab to navigate, Enter on the last field to save. Esc to quit.\n\n")
	for i, input := range w.inputs {
		marker := " "
		if i == w.focus {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-24s %s\n", marker, fields[i].label+":", input.View()))
	}
	if w.done && w.out != nil {
		b.WriteString("\nDone. Saving...\n")
	}
	return b.String()
}

func (w *Wizard) buildConfig() *config.Config {
	o := *w.defaults
	o.Table.Columns = append(o.Table.Columns[:0:0], w.defaults.Table.Columns...)
	for i, f := range fields {
		f.set(&o, strings.TrimSpace(w.inputs[i].Value()))
	}
	return &o
}

// Config returns the built config, or nil when the wizard was cancelled.
func (w *Wizard) Config() *config.Config { return w.out }

func parseBool(s string, def bool) bool {
	switch strings.ToLower(s) {
	case "true", "1", "y", "yes":
		return true
	case "false", "0", "n", "no":
		return false
	}
	return def
}
