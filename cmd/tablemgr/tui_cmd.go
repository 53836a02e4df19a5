package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/jxwalker/tablemgr/internal/logging"
	"github.com/jxwalker/tablemgr/internal/state"
	"github.com/jxwalker/tablemgr/internal/table"
	"github.com/jxwalker/tablemgr/internal/tui"
	"github.com/jxwalker/tablemgr/internal/watch"
)

type tuiFlags struct {
	theme  string
	watch  bool
	noSeed bool
}

func (f *tuiFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.theme, "theme", "", "Theme: auto|light|dark (overrides ui.theme)")
	fs.BoolVarP(&f.watch, "watch", "w", false, "Reload FILE.csv when it changes on disk")
	fs.BoolVar(&f.noSeed, "no-seed", false, "Start with an empty table instead of sample rows")
}

func runTUI(cmd *cobra.Command, g *globalFlags, f *tuiFlags, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal; use `tablemgr print FILE.csv` for non-interactive output")
	}
	c, err := g.load()
	if err != nil {
		return err
	}
	if f.theme != "" {
		c.UI.Theme = f.theme
	}
	if f.watch {
		c.UI.Watch = true
	}
	if err := c.ValidateWithFriendlyErrors(); err != nil {
		return err
	}
	locale, err := c.LocaleTag()
	if err != nil {
		return err
	}

	log, closer, err := logging.OpenFile(logging.FileOptions{
		Enabled: c.Logging.File.Enabled,
		Path:    c.LogPath(),
		Level:   c.Logging.Level,
		JSON:    c.Logging.Format == "json",
	})
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx := cmd.Context()
	opts := tui.Options{
		Config: c,
		Locale: locale,
		Log:    log,
		UI:     state.UIState{Columns: c.Columns(), Theme: resolveTheme(c.UI.Theme)},
	}

	if c.General.StateDB != "" {
		db, err := state.Open(c.General.StateDB)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		opts.DB = db
	}

	var file string
	switch {
	case len(args) == 1:
		file, err = filepath.Abs(args[0])
		if err != nil {
			return err
		}
		opts.ImportPath = file
	case opts.DB != nil:
		snap, ok, err := opts.DB.LoadSnapshot(ctx)
		if err != nil {
			return err
		}
		if ok {
			log.Infof("restored snapshot from %s (%d rows)", snap.SavedAt.Format("2006-01-02 15:04"), len(snap.Rows))
			opts.Rows = snap.Rows
			opts.UI = snap.UI
			if f.theme != "" {
				opts.UI.Theme = resolveTheme(f.theme)
			}
			break
		}
		fallthrough
	default:
		if c.Table.SeedRows && !f.noSeed {
			opts.Rows = state.SeedRows()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := tea.NewProgram(tui.New(opts), tea.WithAltScreen(), tea.WithContext(ctx))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	if c.UI.Watch && file != "" {
		eg.Go(func() error {
			return watch.File(ctx, file, watch.DefaultDebounce, log, func(path string) {
				p.Send(tui.ReloadMsg{Path: path})
			})
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// resolveTheme maps a configured theme to a concrete one; auto asks the
// terminal for its background color.
func resolveTheme(s string) table.Theme {
	if t, ok := table.ParseTheme(s); ok {
		return t
	}
	if termenv.HasDarkBackground() {
		return table.ThemeDark
	}
	return table.ThemeLight
}
