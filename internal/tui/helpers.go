package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jxwalker/tablemgr/internal/table"
)

// Theme and styling helpers

type themeStyles struct {
	border      lipgloss.Style
	title       lipgloss.Style
	label       lipgloss.Style
	head        lipgloss.Style
	cell        lipgloss.Style
	cellAlt     lipgloss.Style
	rowSelected lipgloss.Style
	grid        lipgloss.Style
	footer      lipgloss.Style
	disabled    lipgloss.Style
	ok          lipgloss.Style
	bad         lipgloss.Style
	modal       lipgloss.Style
}

func darkTheme() themeStyles {
	b := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return themeStyles{
		border:      b.BorderForeground(lipgloss.Color("63")),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		label:       lipgloss.NewStyle().Faint(true),
		head:        lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true).Padding(0, 1),
		cell:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1),
		cellAlt:     lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Padding(0, 1),
		rowSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("219")).Padding(0, 1),
		grid:        lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		footer:      lipgloss.NewStyle().Faint(true),
		disabled:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		ok:          lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		bad:         lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		modal:       b.BorderForeground(lipgloss.Color("219")),
	}
}

func lightTheme() themeStyles {
	b := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return themeStyles{
		border:      b.BorderForeground(lipgloss.Color("240")),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		label:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		head:        lipgloss.NewStyle().Foreground(lipgloss.Color("162")).Bold(true).Padding(0, 1),
		cell:        lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Padding(0, 1),
		cellAlt:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1),
		rowSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("162")).Padding(0, 1),
		grid:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		footer:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		disabled:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		ok:          lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
		bad:         lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		modal:       b.BorderForeground(lipgloss.Color("162")),
	}
}

func themePresets() map[table.Theme]themeStyles {
	return map[table.Theme]themeStyles{
		table.ThemeDark:  darkTheme(),
		table.ThemeLight: lightTheme(),
	}
}

// String utilities

// truncateMiddle shortens s to max display cells, keeping both ends.
func truncateMiddle(s string, max int) string {
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max < 7 {
		return runewidth.Truncate(s, max, "")
	}
	left := (max - 1) / 2
	right := max - 1 - left
	rs := []rune(s)
	head := runewidth.Truncate(s, left, "")
	tail := ""
	for i := len(rs) - 1; i >= 0; i-- {
		next := string(rs[i:])
		if runewidth.StringWidth(next) > right {
			break
		}
		tail = next
	}
	return head + "…" + tail
}

func longestCommonPrefix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	pfx := ss[0]
	for _, s := range ss[1:] {
		for !strings.HasPrefix(s, pfx) {
			pfx = pfx[:len(pfx)-1]
			if pfx == "" {
				return ""
			}
		}
	}
	return pfx
}

// File system utilities

// completePath extends partial to the longest prefix shared by the matching
// directories and .csv files. Directories get a trailing separator. It also
// returns the candidates for display.
func completePath(partial string) (string, []string) {
	expanded := expandHome(partial)
	dir, base := filepath.Split(expanded)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return partial, nil
	}
	var matches []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, base) || (strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".")) {
			continue
		}
		if e.IsDir() {
			matches = append(matches, name+string(filepath.Separator))
		} else if strings.EqualFold(filepath.Ext(name), ".csv") {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return partial, nil
	}
	sort.Strings(matches)
	prefix := longestCommonPrefix(matches)
	if len(prefix) <= len(base) {
		return partial, matches
	}
	return partial + prefix[len(base):], matches
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	out := filepath.Join(h, strings.TrimPrefix(p, "~"))
	if strings.HasSuffix(p, "/") {
		out += string(filepath.Separator)
	}
	return out
}
