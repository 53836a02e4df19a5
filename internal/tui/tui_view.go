package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/jxwalker/tablemgr/internal/table"
	"github.com/jxwalker/tablemgr/internal/view"
)

const maxCellWidth = 32

type TUIView struct {
	th     themeStyles
	theme  table.Theme
	pager  paginator.Model
	width  int
	height int
}

func NewTUIView(theme table.Theme) *TUIView {
	if theme == "" {
		theme = table.ThemeLight
	}
	p := paginator.New()
	p.Type = paginator.Dots
	p.PerPage = view.PageSize
	v := &TUIView{pager: p}
	v.SetTheme(theme)
	return v
}

func (v *TUIView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *TUIView) SetTheme(t table.Theme) {
	th, ok := themePresets()[t]
	if !ok {
		t, th = table.ThemeLight, lightTheme()
	}
	v.theme = t
	v.th = th
	v.pager.ActiveDot = th.title.Render("•")
	v.pager.InactiveDot = th.disabled.Render("•")
}

func (v *TUIView) View(model *TUIModel, controller *TUIController) string {
	if v.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(v.renderHeader(model))
	b.WriteString("\n\n")

	switch {
	case controller.alertOn:
		b.WriteString(v.renderAlert(controller))
	case controller.showHelp:
		b.WriteString(v.renderHelp(controller))
	case controller.editing:
		b.WriteString(v.renderEditModal(model, controller))
	case controller.confirmDelete:
		b.WriteString(v.renderDeleteModal(model, controller))
	case controller.columnsOn:
		b.WriteString(v.renderColumnManager(model, controller))
	case controller.importOn:
		b.WriteString(v.renderImportModal(controller))
	case controller.sortOn:
		b.WriteString(v.renderSortModal(controller))
	default:
		res := model.Page()
		if controller.searchOn || model.UI().Search() != "" {
			b.WriteString(v.renderSearch(model, controller))
			b.WriteString("\n")
		}
		b.WriteString(v.renderTable(model, controller, res))
		b.WriteString("\n")
		b.WriteString(v.renderFooter(model, res))
		b.WriteString("\n")
		b.WriteString(v.renderStatus(model, res))
	}

	b.WriteString("\n")
	if msg, ok := controller.latestToast(); ok {
		b.WriteString(v.th.label.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString(controller.help.ShortHelpView(controller.keys.ShortHelp()))
	return b.String()
}

func (v *TUIView) renderHeader(model *TUIModel) string {
	title := v.th.title.Render("tablemgr")
	src := "sample data"
	if s := model.Source(); s != "" {
		src = truncateMiddle(s, 60)
	}
	line := title + "  " + v.th.label.Render(src) + "  " + v.th.label.Render("theme: "+string(v.theme))
	if p := model.Importing(); p != "" {
		line += "  " + v.th.label.Render("importing "+truncateMiddle(p, 40)+"...")
	}
	return line
}

func (v *TUIView) renderSearch(model *TUIModel, controller *TUIController) string {
	if controller.searchOn {
		return controller.searchInput.View()
	}
	return v.th.label.Render(fmt.Sprintf("search: %q  (/ to change, esc in search to clear)", model.UI().Search()))
}

func (v *TUIView) renderTable(model *TUIModel, controller *TUIController, res view.Result) string {
	cols := model.UI().VisibleColumns()
	if len(cols) == 0 {
		return v.th.label.Render("No visible columns. Press c to manage columns.")
	}
	sortKey, sortDir := model.Sort()

	headers := make([]string, len(cols))
	for i, col := range cols {
		h := col.Label
		if col.Key == sortKey {
			h += " " + sortDir.Arrow()
		}
		headers[i] = h
	}

	data := make([][]string, len(res.Rows))
	for i, r := range res.Rows {
		cells := make([]string, len(cols))
		for j, col := range cols {
			cells[j] = truncateMiddle(r.Get(col.Key).Display(), maxCellWidth)
		}
		data[i] = cells
	}

	t := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(v.th.grid).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == ltable.HeaderRow:
				return v.th.head
			case row == controller.selected:
				return v.th.rowSelected
			case row%2 == 1:
				return v.th.cellAlt
			default:
				return v.th.cell
			}
		})

	out := t.Render()
	if len(res.Rows) == 0 {
		msg := "No rows."
		if model.UI().Search() != "" {
			msg = "No rows match the search."
		}
		out += "\n" + v.th.label.Render(msg)
	}
	return out
}

func (v *TUIView) renderFooter(model *TUIModel, res view.Result) string {
	page := model.PageNum()
	prev := v.th.footer.Render("‹ Prev")
	if page <= 1 {
		prev = v.th.disabled.Render("‹ Prev")
	}
	next := v.th.footer.Render("Next ›")
	if page >= res.TotalPages {
		next = v.th.disabled.Render("Next ›")
	}
	line := fmt.Sprintf("%s  Page %d of %d  %s", prev, page, res.TotalPages, next)
	if res.TotalPages > 1 && res.TotalPages <= 20 {
		v.pager.TotalPages = res.TotalPages
		v.pager.Page = page - 1
		line += "  " + v.pager.View()
	}
	return line
}

func (v *TUIView) renderStatus(model *TUIModel, res view.Result) string {
	total := model.Rows().Len()
	parts := []string{fmt.Sprintf("%s of %s rows", humanize.Comma(int64(res.Filtered)), humanize.Comma(int64(total)))}
	if key, dir := model.Sort(); key != "" {
		label := key
		if col, ok := model.UI().Column(key); ok {
			label = col.Label
		}
		parts = append(parts, fmt.Sprintf("sorted by %s %s", label, dir))
	}
	if at := model.SavedAt(); !at.IsZero() {
		parts = append(parts, "saved "+humanize.Time(at))
	}
	return v.th.label.Render(strings.Join(parts, " • "))
}

func (v *TUIView) renderAlert(controller *TUIController) string {
	var b strings.Builder
	b.WriteString(v.th.bad.Render(controller.alertTitle))
	if controller.alertBody != "" {
		b.WriteString("\n\n")
		b.WriteString(controller.alertBody)
	}
	b.WriteString("\n\n")
	b.WriteString(v.th.label.Render("Press Enter or Esc to dismiss"))
	return v.th.modal.Render(b.String())
}

func (v *TUIView) renderHelp(controller *TUIController) string {
	var b strings.Builder
	b.WriteString(v.th.head.Render("Help") + "\n\n")
	b.WriteString(controller.help.FullHelpView(controller.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(v.th.head.Render("Column manager") + "\n")
	b.WriteString("j/k move • space toggle visibility • K/J reorder • a add column • esc close\n")
	b.WriteString(v.th.head.Render("Edit") + "\n")
	b.WriteString("tab/shift+tab next/prev field • enter save • esc cancel\n")
	b.WriteString(v.th.head.Render("Import") + "\n")
	b.WriteString("tab complete path • enter import • esc cancel\n")
	return b.String()
}

func (v *TUIView) renderEditModal(model *TUIModel, controller *TUIController) string {
	var b strings.Builder
	title := "Edit row"
	if controller.editIsNew {
		title = "New row"
	}
	b.WriteString(v.th.title.Render(title) + "\n\n")
	if len(controller.editKeys) == 0 {
		b.WriteString(v.th.label.Render("No visible columns to edit.") + "\n")
	}
	width := 0
	labels := make([]string, len(controller.editKeys))
	for i, k := range controller.editKeys {
		labels[i] = k
		if col, ok := model.UI().Column(k); ok {
			labels[i] = col.Label
		}
		width = max(width, lipgloss.Width(labels[i]))
	}
	for i := range controller.editKeys {
		style := v.th.label
		if i == controller.editFocus {
			style = v.th.head.UnsetPadding()
		}
		label := style.Width(width).Render(labels[i])
		b.WriteString(label + "  " + controller.editInputs[i].View() + "\n")
	}
	b.WriteString("\n")
	b.WriteString(v.th.label.Render("Tab next field • Enter save • Esc cancel"))
	return v.th.modal.Render(b.String())
}

func (v *TUIView) renderDeleteModal(model *TUIModel, controller *TUIController) string {
	desc := controller.deleteID
	if row, ok := model.Rows().Find(controller.deleteID); ok {
		var vals []string
		for _, k := range model.UI().VisibleKeys() {
			if val := row.Get(k); !val.IsAbsent() && val.String() != "" {
				vals = append(vals, val.String())
			}
			if len(vals) == 2 {
				break
			}
		}
		if len(vals) > 0 {
			desc = strings.Join(vals, ", ")
		}
	}
	body := v.th.bad.Render("Delete row?") + "\n\n" + truncateMiddle(desc, 60) + "\n\n" +
		v.th.label.Render("y confirm • n cancel")
	return v.th.modal.Render(body)
}

func (v *TUIView) renderColumnManager(model *TUIModel, controller *TUIController) string {
	var b strings.Builder
	b.WriteString(v.th.title.Render("Columns") + "\n\n")
	for i, col := range model.UI().Columns() {
		box := "[ ]"
		if col.Visible {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s %s", box, col.Label, v.th.label.Render("("+col.Key+")"))
		if i == controller.colSelected {
			line = v.th.rowSelected.UnsetPadding().Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	if controller.colAdding {
		b.WriteString("New column: " + controller.colInput.View() + "\n")
		b.WriteString(v.th.label.Render("Enter add • Esc back"))
	} else {
		b.WriteString(v.th.label.Render("space toggle • K/J move • a add • esc close"))
	}
	return v.th.modal.Render(b.String())
}

func (v *TUIView) renderImportModal(controller *TUIController) string {
	var b strings.Builder
	b.WriteString(v.th.title.Render("Import CSV") + "\n\n")
	b.WriteString(controller.importInput.View() + "\n")
	if hints := controller.importHints; len(hints) > 1 {
		shown := hints
		if len(shown) > 8 {
			shown = shown[:8]
		}
		b.WriteString(v.th.label.Render(strings.Join(shown, "  ")))
		if len(hints) > len(shown) {
			b.WriteString(v.th.label.Render(fmt.Sprintf("  (+%d more)", len(hints)-len(shown))))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.th.label.Render("Tab complete • Enter import • Esc cancel"))
	return v.th.modal.Render(b.String())
}

func (v *TUIView) renderSortModal(controller *TUIController) string {
	var b strings.Builder
	b.WriteString(v.th.title.Render("Sort by") + "\n\n")
	b.WriteString(controller.sortInput.View() + "\n\n")
	if len(controller.sortHits) == 0 {
		b.WriteString(v.th.label.Render("No matching columns") + "\n")
	}
	for i, col := range controller.sortHits {
		if i == controller.sortSelected {
			b.WriteString(v.th.rowSelected.UnsetPadding().Render("› "+col.Label) + "\n")
			continue
		}
		b.WriteString("  " + col.Label + "\n")
	}
	b.WriteString("\n")
	b.WriteString(v.th.label.Render("Enter sort • Esc cancel"))
	return v.th.modal.Render(b.String())
}
