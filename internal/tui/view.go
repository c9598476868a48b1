package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lbuchert/photowall/internal/gallery"
	"github.com/lbuchert/photowall/internal/layout"
	"github.com/lbuchert/photowall/internal/photo"
	"github.com/lbuchert/photowall/internal/pipeline"
	"github.com/lbuchert/photowall/internal/preview"
)

// renderView assembles the full frame for the current state.
func (a App) renderView() string {
	if a.viewer.IsOpen() {
		return a.renderViewer()
	}

	switch a.focus {
	case ScreenEdit:
		return a.renderModalScreen(a.renderEditForm())
	case ScreenConfirmDelete:
		return a.renderModalScreen(a.renderConfirmDelete())
	case ScreenSeries:
		return a.renderModalScreen(a.renderSeriesPicker())
	case ScreenHelp:
		return a.renderModalScreen(a.renderHelpOverlay())
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(a.renderGrid())
	b.WriteString("\n")
	b.WriteString(a.renderMessageLine())
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render(a.renderHints(a.contextualHints())))

	return a.styles.App.Render(b.String())
}

// renderHeader shows the app title, mode badge and active selectors.
func (a App) renderHeader() string {
	title := a.styles.Title.Render("photowall")

	var badges []string
	if a.store.Mode() == gallery.ModeManage {
		badges = append(badges, a.styles.Badge.Render("[manage]"))
	}

	sel := a.store.Selectors()
	if sel.Category != photo.CategoryAll {
		badges = append(badges, a.styles.Label.Render("category:"+string(sel.Category)))
	}
	switch sel.Filter {
	case pipeline.FilterPhotographer:
		badges = append(badges, a.styles.Label.Render("filter:photographer"))
	case pipeline.FilterLocation:
		badges = append(badges, a.styles.Label.Render("filter:location"))
	}
	if sel.Sort == pipeline.SortPopular {
		badges = append(badges, a.styles.Label.Render("sort:popular"))
	}

	if len(badges) == 0 {
		return title
	}
	return title + "  " + strings.Join(badges, " ")
}

// renderGrid draws the visible window of positioned cells.
func (a App) renderGrid() string {
	visible := a.store.Visible()
	if len(visible) == 0 {
		if a.store.Loading() {
			return a.styles.Empty.Render("Loading photos...")
		}
		return a.styles.Empty.Render("No photos to show.")
	}

	rows := a.cells.rows()
	if len(rows) == 0 {
		return a.styles.Empty.Render("Loading photos...")
	}

	gutter := a.cfg.Grid.Gutter
	cellHeight := a.cfg.Grid.CellHeight
	gridHeight := a.height - a.cfg.Grid.HeightReduction
	viewportRows := layout.CalculateVisibleRows(gridHeight, cellHeight, 1)

	cursorRow := 0
	if a.grid.Columns > 0 {
		cursorRow = a.cursor / a.grid.Columns
	}
	offset := layout.CalculateRowOffset(cursorRow, len(rows), viewportRows)

	end := offset + viewportRows
	if end > len(rows) {
		end = len(rows)
	}

	var rendered []string
	for rowIdx := offset; rowIdx < end; rowIdx++ {
		var cols []string
		for _, cell := range rows[rowIdx] {
			selected := a.grid.Columns > 0 &&
				rowIdx*a.grid.Columns+cell.col == a.cursor
			cols = append(cols, a.renderCell(cell, selected))
		}
		rendered = append(rendered,
			lipgloss.JoinHorizontal(lipgloss.Top, joinWithGutter(cols, gutter)...))
	}

	return strings.Join(rendered, "\n")
}

func joinWithGutter(cols []string, gutter int) []string {
	if gutter <= 0 || len(cols) < 2 {
		return cols
	}
	spacer := strings.Repeat(" ", gutter)
	out := make([]string, 0, len(cols)*2-1)
	for i, col := range cols {
		if i > 0 {
			out = append(out, spacer)
		}
		out = append(out, col)
	}
	return out
}

// renderCell draws one photo cell: preview block plus caption lines.
func (a App) renderCell(cell *gridCell, selected bool) string {
	contentWidth := a.grid.ColumnWidth - 2
	if contentWidth < 1 {
		contentWidth = 1
	}
	previewHeight := a.cfg.Grid.CellHeight - 3
	if previewHeight < 1 {
		previewHeight = 1
	}

	lines := cell.lines
	if lines == nil {
		lines = preview.Placeholder(cell.item.ID, contentWidth, previewHeight)
	}

	var b strings.Builder
	for i := 0; i < previewHeight; i++ {
		if i < len(lines) {
			b.WriteString(lines[i])
		}
		b.WriteString("\n")
	}

	caption := cell.item.Title
	if caption == "" {
		caption = "Untitled"
	}
	caption, _ = layout.TruncateText(caption, contentWidth, a.cfg.Text)
	capStyle := a.styles.Caption
	if cell.accent != "" {
		capStyle = capStyle.Foreground(lipgloss.Color(cell.accent))
	}
	b.WriteString(capStyle.Render(caption))

	meta := cell.item.OwnerName
	if cell.item.LikeCount > 0 {
		meta = fmt.Sprintf("%s ♥%d", meta, cell.item.LikeCount)
	}
	if cell.item.HasLocation() {
		meta = meta + " · " + cell.item.LocationLabel
	}
	meta, _ = layout.TruncateText(meta, contentWidth, a.cfg.Text)
	b.WriteString("\n")
	b.WriteString(a.styles.Owner.Render(meta))

	style := a.styles.Cell
	if selected {
		style = a.styles.CellSelected
	}
	return style.Width(contentWidth).Render(b.String())
}

// renderMessageLine shows the transient notice or the loading indicator.
func (a App) renderMessageLine() string {
	if a.notice != "" {
		return a.styles.Notice.Render(a.notice)
	}
	if a.store.Loading() {
		return a.styles.Label.Render("loading...")
	}
	if !a.store.HasMore() {
		return a.styles.Label.Render(fmt.Sprintf("%d photos", len(a.store.Visible())))
	}
	return ""
}

// renderViewer draws the full-screen detail viewer.
func (a App) renderViewer() string {
	entry, ok := a.screen.Current()
	if !ok {
		return ""
	}

	var b strings.Builder

	// Reuse the grid cell's preview when we still hold one for this slide.
	var lines []string
	for _, cell := range a.cells.cells {
		if cell.item.ThumbnailURL == entry.Thumb {
			lines = cell.lines
			break
		}
	}
	if lines == nil {
		lines = preview.Placeholder(entry.Src, a.contentWidth()/2, (a.height-6)/2)
	}
	b.WriteString(strings.Join(lines, "\n"))

	if !a.viewer.ChromeHidden() {
		b.WriteString("\n\n")
		b.WriteString(a.styles.ViewerChrome.Render(entry.Caption))
		b.WriteString("\n")
		b.WriteString(a.styles.Label.Render(
			fmt.Sprintf("%d/%d  %s", a.screen.index+1, len(a.screen.entries), entry.Src)))
		b.WriteString("\n")
		b.WriteString(a.styles.Help.Render(a.renderHints(a.contextualHints())))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, b.String())
}

// renderModalScreen centers modal content on a blank screen.
func (a App) renderModalScreen(content string) string {
	modal := a.styles.Modal.
		Width(layout.CalculateModalWidth(a.width, a.cfg.Modal.DefaultWidthPercent, a.cfg.Modal)).
		Render(content)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

// renderEditForm draws the photo edit modal.
func (a App) renderEditForm() string {
	d := a.manager.Draft()
	if d == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(a.styles.ModalTitle.Render("Edit Photo"))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Label.Render("Title"))
	b.WriteString("\n")
	b.WriteString(a.form.TitleInput.View())
	b.WriteString("\n\n")

	b.WriteString(a.styles.Label.Render("Description"))
	b.WriteString("\n")
	b.WriteString(a.form.DescriptionInput.View())
	b.WriteString("\n\n")

	b.WriteString(a.styles.Label.Render("Tags"))
	b.WriteString("\n")
	b.WriteString(a.form.TagsInput.View())
	b.WriteString("\n\n")

	b.WriteString(a.styles.Label.Render("Category: "))
	b.WriteString(string(photo.Categories[a.form.CategoryIdx]))
	b.WriteString("\n")

	b.WriteString(a.styles.Label.Render("Public: "))
	if a.form.IsPublic {
		b.WriteString("yes")
	} else {
		b.WriteString("no")
	}
	b.WriteString("\n")

	b.WriteString(a.styles.Label.Render("Series: "))
	b.WriteString(a.seriesLabel(d.SeriesID))
	b.WriteString("\n")

	if err := a.manager.EditError(); err != nil {
		b.WriteString("\n")
		b.WriteString(a.styles.Error.Render("Save failed: " + err.Error()))
		b.WriteString("\n")
	}
	if a.form.Saving {
		b.WriteString("\n")
		b.WriteString(a.styles.Label.Render("Saving..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.renderHintsInline(a.contextualHints()))
	return b.String()
}

func (a App) seriesLabel(id *string) string {
	if id == nil {
		return "(none)"
	}
	for _, s := range a.manager.Series() {
		if s.ID == *id {
			return s.Title
		}
	}
	// Series list not fetched yet; the id is all we have.
	return *id
}

// renderConfirmDelete draws the delete confirmation modal.
func (a App) renderConfirmDelete() string {
	id, ok := a.manager.PendingDelete()
	if !ok {
		return ""
	}

	title := "this photo"
	if item := a.store.ItemByID(id); item != nil && item.Title != "" {
		title = "\"" + item.Title + "\""
	}

	var b strings.Builder
	b.WriteString(a.styles.ModalTitle.Render("Delete Photo"))
	b.WriteString("\n\n")
	b.WriteString("Delete " + title + "? This cannot be undone.")
	b.WriteString("\n\n")
	b.WriteString(a.renderHintsInline(a.contextualHints()))
	return b.String()
}

// renderSeriesPicker draws the series selection modal.
func (a App) renderSeriesPicker() string {
	var b strings.Builder
	b.WriteString(a.styles.ModalTitle.Render("Assign Series"))
	b.WriteString("\n\n")
	b.WriteString(a.series.FilterInput.View())
	b.WriteString("\n\n")

	switch a.manager.SeriesState() {
	case gallery.SeriesLoading:
		b.WriteString(a.styles.Label.Render("Loading series..."))
		b.WriteString("\n")
	case gallery.SeriesFailed:
		b.WriteString(a.styles.Error.Render("Couldn't load series."))
		b.WriteString("\n")
		b.WriteString(a.styles.Label.Render("enter on a series entry retries; (no series) still works"))
		b.WriteString("\n\n")
	}

	b.WriteString(a.pickerLine("(no series)", a.series.Cursor == 0))

	selected := a.series.Cursor - 1
	if selected < 0 {
		selected = 0
	}
	start, end := layout.CalculateVisibleListItems(
		a.cfg.Modal.SeriesMaxVisible, selected, len(a.series.Filtered))
	for i := start; i < end; i++ {
		var matched []int
		if i < len(a.series.Matches) {
			matched = a.series.Matches[i]
		}
		label := a.highlightMatches(a.series.Filtered[i].Title, matched)
		b.WriteString(a.pickerLine(label, a.series.Cursor == i+1))
	}

	if a.series.CanCreate() {
		label := "create \"" + strings.TrimSpace(a.series.FilterInput.Value()) + "\""
		b.WriteString(a.pickerLine(label, a.series.Cursor == len(a.series.Filtered)+1))
	}
	if a.series.Creating {
		b.WriteString(a.styles.Label.Render("Creating..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.renderHintsInline(a.contextualHints()))
	return b.String()
}

// highlightMatches renders the fuzzy-matched bytes of s in the accent style.
func (a App) highlightMatches(s string, matched []int) string {
	if len(matched) == 0 {
		return s
	}
	var b strings.Builder
	next := 0
	for i := 0; i < len(s); i++ {
		if next < len(matched) && matched[next] == i {
			b.WriteString(a.styles.Badge.Render(string(s[i])))
			next++
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func (a App) pickerLine(label string, selected bool) string {
	// Modal padding plus the selection marker.
	width := layout.CalculateModalWidth(a.width, a.cfg.Modal.DefaultWidthPercent, a.cfg.Modal) - 6
	label = layout.TruncateANSIAware(label, width, a.cfg.Text)
	if selected {
		return a.styles.Badge.Render(">") + " " + label + "\n"
	}
	return "  " + label + "\n"
}

// renderHelpOverlay draws the key binding reference.
func (a App) renderHelpOverlay() string {
	groups := []struct {
		title string
		hints []Hint
	}{
		{"Navigation", []Hint{
			{Key: "j/k/h/l", Desc: "move around the grid"},
			{Key: "gg/G", Desc: "jump to top/bottom"},
			{Key: "enter", Desc: "open photo in viewer"},
		}},
		{"Wall", []Hint{
			{Key: "c", Desc: "cycle category"},
			{Key: "f", Desc: "cycle photographer/location filter"},
			{Key: "o", Desc: "toggle latest/popular sort"},
			{Key: "y", Desc: "yank photo URL"},
		}},
		{"Manage", []Hint{
			{Key: "m", Desc: "toggle manage mode (own photos)"},
			{Key: "e", Desc: "edit selected photo"},
			{Key: "d", Desc: "delete selected photo"},
		}},
		{"Viewer", []Hint{
			{Key: "space", Desc: "tap (once: chrome, twice: close)"},
			{Key: "h/l", Desc: "previous/next photo"},
		}},
	}

	var b strings.Builder
	b.WriteString(a.styles.ModalTitle.Render("Help"))
	b.WriteString("\n")
	for _, group := range groups {
		b.WriteString("\n")
		b.WriteString(a.styles.Title.Render(group.title))
		b.WriteString("\n")
		for _, h := range group.hints {
			b.WriteString("  ")
			b.WriteString(a.styles.HintKey.Render(fmt.Sprintf("%-8s", h.Key)))
			b.WriteString(" ")
			b.WriteString(a.styles.HintDesc.Render(h.Desc))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Label.Render("press any key to close"))
	return b.String()
}
