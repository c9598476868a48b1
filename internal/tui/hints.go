package tui

import (
	"strings"

	"github.com/lbuchert/photowall/internal/gallery"
)

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for the bottom bar.
func (a App) renderHints(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals.
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// contextualHints returns the hints for the surface that has focus.
func (a App) contextualHints() []Hint {
	if a.viewer.IsOpen() {
		return []Hint{
			{Key: "space", Desc: "tap"},
			{Key: "h/l", Desc: "prev/next"},
			{Key: "y", Desc: "yank URL"},
			{Key: "esc", Desc: "close"},
		}
	}

	switch a.focus {
	case ScreenEdit:
		return []Hint{
			{Key: "tab", Desc: "next field"},
			{Key: "up/down", Desc: "category"},
			{Key: "ctrl+p", Desc: "public"},
			{Key: "ctrl+s", Desc: "series"},
			{Key: "enter", Desc: "save"},
			{Key: "esc", Desc: "cancel"},
		}
	case ScreenConfirmDelete:
		return []Hint{
			{Key: "enter", Desc: "delete"},
			{Key: "esc", Desc: "keep"},
		}
	case ScreenSeries:
		return []Hint{
			{Key: "up/down", Desc: "move"},
			{Key: "enter", Desc: "select"},
			{Key: "esc", Desc: "back"},
		}
	}

	hints := []Hint{
		{Key: "j/k/h/l", Desc: "move"},
		{Key: "enter", Desc: "open"},
		{Key: "c", Desc: "category"},
		{Key: "f", Desc: "filter"},
		{Key: "o", Desc: "sort"},
		{Key: "m", Desc: "manage"},
		{Key: "y", Desc: "yank"},
	}
	if a.store.Mode() == gallery.ModeManage {
		hints = append(hints,
			Hint{Key: "e", Desc: "edit"},
			Hint{Key: "d", Desc: "delete"},
		)
	}
	hints = append(hints,
		Hint{Key: "?", Desc: "help"},
		Hint{Key: "q", Desc: "quit"},
	)
	return hints
}
