package tui

import (
	"github.com/lbuchert/photowall/internal/gallery"
	"github.com/lbuchert/photowall/internal/layout"
	"github.com/lbuchert/photowall/internal/photo"
)

// gridCell is the terminal rendering of one photo: preview lines plus a
// caption row. It implements gallery.ItemView.
type gridCell struct {
	set    *cellSet
	item   photo.Item
	width  int
	lines  []string // rendered preview, nil while loading
	accent string   // average thumbnail color, tints the caption
	row    int
	col    int
}

func (c *gridCell) Create(item photo.Item) {
	c.item = item
	c.set.cells[item.ID] = c
	c.set.pendingLoads = append(c.set.pendingLoads, item.ID)
}

func (c *gridCell) UpdateSize(width int) {
	if width == c.width {
		return
	}
	c.width = width
	// Preview must be re-rendered at the new width; the fetcher caches per
	// size so this is cheap when scrolling back.
	c.lines = nil
	c.set.pendingLoads = append(c.set.pendingLoads, c.item.ID)
}

func (c *gridCell) Destroy() {
	delete(c.set.cells, c.item.ID)
}

// cellSet owns the live grid cells. It is both the view factory and the
// positioning primitive handed to the reconciler.
type cellSet struct {
	cells        map[string]*gridCell
	visibleOrder []string // display order, set before every reconcile
	order        []string // row-major order after the last positioning pass

	// Thumbnail loads requested by Create/UpdateSize since the last drain.
	pendingLoads []string
}

func newCellSet() *cellSet {
	return &cellSet{cells: map[string]*gridCell{}}
}

// factory is the gallery.ViewFactory for this set.
func (s *cellSet) factory() gallery.ItemView {
	return &gridCell{set: s}
}

// setOrder records the display order for the next positioning pass. The
// store's visible set already carries the active sort.
func (s *cellSet) setOrder(visible []photo.Item) {
	s.visibleOrder = s.visibleOrder[:0]
	for _, item := range visible {
		s.visibleOrder = append(s.visibleOrder, item.ID)
	}
}

// Relayout implements gallery.Positioner: assign row/column slots to the
// live cells following the recorded display order.
func (s *cellSet) Relayout(grid layout.Grid, gutter int) {
	if grid.Columns <= 0 {
		return
	}

	ids := make([]string, 0, len(s.cells))
	for _, id := range s.visibleOrder {
		if _, ok := s.cells[id]; ok {
			ids = append(ids, id)
		}
	}

	for i, id := range ids {
		cell := s.cells[id]
		cell.row = i / grid.Columns
		cell.col = i % grid.Columns
	}
	s.order = ids
}

// drainLoads returns and clears the ids whose previews need (re)loading.
func (s *cellSet) drainLoads() []string {
	loads := s.pendingLoads
	s.pendingLoads = nil
	return loads
}

// setPreview stores the rendered lines for id, if the cell is still alive.
func (s *cellSet) setPreview(id string, lines []string, accent string) {
	if cell, ok := s.cells[id]; ok {
		cell.lines = lines
		cell.accent = accent
	}
}

// rows returns the positioned cells grouped by row, columns in order.
func (s *cellSet) rows() [][]*gridCell {
	var out [][]*gridCell
	for _, id := range s.order {
		cell, ok := s.cells[id]
		if !ok {
			continue
		}
		for cell.row >= len(out) {
			out = append(out, nil)
		}
		out[cell.row] = append(out[cell.row], cell)
	}
	return out
}

// viewerScreen is the full-screen viewer primitive. It implements
// gallery.ViewerBackend and owns slide navigation.
type viewerScreen struct {
	entries []gallery.ViewerEntry
	index   int
	showing bool
}

func (v *viewerScreen) Open(entries []gallery.ViewerEntry, startIndex int) {
	v.entries = entries
	v.index = startIndex
	v.showing = true
}

func (v *viewerScreen) Close() {
	v.entries = nil
	v.index = 0
	v.showing = false
}

func (v *viewerScreen) Next() {
	if v.index < len(v.entries)-1 {
		v.index++
	}
}

func (v *viewerScreen) Prev() {
	if v.index > 0 {
		v.index--
	}
}

func (v *viewerScreen) Current() (gallery.ViewerEntry, bool) {
	if !v.showing || v.index >= len(v.entries) {
		return gallery.ViewerEntry{}, false
	}
	return v.entries[v.index], true
}
