// Package gallery implements the presentation engine behind the photo grid:
// the view-state store, pagination control, render reconciliation and the
// detail viewer and manage-mode coordinators. It is rendering-agnostic; a
// concrete backend (the TUI) plugs in through the ItemView, Positioner and
// ViewerBackend interfaces.
//
// The engine assumes a single-threaded event loop: all methods must be called
// from the same goroutine. Asynchronous work (fetches, image loads) completes
// by calling back into the store with a ticket that identifies the state the
// work was started under; results for superseded state are discarded.
package gallery

import (
	"github.com/lbuchert/photowall/internal/photo"
	"github.com/lbuchert/photowall/internal/pipeline"
)

// Mode is the interaction mode of the grid.
type Mode string

// Interaction modes. They are mutually exclusive: manage mode restricts the
// working set to the current user's photos and enables edit/delete.
const (
	ModeBrowse Mode = "browse"
	ModeManage Mode = "manage"
)

// Store holds the view state of one mounted gallery: the working set, the
// derived visible set, the active selectors, the pagination cursor and the
// interaction mode. One Store is created per mount and discarded on unmount;
// independent galleries in one process do not share state.
type Store struct {
	allItems  []photo.Item
	visible   []photo.Item
	selectors pipeline.Selectors
	cursor    string
	hasMore   bool
	loading   bool
	mode      Mode

	// epoch tags in-flight fetches; it advances on every mode switch so a
	// late response for the previous mode is recognized as stale.
	epoch int
}

// NewStore creates an empty Store in browse mode, ready for its first fetch.
func NewStore() *Store {
	return &Store{
		selectors: pipeline.DefaultSelectors(),
		hasMore:   true,
		mode:      ModeBrowse,
	}
}

// Visible returns the derived visible set in display order.
func (s *Store) Visible() []photo.Item {
	return s.visible
}

// WorkingSet returns the full fetched working set in arrival order.
func (s *Store) WorkingSet() []photo.Item {
	return s.allItems
}

// Selectors returns the active category/filter/sort selectors.
func (s *Store) Selectors() pipeline.Selectors {
	return s.selectors
}

// Mode returns the current interaction mode.
func (s *Store) Mode() Mode {
	return s.mode
}

// HasMore reports whether the provider may have further pages.
func (s *Store) HasMore() bool {
	return s.hasMore
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	return s.loading
}

// Cursor returns the current pagination cursor.
func (s *Store) Cursor() string {
	return s.cursor
}

// SetCategory sets the category selector and re-derives the visible set.
func (s *Store) SetCategory(c photo.Category) {
	s.selectors.Category = c
	s.derive()
}

// SetFilter sets the secondary filter and re-derives the visible set.
func (s *Store) SetFilter(f pipeline.Filter) {
	s.selectors.Filter = f
	s.derive()
}

// SetSort sets the sort key and re-derives the visible set.
func (s *Store) SetSort(k pipeline.Sort) {
	s.selectors.Sort = k
	s.derive()
}

// SetMode switches the interaction mode. The working set and cursor are
// reset and the fetch epoch advances, so any in-flight fetch for the old
// mode will be discarded on completion. The caller is expected to begin a
// fresh first-page fetch afterwards.
func (s *Store) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.mode = m
	s.epoch++
	s.allItems = nil
	s.visible = nil
	s.cursor = ""
	s.hasMore = true
	s.loading = false
}

// PrependItem inserts a freshly uploaded photo at the front of the working
// set and re-derives. An existing entry with the same id is replaced in
// place instead, keeping the id-uniqueness invariant.
func (s *Store) PrependItem(item photo.Item) {
	for i := range s.allItems {
		if s.allItems[i].ID == item.ID {
			s.allItems[i] = item
			s.derive()
			return
		}
	}
	s.allItems = append([]photo.Item{item}, s.allItems...)
	s.derive()
}

// ApplyUpdate patches an item of the working set in place by id and
// re-derives. Unknown ids are ignored.
func (s *Store) ApplyUpdate(item photo.Item) {
	for i := range s.allItems {
		if s.allItems[i].ID == item.ID {
			s.allItems[i] = item
			s.derive()
			return
		}
	}
}

// RemoveItem deletes an item from the working set by id and re-derives.
func (s *Store) RemoveItem(id string) {
	for i := range s.allItems {
		if s.allItems[i].ID == id {
			s.allItems = append(s.allItems[:i], s.allItems[i+1:]...)
			s.derive()
			return
		}
	}
}

// ItemByID finds an item of the working set, or nil.
func (s *Store) ItemByID(id string) *photo.Item {
	for i := range s.allItems {
		if s.allItems[i].ID == id {
			return &s.allItems[i]
		}
	}
	return nil
}

// NearEnd reports whether the given visible index is within threshold items
// of the end of the visible set. This is the scroll-threshold signal that
// triggers the next page fetch.
func (s *Store) NearEnd(index, threshold int) bool {
	if len(s.visible) == 0 {
		return true
	}
	return len(s.visible)-1-index <= threshold
}

// derive recomputes the visible set from the working set and selectors.
func (s *Store) derive() {
	s.visible = pipeline.Derive(s.allItems, s.selectors)
}
