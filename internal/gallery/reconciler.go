package gallery

import (
	"time"

	"github.com/lbuchert/photowall/internal/layout"
	"github.com/lbuchert/photowall/internal/photo"
)

// ItemView is one rendered grid cell. Implementations belong to the
// rendering backend; the reconciler only drives their lifecycle.
type ItemView interface {
	// Create initializes the view for the item and starts its thumbnail load.
	Create(item photo.Item)
	// UpdateSize applies the current column width.
	UpdateSize(width int)
	// Destroy releases the view's resources.
	Destroy()
}

// ViewFactory produces a fresh, uninitialized ItemView.
type ViewFactory func() ItemView

// Positioner is the external grid-positioning primitive: given the sized item
// views, it arranges them into a compact multi-column flow. The reconciler
// only tells it when and with which column parameters to run.
type Positioner interface {
	Relayout(grid layout.Grid, gutter int)
}

// Reconciler keeps the set of item views in sync with the visible set and
// schedules positioning passes once a batch of new thumbnails has settled.
type Reconciler struct {
	factory    ViewFactory
	positioner Positioner
	grid       layout.GridConfig

	views map[string]ItemView
	items map[string]photo.Item
	batch *SettleBatch

	settleTimeout time.Duration
	lastGrid      layout.Grid
}

// NewReconciler creates a Reconciler for the given backend.
func NewReconciler(factory ViewFactory, positioner Positioner, grid layout.GridConfig) *Reconciler {
	return &Reconciler{
		factory:       factory,
		positioner:    positioner,
		grid:          grid,
		views:         map[string]ItemView{},
		items:         map[string]photo.Item{},
		settleTimeout: DefaultSettleTimeout,
	}
}

// Reconcile diffs the visible set against the existing views: obsolete views
// are destroyed, new ones created, changed ones recreated. All views get the
// column width for the given container width. New views are collected into a
// settle batch; the positioning pass runs once they settle (or the fallback
// deadline passes). With no new views the pass runs immediately.
func (r *Reconciler) Reconcile(visible []photo.Item, containerWidth int, now time.Time) layout.Grid {
	wanted := make(map[string]bool, len(visible))
	for _, item := range visible {
		wanted[item.ID] = true
	}

	for id, view := range r.views {
		if !wanted[id] {
			view.Destroy()
			delete(r.views, id)
			delete(r.items, id)
		}
	}

	var newIDs []string
	for _, item := range visible {
		if existing, ok := r.views[item.ID]; ok {
			if itemEqual(r.items[item.ID], item) {
				continue
			}
			// Item data changed (edit); rebuild the cell.
			existing.Destroy()
		}
		view := r.factory()
		view.Create(item)
		r.views[item.ID] = view
		r.items[item.ID] = item
		newIDs = append(newIDs, item.ID)
	}

	r.lastGrid = layout.Compute(containerWidth, r.grid.Breakpoints, r.grid.Gutter)
	for _, view := range r.views {
		view.UpdateSize(r.lastGrid.ColumnWidth)
	}

	if len(newIDs) == 0 {
		r.batch = nil
		r.positioner.Relayout(r.lastGrid, r.grid.Gutter)
		return r.lastGrid
	}

	r.batch = NewSettleBatch(newIDs, now, r.settleTimeout)
	return r.lastGrid
}

// ImageSettled records that the thumbnail for id has loaded or definitively
// failed, and runs the positioning pass if this completed the batch.
func (r *Reconciler) ImageSettled(id string, now time.Time) {
	if r.batch == nil {
		return
	}
	r.batch.Settle(id)
	if r.batch.Ready(now) {
		r.positioner.Relayout(r.lastGrid, r.grid.Gutter)
	}
}

// Tick drives the fallback deadline; the backend calls it from its timer.
func (r *Reconciler) Tick(now time.Time) {
	if r.batch == nil {
		return
	}
	if r.batch.Ready(now) {
		r.positioner.Relayout(r.lastGrid, r.grid.Gutter)
	}
}

// PendingSettles returns how many thumbnails the current batch still waits
// for, and whether a batch is active at all.
func (r *Reconciler) PendingSettles() (int, bool) {
	if r.batch == nil {
		return 0, false
	}
	return r.batch.Pending(), true
}

// Resize recomputes column parameters for a new container width, resizes all
// views and runs a positioning pass. Callers debounce resize bursts.
func (r *Reconciler) Resize(containerWidth int) layout.Grid {
	r.lastGrid = layout.Compute(containerWidth, r.grid.Breakpoints, r.grid.Gutter)
	for _, view := range r.views {
		view.UpdateSize(r.lastGrid.ColumnWidth)
	}
	r.positioner.Relayout(r.lastGrid, r.grid.Gutter)
	return r.lastGrid
}

// Teardown destroys all views. Used on unmount.
func (r *Reconciler) Teardown() {
	for id, view := range r.views {
		view.Destroy()
		delete(r.views, id)
		delete(r.items, id)
	}
	r.batch = nil
}

// itemEqual compares the fields that affect a rendered cell.
func itemEqual(a, b photo.Item) bool {
	if a.ID != b.ID || a.Title != b.Title || a.ThumbnailURL != b.ThumbnailURL ||
		a.OwnerName != b.OwnerName || a.Category != b.Category ||
		a.LikeCount != b.LikeCount || a.LocationLabel != b.LocationLabel ||
		a.Description != b.Description || a.IsPublic != b.IsPublic {
		return false
	}
	if len(a.Tags) != len(b.Tags) {
		return false
	}
	for i := range a.Tags {
		if a.Tags[i] != b.Tags[i] {
			return false
		}
	}
	if (a.SeriesID == nil) != (b.SeriesID == nil) {
		return false
	}
	if a.SeriesID != nil && *a.SeriesID != *b.SeriesID {
		return false
	}
	return true
}
