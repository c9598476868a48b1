package gallery

import (
	"testing"
	"time"

	"github.com/lbuchert/photowall/internal/layout"
	"github.com/lbuchert/photowall/internal/photo"
)

type fakeView struct {
	item      photo.Item
	width     int
	destroyed bool
}

func (v *fakeView) Create(item photo.Item) { v.item = item }
func (v *fakeView) UpdateSize(width int)   { v.width = width }
func (v *fakeView) Destroy()               { v.destroyed = true }

type fakePositioner struct {
	calls []layout.Grid
}

func (p *fakePositioner) Relayout(grid layout.Grid, gutter int) {
	p.calls = append(p.calls, grid)
}

type viewRecorder struct {
	created []*fakeView
}

func (r *viewRecorder) factory() ItemView {
	v := &fakeView{}
	r.created = append(r.created, v)
	return v
}

func testReconciler() (*Reconciler, *viewRecorder, *fakePositioner) {
	rec := &viewRecorder{}
	pos := &fakePositioner{}
	return NewReconciler(rec.factory, pos, layout.DefaultConfig().Grid), rec, pos
}

func TestReconcile_CreatesAndDestroys(t *testing.T) {
	r, rec, _ := testReconciler()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r.Reconcile([]photo.Item{
		testItem("1", "Ana", photo.CategoryStreet),
		testItem("2", "Leo", photo.CategoryStreet),
	}, 200, now)

	if len(rec.created) != 2 {
		t.Fatalf("expected 2 views created, got %d", len(rec.created))
	}

	// Item 2 leaves the visible set.
	r.Reconcile([]photo.Item{testItem("1", "Ana", photo.CategoryStreet)}, 200, now)

	var destroyed int
	for _, v := range rec.created {
		if v.destroyed {
			destroyed++
		}
	}
	if destroyed != 1 {
		t.Errorf("expected exactly 1 view destroyed, got %d", destroyed)
	}
	if len(rec.created) != 2 {
		t.Errorf("unchanged item must not be recreated, got %d views", len(rec.created))
	}
}

func TestReconcile_RecreatesChangedItem(t *testing.T) {
	r, rec, _ := testReconciler()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	item := testItem("1", "Ana", photo.CategoryStreet)
	r.Reconcile([]photo.Item{item}, 200, now)

	item.Title = "Edited"
	r.Reconcile([]photo.Item{item}, 200, now)

	if len(rec.created) != 2 {
		t.Fatalf("edited item must get a fresh view, got %d views", len(rec.created))
	}
	if !rec.created[0].destroyed {
		t.Error("stale view must be destroyed")
	}
	if rec.created[1].item.Title != "Edited" {
		t.Errorf("new view has title %q", rec.created[1].item.Title)
	}
}

func TestReconcile_SizesAllViews(t *testing.T) {
	r, rec, _ := testReconciler()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	grid := r.Reconcile([]photo.Item{
		testItem("1", "Ana", photo.CategoryStreet),
		testItem("2", "Leo", photo.CategoryStreet),
	}, 200, now)

	for _, v := range rec.created {
		if v.width != grid.ColumnWidth {
			t.Errorf("view width = %d, want %d", v.width, grid.ColumnWidth)
		}
	}
}

// New thumbnails hold the positioning pass until they settle.
func TestReconcile_RelayoutWaitsForSettle(t *testing.T) {
	r, _, pos := testReconciler()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r.Reconcile([]photo.Item{
		testItem("1", "Ana", photo.CategoryStreet),
		testItem("2", "Leo", photo.CategoryStreet),
	}, 200, now)

	if len(pos.calls) != 0 {
		t.Fatalf("relayout must wait for the batch, got %d calls", len(pos.calls))
	}

	r.ImageSettled("1", now.Add(50*time.Millisecond))
	if len(pos.calls) != 0 {
		t.Fatal("relayout ran with one thumbnail pending")
	}

	r.ImageSettled("2", now.Add(100*time.Millisecond))
	if len(pos.calls) != 1 {
		t.Errorf("relayout must run once the batch settles, got %d calls", len(pos.calls))
	}
}

func TestReconcile_FallbackDeadlineForcesRelayout(t *testing.T) {
	r, _, pos := testReconciler()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r.Reconcile([]photo.Item{testItem("1", "Ana", photo.CategoryStreet)}, 200, now)

	r.Tick(now.Add(time.Second))
	if len(pos.calls) != 0 {
		t.Fatal("relayout ran before the fallback deadline")
	}

	r.Tick(now.Add(DefaultSettleTimeout + time.Millisecond))
	if len(pos.calls) != 1 {
		t.Errorf("fallback deadline must force a relayout, got %d calls", len(pos.calls))
	}

	// A straggler settling afterwards must not trigger another pass.
	r.ImageSettled("1", now.Add(5*time.Second))
	if len(pos.calls) != 1 {
		t.Errorf("late settle after forced relayout triggered another pass")
	}
}

func TestReconcile_NoNewViewsRelayoutsImmediately(t *testing.T) {
	r, _, pos := testReconciler()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	item := testItem("1", "Ana", photo.CategoryStreet)
	r.Reconcile([]photo.Item{item}, 200, now)
	r.ImageSettled("1", now)

	// Same visible set again: no batch, immediate pass.
	r.Reconcile([]photo.Item{item}, 200, now.Add(time.Second))

	if len(pos.calls) != 2 {
		t.Errorf("expected immediate relayout without new views, got %d calls", len(pos.calls))
	}
	if _, active := r.PendingSettles(); active {
		t.Error("no batch must be active")
	}
}

func TestResize_ResizesAndRepositions(t *testing.T) {
	r, rec, pos := testReconciler()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r.Reconcile([]photo.Item{testItem("1", "Ana", photo.CategoryStreet)}, 220, now)
	r.ImageSettled("1", now)

	before := len(pos.calls)
	grid := r.Resize(100)

	if grid.Columns == 0 {
		t.Fatal("resize must compute a grid")
	}
	if rec.created[0].width != grid.ColumnWidth {
		t.Errorf("view width = %d, want %d after resize", rec.created[0].width, grid.ColumnWidth)
	}
	if len(pos.calls) != before+1 {
		t.Errorf("resize must run a positioning pass")
	}
}

func TestTeardown_DestroysEverything(t *testing.T) {
	r, rec, _ := testReconciler()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r.Reconcile([]photo.Item{
		testItem("1", "Ana", photo.CategoryStreet),
		testItem("2", "Leo", photo.CategoryStreet),
	}, 200, now)

	r.Teardown()

	for _, v := range rec.created {
		if !v.destroyed {
			t.Error("teardown left a live view")
		}
	}
	if _, active := r.PendingSettles(); active {
		t.Error("teardown must drop the settle batch")
	}
}
