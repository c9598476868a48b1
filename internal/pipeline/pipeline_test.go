package pipeline

import (
	"reflect"
	"testing"
	"time"

	"github.com/lbuchert/photowall/internal/photo"
)

func itemAt(id, owner string, category photo.Category, likes int, uploaded time.Time) photo.Item {
	return photo.Item{
		ID:         id,
		Title:      "Photo " + id,
		OwnerName:  owner,
		Category:   category,
		LikeCount:  likes,
		UploadedAt: uploaded,
	}
}

func TestDerive_EmptyWorkingSet(t *testing.T) {
	sel := DefaultSelectors()
	sel.Category = photo.CategoryStreet

	visible := Derive(nil, sel)

	if len(visible) != 0 {
		t.Errorf("expected empty visible set, got %d items", len(visible))
	}
}

func TestDerive_CategoryFilter(t *testing.T) {
	now := time.Now()
	all := []photo.Item{
		itemAt("1", "Ana", photo.CategoryStreet, 0, now),
		itemAt("2", "Ana", photo.CategoryPortrait, 0, now),
		itemAt("3", "Leo", photo.CategoryStreet, 0, now),
	}

	sel := DefaultSelectors()
	sel.Category = photo.CategoryStreet

	visible := Derive(all, sel)

	if len(visible) != 2 {
		t.Fatalf("expected 2 street items, got %d", len(visible))
	}
	for _, item := range visible {
		if item.Category != photo.CategoryStreet {
			t.Errorf("item %s has category %s, want street", item.ID, item.Category)
		}
	}
}

func TestDerive_CategoryAll_Identity(t *testing.T) {
	now := time.Now()
	all := []photo.Item{
		itemAt("1", "Ana", photo.CategoryStreet, 0, now),
		itemAt("2", "Leo", photo.CategoryPortrait, 0, now),
	}

	visible := Derive(all, DefaultSelectors())

	if len(visible) != 2 {
		t.Errorf("expected all 2 items visible, got %d", len(visible))
	}
}

func TestDerive_PhotographerFilter(t *testing.T) {
	now := time.Now()
	all := []photo.Item{
		itemAt("1", "Ana", photo.CategoryStreet, 0, now),
		itemAt("2", "Ana", photo.CategoryPortrait, 0, now),
		itemAt("3", "Ana", photo.CategoryStreet, 0, now),
		itemAt("4", "Leo", photo.CategoryStreet, 0, now),
	}

	sel := DefaultSelectors()
	sel.Filter = FilterPhotographer

	visible := Derive(all, sel)

	if len(visible) != 3 {
		t.Fatalf("expected Ana's 3 items, got %d", len(visible))
	}
	for _, item := range visible {
		if item.OwnerName != "Ana" {
			t.Errorf("unexpected owner %s in photographer-filtered set", item.OwnerName)
		}
	}
}

// Owner frequency must come from the unfiltered working set: Ana has two works
// overall, so her single street photo survives the combined filter even though
// she has only one work in the street category.
func TestDerive_PhotographerFrequencyIgnoresCategory(t *testing.T) {
	now := time.Now()
	all := []photo.Item{
		itemAt("1", "Ana", photo.CategoryStreet, 0, now),
		itemAt("2", "Ana", photo.CategoryPortrait, 0, now),
		itemAt("3", "Leo", photo.CategoryStreet, 0, now),
	}

	sel := DefaultSelectors()
	sel.Category = photo.CategoryStreet
	sel.Filter = FilterPhotographer

	visible := Derive(all, sel)

	if len(visible) != 1 {
		t.Fatalf("expected 1 item, got %d", len(visible))
	}
	if visible[0].ID != "1" {
		t.Errorf("expected Ana's street photo, got %s", visible[0].ID)
	}
}

func TestDerive_LocationFilter(t *testing.T) {
	now := time.Now()
	withLocation := itemAt("1", "Ana", photo.CategoryStreet, 0, now)
	withLocation.LocationLabel = "Lisbon"
	placeholder := itemAt("2", "Leo", photo.CategoryStreet, 0, now)
	placeholder.LocationLabel = "-"
	empty := itemAt("3", "Mia", photo.CategoryStreet, 0, now)

	sel := DefaultSelectors()
	sel.Filter = FilterLocation

	visible := Derive([]photo.Item{withLocation, placeholder, empty}, sel)

	if len(visible) != 1 {
		t.Fatalf("expected 1 located item, got %d", len(visible))
	}
	if visible[0].ID != "1" {
		t.Errorf("expected item 1, got %s", visible[0].ID)
	}
}

func TestDerive_SortLatest(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	all := []photo.Item{
		itemAt("old", "Ana", photo.CategoryStreet, 0, base),
		itemAt("new", "Leo", photo.CategoryStreet, 0, base.Add(time.Hour)),
		itemAt("mid", "Mia", photo.CategoryStreet, 0, base.Add(time.Minute)),
	}

	visible := Derive(all, Selectors{Category: photo.CategoryAll, Filter: FilterNone, Sort: SortLatest})

	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if visible[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, visible[i].ID, id)
		}
	}
}

func TestDerive_SortPopular_StableTies(t *testing.T) {
	now := time.Now()
	all := []photo.Item{
		itemAt("a", "Ana", photo.CategoryStreet, 5, now),
		itemAt("b", "Leo", photo.CategoryStreet, 9, now),
		itemAt("c", "Mia", photo.CategoryStreet, 5, now),
	}

	visible := Derive(all, Selectors{Category: photo.CategoryAll, Filter: FilterNone, Sort: SortPopular})

	// b first, then the two 5-like items in original relative order.
	want := []string{"b", "a", "c"}
	for i, id := range want {
		if visible[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, visible[i].ID, id)
		}
	}
}

func TestDerive_SortLatest_StableTies(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	all := []photo.Item{
		itemAt("first", "Ana", photo.CategoryStreet, 0, ts),
		itemAt("second", "Leo", photo.CategoryStreet, 0, ts),
	}

	visible := Derive(all, DefaultSelectors())

	if visible[0].ID != "first" || visible[1].ID != "second" {
		t.Errorf("equal timestamps must keep original order, got %s then %s",
			visible[0].ID, visible[1].ID)
	}
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	all := []photo.Item{
		itemAt("old", "Ana", photo.CategoryStreet, 1, base),
		itemAt("new", "Leo", photo.CategoryStreet, 9, base.Add(time.Hour)),
	}
	snapshot := make([]photo.Item, len(all))
	copy(snapshot, all)

	Derive(all, Selectors{Category: photo.CategoryAll, Filter: FilterNone, Sort: SortPopular})

	if !reflect.DeepEqual(all, snapshot) {
		t.Error("Derive mutated the working set")
	}
}

func TestDerive_RepeatedCallsEqual(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	all := []photo.Item{
		itemAt("1", "Ana", photo.CategoryStreet, 1, base),
		itemAt("2", "Leo", photo.CategoryPortrait, 9, base.Add(time.Hour)),
		itemAt("3", "Ana", photo.CategoryStreet, 5, base.Add(time.Minute)),
	}
	sel := Selectors{Category: photo.CategoryStreet, Filter: FilterNone, Sort: SortPopular}

	first := Derive(all, sel)
	second := Derive(all, sel)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Derive calls with identical inputs differ")
	}
}

func TestDerive_OutputDoesNotAliasInput(t *testing.T) {
	now := time.Now()
	all := []photo.Item{
		itemAt("1", "Ana", photo.CategoryStreet, 0, now),
	}

	visible := Derive(all, DefaultSelectors())
	all[0].Title = "mutated"

	if visible[0].Title == "mutated" {
		t.Error("visible set aliases the working set")
	}
}
