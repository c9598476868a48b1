package gallery

import (
	"testing"

	"github.com/lbuchert/photowall/internal/photo"
	"github.com/lbuchert/photowall/internal/provider"
)

func TestBeginFetch_GuardsReentry(t *testing.T) {
	s := NewStore()

	ticket, ok := s.BeginFetch()
	if !ok {
		t.Fatal("first BeginFetch must succeed")
	}
	if !s.Loading() {
		t.Fatal("store must be loading after BeginFetch")
	}

	// A second trigger while in flight is a no-op.
	if _, ok := s.BeginFetch(); ok {
		t.Error("BeginFetch while loading must refuse")
	}

	s.ApplyPage(ticket, provider.Page{HasMore: true})
	if _, ok := s.BeginFetch(); !ok {
		t.Error("BeginFetch after completion must succeed again")
	}
}

func TestBeginFetch_RefusesWhenExhausted(t *testing.T) {
	s := NewStore()
	ticket, _ := s.BeginFetch()
	s.ApplyPage(ticket, provider.Page{HasMore: false})

	if _, ok := s.BeginFetch(); ok {
		t.Error("BeginFetch must refuse once the provider is exhausted")
	}
}

func TestApplyPage_AdvancesCursor(t *testing.T) {
	s := NewStore()

	ticket, _ := s.BeginFetch()
	if ticket.Cursor != "" {
		t.Errorf("first ticket cursor = %q, want empty", ticket.Cursor)
	}

	s.ApplyPage(ticket, provider.Page{
		Items:      []photo.Item{testItem("1", "Ana", photo.CategoryStreet)},
		NextCursor: "30",
		HasMore:    true,
	})

	ticket, _ = s.BeginFetch()
	if ticket.Cursor != "30" {
		t.Errorf("second ticket cursor = %q, want 30", ticket.Cursor)
	}
}

// No two entries may share an id even when the provider returns overlapping
// pages.
func TestApplyPage_DeduplicatesByID(t *testing.T) {
	s := NewStore()

	ticket, _ := s.BeginFetch()
	s.ApplyPage(ticket, provider.Page{
		Items: []photo.Item{
			testItem("1", "Ana", photo.CategoryStreet),
			testItem("2", "Leo", photo.CategoryStreet),
		},
		NextCursor: "2",
		HasMore:    true,
	})

	ticket, _ = s.BeginFetch()
	s.ApplyPage(ticket, provider.Page{
		Items: []photo.Item{
			testItem("2", "Leo", photo.CategoryStreet), // overlap
			testItem("3", "Mia", photo.CategoryStreet),
		},
		HasMore: false,
	})

	if len(s.WorkingSet()) != 3 {
		t.Fatalf("expected 3 unique items, got %d", len(s.WorkingSet()))
	}
	seen := map[string]bool{}
	for _, item := range s.WorkingSet() {
		if seen[item.ID] {
			t.Errorf("duplicate id %s in working set", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestFailFetch_LeavesStateRetryable(t *testing.T) {
	s := NewStore()
	first, _ := s.BeginFetch()
	s.ApplyPage(first, provider.Page{NextCursor: "30", HasMore: true})

	ticket, _ := s.BeginFetch()
	s.FailFetch(ticket)

	if s.Loading() {
		t.Error("store must return to idle after a failed fetch")
	}
	if !s.HasMore() {
		t.Error("failure must not flip hasMore")
	}

	// Retry resumes from the same cursor.
	retry, ok := s.BeginFetch()
	if !ok {
		t.Fatal("retry must be possible after failure")
	}
	if retry.Cursor != "30" {
		t.Errorf("retry cursor = %q, want 30 (unadvanced)", retry.Cursor)
	}
}

// A fetch completing after a mode switch must never reach the new mode's
// working set.
func TestApplyPage_StaleAfterModeSwitch(t *testing.T) {
	s := NewStore()

	ticket, _ := s.BeginFetch()
	if ticket.Mode != ModeBrowse {
		t.Fatalf("ticket mode = %s, want browse", ticket.Mode)
	}

	s.SetMode(ModeManage)

	merged := s.ApplyPage(ticket, provider.Page{
		Items:   []photo.Item{testItem("stale", "Ana", photo.CategoryStreet)},
		HasMore: true,
	})

	if merged {
		t.Error("stale page must be discarded")
	}
	if s.ItemByID("stale") != nil {
		t.Error("stale item leaked into the new mode's working set")
	}
}

func TestFailFetch_StaleIsIgnored(t *testing.T) {
	s := NewStore()
	ticket, _ := s.BeginFetch()

	s.SetMode(ModeManage)
	fresh, ok := s.BeginFetch()
	if !ok {
		t.Fatal("fetch for the new mode must start")
	}

	// The stale failure must not clear the fresh fetch's guard.
	s.FailFetch(ticket)
	if !s.Loading() {
		t.Error("stale FailFetch cleared the in-flight guard")
	}

	s.FailFetch(fresh)
	if s.Loading() {
		t.Error("fresh FailFetch must clear the guard")
	}
}

func TestApplyPage_RederivesVisible(t *testing.T) {
	s := NewStore()
	s.SetCategory(photo.CategoryStreet)

	ticket, _ := s.BeginFetch()
	s.ApplyPage(ticket, provider.Page{
		Items: []photo.Item{
			testItem("1", "Ana", photo.CategoryStreet),
			testItem("2", "Leo", photo.CategoryPortrait),
		},
		HasMore: false,
	})

	if len(s.Visible()) != 1 || s.Visible()[0].ID != "1" {
		t.Errorf("visible set not re-derived with active selectors: %v", s.Visible())
	}
}
