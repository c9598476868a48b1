package gallery

import "github.com/lbuchert/photowall/internal/provider"

// FetchTicket identifies one fetch and the state it was issued under. The
// completion callbacks check it against the store's current epoch, so a
// response that arrives after a mode switch is dropped instead of merged.
type FetchTicket struct {
	Epoch  int
	Mode   Mode
	Cursor string
}

// BeginFetch transitions the pagination state machine from idle to loading
// and returns the ticket for the fetch to issue. It refuses (returns false)
// while a fetch is already in flight or when the provider is exhausted; this
// guard is the sole defense against duplicate concurrent fetches, so
// triggering events arriving while loading are no-ops.
func (s *Store) BeginFetch() (FetchTicket, bool) {
	if s.loading || !s.hasMore {
		return FetchTicket{}, false
	}
	s.loading = true
	return FetchTicket{Epoch: s.epoch, Mode: s.mode, Cursor: s.cursor}, true
}

// ApplyPage merges a completed fetch into the working set: new items are
// appended (deduplicated by id), the cursor advances and the visible set is
// re-derived. A stale ticket is discarded and the method reports false.
func (s *Store) ApplyPage(t FetchTicket, page provider.Page) bool {
	if t.Epoch != s.epoch {
		// Stale response from before a mode switch. Expected, not an error.
		return false
	}

	seen := make(map[string]bool, len(s.allItems))
	for _, item := range s.allItems {
		seen[item.ID] = true
	}
	for _, item := range page.Items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		s.allItems = append(s.allItems, item)
	}

	s.cursor = page.NextCursor
	s.hasMore = page.HasMore
	s.loading = false
	s.derive()
	return true
}

// FailFetch returns the state machine to idle after a failed fetch. The
// cursor and hasMore are left untouched so the same fetch can be retried.
// Stale tickets are ignored.
func (s *Store) FailFetch(t FetchTicket) {
	if t.Epoch != s.epoch {
		return
	}
	s.loading = false
}
