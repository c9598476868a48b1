package pipeline

import (
	"sort"

	"github.com/lbuchert/photowall/internal/photo"
)

// Filter is the secondary filter applied after the category filter.
type Filter string

// Secondary filters.
const (
	FilterNone         Filter = "none"
	FilterPhotographer Filter = "photographer"
	FilterLocation     Filter = "location"
)

// Filters lists the secondary filters in cycle order.
var Filters = []Filter{FilterNone, FilterPhotographer, FilterLocation}

// Sort orders the visible set.
type Sort string

// Sort keys.
const (
	SortLatest  Sort = "latest"
	SortPopular Sort = "popular"
)

// Sorts lists the sort keys in cycle order.
var Sorts = []Sort{SortLatest, SortPopular}

// Selectors bundles the active category, secondary filter and sort key.
type Selectors struct {
	Category photo.Category
	Filter   Filter
	Sort     Sort
}

// DefaultSelectors returns the initial selector state: everything visible,
// newest first.
func DefaultSelectors() Selectors {
	return Selectors{
		Category: photo.CategoryAll,
		Filter:   FilterNone,
		Sort:     SortLatest,
	}
}

// Derive computes the visible set from the working set and the active
// selectors. The input is never mutated and the result never aliases it, so a
// rendered visible set stays intact when the working set changes later.
func Derive(all []photo.Item, sel Selectors) []photo.Item {
	visible := make([]photo.Item, 0, len(all))

	// The photographer filter keeps owners with multiple works in the set.
	// Frequency is counted over the unfiltered working set so the signal does
	// not shift when a category is selected.
	var ownerCount map[string]int
	if sel.Filter == FilterPhotographer {
		ownerCount = make(map[string]int, len(all))
		for _, item := range all {
			ownerCount[item.OwnerName]++
		}
	}

	for _, item := range all {
		if sel.Category != photo.CategoryAll && item.Category != sel.Category {
			continue
		}

		switch sel.Filter {
		case FilterPhotographer:
			if ownerCount[item.OwnerName] <= 1 {
				continue
			}
		case FilterLocation:
			if !item.HasLocation() {
				continue
			}
		}

		visible = append(visible, item)
	}

	switch sel.Sort {
	case SortPopular:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].LikeCount > visible[j].LikeCount
		})
	default: // SortLatest
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].UploadedAt.After(visible[j].UploadedAt)
		})
	}

	return visible
}
