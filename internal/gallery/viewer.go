package gallery

import (
	"time"

	"github.com/lbuchert/photowall/internal/photo"
)

// ViewerEntry is one slide handed to the external detail-viewer primitive.
type ViewerEntry struct {
	Src     string
	Thumb   string
	Caption string
}

// ViewerBackend is the external full-screen viewer primitive. The coordinator
// only drives its invocation contract.
type ViewerBackend interface {
	Open(entries []ViewerEntry, startIndex int)
	Close()
}

// Viewer coordinates the detail viewer: it opens the backend at an index with
// prepared captions, owns the tap classifier while open, and tears everything
// down on close so no state leaks into the next open.
type Viewer struct {
	backend ViewerBackend

	open         bool
	chromeHidden bool
	classifier   *TapClassifier
}

// NewViewer creates a coordinator for the given backend.
func NewViewer(backend ViewerBackend) *Viewer {
	return &Viewer{backend: backend}
}

// Open opens the viewer on the given items at startIndex (clamped). A fresh
// tap classifier is attached and chrome starts visible.
func (v *Viewer) Open(items []photo.Item, startIndex int) {
	if len(items) == 0 {
		return
	}
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= len(items) {
		startIndex = len(items) - 1
	}

	entries := make([]ViewerEntry, len(items))
	for i, item := range items {
		entries[i] = ViewerEntry{
			Src:     item.DisplayURL,
			Thumb:   item.ThumbnailURL,
			Caption: Caption(item),
		}
	}

	v.open = true
	v.chromeHidden = false
	v.classifier = NewTapClassifier()
	v.backend.Open(entries, startIndex)
}

// Close closes the backend and detaches the classifier.
func (v *Viewer) Close() {
	if !v.open {
		return
	}
	v.open = false
	v.classifier = nil
	v.backend.Close()
}

// IsOpen reports whether the viewer is showing.
func (v *Viewer) IsOpen() bool {
	return v.open
}

// ChromeHidden reports whether captions/controls are currently hidden.
func (v *Viewer) ChromeHidden() bool {
	return v.chromeHidden
}

// Tap feeds a tap on the image surface to the classifier. A double tap
// closes the viewer; the returned action tells the caller what happened.
func (v *Viewer) Tap(now time.Time) TapAction {
	if !v.open {
		return TapNone
	}
	action := v.classifier.Tap(now)
	if action == TapClose {
		v.Close()
	}
	return action
}

// ExpireTap resolves a pending single tap: chrome visibility toggles.
func (v *Viewer) ExpireTap(now time.Time) TapAction {
	if !v.open {
		return TapNone
	}
	action := v.classifier.Expire(now)
	if action == TapToggleChrome {
		v.chromeHidden = !v.chromeHidden
	}
	return action
}

// TapDeadline returns the pending double-tap window deadline, if any.
func (v *Viewer) TapDeadline() (time.Time, bool) {
	if !v.open {
		return time.Time{}, false
	}
	return v.classifier.Deadline()
}

// Caption builds the slide caption: title, owner, optional location.
func Caption(item photo.Item) string {
	caption := item.Title
	if caption == "" {
		caption = "Untitled"
	}
	if item.OwnerName != "" {
		caption += " by " + item.OwnerName
	}
	if item.HasLocation() {
		caption += " (" + item.LocationLabel + ")"
	}
	return caption
}
