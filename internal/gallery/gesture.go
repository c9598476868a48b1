package gallery

import "time"

// DoubleTapWindow is how long after a first tap a second tap still counts as
// a double tap.
const DoubleTapWindow = 300 * time.Millisecond

// TapAction is the classifier's verdict for a tap event.
type TapAction int

// Tap verdicts. TapNone means the classifier is still waiting for a possible
// second tap; the caller should schedule an Expire call at Deadline.
const (
	TapNone TapAction = iota
	TapToggleChrome
	TapClose
)

// TapClassifier distinguishes single taps from double taps on the viewer's
// image surface. A lone tap toggles caption/control visibility once the
// window expires; a second tap inside the window closes the viewer.
type TapClassifier struct {
	window   time.Duration
	waiting  bool
	deadline time.Time
}

// NewTapClassifier creates a classifier with the default double-tap window.
func NewTapClassifier() *TapClassifier {
	return &TapClassifier{window: DoubleTapWindow}
}

// Tap feeds one tap event. The second tap of a pair yields TapClose;
// otherwise a new window opens and the verdict is deferred to Expire.
func (c *TapClassifier) Tap(now time.Time) TapAction {
	if c.waiting && now.Before(c.deadline) {
		c.waiting = false
		return TapClose
	}
	c.waiting = true
	c.deadline = now.Add(c.window)
	return TapNone
}

// Expire delivers the deferred single-tap verdict once the window has passed
// with no second tap. Calls before the deadline, or after the window was
// already resolved, return TapNone.
func (c *TapClassifier) Expire(now time.Time) TapAction {
	if !c.waiting || now.Before(c.deadline) {
		return TapNone
	}
	c.waiting = false
	return TapToggleChrome
}

// Deadline returns the pending window deadline, if one is open.
func (c *TapClassifier) Deadline() (time.Time, bool) {
	return c.deadline, c.waiting
}
