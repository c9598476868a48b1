package gallery

import "time"

// DefaultSettleTimeout caps how long a layout pass waits for image loads.
// A slow or broken thumbnail must not stall positioning indefinitely.
const DefaultSettleTimeout = 2 * time.Second

// SettleBatch tracks a set of images that must settle (load or fail) before
// the next grid positioning pass. It is a fan-in with a fallback deadline:
// Ready fires once, either when every image has settled or when the deadline
// passes first.
type SettleBatch struct {
	pending  map[string]bool
	deadline time.Time
	fired    bool
}

// NewSettleBatch starts tracking the given image ids.
func NewSettleBatch(ids []string, now time.Time, timeout time.Duration) *SettleBatch {
	pending := make(map[string]bool, len(ids))
	for _, id := range ids {
		pending[id] = true
	}
	return &SettleBatch{
		pending:  pending,
		deadline: now.Add(timeout),
	}
}

// Settle marks one image as settled. Ids outside the batch are ignored, so a
// late load event from a previous batch is harmless.
func (b *SettleBatch) Settle(id string) {
	delete(b.pending, id)
}

// Pending returns the number of images still outstanding.
func (b *SettleBatch) Pending() int {
	return len(b.pending)
}

// Deadline returns the fallback deadline.
func (b *SettleBatch) Deadline() time.Time {
	return b.deadline
}

// Ready reports whether the positioning pass should run now. It returns true
// exactly once: when the batch is fully settled, or when the fallback
// deadline has passed with images still outstanding.
func (b *SettleBatch) Ready(now time.Time) bool {
	if b.fired {
		return false
	}
	if len(b.pending) > 0 && now.Before(b.deadline) {
		return false
	}
	b.fired = true
	return true
}
