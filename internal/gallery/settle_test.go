package gallery

import (
	"testing"
	"time"
)

func TestSettleBatch_AllSettled(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewSettleBatch([]string{"a", "b"}, now, DefaultSettleTimeout)

	if b.Ready(now) {
		t.Fatal("batch must not be ready with images pending")
	}

	b.Settle("a")
	if b.Ready(now.Add(10 * time.Millisecond)) {
		t.Fatal("batch must not be ready with one image pending")
	}

	b.Settle("b")
	if !b.Ready(now.Add(20 * time.Millisecond)) {
		t.Fatal("batch must be ready once all images settled")
	}
}

func TestSettleBatch_FallbackDeadline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewSettleBatch([]string{"slow"}, now, 2*time.Second)

	if b.Ready(now.Add(time.Second)) {
		t.Fatal("batch must wait before the deadline")
	}
	if !b.Ready(now.Add(3 * time.Second)) {
		t.Fatal("batch must fire at the deadline even with images pending")
	}
}

func TestSettleBatch_FiresOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewSettleBatch([]string{"a"}, now, time.Second)

	b.Settle("a")
	if !b.Ready(now) {
		t.Fatal("first Ready must fire")
	}
	if b.Ready(now.Add(time.Minute)) {
		t.Error("Ready must fire exactly once")
	}
}

func TestSettleBatch_UnknownIDIgnored(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewSettleBatch([]string{"a"}, now, time.Second)

	// Late event from a previous batch.
	b.Settle("stale")

	if b.Pending() != 1 {
		t.Errorf("unknown id changed pending count: %d", b.Pending())
	}
}

func TestSettleBatch_EmptyIsImmediatelyReady(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewSettleBatch(nil, now, time.Second)

	if !b.Ready(now) {
		t.Error("empty batch must be ready at once")
	}
}
