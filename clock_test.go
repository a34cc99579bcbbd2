package tokenx

import (
	"testing"
	"time"
)

func TestFixedClock(t *testing.T) {
	clock := NewFixedClock(1_000)
	if got := clock.Milliseconds(); got != 1_000 {
		t.Fatalf("unexpected time: %d", got)
	}

	clock.Advance(2500 * time.Millisecond)
	if got := clock.Milliseconds(); got != 3_500 {
		t.Fatalf("unexpected time after advance: %d", got)
	}

	clock.Set(42)
	if got := clock.Milliseconds(); got != 42 {
		t.Fatalf("unexpected time after set: %d", got)
	}
}

func TestSystemClock(t *testing.T) {
	before := time.Now().UnixMilli()
	got := SystemClock().Milliseconds()
	after := time.Now().UnixMilli()
	if got < before || got > after {
		t.Fatalf("system clock out of bounds: %d not in [%d, %d]", got, before, after)
	}
}
