package clock

import (
	"testing"
	"time"
)

func TestUnthrottledReturnsImmediately(t *testing.T) {
	c := New(Unthrottled, 0)
	start := time.Now()
	c.Wait(0xFFFF)
	if d := time.Since(start); d > 50*time.Millisecond {
		t.Errorf("Unthrottled Wait took %s, want near-instant", d)
	}
}

func TestRealTimePaces(t *testing.T) {
	// 100kHz so a handful of ticks is measurable but fast for a test.
	c := New(RealTime, 100000)
	start := time.Now()
	c.Wait(1000) // 1000 ticks at 100kHz == 10ms
	if d := time.Since(start); d < 5*time.Millisecond {
		t.Errorf("RealTime Wait(1000) returned too fast: %s", d)
	}
}

func TestLateCallerReanchorsRatherThanCatchUp(t *testing.T) {
	c := New(RealTime, 1000000)
	time.Sleep(5 * time.Millisecond) // fall behind
	start := time.Now()
	c.Wait(1) // a single tick is far less than the 5ms we're behind by
	if d := time.Since(start); d > 2*time.Millisecond {
		t.Errorf("expected re-anchor to avoid catch-up sleep, took %s", d)
	}
}
