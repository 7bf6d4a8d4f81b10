package globaltime

import (
	"testing"
	"time"
)

func TestSetMockTime(t *testing.T) {
	fixed := time.Date(2024, 3, 9, 12, 30, 0, 0, time.FixedZone("TRT", 3*60*60))
	SetMockTime(fixed)
	t.Cleanup(ResetTime)

	if got := Now(); !got.Equal(fixed) {
		t.Fatalf("unexpected now: got %v want %v", got, fixed)
	}
	if got := UTC(); got.Location() != time.UTC || got.Hour() != 9 {
		t.Fatalf("unexpected UTC value: %v", got)
	}

	ResetTime()
	if got := Now(); got.Equal(fixed) || time.Since(got) > time.Minute {
		t.Fatalf("expected wall clock after reset, got %v", got)
	}
}
