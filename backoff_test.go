package keepalive

import (
	"testing"
	"time"
)

func TestFixedDelayNoJitter(t *testing.T) {
	policy := FixedDelay[int](100*time.Millisecond, 0)
	for i := 0; i < 5; i++ {
		retry := policy(ExitOutcome[int]{Completed: true})
		if retry.Abort {
			t.Fatalf("FixedDelay must never abort")
		}
		if retry.After != 100*time.Millisecond {
			t.Fatalf("expected exactly 100ms with no jitter, got %v", retry.After)
		}
	}
}

func TestFixedDelayWithJitterStaysInRange(t *testing.T) {
	policy := FixedDelay[int](100*time.Millisecond, 0.1)
	low := 90 * time.Millisecond
	high := 110 * time.Millisecond
	for i := 0; i < 50; i++ {
		retry := policy(ExitOutcome[int]{Completed: true})
		if retry.After < low || retry.After > high {
			t.Fatalf("jittered delay %v outside [%v, %v]", retry.After, low, high)
		}
	}
}

func TestExponentialBackoffGrowsAndCaps(t *testing.T) {
	policy := ExponentialBackoff[int](10*time.Millisecond, 2, 100*time.Millisecond, 0, time.Hour)

	first := policy(ExitOutcome[int]{})
	second := policy(ExitOutcome[int]{})
	third := policy(ExitOutcome[int]{})

	if first.After != 10*time.Millisecond {
		t.Fatalf("expected 10ms on first attempt, got %v", first.After)
	}
	if second.After != 20*time.Millisecond {
		t.Fatalf("expected 20ms on second attempt, got %v", second.After)
	}
	if third.After != 40*time.Millisecond {
		t.Fatalf("expected 40ms on third attempt, got %v", third.After)
	}

	for i := 0; i < 10; i++ {
		retry := policy(ExitOutcome[int]{})
		if retry.After > 100*time.Millisecond {
			t.Fatalf("expected delay to stay capped at 100ms, got %v", retry.After)
		}
	}
}

func TestExponentialBackoffResetsAfterStablePeriod(t *testing.T) {
	policy := ExponentialBackoff[int](10*time.Millisecond, 2, time.Second, 0, time.Millisecond)

	first := policy(ExitOutcome[int]{})
	if first.After != 10*time.Millisecond {
		t.Fatalf("expected 10ms on first attempt, got %v", first.After)
	}

	time.Sleep(5 * time.Millisecond)

	reset := policy(ExitOutcome[int]{})
	if reset.After != 10*time.Millisecond {
		t.Fatalf("expected the attempt counter to reset to 10ms after the stable period, got %v", reset.After)
	}
}

func TestExponentialBackoffNeverAborts(t *testing.T) {
	policy := ExponentialBackoff[int](time.Millisecond, 2, time.Second, 0, time.Hour)
	for i := 0; i < 5; i++ {
		if policy(ExitOutcome[int]{}).Abort {
			t.Fatalf("ExponentialBackoff must never abort")
		}
	}
}
