package queue

import (
	"context"
	"testing"
	"time"
)

func TestQueueDeliversPushedEventsToListener(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := q.Join(ctx)
	q.Push(StatusEvent{Name: "a", Status: "Up"})

	ev, ok := l.Next()
	if !ok {
		t.Fatalf("expected an event")
	}
	if ev.Name != "a" || ev.Status != "Up" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestQueueFansOutToMultipleListeners(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l1 := q.Join(ctx)
	l2 := q.Join(ctx)
	q.Push(StatusEvent{Name: "a", Status: "Up"})

	for _, l := range []*Listener{l1, l2} {
		ev, ok := l.Next()
		if !ok || ev.Name != "a" {
			t.Fatalf("expected both listeners to observe the event, got %+v ok=%v", ev, ok)
		}
	}
}

func TestQueueDropsEventsWithNoListeners(t *testing.T) {
	q := New()
	if awoke := q.Push(StatusEvent{Name: "a", Status: "Up"}); awoke {
		t.Fatalf("expected no subscribers to be woken")
	}
}

func TestListenerNextUnblocksOnContextCancel(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	l := q.Join(ctx)

	done := make(chan struct{})
	go func() {
		_, ok := l.Next()
		if ok {
			t.Errorf("expected Next to fail once the context is cancelled")
		}
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Next did not unblock after context cancellation")
	}
}
