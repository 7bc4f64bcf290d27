package session

import (
	"context"
	"testing"
	"time"
)

func TestVirtualClock_AdvanceMovesNow(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	vc := NewVirtualClock(start)

	vc.Advance(time.Second)
	vc.Advance(500 * time.Millisecond)

	want := start.Add(1500 * time.Millisecond)
	if !vc.Now().Equal(want) {
		t.Errorf("expected %v, got %v", want, vc.Now())
	}
}

func TestVirtualClock_WakesInDeadlineOrder(t *testing.T) {
	vc := NewVirtualClock(time.Unix(0, 0))
	ctx := context.Background()

	first := make(chan struct{})
	second := make(chan struct{})
	go func() {
		vc.Sleep(ctx, time.Second)
		close(first)
	}()
	go func() {
		vc.Sleep(ctx, 2*time.Second)
		close(second)
	}()

	if !vc.BlockUntilWaiters(2, time.Second) {
		t.Fatal("sleepers did not queue")
	}

	vc.Advance(time.Second)
	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("first sleeper not woken")
	}
	select {
	case <-second:
		t.Fatal("second sleeper woken too early")
	case <-time.After(20 * time.Millisecond):
	}

	vc.Advance(time.Second)
	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("second sleeper not woken")
	}
}

func TestVirtualClock_SleepZeroReturnsImmediately(t *testing.T) {
	vc := NewVirtualClock(time.Unix(0, 0))
	if err := vc.Sleep(context.Background(), 0); err != nil {
		t.Errorf("expected nil for zero sleep, got %v", err)
	}
	if vc.Waiters() != 0 {
		t.Errorf("expected no waiters, got %d", vc.Waiters())
	}
}

func TestVirtualClock_SleepCancelled(t *testing.T) {
	vc := NewVirtualClock(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- vc.Sleep(ctx, time.Hour)
	}()
	if !vc.BlockUntilWaiters(1, time.Second) {
		t.Fatal("sleeper did not queue")
	}

	cancel()
	select {
	case err := <-errCh:
		if err == nil {
			t.Error("expected cancellation error")
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled sleep did not return")
	}
}

func TestWallClock_SleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := (WallClock{}).Sleep(ctx, time.Hour)
	if err == nil {
		t.Error("expected cancellation error")
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled sleep blocked too long")
	}
}

func TestWallClock_SleepElapses(t *testing.T) {
	start := time.Now()
	if err := (WallClock{}).Sleep(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("Sleep failed: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("sleep returned before the duration elapsed")
	}
}
