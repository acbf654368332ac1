package core_test

import (
	"testing"
	"time"

	"support-console/internal/core"
)

// manualClock collects scheduled callbacks and fires them on demand.
type manualClock struct {
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) core.Timer {
	t := &manualTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.now += d
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			t.f()
		}
	}
}

func TestBroadcaster_NotifyAndExpire(t *testing.T) {
	clock := &manualClock{}
	b := core.NewBroadcaster(clock)

	b.Notify(core.NotifySuccess, "X")
	got, ok := b.Current()
	if !ok || got != (core.Notification{Kind: core.NotifySuccess, Message: "X"}) {
		t.Fatalf("Current = %+v, %v", got, ok)
	}

	clock.Advance(2999 * time.Millisecond)
	if _, ok := b.Current(); !ok {
		t.Error("notification hidden before 3000ms")
	}
	clock.Advance(time.Millisecond)
	if _, ok := b.Current(); ok {
		t.Error("notification still visible after 3000ms")
	}
}

func TestBroadcaster_ReplaceRestartsTimer(t *testing.T) {
	clock := &manualClock{}
	b := core.NewBroadcaster(clock)

	b.Notify(core.NotifyInfo, "first")
	clock.Advance(2 * time.Second)
	b.Notify(core.NotifyError, "second")

	// The first notification's timer would have fired here.
	clock.Advance(1500 * time.Millisecond)
	got, ok := b.Current()
	if !ok || got.Message != "second" {
		t.Fatalf("second notification hidden early: %+v, %v", got, ok)
	}
	clock.Advance(1500 * time.Millisecond)
	if _, ok := b.Current(); ok {
		t.Error("second notification outlived its own 3s window")
	}
}

func TestBroadcaster_ReadImmediately(t *testing.T) {
	b := core.NewBroadcaster(&manualClock{})
	b.Notify(core.NotifyError, "Failed to fetch orders")
	got, _ := b.Current()
	want := core.Notification{Kind: core.NotifyError, Message: "Failed to fetch orders"}
	if got != want {
		t.Errorf("Current = %+v, want %+v", got, want)
	}
}

func TestBroadcaster_UnknownKindAndDismiss(t *testing.T) {
	b := core.NewBroadcaster(&manualClock{})
	b.Notify("warning", "careful")
	if got, _ := b.Current(); got.Kind != core.NotifyInfo {
		t.Errorf("unknown kind mapped to %q, want info", got.Kind)
	}
	b.Dismiss()
	if _, ok := b.Current(); ok {
		t.Error("Dismiss left a notification")
	}
}

func TestBroadcaster_WallClock(t *testing.T) {
	b := core.NewBroadcaster(nil)
	b.Notify(core.NotifySuccess, "saved")
	if _, ok := b.Current(); !ok {
		t.Fatal("expected live notification")
	}
}
