package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"support-console/internal/core"
)

type outcome struct {
	ok  bool
	err error
}

func confirmAsync(g *core.Gate, ctx context.Context, req core.ConfirmRequest) <-chan outcome {
	ch := make(chan outcome, 1)
	go func() {
		ok, err := g.Confirm(ctx, req)
		ch <- outcome{ok, err}
	}()
	return ch
}

func waitCurrent(t *testing.T, g *core.Gate, title string) *core.Pending {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p, ok := g.Current(); ok && p.Request.Title == title {
			return p
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("dialog %q never opened", title)
	return nil
}

func recv(t *testing.T, ch <-chan outcome) outcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("confirm never resolved")
		return outcome{}
	}
}

func TestGate_ConfirmAndCancel(t *testing.T) {
	tests := []struct {
		name     string
		accepted bool
	}{
		{name: "confirm", accepted: true},
		{name: "cancel", accepted: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := core.NewGate()
			ch := confirmAsync(g, context.Background(), core.ConfirmRequest{Title: "Delete?"})
			p := waitCurrent(t, g, "Delete?")

			if err := g.Resolve(p.ID, tt.accepted); err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if o := recv(t, ch); o.err != nil || o.ok != tt.accepted {
				t.Errorf("Confirm = %v, %v; want %v", o.ok, o.err, tt.accepted)
			}
			if _, open := g.Current(); open {
				t.Error("dialog still open after resolution")
			}

			again := confirmAsync(g, context.Background(), core.ConfirmRequest{Title: "Again?"})
			p2 := waitCurrent(t, g, "Again?")
			if p2.ID == p.ID {
				t.Error("second dialog reused the first id")
			}
			_ = g.Resolve(p2.ID, true)
			recv(t, again)
		})
	}
}

func TestGate_QueuesInsteadOfOrphaning(t *testing.T) {
	g := core.NewGate()
	first := g.Open(core.ConfirmRequest{Title: "first"})
	second := g.Open(core.ConfirmRequest{Title: "second"})

	if cur, _ := g.Current(); cur != first {
		t.Fatal("first request should be on screen")
	}
	if err := g.Resolve(second.ID, true); !errors.Is(err, core.ErrNotPending) {
		t.Errorf("resolving a queued request: err = %v, want ErrNotPending", err)
	}

	_ = g.Resolve(first.ID, false)
	if ok, err := first.Wait(context.Background()); ok || err != nil {
		t.Errorf("first = %v, %v", ok, err)
	}
	if cur, _ := g.Current(); cur != second {
		t.Fatal("second request should advance to the screen")
	}
	_ = g.Resolve(second.ID, true)
	if ok, err := second.Wait(context.Background()); !ok || err != nil {
		t.Errorf("second = %v, %v", ok, err)
	}
}

func TestGate_WithdrawOnContextEnd(t *testing.T) {
	g := core.NewGate()
	ctx, cancel := context.WithCancel(context.Background())
	ch := confirmAsync(g, ctx, core.ConfirmRequest{Title: "leave"})
	waitCurrent(t, g, "leave")

	cancel()
	o := recv(t, ch)
	if o.ok || !errors.Is(o.err, context.Canceled) {
		t.Errorf("Confirm = %v, %v; want false, context.Canceled", o.ok, o.err)
	}
	if g.Queued() != 0 {
		t.Errorf("withdrawn request still queued (%d)", g.Queued())
	}
}

func TestGate_Close(t *testing.T) {
	g := core.NewGate()
	p := g.Open(core.ConfirmRequest{Title: "pending"})
	g.Close()

	if ok, err := p.Wait(context.Background()); ok || !errors.Is(err, core.ErrGateClosed) {
		t.Errorf("pending after Close = %v, %v", ok, err)
	}
	late := g.Open(core.ConfirmRequest{Title: "late"})
	select {
	case <-late.Done():
	default:
		t.Error("request opened on a closed gate must settle immediately")
	}
}

func TestConfirmRequest_Labels(t *testing.T) {
	var r core.ConfirmRequest
	if r.ConfirmText() != "Confirm" || r.CancelText() != "Cancel" {
		t.Errorf("defaults = %q/%q", r.ConfirmText(), r.CancelText())
	}
	r = core.ConfirmRequest{ConfirmLabel: "Delete", CancelLabel: "Keep"}
	if r.ConfirmText() != "Delete" || r.CancelText() != "Keep" {
		t.Errorf("overrides = %q/%q", r.ConfirmText(), r.CancelText())
	}
}
