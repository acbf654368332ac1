package core

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotPending is returned by Resolve when id is not the dialog on screen.
	ErrNotPending = errors.New("confirmation is not pending")
	// ErrGateClosed settles requests outstanding when their workspace goes away.
	ErrGateClosed = errors.New("confirmation gate closed")
)

// ConfirmRequest populates the confirmation dialog.
type ConfirmRequest struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Danger       bool
}

// ConfirmText returns the accept button label.
func (r ConfirmRequest) ConfirmText() string {
	if r.ConfirmLabel != "" {
		return r.ConfirmLabel
	}
	return "Confirm"
}

// CancelText returns the decline button label.
func (r ConfirmRequest) CancelText() string {
	if r.CancelLabel != "" {
		return r.CancelLabel
	}
	return "Cancel"
}

// Pending is one outstanding confirmation.
type Pending struct {
	ID      string
	Request ConfirmRequest

	gate     *Gate
	done     chan struct{}
	settled  bool
	accepted bool
	err      error
}

// Done is closed once the request is settled.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the user answers or ctx ends. When ctx ends first the request is
// withdrawn so it never reaches the screen.
func (p *Pending) Wait(ctx context.Context) (bool, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		p.gate.withdraw(p, ctx.Err())
		<-p.done
	}
	return p.accepted, p.err
}

// Gate shows one confirmation dialog at a time. It is either idle or pending with the
// head of a FIFO queue; requests opened while a dialog is up wait their turn.
type Gate struct {
	mu     sync.Mutex
	queue  []*Pending
	closed bool
}

// NewGate returns an idle gate.
func NewGate() *Gate {
	return &Gate{}
}

// Open queues req and returns its handle without blocking.
func (g *Gate) Open(req ConfirmRequest) *Pending {
	p := &Pending{ID: uuid.NewString(), Request: req, gate: g, done: make(chan struct{})}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		settle(p, false, ErrGateClosed)
		return p
	}
	g.queue = append(g.queue, p)
	return p
}

// Confirm opens req and waits for the answer.
func (g *Gate) Confirm(ctx context.Context, req ConfirmRequest) (bool, error) {
	return g.Open(req).Wait(ctx)
}

// Current returns the dialog that should be on screen.
func (g *Gate) Current() (*Pending, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queue) == 0 {
		return nil, false
	}
	return g.queue[0], true
}

// Queued returns how many requests are outstanding, including the one on screen.
func (g *Gate) Queued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue)
}

// Resolve settles the on-screen request and advances to the next one.
func (g *Gate) Resolve(id string, accepted bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queue) == 0 || g.queue[0].ID != id {
		return ErrNotPending
	}
	p := g.queue[0]
	g.queue[0] = nil
	g.queue = g.queue[1:]
	settle(p, accepted, nil)
	return nil
}

// CancelAll declines every outstanding request with ErrGateClosed. The gate stays usable.
func (g *Gate) CancelAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelAllLocked()
}

// Close declines everything outstanding and refuses future requests.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.cancelAllLocked()
}

func (g *Gate) cancelAllLocked() {
	for _, p := range g.queue {
		settle(p, false, ErrGateClosed)
	}
	g.queue = nil
}

func (g *Gate) withdraw(p *Pending, cause error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p.settled {
		return
	}
	for i, q := range g.queue {
		if q == p {
			g.queue = append(g.queue[:i], g.queue[i+1:]...)
			break
		}
	}
	settle(p, false, cause)
}

// settle must be called with the gate lock held.
func settle(p *Pending, accepted bool, err error) {
	if p.settled {
		return
	}
	p.settled = true
	p.accepted = accepted
	p.err = err
	close(p.done)
}
