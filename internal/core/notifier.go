package core

import (
	"sync"
	"time"
)

// NotificationKind selects the banner style.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// NotificationTTL is how long a notification stays visible after Notify.
const NotificationTTL = 3 * time.Second

// Notification is a transient status banner.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Broadcaster holds at most one live notification. A new notification replaces the
// current one and cancels its hide timer before scheduling its own.
type Broadcaster struct {
	sched Scheduler
	ttl   time.Duration

	mu      sync.Mutex
	current *Notification
	timer   Timer
	seq     uint64
}

// NewBroadcaster creates a broadcaster on the wall clock. A nil sched uses the wall clock.
func NewBroadcaster(sched Scheduler) *Broadcaster {
	if sched == nil {
		sched = wallClock{}
	}
	return &Broadcaster{sched: sched, ttl: NotificationTTL}
}

// Notify shows message and restarts the hide timer from now.
func (b *Broadcaster) Notify(kind NotificationKind, message string) {
	switch kind {
	case NotifySuccess, NotifyError, NotifyInfo:
	default:
		kind = NotifyInfo
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.seq++
	seq := b.seq
	b.current = &Notification{Kind: kind, Message: message}
	b.timer = b.sched.AfterFunc(b.ttl, func() { b.expire(seq) })
}

// expire hides the notification only when it is still the one seq scheduled for;
// a timer that fired while Notify held the lock must not hide its successor.
func (b *Broadcaster) expire(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seq != seq {
		return
	}
	b.current = nil
	b.timer = nil
}

// Current returns the live notification, if any.
func (b *Broadcaster) Current() (Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Notification{}, false
	}
	return *b.current, true
}

// Dismiss hides the live notification immediately.
func (b *Broadcaster) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.seq++
	b.current = nil
	b.timer = nil
}
