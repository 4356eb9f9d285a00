// Package notify delivers user-facing notifications (the console's toasts).
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notifier is a fire-and-forget sink. Implementations must not block the caller.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Notification is one delivered message.
type Notification struct {
	Kind    Kind
	Message string
	At      time.Time
}

// Func adapts a plain function to Notifier.
type Func func(kind Kind, message string)

func (f Func) Notify(kind Kind, message string) { f(kind, message) }

// Discard drops every notification.
var Discard Notifier = Func(func(Kind, string) {})

// Log writes notifications to the default slog logger.
type Log struct{}

func (Log) Notify(kind Kind, message string) {
	level := slog.LevelInfo
	if kind == KindError {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "notification", "kind", string(kind), "message", message)
}

// Multi fans a notification out to every sink in order.
type Multi []Notifier

func (m Multi) Notify(kind Kind, message string) {
	for _, n := range m {
		n.Notify(kind, message)
	}
}

// Channel buffers notifications for a consumer such as the TUI event loop.
// When the buffer is full the notification is dropped rather than blocking.
type Channel struct {
	ch chan Notification
}

// NewChannel creates a Channel with the given buffer size.
func NewChannel(size int) *Channel {
	if size <= 0 {
		size = 16
	}
	return &Channel{ch: make(chan Notification, size)}
}

func (c *Channel) Notify(kind Kind, message string) {
	select {
	case c.ch <- Notification{Kind: kind, Message: message, At: time.Now()}:
	default:
	}
}

// C returns the receive side of the buffer.
func (c *Channel) C() <-chan Notification { return c.ch }

// Recorder keeps every notification in memory. Safe for concurrent use.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, Notification{Kind: kind, Message: message, At: time.Now()})
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.all))
	copy(out, r.all)
	return out
}

// Kinds returns the kinds of the recorded notifications in order.
func (r *Recorder) Kinds() []Kind {
	all := r.All()
	kinds := make([]Kind, len(all))
	for i, n := range all {
		kinds[i] = n.Kind
	}
	return kinds
}
