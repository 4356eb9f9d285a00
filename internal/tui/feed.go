package tui

import (
	"sync"

	"github.com/givers/console/internal/enquiry"
	"github.com/givers/console/internal/model"
)

// Signal wakes the event loop when background state changed. Fires coalesce:
// any number of Fire calls before the loop reads C deliver one wakeup.
type Signal struct {
	ch chan struct{}
}

// NewSignal creates a Signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Fire never blocks.
func (s *Signal) Fire() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// C returns the wakeup channel.
func (s *Signal) C() <-chan struct{} { return s.ch }

// Recent holds the newest enquiries reported by the dashboard poller.
// Safe for concurrent use.
type Recent struct {
	mu     sync.RWMutex
	items  []model.Enquiry
	total  int
	onSave func()
}

// NewRecent creates an empty Recent. onSave, if set, runs after each update.
func NewRecent(onSave func()) *Recent {
	return &Recent{onSave: onSave}
}

// Update matches enquiry.PollerConfig.OnUpdate. Only the total-enquiries
// category is kept.
func (r *Recent) Update(category string, res model.ListResult) {
	if category != enquiry.CategoryTotalEnquiries {
		return
	}
	items := make([]model.Enquiry, len(res.Items))
	copy(items, res.Items)

	r.mu.Lock()
	r.items = items
	r.total = res.TotalItems
	r.mu.Unlock()

	if r.onSave != nil {
		r.onSave()
	}
}

// Items returns a copy of the newest enquiries.
func (r *Recent) Items() []model.Enquiry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]model.Enquiry, len(r.items))
	copy(items, r.items)
	return items
}

// Total returns the total enquiry count from the last update.
func (r *Recent) Total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}
