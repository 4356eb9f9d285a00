package enquiry

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/givers/console/internal/model"
)

// Badge categories.
const (
	CategoryContactEnquiries = "contactEnquiries"
	CategoryTotalEnquiries   = "totalEnquiries"
)

// Default polling cadences.
const (
	BadgePollInterval     = 30 * time.Second
	DashboardPollInterval = 15 * time.Second
)

// Counter is the slice of the contacts API a poller needs.
type Counter interface {
	FetchPage(ctx context.Context, q model.PagedQuery) (model.ListResult, error)
}

// Watch is one count-only query kept up to date by a Poller.
type Watch struct {
	Category string
	Query    model.PagedQuery
}

// NewEnquiriesWatch counts enquiries still in status New. Only the total is used,
// so a single row is requested.
func NewEnquiriesWatch() Watch {
	q := model.NewPagedQuery(1)
	q.Status = model.StatusNew
	return Watch{Category: CategoryContactEnquiries, Query: q}
}

// RecentEnquiriesWatch counts every enquiry and fetches the newest few.
func RecentEnquiriesWatch(limit int) Watch {
	q := model.NewPagedQuery(limit)
	q.Sort = model.SortNewestFirst
	return Watch{Category: CategoryTotalEnquiries, Query: q}
}

// NotificationState holds badge counts by category. Safe for concurrent use.
type NotificationState struct {
	mu     sync.RWMutex
	counts map[string]int
}

// NewNotificationState returns a state with every count at zero.
func NewNotificationState() *NotificationState {
	return &NotificationState{counts: make(map[string]int)}
}

// Count returns the count for category, 0 if never set.
func (s *NotificationState) Count(category string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[category]
}

// Set stores a count.
func (s *NotificationState) Set(category string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[category] = n
}

// Counts returns a copy of every count.
func (s *NotificationState) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.counts)
}

// Reset zeroes every count.
func (s *NotificationState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.counts)
}

// PollerConfig configures a Poller.
type PollerConfig struct {
	Interval time.Duration
	Watches  []Watch
	// OnUpdate, if set, is called after each successful query with its full result.
	OnUpdate func(category string, result model.ListResult)
}

// Poller re-runs its watches on a fixed interval and writes the totals into a
// NotificationState. It only reads from the API; it never touches a Store.
type Poller struct {
	client  Counter
	state   *NotificationState
	cfg     PollerConfig
	tickers func(time.Duration) (<-chan time.Time, func())

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller creates a stopped Poller.
func NewPoller(client Counter, state *NotificationState, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = BadgePollInterval
	}
	return &Poller{
		client: client,
		state:  state,
		cfg:    cfg,
		tickers: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Start polls once immediately and then every interval until Stop is called or ctx
// is cancelled. Calling Start on a running Poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(ctx, p.done)
}

// Stop cancels the poll loop and waits for it to exit. Safe to call on a stopped Poller.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the poll loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	tick, stop := p.tickers(p.cfg.Interval)
	defer stop()

	slog.Debug("poller started", "interval", p.cfg.Interval.String(), "watches", len(p.cfg.Watches))
	p.PollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("poller stopped")
			return
		case <-tick:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce runs every watch once. Failed queries keep the previous count.
func (p *Poller) PollOnce(ctx context.Context) {
	for _, w := range p.cfg.Watches {
		if ctx.Err() != nil {
			return
		}
		p.poll(ctx, w)
	}
}

func (p *Poller) poll(ctx context.Context, w Watch) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("poller panic", "category", w.Category, "panic", r)
		}
	}()

	res, err := p.client.FetchPage(ctx, w.Query)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("poll failed", "category", w.Category, "error", err)
		}
		return
	}
	p.state.Set(w.Category, res.TotalItems)
	if p.cfg.OnUpdate != nil {
		p.cfg.OnUpdate(w.Category, res)
	}
}
