package enquiry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/givers/console/internal/model"
	"github.com/givers/console/pkg/contactapi"
)

// ---------------------------------------------------------------------------
// fakeAPI — in-memory contacts API with hooks for failures and blocking
// ---------------------------------------------------------------------------

type fakeAPI struct {
	mu       sync.Mutex
	records  []model.Enquiry
	fetches  []model.PagedQuery
	updates  []string
	deletes  []string
	fetchErr error

	// optional overrides
	fetchFunc  func(ctx context.Context, q model.PagedQuery) (model.ListResult, error)
	updateFunc func(ctx context.Context, id string, status model.EnquiryStatus) error
	deleteFunc func(ctx context.Context, id string) error
}

var _ contactapi.Client = (*fakeAPI)(nil)

// newFakeAPI seeds n enquiries, newest first: enq-01 is the newest.
func newFakeAPI(n int) *fakeAPI {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeAPI{}
	for i := 1; i <= n; i++ {
		api.records = append(api.records, model.Enquiry{
			ID:        fmt.Sprintf("enq-%02d", i),
			Name:      fmt.Sprintf("Customer %d", i),
			Email:     fmt.Sprintf("c%d@example.com", i),
			Message:   "Hello",
			Status:    model.StatusNew,
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return api
}

func (f *fakeAPI) FetchPage(ctx context.Context, q model.PagedQuery) (model.ListResult, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, q)
	fn, fetchErr := f.fetchFunc, f.fetchErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, q)
	}
	if fetchErr != nil {
		return model.ListResult{}, &contactapi.FetchError{Cause: fetchErr}
	}
	return f.page(q), nil
}

func (f *fakeAPI) page(q model.PagedQuery) model.ListResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []model.Enquiry
	for _, r := range f.records {
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	items := make([]model.Enquiry, end-start)
	copy(items, matched[start:end])
	return model.NewListResult(items, len(matched), q.PageSize)
}

func (f *fakeAPI) UpdateStatus(ctx context.Context, id string, status model.EnquiryStatus) error {
	f.mu.Lock()
	f.updates = append(f.updates, id)
	fn := f.updateFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, id, status)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Status = status
			return nil
		}
	}
	return &contactapi.MutationError{Op: "update status", ID: id, StatusCode: 404, Cause: contactapi.ErrNotFound}
}

func (f *fakeAPI) DeleteItem(ctx context.Context, id string) error {
	f.mu.Lock()
	f.deletes = append(f.deletes, id)
	fn := f.deleteFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.records[:0]
	for _, r := range f.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func (f *fakeAPI) lastFetch() model.PagedQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[len(f.fetches)-1]
}

func (f *fakeAPI) setFetchErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

func (f *fakeAPI) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

var errTransport = errors.New("connection refused")

// ---------------------------------------------------------------------------
// fakeClock — manual time.AfterFunc replacement
// ---------------------------------------------------------------------------

type fakeTimer struct {
	clock   *fakeClock
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) afterFunc(_ time.Duration, f func()) stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, f: f}
	c.timers = append(c.timers, t)
	return t
}

// elapse fires every timer that has not been stopped.
func (c *fakeClock) elapse() {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped {
			t.stopped = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func (c *fakeClock) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
