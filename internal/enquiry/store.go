// Package enquiry keeps the console's paginated enquiry list in sync with the
// contacts API: query state, debounced search, optimistic mutations and the
// background badge pollers.
package enquiry

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/givers/console/internal/model"
	"github.com/givers/console/internal/notify"
	"github.com/givers/console/pkg/contactapi"
)

// ErrStaleResponse is returned by a fetch whose response arrived after a newer
// fetch had already been dispatched. The response is discarded.
var ErrStaleResponse = errors.New("enquiry: stale response discarded")

// ErrUnknownEnquiry is returned when a mutation names an id that is not on the current page.
var ErrUnknownEnquiry = errors.New("enquiry: not on the current page")

// Notification texts shown to the operator.
const (
	msgLoadFailed   = "Failed to load contact enquiries"
	msgReplied      = "Contact marked as replied!"
	msgReplyFailed  = "Failed to update contact status"
	msgDeleted      = "Enquiry deleted successfully"
	msgDeleteFailed = "Failed to delete contact"
)

// Phase is the state of the list view.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// View is an immutable snapshot of the store.
type View struct {
	Phase Phase
	// Query is the most recently dispatched query.
	Query model.PagedQuery
	// DataQuery is the query that produced Items. It differs from Query while a
	// fetch is in flight or after a failed one.
	DataQuery  model.PagedQuery
	Items      []model.Enquiry
	TotalItems int
	TotalPages int
	// Err is the last fetch error. Items stay populated when it is set.
	Err error
	// Diverged lists ids whose local state is known to differ from the server
	// because a mutation failed. Cleared by the next successful fetch.
	Diverged []string
	// Loaded is true once any fetch has succeeded.
	Loaded bool
}

// Empty reports the explicit empty state: a successful fetch that matched nothing.
func (v View) Empty() bool {
	return v.Phase == PhaseReady && len(v.Items) == 0
}

// Filtered reports whether a search or status filter is active.
func (v View) Filtered() bool {
	return v.Query.Filtered()
}

// Item returns the enquiry with the given id from the current page.
func (v View) Item(id string) (model.Enquiry, bool) {
	for _, it := range v.Items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Enquiry{}, false
}

type pendingMutation struct {
	version uint64
	status  model.EnquiryStatus
	deleted bool
}

// Store holds the current page of enquiries and reconciles local mutations with
// server responses.
//
// Fetches run on the caller's goroutine outside the lock. Each fetch takes a
// sequence number; only the response for the latest dispatched fetch is applied.
// Mutations are optimistic: local state changes first, the remote call follows, and
// a failure is reported without rollback. In-flight mutations are tracked with a
// per-entity version so a fetch that lands meanwhile does not undo them.
type Store struct {
	client   contactapi.Client
	notifier notify.Notifier
	onChange func()

	mu         sync.Mutex
	phase      Phase
	query      model.PagedQuery
	dataQuery  model.PagedQuery
	items      []model.Enquiry
	totalItems int
	totalPages int
	err        error
	loaded     bool
	seq        uint64
	version    uint64
	pending    map[string]pendingMutation
	diverged   map[string]bool
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets the sink for operator notifications.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithOnChange registers a hook called after every state change. It runs on the
// goroutine that caused the change, without the store lock held.
func WithOnChange(f func()) Option {
	return func(s *Store) { s.onChange = f }
}

// WithPageSize overrides model.DefaultPageSize.
func WithPageSize(n int) Option {
	return func(s *Store) { s.query = model.NewPagedQuery(n) }
}

// WithQuery sets the initial query, e.g. a sorted dashboard view.
func WithQuery(q model.PagedQuery) Option {
	return func(s *Store) { s.query = q }
}

// NewStore creates an idle Store. Nothing is fetched until Load is called.
func NewStore(client contactapi.Client, opts ...Option) *Store {
	s := &Store{
		client:     client,
		notifier:   notify.Discard,
		query:      model.NewPagedQuery(model.DefaultPageSize),
		totalPages: 1,
		pending:    make(map[string]pendingMutation),
		diverged:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dataQuery = s.query
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.Enquiry, len(s.items))
	copy(items, s.items)
	diverged := make([]string, 0, len(s.diverged))
	for id := range s.diverged {
		diverged = append(diverged, id)
	}
	sort.Strings(diverged)

	return View{
		Phase:      s.phase,
		Query:      s.query,
		DataQuery:  s.dataQuery,
		Items:      items,
		TotalItems: s.totalItems,
		TotalPages: s.totalPages,
		Err:        s.err,
		Diverged:   diverged,
		Loaded:     s.loaded,
	}
}

// Load fetches the page for the current query.
func (s *Store) Load(ctx context.Context) error {
	return s.fetch(ctx, model.QueryUpdate{})
}

// Retry re-issues the last dispatched query unchanged.
func (s *Store) Retry(ctx context.Context) error {
	return s.fetch(ctx, model.QueryUpdate{})
}

// SetPage moves to page and fetches it.
func (s *Store) SetPage(ctx context.Context, page int) error {
	return s.fetch(ctx, model.QueryUpdate{Page: &page})
}

// NextPage advances one page. It is a no-op on the last page.
func (s *Store) NextPage(ctx context.Context) error {
	s.mu.Lock()
	page, last := s.query.Page, s.totalPages
	s.mu.Unlock()
	if page >= last {
		return nil
	}
	return s.SetPage(ctx, page+1)
}

// PrevPage goes back one page. It is a no-op on the first page.
func (s *Store) PrevPage(ctx context.Context) error {
	s.mu.Lock()
	page := s.query.Page
	s.mu.Unlock()
	if page <= 1 {
		return nil
	}
	return s.SetPage(ctx, page-1)
}

// SetSearch applies a search text. A changed text resets to page 1.
func (s *Store) SetSearch(ctx context.Context, text string) error {
	return s.fetch(ctx, model.QueryUpdate{Search: &text})
}

// SetStatusFilter applies a status filter ("" for all). A changed filter resets to page 1.
func (s *Store) SetStatusFilter(ctx context.Context, status model.EnquiryStatus) error {
	return s.fetch(ctx, model.QueryUpdate{Status: &status})
}

func (s *Store) fetch(ctx context.Context, u model.QueryUpdate) error {
	s.mu.Lock()
	s.query = s.query.Update(u)
	s.seq++
	seq := s.seq
	q := s.query
	s.phase = PhaseLoading
	s.mu.Unlock()
	s.changed()

	res, err := s.client.FetchPage(ctx, q)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return ErrStaleResponse
	}
	if err != nil {
		s.phase = PhaseError
		s.err = err
		s.mu.Unlock()
		s.notifier.Notify(notify.KindError, msgLoadFailed)
		s.changed()
		return err
	}

	items := make([]model.Enquiry, 0, len(res.Items))
	for _, it := range res.Items {
		if p, ok := s.pending[it.ID]; ok {
			if p.deleted {
				continue
			}
			it.Status = p.status
		}
		items = append(items, it)
	}
	s.items = items
	s.totalItems = res.TotalItems
	s.totalPages = res.TotalPages
	if s.totalPages < 1 {
		s.totalPages = 1
	}
	s.dataQuery = q
	s.phase = PhaseReady
	s.err = nil
	s.loaded = true
	clear(s.diverged)
	s.mu.Unlock()
	s.changed()
	return nil
}

// MarkReplied sets the enquiry's status to Replied locally, then on the server.
//
// The local change is applied before the remote call and is not rolled back if the
// call fails; the item is reported as diverged until the next fetch. An item that is
// already Replied is left as is locally, but the remote call is still made.
func (s *Store) MarkReplied(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrUnknownEnquiry
	}
	s.items[idx].Status = model.StatusReplied
	v := s.track(id, pendingMutation{status: model.StatusReplied})
	s.mu.Unlock()
	s.changed()

	err := s.client.UpdateStatus(ctx, id, model.StatusReplied)

	s.mu.Lock()
	s.untrack(id, v)
	if err != nil {
		s.diverged[id] = true
	} else {
		// the server now holds the local status
		delete(s.diverged, id)
	}
	s.mu.Unlock()

	if err != nil {
		s.notifier.Notify(notify.KindError, msgReplyFailed)
		s.changed()
		return err
	}
	s.notifier.Notify(notify.KindSuccess, msgReplied)
	s.changed()
	return nil
}

// DeleteEnquiry removes the enquiry locally, deletes it on the server and refills
// the page. If the removal emptied a page after the first, the previous page is
// loaded instead. If the delete fails the current page is re-fetched so the
// server copy reappears.
func (s *Store) DeleteEnquiry(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrUnknownEnquiry
	}
	items := make([]model.Enquiry, 0, len(s.items)-1)
	items = append(items, s.items[:idx]...)
	items = append(items, s.items[idx+1:]...)
	s.items = items
	if s.totalItems > 0 {
		s.totalItems--
	}
	page := s.query.Page
	v := s.track(id, pendingMutation{deleted: true})
	s.mu.Unlock()
	s.changed()

	err := s.client.DeleteItem(ctx, id)

	s.mu.Lock()
	s.untrack(id, v)
	stillOnPage := s.query.Page == page
	// a fetch that landed meanwhile may have refilled the page
	emptied := len(s.items) == 0
	s.mu.Unlock()

	if err != nil {
		s.notifier.Notify(notify.KindError, msgDeleteFailed)
		_ = ignoreStale(s.Load(ctx))
		return err
	}
	s.notifier.Notify(notify.KindInfo, msgDeleted)

	if emptied && page > 1 && stillOnPage {
		return ignoreStale(s.SetPage(ctx, page-1))
	}
	return ignoreStale(s.Load(ctx))
}

// track records an in-flight mutation and returns its version. Caller holds s.mu.
func (s *Store) track(id string, p pendingMutation) uint64 {
	s.version++
	p.version = s.version
	s.pending[id] = p
	return p.version
}

// untrack drops the in-flight record unless a newer mutation replaced it. Caller holds s.mu.
func (s *Store) untrack(id string, version uint64) {
	if p, ok := s.pending[id]; ok && p.version == version {
		delete(s.pending, id)
	}
}

func (s *Store) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func ignoreStale(err error) error {
	if errors.Is(err, ErrStaleResponse) {
		return nil
	}
	return err
}
