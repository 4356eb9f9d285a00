package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/givers/console/internal/model"
)

// MemoryContactRepository は DATABASE_URL 未設定時に使うインメモリ実装。
// 開発用サーバーと e2e テストで使う。
type MemoryContactRepository struct {
	mu    sync.RWMutex
	items []model.Enquiry
	now   func() time.Time
}

// NewMemoryContactRepository creates an empty MemoryContactRepository.
func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{now: time.Now}
}

var _ ContactRepository = (*MemoryContactRepository)(nil)

// Save assigns a UUID and, if unset, CreatedAt.
func (r *MemoryContactRepository) Save(ctx context.Context, e *model.Enquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now().UTC()
	}
	r.items = append(r.items, *e)
	return nil
}

func (r *MemoryContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]model.Enquiry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(opts.Search))
	var matched []model.Enquiry
	for _, e := range r.items {
		if opts.Status != "" && e.Status != opts.Status {
			continue
		}
		if search != "" && !matchesSearch(e, search) {
			continue
		}
		matched = append(matched, e)
	}

	slices.SortStableFunc(matched, func(a, b model.Enquiry) int {
		c := b.CreatedAt.Compare(a.CreatedAt)
		if c == 0 {
			c = strings.Compare(b.ID, a.ID)
		}
		if opts.Ascending {
			return -c
		}
		return c
	})

	total := len(matched)
	start := min(max(opts.Offset, 0), total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}
	page := make([]model.Enquiry, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

func (r *MemoryContactRepository) UpdateStatus(ctx context.Context, id string, status model.EnquiryStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryContactRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.items, func(e model.Enquiry) bool { return e.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	r.items = slices.Delete(r.items, i, i+1)
	return nil
}

func matchesSearch(e model.Enquiry, lowered string) bool {
	for _, field := range []string{e.Name, e.Email, e.Company, e.Message} {
		if strings.Contains(strings.ToLower(field), lowered) {
			return true
		}
	}
	return false
}
