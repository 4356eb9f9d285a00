package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/givers/console/internal/model"
)

// seedMemoryRepo は n 件の問い合わせを1時間間隔で登録する（i=1 が最新）
func seedMemoryRepo(t *testing.T, n int) *MemoryContactRepository {
	t.Helper()
	repo := NewMemoryContactRepository()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		e := &model.Enquiry{
			Name:      fmt.Sprintf("Customer %d", i),
			Email:     fmt.Sprintf("c%d@example.com", i),
			Message:   "Hello",
			Status:    model.StatusNew,
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		}
		if err := repo.Save(context.Background(), e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return repo
}

func TestMemoryContactRepository_Save_AssignsID(t *testing.T) {
	repo := NewMemoryContactRepository()
	e := &model.Enquiry{Name: "Alice", Email: "a@example.com", Message: "Hi", Status: model.StatusNew}

	if err := repo.Save(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if e.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestMemoryContactRepository_List_PaginatesNewestFirst(t *testing.T) {
	repo := seedMemoryRepo(t, 12)

	items, total, err := repo.List(context.Background(), model.ContactListOptions{Limit: 5, Offset: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 12 {
		t.Errorf("expected total=12, got %d", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items on the last page, got %d", len(items))
	}
	if items[0].Name != "Customer 11" || items[1].Name != "Customer 12" {
		t.Errorf("expected Customer 11, Customer 12, got %q, %q", items[0].Name, items[1].Name)
	}
}

func TestMemoryContactRepository_List_Ascending(t *testing.T) {
	repo := seedMemoryRepo(t, 3)

	items, _, err := repo.List(context.Background(), model.ContactListOptions{Limit: 5, Ascending: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Name != "Customer 3" {
		t.Errorf("expected oldest first, got %q", items[0].Name)
	}
}

func TestMemoryContactRepository_List_FiltersStatusAndSearch(t *testing.T) {
	repo := seedMemoryRepo(t, 5)
	items, _, _ := repo.List(context.Background(), model.ContactListOptions{Limit: 10})
	if err := repo.UpdateStatus(context.Background(), items[0].ID, model.StatusReplied); err != nil {
		t.Fatalf("update: %v", err)
	}

	replied, total, err := repo.List(context.Background(), model.ContactListOptions{Status: model.StatusReplied, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || replied[0].ID != items[0].ID {
		t.Errorf("expected only %s, got total=%d", items[0].ID, total)
	}

	found, total, _ := repo.List(context.Background(), model.ContactListOptions{Search: "C4@EXAMPLE", Limit: 10})
	if total != 1 || found[0].Name != "Customer 4" {
		t.Errorf("expected case-insensitive email match on Customer 4, got total=%d", total)
	}
}

func TestMemoryContactRepository_List_EmptyIsNonNilZeroTotal(t *testing.T) {
	repo := NewMemoryContactRepository()

	items, total, err := repo.List(context.Background(), model.ContactListOptions{Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 || total != 0 {
		t.Errorf("expected empty non-nil page, got %v (total=%d)", items, total)
	}
}

func TestMemoryContactRepository_UpdateStatus_NotFound(t *testing.T) {
	repo := NewMemoryContactRepository()

	err := repo.UpdateStatus(context.Background(), "missing", model.StatusReplied)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryContactRepository_Delete(t *testing.T) {
	repo := seedMemoryRepo(t, 2)
	items, _, _ := repo.List(context.Background(), model.ContactListOptions{Limit: 5})

	if err := repo.Delete(context.Background(), items[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, total, _ := repo.List(context.Background(), model.ContactListOptions{Limit: 5}); total != 1 {
		t.Errorf("expected total=1 after delete, got %d", total)
	}
	if err := repo.Delete(context.Background(), items[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestContactFilter(t *testing.T) {
	where, args := contactFilter(model.ContactListOptions{Status: model.StatusNew, Search: "50%_off"})

	want := `WHERE status = $1 AND (name ILIKE $2 OR email ILIKE $2 OR COALESCE(company, '') ILIKE $2 OR message ILIKE $2)`
	if where != want {
		t.Errorf("unexpected where clause:\n got: %s\nwant: %s", where, want)
	}
	if len(args) != 2 || args[1] != `%50\%\_off%` {
		t.Errorf("unexpected args: %v", args)
	}

	if where, args := contactFilter(model.ContactListOptions{}); where != "" || len(args) != 0 {
		t.Errorf("expected no filter, got %q %v", where, args)
	}
}

func TestEnquiryKey(t *testing.T) {
	key, err := enquiryKey("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "6f9619ff-8b86-d011-b42d-00c04fc964ff" {
		t.Errorf("expected canonical uuid, got %q", key)
	}

	// 不正な id は主キーと一致し得ないので、クエリを発行せず ErrNotFound
	if _, err := enquiryKey("not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for malformed id, got %v", err)
	}
}
