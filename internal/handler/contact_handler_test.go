package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/givers/console/internal/model"
	"github.com/givers/console/internal/repository"
	"github.com/givers/console/internal/service"
)

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc       func(ctx context.Context, e *model.Enquiry) error
	listFunc         func(ctx context.Context, opts model.ContactListOptions) (model.ListResult, error)
	updateStatusFunc func(ctx context.Context, id string, status model.EnquiryStatus) error
	deleteFunc       func(ctx context.Context, id string) error
}

func (m *mockContactService) Submit(ctx context.Context, e *model.Enquiry) error {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, e)
	}
	return nil
}

func (m *mockContactService) List(ctx context.Context, opts model.ContactListOptions) (model.ListResult, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return model.NewListResult(nil, 0, opts.Limit), nil
}

func (m *mockContactService) UpdateStatus(ctx context.Context, id string, status model.EnquiryStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockContactService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// serve routes req through a mux so PathValue is populated.
func serve(h *ContactHandler, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/contacts", h.List)
	mux.HandleFunc("POST /api/contacts", h.Submit)
	mux.HandleFunc("PATCH /api/contacts/{id}", h.UpdateStatus)
	mux.HandleFunc("DELETE /api/contacts/{id}", h.Delete)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp["error"]
}

// ---------------------------------------------------------------------------
// POST /api/contacts tests
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Success(t *testing.T) {
	var captured *model.Enquiry
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, e *model.Enquiry) error {
			captured = e
			e.ID = "new-id"
			return nil
		},
	}
	h := NewContactHandler(mock)

	body := `{"name":"Alice","email":"alice@example.com","company":"Acme","message":"Hello!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contacts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(h, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured == nil {
		t.Fatal("expected Submit to be called")
	}
	if captured.Email != "alice@example.com" || captured.Company != "Acme" {
		t.Errorf("unexpected enquiry: %+v", captured)
	}
	var resp map[string]any
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp["_id"] != "new-id" {
		t.Errorf("expected _id=new-id in response, got %v", resp["_id"])
	}
}

func TestContactHandler_Submit_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{`, "invalid_json"},
		{"name missing", `{"email":"a@example.com","message":"Hi"}`, "name_required"},
		{"email missing", `{"name":"Bob","message":"Hi"}`, "email_required"},
		{"email malformed", `{"name":"Bob","email":"not-an-email","message":"Hi"}`, "email_invalid"},
		{"message missing", `{"name":"Bob","email":"a@example.com"}`, "message_required"},
		{"message too long", fmt.Sprintf(`{"name":"Bob","email":"a@example.com","message":%q}`, strings.Repeat("a", 5001)), "message_too_long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := NewContactHandler(&mockContactService{
				submitFunc: func(ctx context.Context, e *model.Enquiry) error {
					called = true
					return nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/contacts", strings.NewReader(tt.body))
			rec := serve(h, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if got := errorCode(t, rec); got != tt.want {
				t.Errorf("expected error=%s, got %s", tt.want, got)
			}
			if called {
				t.Error("service must not be called for an invalid body")
			}
		})
	}
}

func TestContactHandler_Submit_ServiceError(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		submitFunc: func(ctx context.Context, e *model.Enquiry) error {
			return errors.New("db connection lost")
		},
	})

	body := `{"name":"Alice","email":"alice@example.com","message":"Hello"}`
	rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/contacts", strings.NewReader(body)))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if got := errorCode(t, rec); got != "submit_failed" {
		t.Errorf("expected error=submit_failed, got %s", got)
	}
}

// ---------------------------------------------------------------------------
// GET /api/contacts tests
// ---------------------------------------------------------------------------

func TestContactHandler_List_ParsesQuery(t *testing.T) {
	var captured model.ContactListOptions
	mock := &mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) (model.ListResult, error) {
			captured = opts
			return model.NewListResult(nil, 0, opts.Limit), nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts?page=3&limit=5&search=acme&status=Replied&sort=createdAt", nil)
	rec := serve(h, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := model.ContactListOptions{Status: model.StatusReplied, Search: "acme", Ascending: true, Limit: 5, Offset: 10}
	if captured != want {
		t.Errorf("expected %+v, got %+v", want, captured)
	}
}

func TestContactHandler_List_Defaults(t *testing.T) {
	var captured model.ContactListOptions
	h := NewContactHandler(&mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) (model.ListResult, error) {
			captured = opts
			return model.NewListResult(nil, 0, opts.Limit), nil
		},
	})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/contacts?status=all", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := model.ContactListOptions{Limit: model.DefaultPageSize}
	if captured != want {
		t.Errorf("expected %+v, got %+v", want, captured)
	}
}

func TestContactHandler_List_ResponseShape(t *testing.T) {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	h := NewContactHandler(&mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) (model.ListResult, error) {
			items := []model.Enquiry{{ID: "a1", Name: "Jane", Email: "j@example.com", Message: "Hi", Status: model.StatusNew, CreatedAt: created}}
			return model.NewListResult(items, 11, opts.Limit), nil
		},
	})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/contacts?page=3", nil))

	var resp struct {
		Contacts []struct {
			ID        string    `json:"_id"`
			Status    string    `json:"status"`
			CreatedAt time.Time `json:"createdAt"`
		} `json:"contacts"`
		Page          int `json:"page"`
		TotalPages    int `json:"totalPages"`
		TotalContacts int `json:"totalContacts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Contacts) != 1 || resp.Contacts[0].ID != "a1" || resp.Contacts[0].Status != "New" {
		t.Errorf("unexpected contacts: %+v", resp.Contacts)
	}
	if !resp.Contacts[0].CreatedAt.Equal(created) {
		t.Errorf("expected createdAt=%v, got %v", created, resp.Contacts[0].CreatedAt)
	}
	if resp.Page != 3 || resp.TotalPages != 3 || resp.TotalContacts != 11 {
		t.Errorf("expected page=3 totalPages=3 totalContacts=11, got %+v", resp)
	}
}

func TestContactHandler_List_EmptyReturnsArray(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/contacts", nil))

	if !strings.Contains(rec.Body.String(), `"contacts":[]`) {
		t.Errorf("expected contacts:[] for empty list, got %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"totalPages":1`) {
		t.Errorf("expected totalPages:1 for empty list, got %s", rec.Body.String())
	}
}

func TestContactHandler_List_BadParams(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"page=0", "invalid_page"},
		{"page=abc", "invalid_page"},
		{"page=9223372036854775807", "invalid_page"},
		{"page=500000000&limit=5", "invalid_page"},
		{"limit=0", "invalid_limit"},
		{"limit=101", "invalid_limit"},
		{"status=Spam", "invalid_status"},
		{"sort=name", "invalid_sort"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			h := NewContactHandler(&mockContactService{})
			rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/contacts?"+tt.query, nil))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if got := errorCode(t, rec); got != tt.want {
				t.Errorf("expected error=%s, got %s", tt.want, got)
			}
		})
	}
}

func TestContactHandler_List_ServiceError(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) (model.ListResult, error) {
			return model.ListResult{}, errors.New("db read failed")
		},
	})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/contacts", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if got := errorCode(t, rec); got != "list_failed" {
		t.Errorf("expected error=list_failed, got %s", got)
	}
}

// ---------------------------------------------------------------------------
// PATCH /api/contacts/{id} tests
// ---------------------------------------------------------------------------

func TestContactHandler_UpdateStatus_Success(t *testing.T) {
	var gotID string
	var gotStatus model.EnquiryStatus
	h := NewContactHandler(&mockContactService{
		updateStatusFunc: func(ctx context.Context, id string, status model.EnquiryStatus) error {
			gotID, gotStatus = id, status
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/contacts/abc", strings.NewReader(`{"status":"Replied"}`))
	rec := serve(h, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != "abc" || gotStatus != model.StatusReplied {
		t.Errorf("expected abc/Replied, got %s/%s", gotID, gotStatus)
	}
}

func TestContactHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	rec := serve(h, httptest.NewRequest(http.MethodPatch, "/api/contacts/abc", strings.NewReader(`{"status":"Spam"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if got := errorCode(t, rec); got != "invalid_status" {
		t.Errorf("expected error=invalid_status, got %s", got)
	}
}

func TestContactHandler_UpdateStatus_NotFound(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		updateStatusFunc: func(ctx context.Context, id string, status model.EnquiryStatus) error {
			return fmt.Errorf("update enquiry %s: %w", id, repository.ErrNotFound)
		},
	})

	rec := serve(h, httptest.NewRequest(http.MethodPatch, "/api/contacts/missing", strings.NewReader(`{"status":"Replied"}`)))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if got := errorCode(t, rec); got != "not_found" {
		t.Errorf("expected error=not_found, got %s", got)
	}
}

func TestContactHandler_UpdateStatus_ServiceRejectsStatus(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		updateStatusFunc: func(ctx context.Context, id string, status model.EnquiryStatus) error {
			return service.ErrInvalidStatus
		},
	})

	rec := serve(h, httptest.NewRequest(http.MethodPatch, "/api/contacts/abc", strings.NewReader(`{"status":"New"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// DELETE /api/contacts/{id} tests
// ---------------------------------------------------------------------------

func TestContactHandler_Delete_Success(t *testing.T) {
	var gotID string
	h := NewContactHandler(&mockContactService{
		deleteFunc: func(ctx context.Context, id string) error {
			gotID = id
			return nil
		},
	})

	rec := serve(h, httptest.NewRequest(http.MethodDelete, "/api/contacts/abc", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if gotID != "abc" {
		t.Errorf("expected id=abc, got %q", gotID)
	}
}

func TestContactHandler_Delete_NotFound(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		deleteFunc: func(ctx context.Context, id string) error {
			return repository.ErrNotFound
		},
	})

	rec := serve(h, httptest.NewRequest(http.MethodDelete, "/api/contacts/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestContactHandler_Delete_ServiceError(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		deleteFunc: func(ctx context.Context, id string) error {
			return errors.New("db connection lost")
		},
	})

	rec := serve(h, httptest.NewRequest(http.MethodDelete, "/api/contacts/abc", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if got := errorCode(t, rec); got != "delete_failed" {
		t.Errorf("expected error=delete_failed, got %s", got)
	}
}
