package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/givers/console/internal/model"
	"github.com/givers/console/internal/repository"
	"github.com/givers/console/internal/service"
)

const maxPageSize = 100

// maxOffset keeps (page-1)*limit within PostgreSQL's OFFSET range and clear of int overflow.
const maxOffset = math.MaxInt32

// ContactHandler serves the contacts API consumed by the enquiry console.
type ContactHandler struct {
	contactService service.ContactService
	validator      *requestValidator
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService, validator: newRequestValidator()}
}

// submitRequest is the expected JSON body for POST /api/contacts.
type submitRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Company string `json:"company" validate:"max=200"`
	Service string `json:"service" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// statusRequest is the expected JSON body for PATCH /api/contacts/{id}.
type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=New Replied Archived"`
}

// listResponse is the JSON response for GET /api/contacts.
type listResponse struct {
	Contacts      []model.Enquiry `json:"contacts"`
	Page          int             `json:"page"`
	TotalPages    int             `json:"totalPages"`
	TotalContacts int             `json:"totalContacts"`
}

// Submit handles POST /api/contacts (public contact form).
// name, email and message are required; message max 5000 chars.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if code := h.validator.errorCode(req); code != "" {
		writeError(w, http.StatusBadRequest, code)
		return
	}

	e := &model.Enquiry{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Service: req.Service,
		Message: req.Message,
	}
	if err := h.contactService.Submit(r.Context(), e); err != nil {
		slog.Error("contact submit failed", "error", err)
		writeError(w, http.StatusInternalServerError, "submit_failed")
		return
	}

	writeJSON(w, http.StatusCreated, e)
}

// List handles GET /api/contacts.
// Supports query params: page (1-based), limit (1..100, default 5), search,
// status (New/Replied/Archived/all), sort (-createdAt or createdAt).
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if p := q.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_page")
			return
		}
		page = n
	}

	limit := model.DefaultPageSize
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > maxPageSize {
			writeError(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		limit = n
	}
	if page-1 > maxOffset/limit {
		writeError(w, http.StatusBadRequest, "invalid_page")
		return
	}

	status, err := model.ParseStatus(q.Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	}

	opts := model.ContactListOptions{
		Status: status,
		Search: q.Get("search"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	switch q.Get("sort") {
	case "", model.SortNewestFirst:
	case "createdAt":
		opts.Ascending = true
	default:
		writeError(w, http.StatusBadRequest, "invalid_sort")
		return
	}

	res, err := h.contactService.List(r.Context(), opts)
	if err != nil {
		slog.Error("contact list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}

	// Return [] not null for empty lists
	items := res.Items
	if items == nil {
		items = []model.Enquiry{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Contacts:      items,
		Page:          page,
		TotalPages:    res.TotalPages,
		TotalContacts: res.TotalItems,
	})
}

// UpdateStatus handles PATCH /api/contacts/{id}.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if code := h.validator.errorCode(req); code != "" {
		writeError(w, http.StatusBadRequest, code)
		return
	}

	err := h.contactService.UpdateStatus(r.Context(), id, model.EnquiryStatus(req.Status))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case errors.Is(err, service.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	case err != nil:
		slog.Error("contact status update failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "update_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}

// Delete handles DELETE /api/contacts/{id}.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}

	err := h.contactService.Delete(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case err != nil:
		slog.Error("contact delete failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
