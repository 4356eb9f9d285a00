package model

import (
	"net/url"
	"strconv"
)

// DefaultPageSize is the number of enquiries shown per page in the console.
const DefaultPageSize = 5

// SortNewestFirst orders enquiries by creation time, newest first.
const SortNewestFirst = "-createdAt"

// PagedQuery is an immutable snapshot of every parameter that determines a list request.
type PagedQuery struct {
	Page     int
	PageSize int
	Search   string
	Status   EnquiryStatus
	Sort     string
}

// QueryUpdate is a partial change to a PagedQuery. Nil fields are left untouched.
type QueryUpdate struct {
	Page   *int
	Search *string
	Status *EnquiryStatus
}

// NewPagedQuery returns the query for the first unfiltered page.
func NewPagedQuery(pageSize int) PagedQuery {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return PagedQuery{Page: 1, PageSize: pageSize}
}

// Update applies u and returns the resulting query. A change to Search or Status
// resets Page to 1, even if u also carries a page.
func (q PagedQuery) Update(u QueryUpdate) PagedQuery {
	next := q
	if u.Page != nil {
		next.Page = *u.Page
	}
	if u.Search != nil {
		next.Search = *u.Search
	}
	if u.Status != nil {
		next.Status = *u.Status
	}
	if q.ResetsPage(u) {
		next.Page = 1
	}
	if next.Page < 1 {
		next.Page = 1
	}
	return next
}

// ResetsPage reports whether applying u changes the filter criteria.
func (q PagedQuery) ResetsPage(u QueryUpdate) bool {
	if u.Search != nil && *u.Search != q.Search {
		return true
	}
	return u.Status != nil && *u.Status != q.Status
}

// WithPage is shorthand for Update with only a page.
func (q PagedQuery) WithPage(page int) PagedQuery {
	return q.Update(QueryUpdate{Page: &page})
}

// Filtered reports whether a search or status filter is active.
func (q PagedQuery) Filtered() bool {
	return q.Search != "" || q.Status != ""
}

// Offset returns the zero-based index of the first row on the page.
func (q PagedQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// Values encodes the query as URL parameters. Empty search, status and sort are
// omitted so the server treats them as match-any.
func (q PagedQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}
