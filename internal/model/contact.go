package model

import (
	"fmt"
	"time"
)

// EnquiryStatus is the triage state of a contact enquiry.
type EnquiryStatus string

const (
	StatusNew      EnquiryStatus = "New"
	StatusReplied  EnquiryStatus = "Replied"
	StatusArchived EnquiryStatus = "Archived"
)

// Statuses lists every valid status in display order.
var Statuses = []EnquiryStatus{StatusNew, StatusReplied, StatusArchived}

// Valid reports whether s is one of the known statuses.
func (s EnquiryStatus) Valid() bool {
	switch s {
	case StatusNew, StatusReplied, StatusArchived:
		return true
	}
	return false
}

// ParseStatus converts a filter value into an EnquiryStatus.
// "" and "all" mean no filter and yield the empty status.
func ParseStatus(s string) (EnquiryStatus, error) {
	if s == "" || s == "all" {
		return "", nil
	}
	st := EnquiryStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown enquiry status %q", s)
	}
	return st, nil
}

// Enquiry is a message submitted through the contact form.
type Enquiry struct {
	ID        string        `json:"_id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Company   string        `json:"company,omitempty"`
	Service   string        `json:"service,omitempty"`
	Message   string        `json:"message"`
	Status    EnquiryStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ContactListOptions carries filter and pagination parameters for listing enquiries
// on the server side.
type ContactListOptions struct {
	// Status filters by enquiry status. Empty returns every status.
	Status EnquiryStatus
	// Search matches name, email, company and message case-insensitively.
	Search string
	// Ascending reverses the default newest-first ordering.
	Ascending bool
	Limit     int
	Offset    int
}

// ListResult is one page of enquiries plus the aggregate counts.
type ListResult struct {
	Items      []Enquiry
	TotalItems int
	TotalPages int
}

// NewListResult builds a ListResult, deriving TotalPages from totalItems.
// TotalPages is never below 1, so an empty result is a valid single empty page.
func NewListResult(items []Enquiry, totalItems, pageSize int) ListResult {
	return ListResult{
		Items:      items,
		TotalItems: totalItems,
		TotalPages: TotalPages(totalItems, pageSize),
	}
}

// TotalPages returns ceil(totalItems / pageSize), with a minimum of 1.
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 1
	}
	return (totalItems + pageSize - 1) / pageSize
}

// Empty reports whether the page holds no enquiries.
func (r ListResult) Empty() bool {
	return len(r.Items) == 0
}
