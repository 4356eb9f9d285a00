package service

import (
	"context"
	"errors"

	"github.com/givers/console/internal/model"
)

// ErrInvalidStatus is returned when a status update names an unknown status.
var ErrInvalidStatus = errors.New("invalid enquiry status")

// ContactService defines the business logic for contact enquiries.
type ContactService interface {
	// Submit stores a new enquiry. e.ID and e.CreatedAt will be populated by the
	// implementation; the status is always New.
	Submit(ctx context.Context, e *model.Enquiry) error

	// List returns one page of enquiries and the totals for the filter.
	List(ctx context.Context, opts model.ContactListOptions) (model.ListResult, error)

	// UpdateStatus changes an enquiry's status. Last writer wins.
	UpdateStatus(ctx context.Context, id string, status model.EnquiryStatus) error

	// Delete removes an enquiry.
	Delete(ctx context.Context, id string) error
}
