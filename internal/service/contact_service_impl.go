package service

import (
	"context"
	"fmt"
	"time"

	"github.com/givers/console/internal/model"
	"github.com/givers/console/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo repository.ContactRepository
	now  func() time.Time
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactServiceImpl{repo: repo, now: time.Now}
}

// Submit stores a new enquiry. It sets the status to New and populates CreatedAt
// before persisting.
func (s *contactServiceImpl) Submit(ctx context.Context, e *model.Enquiry) error {
	e.Status = model.StatusNew
	e.CreatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, e); err != nil {
		return fmt.Errorf("save enquiry: %w", err)
	}
	return nil
}

// List returns one page of enquiries. A non-positive limit falls back to
// model.DefaultPageSize so TotalPages is always well defined.
func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) (model.ListResult, error) {
	if opts.Limit <= 0 {
		opts.Limit = model.DefaultPageSize
	}
	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return model.ListResult{}, fmt.Errorf("list enquiries: %w", err)
	}
	if items == nil {
		items = []model.Enquiry{}
	}
	return model.NewListResult(items, total, opts.Limit), nil
}

// UpdateStatus changes the status of an enquiry.
func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id string, status model.EnquiryStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update enquiry %s: %w", id, err)
	}
	return nil
}

// Delete removes an enquiry.
func (s *contactServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete enquiry %s: %w", id, err)
	}
	return nil
}
