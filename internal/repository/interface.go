package repository

import (
	"context"

	"github.com/givers/console/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository は問い合わせ (enquiry) 永続化のインターフェース
type ContactRepository interface {
	// Save inserts a new enquiry and populates its ID and CreatedAt.
	Save(ctx context.Context, e *model.Enquiry) error
	// List returns one page of enquiries plus the total number of matching rows.
	List(ctx context.Context, opts model.ContactListOptions) ([]model.Enquiry, int, error)
	// UpdateStatus returns ErrNotFound when id does not exist.
	UpdateStatus(ctx context.Context, id string, status model.EnquiryStatus) error
	// Delete returns ErrNotFound when id does not exist.
	Delete(ctx context.Context, id string) error
}
