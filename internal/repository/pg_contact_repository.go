package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/givers/console/internal/model"
)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

// Save inserts a new enquiries row and populates e.ID and e.CreatedAt from the
// RETURNING clause. A zero CreatedAt takes the database default.
func (r *PgContactRepository) Save(ctx context.Context, e *model.Enquiry) error {
	var createdAt *time.Time
	if !e.CreatedAt.IsZero() {
		createdAt = &e.CreatedAt
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO enquiries (name, email, phone, company, service, message, status, created_at)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, COALESCE($8, NOW()))
		 RETURNING id::text, created_at`,
		e.Name, e.Email, e.Phone, e.Company, e.Service, e.Message, e.Status, createdAt,
	).Scan(&e.ID, &e.CreatedAt)
}

// List returns enquiries filtered by status and search text, newest first unless
// opts.Ascending, paginated by limit/offset. The second return value is the number
// of rows matching the filter before pagination.
func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]model.Enquiry, int, error) {
	where, args := contactFilter(opts)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM enquiries `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "DESC"
	if opts.Ascending {
		order = "ASC"
	}
	limitArg := placeholder(len(args) + 1)
	offsetArg := placeholder(len(args) + 2)
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT id::text, name, email, COALESCE(phone, ''), COALESCE(company, ''), COALESCE(service, ''),
	                 message, status, created_at
	          FROM enquiries ` + where +
		` ORDER BY created_at ` + order + `, id ` + order +
		` LIMIT ` + limitArg + ` OFFSET ` + offsetArg

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []model.Enquiry{}
	for rows.Next() {
		var e model.Enquiry
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Company, &e.Service,
			&e.Message, &e.Status, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

// UpdateStatus changes the status of one enquiry.
func (r *PgContactRepository) UpdateStatus(ctx context.Context, id string, status model.EnquiryStatus) error {
	key, err := enquiryKey(id)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE enquiries SET status = $2, updated_at = NOW() WHERE id = $1`,
		key, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one enquiry.
func (r *PgContactRepository) Delete(ctx context.Context, id string) error {
	key, err := enquiryKey(id)
	if err != nil {
		return err
	}
	var deleted string
	err = r.pool.QueryRow(ctx, `DELETE FROM enquiries WHERE id = $1 RETURNING id::text`, key).Scan(&deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// enquiryKey normalises an id for comparison against the uuid primary key.
// A malformed id cannot match any row.
func enquiryKey(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrNotFound
	}
	return u.String(), nil
}

// contactFilter builds the WHERE clause shared by the count and page queries.
func contactFilter(opts model.ContactListOptions) (string, []any) {
	var conditions []string
	var args []any

	if opts.Status != "" {
		args = append(args, opts.Status)
		conditions = append(conditions, "status = "+placeholder(len(args)))
	}
	if s := strings.TrimSpace(opts.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		p := placeholder(len(args))
		conditions = append(conditions,
			"(name ILIKE "+p+" OR email ILIKE "+p+" OR COALESCE(company, '') ILIKE "+p+" OR message ILIKE "+p+")")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// escapeLike escapes LIKE wildcards so search text matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
