package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/printforge/print-shop-service/internal/model"
)

// QuoteRepo provides CRUD operations for quotes.  Quotes are created on
// customer submission and only mutated by the quote→order conversion,
// which marks them accepted.  All timestamp fields are stored in UTC.
type QuoteRepo struct {
	db *sql.DB
}

// NewQuoteRepo returns a new QuoteRepo bound to the given database.
func NewQuoteRepo(db *sql.DB) *QuoteRepo { return &QuoteRepo{db: db} }

const quoteColumns = `id, reference, customer_name, customer_email, customer_phone,
	file_name, file_ref, material, color, quantity, urgent, comments,
	total_cents, status, created_at, updated_at`

// Create inserts a new quote and populates the generated ID and the
// database assigned timestamps on the provided record.  A uniqueness
// violation on the reference column is reported as ErrDuplicate so the
// caller can re-mint and retry.
func (r *QuoteRepo) Create(ctx context.Context, q *model.Quote) error {
	const ins = `INSERT INTO quotes
		(reference, customer_name, customer_email, customer_phone, file_name, file_ref,
		 material, color, quantity, urgent, comments, total_cents, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, ins,
		q.Reference, q.CustomerName, q.CustomerEmail, q.CustomerPhone,
		q.FileName, q.FileRef, q.Material, q.Color, q.Quantity, q.Urgent,
		q.Comments, q.TotalCents, q.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	q.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, q.ID), q)
}

// GetByID returns a single quote.  ErrQuoteNotFound is returned when no
// quote with the given ID exists.
func (r *QuoteRepo) GetByID(ctx context.Context, id uint64) (model.Quote, error) {
	var q model.Quote
	err := r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, id), &q)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Quote{}, ErrQuoteNotFound
	}
	return q, err
}

// List returns quotes ordered newest first, optionally filtered by
// status.  An empty status returns every quote.
func (r *QuoteRepo) List(ctx context.Context, status string) ([]model.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Quote, 0)
	for rows.Next() {
		var q model.Quote
		if err := r.scanOne(rows, &q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *QuoteRepo) scanOne(row rowScanner, q *model.Quote) error {
	var phone, comments sql.NullString
	err := row.Scan(
		&q.ID, &q.Reference, &q.CustomerName, &q.CustomerEmail, &phone,
		&q.FileName, &q.FileRef, &q.Material, &q.Color, &q.Quantity, &q.Urgent,
		&comments, &q.TotalCents, &q.Status, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if phone.Valid {
		p := phone.String
		q.CustomerPhone = &p
	}
	if comments.Valid {
		c := comments.String
		q.Comments = &c
	}
	return nil
}
