package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/printforge/print-shop-service/internal/model"
)

// OrderRepo provides operations for orders and their append-only status
// history.  The two multi-row mutations (creating an order together
// with its initial history row, and updating a status together with
// the appended history row) each run inside a single transaction so a
// reader never observes an order without a matching history entry.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `id, order_number, quote_id, status, estimated_delivery,
	tracking_token, created_at, updated_at`

// CreateWithInitialHistory inserts a new order, records the initial
// `confirmed` history entry and marks the source quote accepted, all as
// one atomic unit.  It populates the generated ID and the database
// assigned timestamps on the provided record.  A uniqueness violation
// on the order number or tracking token is reported as ErrDuplicate so
// the caller can re-mint and retry.
func (r *OrderRepo) CreateWithInitialHistory(ctx context.Context, o *model.Order, description string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO orders (order_number, quote_id, status, estimated_delivery, tracking_token)
	             VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		o.OrderNumber, o.QuoteID, o.Status, o.EstimatedDelivery.Format("2006-01-02"), o.TrackingToken)
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
	o.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	if err := scanOrder(tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, o.ID), o); err != nil {
		return err
	}

	const hist = `INSERT INTO status_history (order_id, status, description) VALUES (?, ?, ?)`
	if _, err := tx.ExecContext(ctx, hist, o.ID, o.Status, nullable(description)); err != nil {
		return err
	}

	const accept = `UPDATE quotes SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := tx.ExecContext(ctx, accept, model.QuoteStatusAccepted, o.QuoteID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateStatus sets a new status on an order and appends the matching
// history entry in the same transaction.  The status label must already
// be validated by the caller; transition legality between the six known
// labels is intentionally unrestricted.  Returns ErrOrderNotFound when
// the order does not exist.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID uint64, status, description string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Existence check first: an UPDATE that changes nothing reports zero
	// affected rows, which would be indistinguishable from a missing order.
	var exists uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = ?`, orderID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	const upd = `UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, status, orderID); err != nil {
		return err
	}
	const hist = `INSERT INTO status_history (order_id, status, description) VALUES (?, ?, ?)`
	if _, err := tx.ExecContext(ctx, hist, orderID, status, nullable(description)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByTrackingToken resolves an order by its tracking token and loads
// the originating quote plus the full status history ordered oldest
// first.  The token is the sole credential for this lookup; no further
// authorization is applied.  Returns ErrOrderNotFound for unknown
// tokens.
func (r *OrderRepo) GetByTrackingToken(ctx context.Context, token string) (model.Order, model.Quote, []model.StatusHistoryEntry, error) {
	const q = `SELECT o.id, o.order_number, o.quote_id, o.status, o.estimated_delivery,
	                  o.tracking_token, o.created_at, o.updated_at,
	                  c.id, c.reference, c.customer_name, c.customer_email, c.customer_phone,
	                  c.file_name, c.file_ref, c.material, c.color, c.quantity, c.urgent,
	                  c.comments, c.total_cents, c.status, c.created_at, c.updated_at
	           FROM orders o
	           JOIN quotes c ON c.id = o.quote_id
	           WHERE o.tracking_token = ?`
	var o model.Order
	var qt model.Quote
	var phone, comments sql.NullString
	err := r.db.QueryRowContext(ctx, q, token).Scan(
		&o.ID, &o.OrderNumber, &o.QuoteID, &o.Status, &o.EstimatedDelivery,
		&o.TrackingToken, &o.CreatedAt, &o.UpdatedAt,
		&qt.ID, &qt.Reference, &qt.CustomerName, &qt.CustomerEmail, &phone,
		&qt.FileName, &qt.FileRef, &qt.Material, &qt.Color, &qt.Quantity, &qt.Urgent,
		&comments, &qt.TotalCents, &qt.Status, &qt.CreatedAt, &qt.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, model.Quote{}, nil, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, model.Quote{}, nil, err
	}
	if phone.Valid {
		p := phone.String
		qt.CustomerPhone = &p
	}
	if comments.Valid {
		c := comments.String
		qt.Comments = &c
	}

	history, err := r.historyByOrder(ctx, o.ID)
	if err != nil {
		return model.Order{}, model.Quote{}, nil, err
	}
	return o, qt, history, nil
}

// historyByOrder loads the status history for an order, oldest entry
// first.  The secondary sort on id keeps same-timestamp entries in
// insertion order.
func (r *OrderRepo) historyByOrder(ctx context.Context, orderID uint64) ([]model.StatusHistoryEntry, error) {
	const q = `SELECT id, order_id, status, description, created_at
	           FROM status_history WHERE order_id = ?
	           ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.StatusHistoryEntry, 0)
	for rows.Next() {
		var e model.StatusHistoryEntry
		var desc sql.NullString
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &desc, &e.CreatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			e.Description = &d
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderListFilter narrows the staff order listing.  When From and To
// are both set the estimated delivery date must fall inside the range;
// Status filters on the current order status.
type OrderListFilter struct {
	From   *time.Time
	To     *time.Time
	Status string
}

// OrderListRow is one row of the staff order listing: the order joined
// with the customer contact fields of its quote.
type OrderListRow struct {
	Order         model.Order `json:"order"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
}

// List returns orders joined with customer name and email, ordered by
// estimated delivery date ascending.
func (r *OrderRepo) List(ctx context.Context, f OrderListFilter) ([]OrderListRow, error) {
	query := `SELECT o.id, o.order_number, o.quote_id, o.status, o.estimated_delivery,
	                 o.tracking_token, o.created_at, o.updated_at,
	                 c.customer_name, c.customer_email
	          FROM orders o
	          JOIN quotes c ON c.id = o.quote_id
	          WHERE 1=1`
	args := []any{}
	if f.From != nil && f.To != nil {
		query += ` AND o.estimated_delivery BETWEEN ? AND ?`
		args = append(args, f.From.Format("2006-01-02"), f.To.Format("2006-01-02"))
	}
	if f.Status != "" {
		query += ` AND o.status = ?`
		args = append(args, f.Status)
	}
	query += ` ORDER BY o.estimated_delivery ASC, o.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]OrderListRow, 0)
	for rows.Next() {
		var row OrderListRow
		if err := rows.Scan(
			&row.Order.ID, &row.Order.OrderNumber, &row.Order.QuoteID, &row.Order.Status,
			&row.Order.EstimatedDelivery, &row.Order.TrackingToken,
			&row.Order.CreatedAt, &row.Order.UpdatedAt,
			&row.CustomerName, &row.CustomerEmail,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanOrder(row rowScanner, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.OrderNumber, &o.QuoteID, &o.Status, &o.EstimatedDelivery,
		&o.TrackingToken, &o.CreatedAt, &o.UpdatedAt,
	)
}

// nullable converts an empty string to a SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
