package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/printforge/print-shop-service/internal/model"
)

// MaterialRepo provides access to the print material catalog.  Colors
// are stored as a comma separated list in a TEXT column and converted
// to a slice on read.  Materials are only ever appended; nothing in the
// service deletes them.
type MaterialRepo struct {
	db *sql.DB
}

// NewMaterialRepo returns a new MaterialRepo bound to the given database.
func NewMaterialRepo(db *sql.DB) *MaterialRepo { return &MaterialRepo{db: db} }

// List returns all catalog materials ordered by insertion.
func (r *MaterialRepo) List(ctx context.Context) ([]model.Material, error) {
	const q = `SELECT id, name, price_per_gram_cents, colors, created_at FROM materials ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Material, 0)
	for rows.Next() {
		var m model.Material
		var colors string
		if err := rows.Scan(&m.ID, &m.Name, &m.PricePerGramCents, &colors, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Colors = splitColors(colors)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByName resolves a material by case folded name.  The name is the
// pricing lookup key; when several rows share a name the oldest wins.
// Returns ErrMaterialNotFound when no material matches.
func (r *MaterialRepo) GetByName(ctx context.Context, name string) (model.Material, error) {
	const q = `SELECT id, name, price_per_gram_cents, colors, created_at
	           FROM materials WHERE LOWER(name) = ? ORDER BY id ASC LIMIT 1`
	var m model.Material
	var colors string
	err := r.db.QueryRowContext(ctx, q, strings.ToLower(strings.TrimSpace(name))).
		Scan(&m.ID, &m.Name, &m.PricePerGramCents, &colors, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Material{}, ErrMaterialNotFound
	}
	if err != nil {
		return model.Material{}, err
	}
	m.Colors = splitColors(colors)
	return m, nil
}

// Create appends a material to the catalog and returns its ID.  Name
// uniqueness is intentionally not enforced.
func (r *MaterialRepo) Create(ctx context.Context, name string, pricePerGramCents int64, colors []string) (uint64, error) {
	const q = `INSERT INTO materials (name, price_per_gram_cents, colors) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, strings.TrimSpace(name), pricePerGramCents, joinColors(colors))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Count returns the number of catalog rows.  Used by the bootstrap seed
// to decide whether the default materials must be inserted.
func (r *MaterialRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM materials`).Scan(&n)
	return n, err
}

func splitColors(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinColors(colors []string) string {
	trimmed := make([]string, 0, len(colors))
	for _, c := range colors {
		if c = strings.TrimSpace(c); c != "" {
			trimmed = append(trimmed, c)
		}
	}
	return strings.Join(trimmed, ",")
}
