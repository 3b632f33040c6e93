package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/printforge/print-shop-service/internal/model"
	"github.com/printforge/print-shop-service/internal/utils"
)

// StaffRepo provides access to staff accounts.  Authentication itself
// (password check, token issuing) lives in the auth handler; the repo
// only stores and fetches records.
type StaffRepo struct{ DB *sql.DB }

// NewStaffRepo returns a new StaffRepo bound to the given database.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{DB: db} }

// Create inserts a staff account with a bcrypt hashed password and
// returns its ID.
func (r *StaffRepo) Create(ctx context.Context, username, password string, cost int) (uint64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO staff_users (username, password_hash) VALUES (?,?)",
		username, hash)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a staff account by normalized username.
func (r *StaffRepo) GetByUsername(ctx context.Context, username string) (model.StaffUser, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var u model.StaffUser
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,created_at FROM staff_users WHERE username=? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// Count returns the number of staff accounts.  Used by the bootstrap
// seed to decide whether the default account must be created.
func (r *StaffRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff_users`).Scan(&n)
	return n, err
}
