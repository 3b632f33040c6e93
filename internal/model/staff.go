package model

import "time"

// StaffUser is a shop staff account as stored in the `staff_users`
// table.  Staff authenticate with username and password and receive a
// short lived JWT; the plain password is never stored, only its bcrypt
// hash.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
type StaffUser struct {
	ID           uint64    // staff_users.id
	Username     string    // staff_users.username
	PasswordHash string    // staff_users.password_hash
	CreatedAt    time.Time // staff_users.created_at
}
