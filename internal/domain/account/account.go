package account

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("account not found")

// Account is a stored user record. The password column holds the bcrypt
// hash; the read endpoints return it verbatim, as the stored row is the
// response contract.
type Account struct {
	ID           int64      `db:"id" json:"id"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	Password     string     `db:"password" json:"password"`
	Birthday     *time.Time `db:"birthday" json:"birthday"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	LastModified time.Time  `db:"last_modified" json:"last_modified"`
}

// NewAccount carries the insert fields after the password has been hashed.
type NewAccount struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	Birthday     *time.Time
}

// CreateAccountRequest caps the plaintext password at 50 characters before
// hashing; the remaining length caps mirror the schema CHECK constraints.
// Email is intentionally not checked for uniqueness.
type CreateAccountRequest struct {
	FirstName string  `json:"first_name" binding:"required,max=100"`
	LastName  string  `json:"last_name" binding:"required,max=100"`
	Email     string  `json:"email" binding:"required,max=100"`
	Phone     string  `json:"phone" binding:"required,max=16"`
	Password  string  `json:"password" binding:"required,max=50"`
	Birthday  *string `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}
