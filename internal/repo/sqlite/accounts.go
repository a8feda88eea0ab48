package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/geocoder89/accounthub/internal/domain/account"
	"github.com/geocoder89/accounthub/internal/observability"
	"github.com/jmoiron/sqlx"
)

type AccountsRepo struct {
	db   *sqlx.DB
	prom *observability.Prom
}

// constructor function; prom may be nil (tests).

func NewAccountsRepo(db *sqlx.DB, prom *observability.Prom) *AccountsRepo {
	return &AccountsRepo{
		db:   db,
		prom: prom,
	}
}

func (r *AccountsRepo) Insert(ctx context.Context, in account.NewAccount) (int64, error) {
	var id int64

	err := r.prom.ObserveDB("accounts.insert", func() error {
		now := time.Now().UTC()

		res, err := r.db.ExecContext(ctx,
			`INSERT INTO accounts(first_name, last_name, email, phone, password, birthday, created_at, last_modified)
			 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			in.FirstName, in.LastName, in.Email, in.Phone, in.PasswordHash, in.Birthday, now, now)

		if err != nil {
			return err
		}

		id, err = res.LastInsertId()

		return err
	})

	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *AccountsRepo) GetByID(ctx context.Context, id int64) (account.Account, error) {
	var a account.Account

	err := r.prom.ObserveDB("accounts.get_by_id", func() error {
		return r.db.GetContext(ctx, &a,
			`SELECT id, first_name, last_name, email, phone, password, birthday, created_at, last_modified
			 FROM accounts
			 WHERE id = ?`, id)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}

		return account.Account{}, err
	}

	return a, nil
}

// List returns up to limit rows in storage order. There is no filtering
// and no ORDER BY; iteration order is whatever the engine yields.
func (r *AccountsRepo) List(ctx context.Context, limit int) ([]account.Account, error) {
	out := make([]account.Account, 0, limit)

	err := r.prom.ObserveDB("accounts.list", func() error {
		return r.db.SelectContext(ctx, &out,
			`SELECT id, first_name, last_name, email, phone, password, birthday, created_at, last_modified
			 FROM accounts
			 LIMIT ?`, limit)
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// UpdatePassword swaps in a new hash and advances last_modified.
// created_at is never touched.
func (r *AccountsRepo) UpdatePassword(ctx context.Context, id int64, hash string) (int64, error) {
	var changes int64

	err := r.prom.ObserveDB("accounts.update_password", func() error {
		res, err := r.db.ExecContext(ctx,
			`UPDATE accounts SET password = ?, last_modified = ? WHERE id = ?`,
			hash, time.Now().UTC(), id)

		if err != nil {
			return err
		}

		changes, err = res.RowsAffected()

		return err
	})

	if err != nil {
		return 0, err
	}

	return changes, nil
}

// Delete removes a row without checking it exists first; deleting an
// unknown id is a successful no-op.
func (r *AccountsRepo) Delete(ctx context.Context, id int64) error {
	return r.prom.ObserveDB("accounts.delete", func() error {
		_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)

		return err
	})
}

// Exists is the auth-middleware lookup: a decoded token subject must still
// map to a live row.
func (r *AccountsRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var one int

	err := r.prom.ObserveDB("accounts.exists", func() error {
		return r.db.GetContext(ctx, &one, `SELECT 1 FROM accounts WHERE id = ?`, id)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
