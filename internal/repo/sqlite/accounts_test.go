package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/accounthub/internal/domain/account"
	"github.com/jmoiron/sqlx"
)

func newTestRepo(t *testing.T) (*AccountsRepo, *sqlx.DB) {
	t.Helper()

	db, err := Open(":memory:")

	if err != nil {
		t.Fatalf("could not open in-memory database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return NewAccountsRepo(db, nil), db
}

func testAccount(email string) account.NewAccount {
	return account.NewAccount{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		Phone:        "555-0100",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
	}
}

func TestInsertReturnsIncreasingIDs(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Insert(ctx, testAccount("ada@example.com"))
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	second, err := repo.Insert(ctx, testAccount("grace@example.com"))
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	if second <= first {
		t.Fatalf("expected increasing ids, got %d then %d", first, second)
	}
}

func TestInsertDuplicateEmailAllowed(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Insert(ctx, testAccount("dup@example.com")); err != nil {
		t.Fatalf("first insert returned error: %v", err)
	}

	// email is not a unique column; a second row with the same address is
	// fine
	if _, err := repo.Insert(ctx, testAccount("dup@example.com")); err != nil {
		t.Fatalf("second insert with same email returned error: %v", err)
	}
}

func TestInsertSchemaConstraints(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}

	in := testAccount("len@example.com")
	in.FirstName = string(long)

	if _, err := repo.Insert(ctx, in); err == nil {
		t.Fatal("expected CHECK constraint failure for oversized first_name")
	}
}

func TestGetByID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, testAccount("ada@example.com"))
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	got, err := repo.GetByID(ctx, id)

	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	if got.Email != "ada@example.com" || got.FirstName != "Ada" {
		t.Fatalf("unexpected row: %+v", got)
	}

	if got.CreatedAt.IsZero() || got.LastModified.IsZero() {
		t.Fatal("timestamps must be set on insert")
	}

	if _, err := repo.GetByID(ctx, 9999); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestListCapsAtLimit(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := repo.Insert(ctx, testAccount("bulk@example.com")); err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}
	}

	rows, err := repo.List(ctx, 3)

	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

func TestUpdatePassword(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, testAccount("ada@example.com"))
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	before, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	changes, err := repo.UpdatePassword(ctx, id, "$2a$10$newhashnewhashnewhashnew")

	if err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}

	if changes != 1 {
		t.Fatalf("expected 1 changed row, got %d", changes)
	}

	after, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	if !after.LastModified.After(after.CreatedAt) {
		t.Fatalf("last_modified (%v) must advance past created_at (%v)", after.LastModified, after.CreatedAt)
	}

	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatal("created_at must not change on password update")
	}

	if after.FirstName != before.FirstName || after.LastName != before.LastName ||
		after.Email != before.Email || after.Phone != before.Phone {
		t.Fatal("password update must leave the identity fields alone")
	}

	if after.Password == before.Password {
		t.Fatal("password hash was not replaced")
	}
}

func TestUpdatePasswordUnknownID(t *testing.T) {
	repo, _ := newTestRepo(t)

	changes, err := repo.UpdatePassword(context.Background(), 404, "$2a$10$whatever")

	if err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}

	if changes != 0 {
		t.Fatalf("expected 0 changed rows, got %d", changes)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, testAccount("ada@example.com"))
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	// deleting an id that is already gone is still a success
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}

	if err := repo.Delete(ctx, 9999); err != nil {
		t.Fatalf("Delete of unknown id returned error: %v", err)
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM accounts`); err != nil {
		t.Fatalf("count query failed: %v", err)
	}

	if count != 0 {
		t.Fatalf("expected empty table, found %d rows", count)
	}
}

func TestExists(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, testAccount("ada@example.com"))
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	ok, err := repo.Exists(ctx, id)
	if err != nil || !ok {
		t.Fatalf("expected row to exist, got ok=%v err=%v", ok, err)
	}

	ok, err = repo.Exists(ctx, 9999)
	if err != nil {
		t.Fatalf("Exists returned error: %v", err)
	}

	if ok {
		t.Fatal("unknown id must not exist")
	}
}
