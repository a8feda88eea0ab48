package sqlite

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS accounts(
	id INTEGER PRIMARY KEY,
	first_name TEXT NOT NULL CHECK(length(first_name) <= 100),
	last_name TEXT NOT NULL CHECK(length(last_name) <= 100),
	email TEXT NOT NULL CHECK(length(email) <= 100),
	phone TEXT NOT NULL CHECK(length(phone) <= 16),
	password TEXT NOT NULL,
	birthday DATE,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	last_modified DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// Open connects to the single-file database and bootstraps the schema.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_busy_timeout=5000")

	if err != nil {
		return nil, err
	}

	// sqlite allows one writer at a time; a single pooled connection also
	// keeps in-memory databases coherent across queries.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(schema)

	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
