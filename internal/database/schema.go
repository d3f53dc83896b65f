package database

import (
	"database/sql"
	"fmt"
)

// CreateTables creates all required tables in the database.
func CreateTables(db *sql.DB) error {
	if err := createUsersTable(db); err != nil {
		return err
	}
	if err := createCategoriesTable(db); err != nil {
		return err
	}
	return createBookmarksTable(db)
}

func createUsersTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(150) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		first_name VARCHAR(150) NOT NULL DEFAULT '',
		last_name VARCHAR(150) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func createCategoriesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) UNIQUE NOT NULL
	);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("create categories table: %w", err)
	}
	return nil
}

func createBookmarksTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS bookmarks (
		id SERIAL PRIMARY KEY,
		url VARCHAR(200) NOT NULL DEFAULT '',
		title VARCHAR(200) NOT NULL,
		category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
		favorite BOOLEAN NOT NULL DEFAULT FALSE
	);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("create bookmarks table: %w", err)
	}

	return ensureBookmarksSchema(db)
}

func ensureBookmarksSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS bookmarks_title_lower_idx ON bookmarks(lower(title))`); err != nil {
		return fmt.Errorf("ensure bookmarks title index: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS bookmarks_category_idx ON bookmarks(category_id)`); err != nil {
		return fmt.Errorf("ensure bookmarks category index: %w", err)
	}

	return nil
}
