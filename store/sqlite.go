package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cmdref/model"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite keeps the same records as JSONFile in a single table. Every Save
// rewrites the table inside one transaction.
type SQLite struct {
	Path string
}

func (s *SQLite) open() (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", s.Path)
	if err != nil {
		return nil, err
	}
	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func migrate(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			position INTEGER PRIMARY KEY,
			hash_id TEXT NOT NULL,
			record TEXT NOT NULL
		);
	`)
	return err
}

func (s *SQLite) Load() ([]Entry, error) {
	// sql.Open would create the file; a missing store is simply empty.
	if _, err := os.Stat(s.Path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	conn, err := s.open()
	if err != nil {
		return nil, &model.SchemaError{Reason: s.Path + ": could not open sqlite store", Err: err}
	}
	defer conn.Close()

	rows, err := conn.Query(`SELECT hash_id, record FROM listings ORDER BY position`)
	if err != nil {
		return nil, &model.SchemaError{Reason: s.Path + ": could not read sqlite store", Err: err}
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var record string
		if err := rows.Scan(&e.Key, &record); err != nil {
			return nil, fmt.Errorf("scanning listing row: %w", err)
		}
		e.Value = []byte(record)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLite) Save(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	conn, err := s.open()
	if err != nil {
		return fmt.Errorf("opening sqlite store: %w", err)
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM listings`); err != nil {
		return fmt.Errorf("clearing listings: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO listings (position, hash_id, record) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(i, e.Key, string(e.Value)); err != nil {
			return fmt.Errorf("inserting listing %s: %w", e.Key, err)
		}
	}
	return tx.Commit()
}
