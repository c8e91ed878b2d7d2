// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the database and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case TypeSQLite, TypePostgres:
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbType == TypeSQLite {
		// a single connection keeps :memory: databases coherent
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Voters
CREATE TABLE IF NOT EXISTS voter (
    master_id TEXT PRIMARY KEY,
    voter_id TEXT,
    age INTEGER,
    party TEXT,
    email TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_voter_voter_id ON voter(voter_id);

-- Names
CREATE TABLE IF NOT EXISTS voter_name (
    master_id TEXT NOT NULL REFERENCES voter(master_id) ON DELETE CASCADE,
    first_name TEXT,
    middle_name TEXT,
    last_name TEXT
);

CREATE INDEX IF NOT EXISTS idx_voter_name_master_id ON voter_name(master_id);
CREATE INDEX IF NOT EXISTS idx_voter_name_last_first ON voter_name(last_name, first_name);

-- Addresses
CREATE TABLE IF NOT EXISTS voter_address (
    master_id TEXT NOT NULL REFERENCES voter(master_id) ON DELETE CASCADE,
    standardized_address TEXT,
    city TEXT,
    state TEXT,
    zip TEXT
);

CREATE INDEX IF NOT EXISTS idx_voter_address_master_id ON voter_address(master_id);
`
