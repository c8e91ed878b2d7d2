// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open registers both drivers and selects one by database type:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:voters.db")

SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL is valid for both PostgreSQL and SQLite.

# Tables

  - voter: master_id, external voter_id, age, party, email
  - voter_name: first/middle/last name per voter
  - voter_address: standardized address, city, state, zip per voter

# Relationships

	voter 1──* voter_name
	voter 1──* voter_address

Names and addresses are optional. The index builder left-joins both so a
voter without either is still indexed.
*/
package db
