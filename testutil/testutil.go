// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-find/cliparse"
	"github.com/danielhkuo/quickly-find/db"
	"github.com/danielhkuo/quickly-find/models"
)

// TestDBURL is an in-memory SQLite database, private to one connection
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: db.TypeSQLite,
		CachePrefix:  "test_voter_index",
		CacheTTL:     cliparse.DefaultCacheTTL,
		AdminKeySalt: "test-admin-salt",
	}
}

// SeedVoter inserts a voter plus name and address rows when those fields are set
func SeedVoter(t *testing.T, conn *sql.DB, v models.Voter) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO voter (master_id, voter_id, age, party, email)
		VALUES ($1, $2, $3, $4, $5)
	`, v.MasterID, nullable(v.VoterID), v.Age, nullable(v.Party), nullable(v.Email))
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	if v.FirstName != "" || v.MiddleName != "" || v.LastName != "" {
		_, err = conn.Exec(`
			INSERT INTO voter_name (master_id, first_name, middle_name, last_name)
			VALUES ($1, $2, $3, $4)
		`, v.MasterID, nullable(v.FirstName), nullable(v.MiddleName), nullable(v.LastName))
		if err != nil {
			t.Fatalf("Failed to create test voter name: %v", err)
		}
	}

	if v.Address != "" || v.City != "" || v.State != "" || v.Zip != "" {
		_, err = conn.Exec(`
			INSERT INTO voter_address (master_id, standardized_address, city, state, zip)
			VALUES ($1, $2, $3, $4, $5)
		`, v.MasterID, nullable(v.Address), nullable(v.City), nullable(v.State), nullable(v.Zip))
		if err != nil {
			t.Fatalf("Failed to create test voter address: %v", err)
		}
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
