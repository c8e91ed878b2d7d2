// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voterindex

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/danielhkuo/quickly-find/models"
	"github.com/danielhkuo/quickly-find/trie"
)

// Source supplies voter rows to the index.
type Source interface {
	// EachVoter streams every voter row. Voters without a name or address
	// are included with those fields empty.
	EachVoter(ctx context.Context, fn func(models.Voter) error) error
	// SearchVoters matches prefix against first and last names directly.
	SearchVoters(ctx context.Context, prefix string, limit int) ([]models.Voter, error)
}

type SQLSource struct {
	db *sql.DB
}

func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

const voterColumns = `
	SELECT v.master_id, v.voter_id, v.age, v.party, v.email,
	       n.first_name, n.middle_name, n.last_name,
	       a.standardized_address, a.city, a.state, a.zip
	FROM voter v
	LEFT JOIN voter_name n ON n.master_id = v.master_id
	LEFT JOIN voter_address a ON a.master_id = v.master_id
`

// EachVoter runs the bulk left-join query and calls fn for every row.
func (s *SQLSource) EachVoter(ctx context.Context, fn func(models.Voter) error) error {
	rows, err := s.db.QueryContext(ctx, voterColumns)
	if err != nil {
		return fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return fmt.Errorf("failed to scan voter: %w", err)
		}
		if err := fn(v); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read voters: %w", err)
	}
	return nil
}

// SearchVoters is the slow path used while the index is unavailable.
func (s *SQLSource) SearchVoters(ctx context.Context, prefix string, limit int) ([]models.Voter, error) {
	normalized := trie.Normalize(prefix)
	if normalized == "" || limit <= 0 {
		return []models.Voter{}, nil
	}

	rows, err := s.db.QueryContext(ctx, voterColumns+`
		WHERE UPPER(n.last_name) LIKE $1 ESCAPE '\'
		   OR UPPER(n.first_name) LIKE $1 ESCAPE '\'
		ORDER BY n.last_name, n.first_name, v.master_id
		LIMIT $2
	`, escapeLike(normalized)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	seen := make(map[string]bool)
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		if seen[v.MasterID] {
			continue
		}
		seen[v.MasterID] = true
		voters = append(voters, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read voters: %w", err)
	}
	return voters, nil
}

func scanVoter(rows *sql.Rows) (models.Voter, error) {
	var (
		v                         models.Voter
		voterID, party, email     sql.NullString
		first, middle, last       sql.NullString
		address, city, state, zip sql.NullString
		age                       sql.NullInt64
	)

	err := rows.Scan(
		&v.MasterID, &voterID, &age, &party, &email,
		&first, &middle, &last,
		&address, &city, &state, &zip,
	)
	if err != nil {
		return models.Voter{}, err
	}

	v.VoterID = voterID.String
	v.Age = int(age.Int64)
	v.Party = party.String
	v.Email = email.String
	v.FirstName = strings.TrimSpace(first.String)
	v.MiddleName = strings.TrimSpace(middle.String)
	v.LastName = strings.TrimSpace(last.String)
	v.Address = address.String
	v.City = city.String
	v.State = state.String
	v.Zip = zip.String

	return v, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
