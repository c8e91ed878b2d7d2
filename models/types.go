package models

import "time"

// Index status constants
const (
	StatusSuccess        = "success"
	StatusError          = "error"
	StatusNotInitialized = "not_initialized"
	StatusReady          = "ready"
	StatusDegraded       = "degraded"
)

// Domain types

// Voter is the denormalized record kept for every indexed voter.
// One record per MasterID no matter how many names point at it.
type Voter struct {
	MasterID   string `json:"master_id"`
	VoterID    string `json:"voter_id,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Zip        string `json:"zip,omitempty"`
	Age        int    `json:"age,omitempty"`
	Party      string `json:"party,omitempty"`
	Email      string `json:"email,omitempty"`
}

type IndexStats struct {
	TotalVoters     int `json:"total_voters"`
	TotalNodes      int `json:"total_nodes"`
	MemorySizeBytes int `json:"memory_size_bytes"`
}

// Response types

type VoterMatch struct {
	MasterID string `json:"master_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Age      int    `json:"age,omitempty"`
	Party    string `json:"party,omitempty"`
	Email    string `json:"email,omitempty"`
}

type SearchResponse struct {
	Query   string       `json:"query"`
	Results []VoterMatch `json:"results"`
}

type RebuildStatus struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Stats   *IndexStats `json:"stats,omitempty"`
}

// ServiceStats is {status} before initialization and the full set afterwards.
type ServiceStats struct {
	Status        string     `json:"status"`
	TotalVoters   int        `json:"total_voters,omitempty"`
	TotalNodes    int        `json:"total_nodes,omitempty"`
	MemorySize    int        `json:"memory_size_bytes,omitempty"`
	LastUpdate    *time.Time `json:"last_update,omitempty"`
	CacheTTLHours float64    `json:"cache_ttl_hours,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
