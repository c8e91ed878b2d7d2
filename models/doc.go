// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain and response types for the voter search API.

# Domain Types

  - Voter: denormalized voter record (name parts, address, age, party, email)
  - IndexStats: voter count, node count, approximate serialized size

# Response Types

Types for JSON responses:

  - VoterMatch: master_id, name, address, age, party, email
  - SearchResponse: query, results
  - RebuildStatus: status ("success" or "error"), message, stats
  - ServiceStats: status, totals, last_update, cache_ttl_hours
  - ErrorResponse: error, message

# Status Constants

	StatusSuccess        = "success"
	StatusError          = "error"
	StatusNotInitialized = "not_initialized"
	StatusReady          = "ready"
	StatusDegraded       = "degraded"

# JSON Conventions

All JSON fields use snake_case. Empty optional fields are omitted:

	{
	  "master_id": "v-1001",
	  "name": "JOHN Q SMITH",
	  "address": "12 ELM ST, SPRINGFIELD, IL 62701",
	  "party": "DEM"
	}
*/
package models
