// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Find API server.

Quickly Find serves typeahead search over voter names. Names are indexed in
an in-memory prefix trie that is built from the voter database, snapshotted
to Redis and reloaded from there on restart.

# Commands

	quickly-find serve      # run the HTTP API (warms the index in the background)
	quickly-find rebuild    # rebuild the index and refresh the Redis snapshot
	quickly-find stats      # load the index and print its statistics
	quickly-find admin-key  # print the X-Admin-Key for POST /voters/index/rebuild

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=voters.db ADMIN_KEY_SALT=... go run . serve

Or with flags:

	go run . serve -p 3318 -t postgres -d "postgres://..." --redis-url redis://localhost:6379/0

A .env file in the working directory is loaded when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - REDIS_URL (--redis-url): Snapshot cache; empty disables it
  - INDEX_CACHE_PREFIX (--cache-prefix): Redis key prefix (default: voter_index)
  - INDEX_CACHE_TTL (--cache-ttl): Snapshot lifetime (default: 24h)
  - LOG_LEVEL (--log-level): debug, info, warn or error

Logs are text on a terminal and JSON otherwise.

# Architecture

  - trie: Prefix trie over normalized names and its binary snapshot codec
  - voterindex: Index builder, Redis snapshot cache and the index service
  - handlers: HTTP request handlers (search, rebuild, stats)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging with request IDs, JSON helpers
  - models: Voter records and response types
  - auth: Admin key generation and validation
  - db: Connection setup and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
