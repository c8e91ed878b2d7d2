// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Commands that own their flag set (cobra) bind and resolve in two steps:

	var cfg cliparse.Config
	cliparse.Bind(cmd.PersistentFlags(), &cfg)
	// after parsing
	err := cfg.Resolve()

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - RedisURL: Redis for the index snapshot (empty disables caching)
  - CachePrefix: Redis key namespace (default: voter_index)
  - CacheTTL: Cached index lifetime (default: 24h)
  - AdminKeySalt: Secret for the admin key HMAC (required)
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags

	-p, --port           Server port
	-d, --database-url   Database URL
	-t, --database-type  sqlite or postgres
	--redis-url          Redis URL
	--cache-prefix       Redis key prefix
	--cache-ttl          Cache TTL (e.g. 24h)
	--admin-salt         Admin key salt
	--env-file           Environment file
	--log-level          Log level

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	REDIS_URL          → --redis-url
	INDEX_CACHE_PREFIX → --cache-prefix
	INDEX_CACHE_TTL    → --cache-ttl
	ADMIN_KEY_SALT     → --admin-salt
	LOG_LEVEL          → --log-level

CLI flags take precedence over environment variables. Before the fallback
runs, --env-file (or ./.env when present) is loaded with godotenv; it never
overrides variables that are already set.

# Validation

Resolve returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - ADMIN_KEY_SALT must be provided
  - database type must be sqlite or postgres
  - PORT, INDEX_CACHE_TTL and LOG_LEVEL must parse
*/
package cliparse
