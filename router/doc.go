// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Find API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, cfg)

# Endpoints

Health:

	GET /health

Typeahead (public):

	GET /voters/search?q=&limit= - Prefix search over voter names

Index administration:

	POST /voters/index/rebuild - Rebuild from the database (requires X-Admin-Key)
	GET  /voters/index/stats   - Index status and size

Every route except health and root is wrapped in middleware.WithLogging,
so responses carry an X-Request-ID header.
*/
package router
