// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Find API.

# Handler Types

VoterHandler serves typeahead search and index administration on top of a
voterindex.Service. It is created with the service and Config:

	voterHandler := handlers.NewVoterHandler(svc, cfg)

# Search

	GET /voters/search?q=smi&limit=10 → Search

The limit defaults to 10 and is capped at 100. A non-numeric or
non-positive limit is rejected with 400. The query is echoed back as given
and results are always a JSON array, empty when nothing matches. The first
search of the process loads or builds the index.

# Index Administration

	POST /voters/index/rebuild → Rebuild (requires X-Admin-Key)
	GET  /voters/index/stats   → Stats

The admin key is auth.GenerateAdminKey(auth.IndexAdminScope, salt). A
failed rebuild answers 500 with status "error" while the previous index
keeps serving searches. Rebuilds run to completion even if the client
disconnects.
*/
package handlers
