// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key generation and validation.

# Admin Keys

Admin keys use HMAC-SHA256 over a scope name to create deterministic,
verifiable keys:

	adminKey := auth.GenerateAdminKey(auth.IndexAdminScope, salt)
	err := auth.ValidateAdminKey(auth.IndexAdminScope, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same scope and salt always produce the same key, so nothing is stored.
Operators print the key with:

	quickly-find admin-key

The rebuild endpoint expects it in the X-Admin-Key header.
*/
package auth
