// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package trie implements the in-memory voter name index used for typeahead.

# Structure

Each TrieNode is one character. Inserting a word adds the voter key to every
node along its path, so the node reached by a prefix already knows every
voter under it:

	t := trie.New()
	t.Insert("Smith", "v-1", voter)
	t.SearchPrefix("sm", 10) // [voter]

A prefix search is O(len(prefix)) to find the node plus O(limit) to resolve
and rank results. Popular prefixes resolve at most limit*3 refs.

# Normalization

Words and queries go through Normalize: combining marks are stripped,
whitespace is trimmed and collapsed, and the result is upper-cased.

	Normalize("  José  de la Cruz ") // "JOSE DE LA CRUZ"

# Ordering

Results are sorted by last name, then first name, then master id, so
repeated searches on the same trie return the same order.

# Snapshots

MarshalBinary writes a versioned msgpack snapshot: a voter key dictionary,
the voter records, and all nodes in pre-order. Decode restores a trie that
answers every search exactly like the original.

	blob, err := t.MarshalBinary()
	restored, err := trie.Decode(blob)

A snapshot with a different SnapshotVersion fails with ErrSnapshotVersion;
anything unreadable fails with ErrCorruptSnapshot.
*/
package trie
