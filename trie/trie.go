// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package trie

import (
	"cmp"
	"slices"

	"github.com/danielhkuo/quickly-find/models"
)

// sampleFactor bounds how many refs a popular prefix resolves per result slot.
const sampleFactor = 3

// TrieNode is a single character step. voterRefs holds every voter reachable
// through this node's prefix, not only the ones whose word ends here.
type TrieNode struct {
	children  map[rune]*TrieNode
	endOfWord bool
	voterRefs map[string]struct{}
	// refOrder lists voterRefs in first-insertion order
	refOrder []string
}

func newNode() *TrieNode {
	return &TrieNode{
		children:  make(map[rune]*TrieNode),
		voterRefs: make(map[string]struct{}),
	}
}

func (n *TrieNode) addRef(key string) {
	if _, ok := n.voterRefs[key]; ok {
		return
	}
	n.voterRefs[key] = struct{}{}
	n.refOrder = append(n.refOrder, key)
}

// VoterTrie indexes voter names for prefix search.
//
// A VoterTrie is not safe for concurrent mutation. Once built it is treated
// as an immutable snapshot and may be searched from many goroutines.
type VoterTrie struct {
	root      *TrieNode
	voterData map[string]models.Voter
	nodes     int
}

// New returns an empty trie.
func New() *VoterTrie {
	return &VoterTrie{
		root:      newNode(),
		voterData: make(map[string]models.Voter),
		nodes:     1,
	}
}

// Insert indexes word for voterKey and stores voter as its record.
// Empty words are ignored. The last record stored for a key wins.
func (t *VoterTrie) Insert(word, voterKey string, voter models.Voter) {
	normalized := Normalize(word)
	if normalized == "" {
		return
	}

	node := t.root
	for _, ch := range normalized {
		child, ok := node.children[ch]
		if !ok {
			child = newNode()
			node.children[ch] = child
			t.nodes++
		}
		child.addRef(voterKey)
		node = child
	}
	node.endOfWord = true

	t.voterData[voterKey] = voter
}

// Put stores a record without indexing any word for it.
func (t *VoterTrie) Put(voterKey string, voter models.Voter) {
	t.voterData[voterKey] = voter
}

// Lookup returns the record stored for voterKey.
func (t *VoterTrie) Lookup(voterKey string) (models.Voter, bool) {
	v, ok := t.voterData[voterKey]
	return v, ok
}

// Len returns the number of unique voters.
func (t *VoterTrie) Len() int {
	return len(t.voterData)
}

// NodeCount returns the number of nodes including the root.
func (t *VoterTrie) NodeCount() int {
	return t.nodes
}

// SearchPrefix returns up to limit voters with an indexed name starting with
// prefix, ordered by last name then first name.
func (t *VoterTrie) SearchPrefix(prefix string, limit int) []models.Voter {
	results := []models.Voter{}
	if limit <= 0 {
		return results
	}

	normalized := Normalize(prefix)
	if normalized == "" {
		return results
	}

	node := t.root
	for _, ch := range normalized {
		node = node.children[ch]
		if node == nil {
			return results
		}
	}

	sample := node.refOrder
	if n := limit * sampleFactor; n > 0 && len(sample) > n {
		sample = sample[:n]
	}

	for _, key := range sample {
		voter, ok := t.voterData[key]
		if !ok {
			// orphaned ref
			continue
		}
		results = append(results, voter)
	}

	slices.SortFunc(results, compareVoters)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Stats serializes the whole trie to measure it. Keep it off hot paths.
func (t *VoterTrie) Stats() models.IndexStats {
	stats := models.IndexStats{
		TotalVoters: t.Len(),
		TotalNodes:  t.NodeCount(),
	}
	if blob, err := t.MarshalBinary(); err == nil {
		stats.MemorySizeBytes = len(blob)
	}
	return stats
}

func compareVoters(a, b models.Voter) int {
	return cmp.Or(
		cmp.Compare(a.LastName, b.LastName),
		cmp.Compare(a.FirstName, b.FirstName),
		cmp.Compare(a.MasterID, b.MasterID),
	)
}
