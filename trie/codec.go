// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package trie

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/danielhkuo/quickly-find/models"
)

// SnapshotVersion is bumped whenever the encoded layout changes.
const SnapshotVersion = 1

var (
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// snapshot is the wire layout: a voter key dictionary, the records that
// reference it, and every node in pre-order with its child count.
type snapshot struct {
	Version int             `msgpack:"v"`
	Keys    []string        `msgpack:"k"`
	Voters  []snapshotVoter `msgpack:"d"`
	Nodes   []snapshotNode  `msgpack:"n"`
}

type snapshotVoter struct {
	Ref   uint32       `msgpack:"r"`
	Voter models.Voter `msgpack:"v"`
}

type snapshotNode struct {
	Char     rune     `msgpack:"c"`
	End      bool     `msgpack:"e,omitempty"`
	Refs     []uint32 `msgpack:"r,omitempty"`
	Children int      `msgpack:"n,omitempty"`
}

// MarshalBinary encodes the trie. Output is deterministic for a given trie.
func (t *VoterTrie) MarshalBinary() ([]byte, error) {
	s := snapshot{
		Version: SnapshotVersion,
		Keys:    make([]string, 0, len(t.voterData)),
		Voters:  make([]snapshotVoter, 0, len(t.voterData)),
		Nodes:   make([]snapshotNode, 0, t.nodes),
	}

	ids := make(map[string]uint32, len(t.voterData))
	intern := func(key string) uint32 {
		if id, ok := ids[key]; ok {
			return id
		}
		id := uint32(len(s.Keys))
		ids[key] = id
		s.Keys = append(s.Keys, key)
		return id
	}

	for _, key := range slices.Sorted(maps.Keys(t.voterData)) {
		s.Voters = append(s.Voters, snapshotVoter{Ref: intern(key), Voter: t.voterData[key]})
	}

	var walk func(ch rune, n *TrieNode)
	walk = func(ch rune, n *TrieNode) {
		refs := make([]uint32, len(n.refOrder))
		for i, key := range n.refOrder {
			refs[i] = intern(key)
		}
		s.Nodes = append(s.Nodes, snapshotNode{
			Char:     ch,
			End:      n.endOfWord,
			Refs:     refs,
			Children: len(n.children),
		})
		for _, c := range slices.Sorted(maps.Keys(n.children)) {
			walk(c, n.children[c])
		}
	}
	walk(0, t.root)

	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trie: %w", err)
	}
	return data, nil
}

// UnmarshalBinary replaces the contents of t with the decoded snapshot.
// t is left untouched on error.
func (t *VoterTrie) UnmarshalBinary(data []byte) error {
	var s snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: %d", ErrSnapshotVersion, s.Version)
	}
	if len(s.Nodes) == 0 {
		return fmt.Errorf("%w: no root node", ErrCorruptSnapshot)
	}

	key := func(ref uint32) (string, error) {
		if int(ref) >= len(s.Keys) {
			return "", fmt.Errorf("%w: voter ref %d out of range", ErrCorruptSnapshot, ref)
		}
		return s.Keys[ref], nil
	}

	voterData := make(map[string]models.Voter, len(s.Voters))
	for _, sv := range s.Voters {
		k, err := key(sv.Ref)
		if err != nil {
			return err
		}
		voterData[k] = sv.Voter
	}

	pos := 0
	var build func() (rune, *TrieNode, error)
	build = func() (rune, *TrieNode, error) {
		if pos >= len(s.Nodes) {
			return 0, nil, fmt.Errorf("%w: truncated node list", ErrCorruptSnapshot)
		}
		sn := s.Nodes[pos]
		pos++

		n := newNode()
		n.endOfWord = sn.End
		for _, ref := range sn.Refs {
			k, err := key(ref)
			if err != nil {
				return 0, nil, err
			}
			n.addRef(k)
		}
		for i := 0; i < sn.Children; i++ {
			ch, child, err := build()
			if err != nil {
				return 0, nil, err
			}
			n.children[ch] = child
		}
		return sn.Char, n, nil
	}

	_, root, err := build()
	if err != nil {
		return err
	}
	if pos != len(s.Nodes) {
		return fmt.Errorf("%w: %d trailing nodes", ErrCorruptSnapshot, len(s.Nodes)-pos)
	}

	t.root = root
	t.voterData = voterData
	t.nodes = len(s.Nodes)
	return nil
}

// Decode builds a trie from a MarshalBinary blob.
func Decode(data []byte) (*VoterTrie, error) {
	t := New()
	if err := t.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return t, nil
}
