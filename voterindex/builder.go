// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voterindex

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickly-find/models"
	"github.com/danielhkuo/quickly-find/trie"
)

// progressInterval is how many rows pass between build progress logs
const progressInterval = 10000

// Build loads every voter from src into a fresh trie.
// Any source error aborts the build.
func Build(ctx context.Context, src Source) (*trie.VoterTrie, error) {
	start := time.Now()
	t := trie.New()
	rows := 0

	err := src.EachVoter(ctx, func(v models.Voter) error {
		IndexVoter(t, v)
		rows++
		if rows%progressInterval == 0 {
			slog.Info("voter index build progress", "rows", rows, "voters", t.Len())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build voter index: %w", err)
	}

	slog.Info("voter index built",
		"rows", rows,
		"voters", t.Len(),
		"nodes", t.NodeCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return t, nil
}

// IndexVoter inserts last name, first name and "LAST, FIRST" for v.
// A voter with neither name is still stored so it counts toward the index.
func IndexVoter(t *trie.VoterTrie, v models.Voter) {
	key := v.MasterID
	last := trie.Normalize(v.LastName)
	first := trie.Normalize(v.FirstName)

	if last != "" {
		t.Insert(last, key, v)
	}
	if first != "" {
		t.Insert(first, key, v)
	}
	if last != "" && first != "" {
		t.Insert(last+", "+first, key, v)
	}
	if last == "" && first == "" {
		t.Put(key, v)
	}
}
