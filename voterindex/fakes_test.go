// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voterindex

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/danielhkuo/quickly-find/models"
	"github.com/danielhkuo/quickly-find/trie"
)

// fakeSource serves voters from memory and counts calls
type fakeSource struct {
	mu      sync.Mutex
	voters  []models.Voter
	loadErr error
	// gate, when set, blocks EachVoter until closed
	gate chan struct{}

	loads    atomic.Int32
	searches atomic.Int32
}

func (f *fakeSource) set(voters []models.Voter, loadErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voters = voters
	f.loadErr = loadErr
}

func (f *fakeSource) EachVoter(ctx context.Context, fn func(models.Voter) error) error {
	f.loads.Add(1)
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	voters, err := f.voters, f.loadErr
	f.mu.Unlock()

	if err != nil {
		return err
	}
	for _, v := range voters {
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSource) SearchVoters(ctx context.Context, prefix string, limit int) ([]models.Voter, error) {
	f.searches.Add(1)

	f.mu.Lock()
	defer f.mu.Unlock()

	p := trie.Normalize(prefix)
	out := []models.Voter{}
	for _, v := range f.voters {
		if len(out) == limit {
			break
		}
		if strings.HasPrefix(trie.Normalize(v.LastName), p) || strings.HasPrefix(trie.Normalize(v.FirstName), p) {
			out = append(out, v)
		}
	}
	return out, nil
}

var errUnreachable = errors.New("cache unreachable")

// failingCache fails every call
type failingCache struct {
	saves atomic.Int32
	loads atomic.Int32
}

func (c *failingCache) Save(ctx context.Context, t *trie.VoterTrie) (Metadata, error) {
	c.saves.Add(1)
	return Metadata{}, errUnreachable
}

func (c *failingCache) Load(ctx context.Context) (*trie.VoterTrie, Metadata, error) {
	c.loads.Add(1)
	return nil, Metadata{}, errUnreachable
}

// countingLock records how often initialization took the lock
type countingLock struct {
	sync.Mutex
	locks atomic.Int32
}

func (l *countingLock) Lock() {
	l.locks.Add(1)
	l.Mutex.Lock()
}

func sampleVoters() []models.Voter {
	return []models.Voter{
		{MasterID: "1", FirstName: "JOHN", MiddleName: "Q", LastName: "SMITH", Address: "12 ELM ST", City: "SPRINGFIELD", State: "IL", Zip: "62701", Age: 54, Party: "DEM", Email: "john@example.com"},
		{MasterID: "2", FirstName: "JANE", LastName: "SMITH", City: "SPRINGFIELD", State: "IL", Age: 51, Party: "REP"},
		{MasterID: "3", FirstName: "BOB", LastName: "JONES", Address: "4 OAK AVE", City: "SHELBYVILLE", State: "IL", Zip: "62565"},
		{MasterID: "4", City: "CAPITAL CITY"},
	}
}
