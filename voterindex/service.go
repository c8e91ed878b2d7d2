// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voterindex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/danielhkuo/quickly-find/models"
	"github.com/danielhkuo/quickly-find/trie"
)

// State is the lifecycle of a Service.
type State int32

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

const defaultFallbackSize = 512

type Config struct {
	// CacheTTL is reported by Stats. The cache enforces its own TTL.
	CacheTTL time.Duration
	// FallbackSize bounds memoized direct-source searches.
	FallbackSize int
	// Lock serializes initialization. Defaults to a sync.Mutex.
	Lock sync.Locker
	Now  func() time.Time
}

// index is one published trie. It is never mutated after Store.
type index struct {
	trie       *trie.VoterTrie
	lastUpdate time.Time
	// degraded marks the empty trie installed after a failed build
	degraded bool
	err      error
}

// Service owns the voter index for the process: it loads or builds the trie
// once, serves searches from it and rebuilds it on demand.
type Service struct {
	source Source
	cache  SnapshotCache
	cfg    Config

	state   atomic.Int32
	current atomic.Pointer[index]

	fallback *lru.Cache
	flight   singleflight.Group
}

// NewService wires a Service. cache may be nil to run without a snapshot cache.
func NewService(source Source, cache SnapshotCache, cfg Config) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.FallbackSize <= 0 {
		cfg.FallbackSize = defaultFallbackSize
	}
	if cfg.Lock == nil {
		cfg.Lock = &sync.Mutex{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	fallback, err := lru.New(cfg.FallbackSize)
	if err != nil {
		// only possible for a non-positive size
		panic(err)
	}

	return &Service{
		source:   source,
		cache:    cache,
		cfg:      cfg,
		fallback: fallback,
	}
}

func (s *Service) State() State {
	return State(s.state.Load())
}

// Initialize loads the index from cache, or builds it from the source and
// caches it. With force set the cache is skipped and a new trie is always
// built. A trie is always published when Initialize returns: on failure it
// is an empty one, unless a forced rebuild fails while a good trie is live.
func (s *Service) Initialize(ctx context.Context, force bool) error {
	s.cfg.Lock.Lock()
	defer s.cfg.Lock.Unlock()

	prev := s.current.Load()
	if !force && prev != nil {
		// another caller finished while we waited
		return prev.err
	}

	s.state.Store(int32(StateLoading))
	defer s.state.Store(int32(StateReady))

	next, err := s.load(ctx, force)
	if err != nil {
		slog.Error("voter index initialization failed", "force", force, "error", err)
		if prev != nil && !prev.degraded {
			slog.Warn("keeping previous voter index", "last_update", prev.lastUpdate)
			return err
		}
		next = &index{trie: trie.New(), lastUpdate: s.cfg.Now(), degraded: true, err: err}
	}

	s.current.Store(next)
	s.fallback.Purge()
	return err
}

func (s *Service) load(ctx context.Context, force bool) (idx *index, err error) {
	defer func() {
		if r := recover(); r != nil {
			idx, err = nil, fmt.Errorf("voter index load panicked: %v", r)
		}
	}()

	if !force && s.cache != nil {
		t, meta, err := s.cache.Load(ctx)
		switch {
		case err == nil:
			slog.Info("voter index loaded from cache", "voters", t.Len(), "last_update", meta.LastUpdate)
			return &index{trie: t, lastUpdate: meta.LastUpdate}, nil
		case errors.Is(err, ErrNoSnapshot), errors.Is(err, ErrStaleSnapshot):
			slog.Info("no usable cached voter index", "reason", err)
		default:
			slog.Warn("failed to load voter index from cache", "error", err)
		}
	}

	t, err := Build(ctx, s.source)
	if err != nil {
		return nil, err
	}

	lastUpdate := s.cfg.Now()
	if s.cache != nil {
		meta, err := s.cache.Save(ctx, t)
		if err != nil {
			slog.Warn("failed to cache voter index", "error", err)
		} else {
			lastUpdate = meta.LastUpdate
		}
	}

	return &index{trie: t, lastUpdate: lastUpdate}, nil
}

// Search returns up to limit voters whose name starts with query. The first
// call initializes the index. Search never fails; problems yield no results.
func (s *Service) Search(ctx context.Context, query string, limit int) []models.VoterMatch {
	cur := s.current.Load()
	if cur == nil {
		// errors are logged by Initialize
		_ = s.Initialize(ctx, false)
		cur = s.current.Load()
	}

	matches := []models.VoterMatch{}
	if cur == nil || limit <= 0 || trie.Normalize(query) == "" {
		return matches
	}

	var voters []models.Voter
	if cur.degraded {
		voters = s.searchSource(ctx, query, limit)
	} else {
		voters = cur.trie.SearchPrefix(query, limit)
	}

	for _, v := range voters {
		matches = append(matches, FormatMatch(v))
	}
	return matches
}

// searchSource queries the source directly while the index is degraded.
func (s *Service) searchSource(ctx context.Context, query string, limit int) []models.Voter {
	key := fmt.Sprintf("%s\x00%d", trie.Normalize(query), limit)
	if cached, ok := s.fallback.Get(key); ok {
		return cached.([]models.Voter)
	}

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		voters, err := s.source.SearchVoters(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		s.fallback.Add(key, voters)
		return voters, nil
	})
	if err != nil {
		slog.Warn("fallback voter search failed", "error", err)
		return nil
	}
	return v.([]models.Voter)
}

// Rebuild forces a fresh build from the source.
func (s *Service) Rebuild(ctx context.Context) models.RebuildStatus {
	if err := s.Initialize(ctx, true); err != nil {
		return models.RebuildStatus{
			Status:  models.StatusError,
			Message: fmt.Sprintf("Index rebuild failed: %v", err),
		}
	}

	stats := s.current.Load().trie.Stats()
	return models.RebuildStatus{
		Status:  models.StatusSuccess,
		Message: fmt.Sprintf("Index rebuilt with %d voters", stats.TotalVoters),
		Stats:   &stats,
	}
}

// Stats measures the live trie. It serializes the whole index.
func (s *Service) Stats() models.ServiceStats {
	cur := s.current.Load()
	if cur == nil {
		return models.ServiceStats{Status: models.StatusNotInitialized}
	}

	status := models.StatusReady
	if cur.degraded {
		status = models.StatusDegraded
	}

	st := cur.trie.Stats()
	lastUpdate := cur.lastUpdate
	return models.ServiceStats{
		Status:        status,
		TotalVoters:   st.TotalVoters,
		TotalNodes:    st.TotalNodes,
		MemorySize:    st.MemorySizeBytes,
		LastUpdate:    &lastUpdate,
		CacheTTLHours: s.cfg.CacheTTL.Hours(),
	}
}

// FormatMatch flattens a voter record into the search response shape.
func FormatMatch(v models.Voter) models.VoterMatch {
	locality := joinNonEmpty(" ", v.State, v.Zip)
	return models.VoterMatch{
		MasterID: v.MasterID,
		Name:     joinNonEmpty(" ", v.FirstName, v.MiddleName, v.LastName),
		Address:  joinNonEmpty(", ", v.Address, v.City, locality),
		Age:      v.Age,
		Party:    v.Party,
		Email:    v.Email,
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
