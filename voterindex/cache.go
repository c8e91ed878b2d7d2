// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voterindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/quickly-find/models"
	"github.com/danielhkuo/quickly-find/trie"
)

// DefaultCacheTTL is how long a cached index stays valid.
const DefaultCacheTTL = 24 * time.Hour

var (
	ErrNoSnapshot    = errors.New("no cached index")
	ErrStaleSnapshot = errors.New("cached index is stale")
)

// Metadata is stored as JSON next to the snapshot blob.
type Metadata struct {
	LastUpdate time.Time         `json:"last_update"`
	Version    int               `json:"version"`
	Stats      models.IndexStats `json:"stats"`
}

// SnapshotCache persists whole-trie snapshots.
type SnapshotCache interface {
	Save(ctx context.Context, t *trie.VoterTrie) (Metadata, error)
	// Load returns ErrNoSnapshot or ErrStaleSnapshot when nothing usable is cached.
	Load(ctx context.Context) (*trie.VoterTrie, Metadata, error)
}

// RedisCache keeps the snapshot under <prefix>:trie and its metadata under
// <prefix>:metadata.
type RedisCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisCache(client redis.Cmdable, prefix string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl, now: time.Now}
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (c *RedisCache) trieKey() string     { return c.prefix + ":trie" }
func (c *RedisCache) metadataKey() string { return c.prefix + ":metadata" }

// Save writes the snapshot and metadata in one transaction, both with the TTL.
func (c *RedisCache) Save(ctx context.Context, t *trie.VoterTrie) (Metadata, error) {
	blob, err := t.MarshalBinary()
	if err != nil {
		return Metadata{}, err
	}

	meta := Metadata{
		LastUpdate: c.now().UTC(),
		Version:    trie.SnapshotVersion,
		Stats: models.IndexStats{
			TotalVoters:     t.Len(),
			TotalNodes:      t.NodeCount(),
			MemorySizeBytes: len(blob),
		},
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to encode index metadata: %w", err)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.trieKey(), blob, c.ttl)
		pipe.Set(ctx, c.metadataKey(), metaJSON, c.ttl)
		return nil
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to write index to cache: %w", err)
	}

	slog.Info("voter index cached",
		"key", c.trieKey(),
		"size", humanize.Bytes(uint64(len(blob))),
		"ttl", c.ttl.String(),
	)
	return meta, nil
}

// Load reads the snapshot back. Metadata older than the TTL counts as stale
// even if redis has not expired the keys yet.
func (c *RedisCache) Load(ctx context.Context) (*trie.VoterTrie, Metadata, error) {
	var blobCmd, metaCmd *redis.StringCmd
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		blobCmd = pipe.Get(ctx, c.trieKey())
		metaCmd = pipe.Get(ctx, c.metadataKey())
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, Metadata{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("failed to read index from cache: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal([]byte(metaCmd.Val()), &meta); err != nil {
		return nil, Metadata{}, fmt.Errorf("%w: bad metadata: %v", trie.ErrCorruptSnapshot, err)
	}

	if age := c.now().Sub(meta.LastUpdate); age > c.ttl {
		return nil, meta, fmt.Errorf("%w: built %s", ErrStaleSnapshot, humanize.Time(meta.LastUpdate))
	}

	t, err := trie.Decode([]byte(blobCmd.Val()))
	if err != nil {
		return nil, meta, err
	}
	return t, meta, nil
}
