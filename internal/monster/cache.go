package monster

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/metrics"
	"github.com/osse101/Monsters_Go/internal/render"
)

// CacheConfig sizes the metadata cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// CacheStats reports metadata cache effectiveness
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

type cachedMetadata struct {
	Version  string
	Metadata render.Metadata
}

// metadataCache holds rendered metadata per token. Entries are invalidated on every
// mutation of their token and expire after the TTL.
type metadataCache struct {
	lru    *expirable.LRU[domain.TokenID, *cachedMetadata]
	hits   atomic.Int64
	misses atomic.Int64
}

func newMetadataCache(cfg CacheConfig) *metadataCache {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	return &metadataCache{
		lru: expirable.NewLRU[domain.TokenID, *cachedMetadata](cfg.Size, nil, cfg.TTL),
	}
}

func (c *metadataCache) Get(id domain.TokenID) (render.Metadata, bool) {
	entry, found := c.lru.Get(id)
	if found && entry.Version != CacheSchemaVersion {
		c.lru.Remove(id)
		found = false
	}
	if !found {
		c.misses.Add(1)
		metrics.TokenURICacheMisses.Inc()
		return render.Metadata{}, false
	}
	c.hits.Add(1)
	metrics.TokenURICacheHits.Inc()
	return entry.Metadata, true
}

func (c *metadataCache) Set(id domain.TokenID, md render.Metadata) {
	c.lru.Add(id, &cachedMetadata{Version: CacheSchemaVersion, Metadata: md})
}

func (c *metadataCache) Invalidate(id domain.TokenID) {
	c.lru.Remove(id)
}

func (c *metadataCache) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}
