package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/skillspace-mcp/internal/metrics"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

// DefaultCacheSize is the number of neighbour queries kept by CachedStore
const DefaultCacheSize = 1024

// CachedStore memoizes NearestNeighbors results of an underlying Store.
// Vector lookups pass through unchanged.
type CachedStore struct {
	Store
	cache  *lru.Cache[string, []types.Candidate]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedStore wraps store with an LRU of maxLen neighbour queries
func NewCachedStore(store Store, maxLen int) *CachedStore {
	if maxLen <= 0 {
		maxLen = DefaultCacheSize
	}
	// lru.New only fails for non-positive sizes
	cache, _ := lru.New[string, []types.Candidate](maxLen)
	return &CachedStore{Store: store, cache: cache}
}

// NearestNeighbors returns a cached result when the same query was seen before
func (c *CachedStore) NearestNeighbors(ctx context.Context, query types.Vector, vocabulary types.Vocabulary, topN int) ([]types.Candidate, error) {
	key := ComputeHash(vocabulary, topN, query)
	if cached, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		metrics.NeighborCacheHits.Inc()
		return cloneCandidates(cached), nil
	}
	c.misses.Add(1)
	metrics.NeighborCacheMisses.Inc()

	result, err := c.Store.NearestNeighbors(ctx, query, vocabulary, topN)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cloneCandidates(result))
	return result, nil
}

// Stats returns the hit and miss counters
func (c *CachedStore) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the number of cached queries
func (c *CachedStore) Size() int {
	return c.cache.Len()
}

// ComputeHash returns the SHA-256 hex digest identifying a neighbour query
func ComputeHash(vocabulary types.Vocabulary, topN int, query types.Vector) string {
	h := sha256.New()
	h.Write([]byte(vocabulary))
	h.Write([]byte{0})

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(topN)))
	h.Write(buf[:])

	for _, v := range query {
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(v))
		h.Write(buf[:4])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func cloneCandidates(in []types.Candidate) []types.Candidate {
	out := make([]types.Candidate, len(in))
	copy(out, in)
	return out
}
