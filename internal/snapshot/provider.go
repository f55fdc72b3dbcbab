package snapshot

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/dshills/skillspace-mcp/internal/embedding"
	"github.com/dshills/skillspace-mcp/internal/logging"
	"github.com/dshills/skillspace-mcp/internal/storage"
)

// Provider loads the snapshot once and hands the same instance to every
// request. Concurrent first calls share a single load.
type Provider struct {
	storage storage.Storage
	opts    LoadOptions
	group   singleflight.Group
	log     zerolog.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// NewProvider creates a provider over st
func NewProvider(st storage.Storage, opts LoadOptions) *Provider {
	return &Provider{
		storage: st,
		opts:    opts,
		log:     logging.Component("snapshot"),
	}
}

// Get returns the loaded snapshot, loading it on first use.
// Failed loads are not memoized.
func (p *Provider) Get(ctx context.Context) (*Snapshot, error) {
	p.mu.RLock()
	snap := p.snap
	p.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	// The shared load outlives the caller that started it; each caller
	// stops waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan("snapshot", func() (interface{}, error) {
		p.mu.RLock()
		cached := p.snap
		p.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		loaded, err := Load(loadCtx, p.storage, p.opts)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.snap = loaded
		p.mu.Unlock()

		p.log.Info().
			Int("projects", len(loaded.Projects)).
			Int("languages", len(loaded.Languages)).
			Int("timezones", len(loaded.Activity)).
			Msg("snapshot loaded")
		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			p.log.Debug().Msg("joined in-flight snapshot load")
		}
		return res.Val.(*Snapshot), nil
	}
}

// Loaded reports whether a snapshot is memoized
func (p *Provider) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap != nil
}

// Invalidate drops the memoized snapshot so the next Get reloads it,
// e.g. after an import
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.snap = nil
	p.mu.Unlock()
}

// Reload drops the memoized snapshot and loads the current database contents
func (p *Provider) Reload(ctx context.Context) (*Snapshot, error) {
	p.Invalidate()
	return p.Get(ctx)
}

// CacheStats reports the neighbour query cache of the loaded snapshot
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// CacheStats returns the neighbour cache counters. It reports false when no
// snapshot is loaded or the cache is disabled; it never triggers a load.
func (p *Provider) CacheStats() (CacheStats, bool) {
	p.mu.RLock()
	snap := p.snap
	p.mu.RUnlock()
	if snap == nil {
		return CacheStats{}, false
	}
	cached, ok := snap.Store.(*embedding.CachedStore)
	if !ok {
		return CacheStats{}, false
	}
	hits, misses := cached.Stats()
	return CacheStats{Hits: hits, Misses: misses, Entries: cached.Size()}, true
}
