package snapshot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/skillspace-mcp/internal/embedding"
	"github.com/dshills/skillspace-mcp/internal/metrics"
	"github.com/dshills/skillspace-mcp/internal/storage"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

// Snapshot is the immutable, process-wide view of the imported data.
// Nothing in a Snapshot is modified after Load returns.
type Snapshot struct {
	Projects types.ProjectIndex

	// Languages holds every language tag observed across projects, sorted
	Languages []string

	// Activity maps canonical offset keys to their ordered buckets
	Activity map[string][]types.ActivityEntry

	Store    embedding.Store
	LoadedAt time.Time
}

// LoadOptions tunes Load
type LoadOptions struct {
	// NeighborCacheSize enables a neighbour query cache when positive
	NeighborCacheSize int
}

// Load reads every table of st concurrently and builds a Snapshot
func Load(ctx context.Context, st storage.Storage, opts LoadOptions) (*Snapshot, error) {
	start := time.Now()

	var (
		anchors, tokens []*storage.VectorRecord
		projects        []*storage.Project
		activity        map[string][]types.ActivityEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		anchors, err = st.ListAnchors(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tokens, err = st.ListTokens(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = st.ListProjects(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		activity, err = st.ListActivity(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if len(anchors) == 0 {
		return nil, embedding.ErrEmptySpace
	}
	dim := anchors[0].Dimension

	space, err := embedding.NewSpace(dim, toEntries(anchors), toEntries(tokens))
	if err != nil {
		return nil, fmt.Errorf("failed to build skill space: %w", err)
	}

	var store embedding.Store = space
	if opts.NeighborCacheSize > 0 {
		store = embedding.NewCachedStore(space, opts.NeighborCacheSize)
	}

	index := make(types.ProjectIndex, len(projects))
	langSet := make(map[string]struct{})
	for _, p := range projects {
		tp := p.ToTypesProject()
		index[tp.ID] = tp
		for l := range tp.Languages {
			langSet[l] = struct{}{}
		}
	}
	langs := make([]string, 0, len(langSet))
	for l := range langSet {
		langs = append(langs, l)
	}
	sort.Strings(langs)

	snap := &Snapshot{
		Projects:  index,
		Languages: langs,
		Activity:  activity,
		Store:     store,
		LoadedAt:  time.Now(),
	}
	metrics.RecordSnapshot(space.AnchorCount(), space.TokenCount(), len(index), len(activity), time.Since(start))
	return snap, nil
}

func toEntries(records []*storage.VectorRecord) []embedding.Entry {
	entries := make([]embedding.Entry, len(records))
	for i, r := range records {
		entries[i] = embedding.Entry{Key: r.Key, Vector: r.Vector}
	}
	return entries
}

// HasLanguage reports whether tag occurs in at least one project
func (s *Snapshot) HasLanguage(tag string) bool {
	i := sort.SearchStrings(s.Languages, tag)
	return i < len(s.Languages) && s.Languages[i] == tag
}

// Timezones returns the offsets of the activity dataset, west to east
func (s *Snapshot) Timezones() []float64 {
	offsets := make([]float64, 0, len(s.Activity))
	for key := range s.Activity {
		if hours, err := strconv.ParseFloat(key, 64); err == nil {
			offsets = append(offsets, hours)
		}
	}
	sort.Float64s(offsets)
	return offsets
}
