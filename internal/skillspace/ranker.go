package skillspace

import (
	"context"

	"github.com/dshills/skillspace-mcp/internal/embedding"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

const (
	// ProjectSearchBreadth is how many anchor neighbours are examined for a
	// project recommendation, independent of the requested result count.
	// Under-filled results are returned as is; the search is never widened.
	ProjectSearchBreadth = 1000

	// MaxSimilarAPIs bounds the API recommendation of a transfer request
	MaxSimilarAPIs = 20
)

// Ranker runs nearest-neighbour queries against the skill space
type Ranker struct {
	store   embedding.Store
	breadth int
}

// NewRanker creates a ranker. A non-positive breadth falls back to
// ProjectSearchBreadth.
func NewRanker(store embedding.Store, breadth int) *Ranker {
	if breadth <= 0 {
		breadth = ProjectSearchBreadth
	}
	return &Ranker{store: store, breadth: breadth}
}

// RankBySimilarity returns up to topN keys of vocabulary most similar to query
func (r *Ranker) RankBySimilarity(ctx context.Context, query types.Vector, vocabulary types.Vocabulary, topN int) ([]types.Candidate, error) {
	return r.store.NearestNeighbors(ctx, query, vocabulary, topN)
}

// ProjectCandidates ranks the anchor vocabulary with the configured breadth.
// The result still contains languages and developers; the pipeline filters
// them out.
func (r *Ranker) ProjectCandidates(ctx context.Context, query types.Vector) ([]types.Candidate, error) {
	return r.RankBySimilarity(ctx, query, types.VocabularyAnchors, r.breadth)
}

// SimilarAPIs returns the n tokens closest to query
func (r *Ranker) SimilarAPIs(ctx context.Context, query types.Vector, n int) ([]types.APIRow, error) {
	if n <= 0 {
		return nil, nil
	}
	if n > MaxSimilarAPIs {
		n = MaxSimilarAPIs
	}
	candidates, err := r.RankBySimilarity(ctx, query, types.VocabularyTokens, n)
	if err != nil {
		return nil, err
	}
	rows := make([]types.APIRow, len(candidates))
	for i, c := range candidates {
		rows[i] = types.APIRow{API: c.Key, Similarity: c.Score}
	}
	return rows, nil
}
