package embedding

import (
	"context"
	"fmt"
	"sort"

	"github.com/dshills/skillspace-mcp/pkg/types"
)

// ctxCheckInterval is how many vocabulary entries are scored between
// cancellation checks
const ctxCheckInterval = 4096

// vocabulary keeps keys in insertion order with precomputed norms
type vocabulary struct {
	keys    []string
	vectors []types.Vector
	norms   []float64
	index   map[string]int
}

func newVocabulary(dim int, entries []Entry) (*vocabulary, error) {
	v := &vocabulary{
		keys:    make([]string, 0, len(entries)),
		vectors: make([]types.Vector, 0, len(entries)),
		norms:   make([]float64, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if len(e.Vector) != dim {
			return nil, fmt.Errorf("%w: %q has %d values, expected %d", ErrInvalidDimension, e.Key, len(e.Vector), dim)
		}
		vec := e.Vector.Clone()
		// A repeated key keeps its first position and takes the latest vector
		if i, ok := v.index[e.Key]; ok {
			v.vectors[i] = vec
			v.norms[i] = vec.Norm()
			continue
		}
		v.index[e.Key] = len(v.keys)
		v.keys = append(v.keys, e.Key)
		v.vectors = append(v.vectors, vec)
		v.norms = append(v.norms, vec.Norm())
	}
	return v, nil
}

func (v *vocabulary) lookup(key string) (types.Vector, bool) {
	i, ok := v.index[key]
	if !ok {
		return nil, false
	}
	return v.vectors[i].Clone(), true
}

// Space is the in-memory skill space. It is never mutated after NewSpace
// returns, so it is safe for concurrent use.
type Space struct {
	dim     int
	anchors *vocabulary
	tokens  *vocabulary
}

// NewSpace builds a space from anchor and token entries. Entries are copied.
func NewSpace(dim int, anchors, tokens []Entry) (*Space, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	a, err := newVocabulary(dim, anchors)
	if err != nil {
		return nil, fmt.Errorf("anchors: %w", err)
	}
	t, err := newVocabulary(dim, tokens)
	if err != nil {
		return nil, fmt.Errorf("tokens: %w", err)
	}
	return &Space{dim: dim, anchors: a, tokens: t}, nil
}

// Dimension returns the vector width
func (s *Space) Dimension() int {
	return s.dim
}

// AnchorVector returns a copy of the anchor vector for key
func (s *Space) AnchorVector(key string) (types.Vector, bool) {
	return s.anchors.lookup(key)
}

// TokenVector returns a copy of the token vector for token
func (s *Space) TokenVector(token string) (types.Vector, bool) {
	return s.tokens.lookup(token)
}

// AnchorCount returns the number of anchor keys
func (s *Space) AnchorCount() int {
	return len(s.anchors.keys)
}

// TokenCount returns the number of token keys
func (s *Space) TokenCount() int {
	return len(s.tokens.keys)
}

func (s *Space) vocabulary(name types.Vocabulary) (*vocabulary, error) {
	switch name {
	case types.VocabularyAnchors:
		return s.anchors, nil
	case types.VocabularyTokens:
		return s.tokens, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVocabulary, name)
	}
}

// NearestNeighbors scores every entry of the vocabulary by cosine similarity.
// Entries with a zero-length vector have no defined similarity and are skipped.
func (s *Space) NearestNeighbors(ctx context.Context, query types.Vector, name types.Vocabulary, topN int) ([]types.Candidate, error) {
	vocab, err := s.vocabulary(name)
	if err != nil {
		return nil, err
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("%w: query has %d values, space has %d", types.ErrDimensionMismatch, len(query), s.dim)
	}
	qNorm := query.Norm()
	if qNorm == 0 {
		return nil, types.ErrUndefinedSimilarity
	}
	if topN <= 0 {
		return []types.Candidate{}, nil
	}

	scored := make([]types.Candidate, 0, len(vocab.keys))
	for i, vec := range vocab.vectors {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if vocab.norms[i] == 0 {
			continue
		}
		scored = append(scored, types.Candidate{
			Key:   vocab.keys[i],
			Score: query.Dot(vec) / (qNorm * vocab.norms[i]),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topN {
		scored = scored[:topN]
	}
	return scored, nil
}
