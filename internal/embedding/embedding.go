package embedding

import (
	"context"
	"errors"

	"github.com/dshills/skillspace-mcp/pkg/types"
)

// Common errors
var (
	ErrUnknownVocabulary = errors.New("unknown vocabulary")
	ErrEmptySpace        = errors.New("skill space has no vectors")
	ErrInvalidDimension  = errors.New("invalid vector dimension")
)

// Store is the read-only view of the pretrained skill space
type Store interface {
	// AnchorVector returns the vector of a language, project or developer key
	AnchorVector(key string) (types.Vector, bool)

	// TokenVector returns the vector of an API or package name (exact match)
	TokenVector(token string) (types.Vector, bool)

	// NearestNeighbors returns at most topN keys of the vocabulary ordered by
	// descending cosine similarity to query. Ties keep vocabulary order.
	NearestNeighbors(ctx context.Context, query types.Vector, vocabulary types.Vocabulary, topN int) ([]types.Candidate, error)

	// Dimension returns the width of every vector in the space
	Dimension() int
}

// Entry is one key/vector pair used to build a Space
type Entry struct {
	Key    string
	Vector types.Vector
}
