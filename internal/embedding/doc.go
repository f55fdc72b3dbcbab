// Package embedding holds the pretrained skill space used by the recommenders.
//
// Languages, projects and developers live in the anchor vocabulary; APIs and
// packages live in the token vocabulary. Both share one coordinate system, so
// a contributor profile is the plain sum of its anchor and token vectors.
//
// # Basic Usage
//
//	space, err := embedding.NewSpace(200, anchors, tokens)
//	if err != nil {
//	    return err
//	}
//
//	goVec, ok := space.AnchorVector("Go")
//	neighbours, err := space.NearestNeighbors(ctx, goVec, types.VocabularyAnchors, 1000)
//
// NearestNeighbors is exhaustive: every vocabulary entry is scored and the
// result is stable-sorted, so equal similarities keep vocabulary order.
//
// # Caching
//
// CachedStore keeps recent neighbour queries in an LRU keyed by a SHA-256 of
// the vocabulary, the result size and the query bytes:
//
//	store := embedding.NewCachedStore(space, 1024)
//	hits, misses := store.Stats()
package embedding
