// Package types provides shared type definitions for the skillspace server.
//
// This package defines the domain types used across the embedding store, the
// recommendation pipelines and the transports: vectors, candidates, project
// records and the result rows handed to callers.
//
// # Vectors
//
// Vector is a point in the pretrained skill space. Language, project and
// developer anchors share a coordinate system with API tokens, so a query is
// built by plain addition:
//
//	q := types.NewVector(types.DefaultDimension)
//	_ = q.Add(goAnchor)
//	_ = q.Add(grpcToken)
//
// Cosine returns ErrUndefinedSimilarity for zero-length vectors instead of
// dividing by zero.
//
// # Identifiers
//
// Project identifiers join organization and repository with an underscore
// ("golang_go"). The join is lossy when the segments contain underscores
// themselves; IsProjectKey only checks the shape of a key.
//
//	types.IsProjectKey("golang_go")        // true
//	types.IsProjectKey("Go")               // false, a language anchor
//	types.IsResolvableDeveloper("bot")     // false, placeholder identity
//
// # Result Rows
//
// ProjectRow, MentorRow and APIRow carry raw values plus text helpers that
// format similarities with two decimals and percentages with a "%" suffix.
package types
