// Package snapshot imports the exported skill space artifacts into storage
// and loads them back as an immutable, process-wide Snapshot.
//
// # Artifacts
//
// Three files, optionally gzip-compressed:
//
//   - project metadata: {"<project id>": {"NumStars": 10, "NumForks": 2,
//     "NumAuthors": 5, "female_pct": 12.5, "FileInfo": {"Go": 31},
//     "Core": {"dev <dev@x.org>": 1}}, "langs": [...]}
//   - embeddings: {"dimension": 200, "anchors": [{"key": "Go",
//     "vector": [...]}], "tokens": [...]}
//   - timezone activity: {"5.5": [["github.com/org/repo", {"all": 12}]]}
//
// The top-level "langs" entry of the metadata is a summary and is ignored;
// the language set is derived from the projects themselves.
//
// # Loading
//
// The model is large, so it is loaded once per process:
//
//	provider := snapshot.NewProvider(store, snapshot.LoadOptions{NeighborCacheSize: 1024})
//	snap, err := provider.Get(ctx) // loads
//	snap, err = provider.Get(ctx)  // reuses
package snapshot
