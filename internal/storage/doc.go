// Package storage provides SQLite-based persistence for the skill space snapshot.
//
// The storage layer manages:
//   - Anchor vectors (languages, projects, developers)
//   - Token vectors (APIs and packages)
//   - Project metadata, language tags and ordered core developers
//   - Timezone activity buckets
//
// # Database Schema
//
// Tables:
//   - anchors: anchor key, export position and float32 vector blob
//   - tokens: token name, export position and float32 vector blob
//   - projects: stars, forks, contributors, female percentage
//   - project_languages: language tags per project
//   - project_core_developers: core developers per project, in export order
//   - timezone_activity: project paths per UTC offset key, in export order
//
// Vectors are stored as little-endian float32 blobs. Position columns keep
// the original export order, which the recommenders use to break ties.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.skillspace/snapshot.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	anchors, err := db.ListAnchors(ctx)
//	projects, err := db.ListProjects(ctx)
//
// # Transactions
//
// Imports write the whole snapshot in one transaction:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	_ = tx.UpsertAnchor(ctx, &storage.VectorRecord{Key: "Go", Vector: v})
//	_ = tx.UpsertProject(ctx, &storage.Project{ID: "golang_go", Stars: 100})
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Build Tags
//
// The default build uses modernc.org/sqlite and needs no C compiler:
//
//	CGO_ENABLED=0 go build ./...
//
// The cgosqlite tag switches to github.com/mattn/go-sqlite3:
//
//	CGO_ENABLED=1 go build -tags "cgosqlite" ./...
package storage
