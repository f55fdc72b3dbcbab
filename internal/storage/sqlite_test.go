package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dshills/skillspace-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	assert.NotNil(t, storage.db)

	status, err := storage.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, status.SchemaVersion)
	assert.True(t, status.Health.DatabaseAccessible)
	assert.False(t, status.Health.EmbeddingsLoaded)
	assert.False(t, status.Health.ProjectsLoaded)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	ctx := context.Background()

	first, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, first.UpsertAnchor(ctx, &VectorRecord{Key: "Go", Vector: []float32{1, 2}}))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer second.Close()

	anchors, err := second.ListAnchors(ctx)
	require.NoError(t, err)
	require.Len(t, anchors, 1)
	assert.Equal(t, []float32{1, 2}, anchors[0].Vector)
}

func TestUpsertAndListAnchors(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, storage.UpsertAnchor(ctx, &VectorRecord{Key: "golang_go", Position: 1, Vector: []float32{0, 1, 0}}))
	require.NoError(t, storage.UpsertAnchor(ctx, &VectorRecord{Key: "Go", Position: 0, Vector: []float32{1, 0, 0}}))

	anchors, err := storage.ListAnchors(ctx)
	require.NoError(t, err)
	require.Len(t, anchors, 2)
	assert.Equal(t, "Go", anchors[0].Key, "ordered by export position")
	assert.Equal(t, 3, anchors[0].Dimension)
	assert.Equal(t, []float32{0, 1, 0}, anchors[1].Vector)

	// Upsert replaces the vector in place
	require.NoError(t, storage.UpsertAnchor(ctx, &VectorRecord{Key: "Go", Position: 0, Vector: []float32{0.5, 0.5, 0}}))
	anchors, err = storage.ListAnchors(ctx)
	require.NoError(t, err)
	require.Len(t, anchors, 2)
	assert.Equal(t, []float32{0.5, 0.5, 0}, anchors[0].Vector)
}

func TestUpsertVectorValidation(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	err := storage.UpsertToken(ctx, &VectorRecord{Vector: []float32{1}})
	assert.ErrorIs(t, err, ErrEmptyKey)

	err = storage.UpsertToken(ctx, &VectorRecord{Key: "libA", Dimension: 3, Vector: []float32{1}})
	assert.Error(t, err)
}

func TestUpsertAndListTokens(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, storage.UpsertToken(ctx, &VectorRecord{Key: "libA", Position: 0, Vector: []float32{1, 0}}))
	require.NoError(t, storage.UpsertToken(ctx, &VectorRecord{Key: "libB", Position: 1, Vector: []float32{0, 1}}))

	tokens, err := storage.ListTokens(ctx)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "libA", tokens[0].Key)
	assert.Equal(t, "libB", tokens[1].Key)
}

func TestProjects(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := &Project{
		ID:             "org_repo",
		Stars:          120,
		Forks:          7,
		Contributors:   5,
		FemalePct:      12.5,
		Languages:      []string{"PY", "Go"},
		CoreDevelopers: []string{"z <z@x.org>", "a <a@x.org>"},
	}
	require.NoError(t, storage.UpsertProject(ctx, project))
	assert.False(t, project.UpdatedAt.IsZero())

	got, err := storage.GetProject(ctx, "org_repo")
	require.NoError(t, err)
	assert.Equal(t, 120, got.Stars)
	assert.Equal(t, 12.5, got.FemalePct)
	assert.ElementsMatch(t, []string{"PY", "Go"}, got.Languages)
	assert.Equal(t, []string{"z <z@x.org>", "a <a@x.org>"}, got.CoreDevelopers, "core developer order is preserved")

	// Replacing drops stale languages and developers
	project.Languages = []string{"Rust"}
	project.CoreDevelopers = nil
	project.Stars = 130
	require.NoError(t, storage.UpsertProject(ctx, project))

	got, err = storage.GetProject(ctx, "org_repo")
	require.NoError(t, err)
	assert.Equal(t, 130, got.Stars)
	assert.Equal(t, []string{"Rust"}, got.Languages)
	assert.Empty(t, got.CoreDevelopers)

	_, err = storage.GetProject(ctx, "missing_repo")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProjects(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, storage.UpsertProject(ctx, &Project{ID: "b_two", Languages: []string{"Go"}, CoreDevelopers: []string{"d1"}}))
	require.NoError(t, storage.UpsertProject(ctx, &Project{ID: "a_one", Languages: []string{"PY"}}))

	projects, err := storage.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "a_one", projects[0].ID)
	assert.Equal(t, []string{"PY"}, projects[0].Languages)
	assert.Equal(t, "b_two", projects[1].ID)
	assert.Equal(t, []string{"d1"}, projects[1].CoreDevelopers)

	converted := projects[1].ToTypesProject()
	assert.True(t, converted.HasLanguage("Go"))
	assert.False(t, converted.HasLanguage("PY"))
}

func TestActivity(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	entries := []types.ActivityEntry{
		{ProjectPath: "github.com/b/two", ActiveDevelopers: 3},
		{ProjectPath: "github.com/a/one", ActiveDevelopers: 9},
	}
	require.NoError(t, storage.ReplaceActivity(ctx, "5.5", entries))
	require.NoError(t, storage.ReplaceActivity(ctx, "0", []types.ActivityEntry{{ProjectPath: "gitlab.com/g/r/x", ActiveDevelopers: 1}}))

	activity, err := storage.ListActivity(ctx)
	require.NoError(t, err)
	assert.Len(t, activity, 2)
	assert.Equal(t, entries, activity["5.5"], "export order is preserved")

	require.NoError(t, storage.ReplaceActivity(ctx, "5.5", entries[:1]))
	activity, err = storage.ListActivity(ctx)
	require.NoError(t, err)
	assert.Len(t, activity["5.5"], 1)

	assert.ErrorIs(t, storage.ReplaceActivity(ctx, "", entries), ErrEmptyKey)
}

func TestGetStatus(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, storage.UpsertAnchor(ctx, &VectorRecord{Key: "Go", Vector: []float32{1, 0, 0, 0}}))
	require.NoError(t, storage.UpsertToken(ctx, &VectorRecord{Key: "libA", Vector: []float32{0, 1, 0, 0}}))
	require.NoError(t, storage.UpsertProject(ctx, &Project{ID: "a_one", Languages: []string{"Go", "PY"}}))
	require.NoError(t, storage.UpsertProject(ctx, &Project{ID: "b_two", Languages: []string{"Go"}}))
	require.NoError(t, storage.ReplaceActivity(ctx, "0", []types.ActivityEntry{{ProjectPath: "github.com/a/one"}}))

	status, err := storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.AnchorsCount)
	assert.Equal(t, 1, status.TokensCount)
	assert.Equal(t, 2, status.ProjectsCount)
	assert.Equal(t, 2, status.LanguagesCount)
	assert.Equal(t, 1, status.TimezoneCount)
	assert.Equal(t, 4, status.Dimension)
	assert.True(t, status.Health.EmbeddingsLoaded)
	assert.True(t, status.Health.ProjectsLoaded)
	assert.Greater(t, status.SizeMB, 0.0)
}

func TestTransaction(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpsertProject(ctx, &Project{ID: "a_one"}))
	require.NoError(t, tx.Rollback())

	_, err = storage.GetProject(ctx, "a_one")
	assert.ErrorIs(t, err, ErrNotFound)

	tx, err = storage.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpsertProject(ctx, &Project{ID: "a_one", Stars: 2}))
	require.NoError(t, tx.UpsertAnchor(ctx, &VectorRecord{Key: "Go", Vector: []float32{1}}))

	// Reads inside the transaction see its own writes
	got, err := tx.GetProject(ctx, "a_one")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stars)

	_, err = tx.BeginTx(ctx)
	assert.Error(t, err, "nested transactions are rejected")
	require.NoError(t, tx.Commit())

	anchors, err := storage.ListAnchors(ctx)
	require.NoError(t, err)
	assert.Len(t, anchors, 1)
}
