package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/skillspace-mcp/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyKey is returned when a vector record or project has no identifier
	ErrEmptyKey = errors.New("empty key")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Vector vocabulary operations

func upsertVectorWithQuerier(ctx context.Context, q querier, table, keyColumn string, rec *VectorRecord) error {
	if rec.Key == "" {
		return fmt.Errorf("%s: %w", table, ErrEmptyKey)
	}
	dim := rec.Dimension
	if dim == 0 {
		dim = len(rec.Vector)
	}
	if dim != len(rec.Vector) {
		return fmt.Errorf("%s %q: declared dimension %d, got %d values", table, rec.Key, dim, len(rec.Vector))
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, position, dimension, vector)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(%s) DO UPDATE SET
			position = excluded.position,
			dimension = excluded.dimension,
			vector = excluded.vector
	`, table, keyColumn, keyColumn)

	if _, err := q.ExecContext(ctx, query, rec.Key, rec.Position, dim, serializeVector(rec.Vector)); err != nil {
		return fmt.Errorf("failed to upsert %s %q: %w", table, rec.Key, err)
	}
	rec.Dimension = dim
	return nil
}

func listVectorsWithQuerier(ctx context.Context, q querier, table, keyColumn string) ([]*VectorRecord, error) {
	query := fmt.Sprintf(`SELECT %s, position, dimension, vector FROM %s ORDER BY position, %s`, keyColumn, table, keyColumn)
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var records []*VectorRecord
	for rows.Next() {
		rec := &VectorRecord{}
		var blob []byte
		if err := rows.Scan(&rec.Key, &rec.Position, &rec.Dimension, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		rec.Vector = deserializeVector(blob)
		if len(rec.Vector) != rec.Dimension {
			return nil, fmt.Errorf("%s %q: corrupt vector blob (%d values, dimension %d)", table, rec.Key, len(rec.Vector), rec.Dimension)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStorage) UpsertAnchor(ctx context.Context, anchor *VectorRecord) error {
	return upsertVectorWithQuerier(ctx, s.querier(), "anchors", "key", anchor)
}

func (s *SQLiteStorage) ListAnchors(ctx context.Context) ([]*VectorRecord, error) {
	return listVectorsWithQuerier(ctx, s.querier(), "anchors", "key")
}

func (s *SQLiteStorage) UpsertToken(ctx context.Context, token *VectorRecord) error {
	return upsertVectorWithQuerier(ctx, s.querier(), "tokens", "name", token)
}

func (s *SQLiteStorage) ListTokens(ctx context.Context) ([]*VectorRecord, error) {
	return listVectorsWithQuerier(ctx, s.querier(), "tokens", "name")
}

// Project operations

// upsertProjectWithQuerier writes the project row and replaces its language
// tags and ordered core developer list.
func (s *SQLiteStorage) upsertProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	if project.ID == "" {
		return fmt.Errorf("project: %w", ErrEmptyKey)
	}

	now := time.Now()
	query := `
		INSERT INTO projects (id, stars, forks, contributors, female_pct, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			stars = excluded.stars,
			forks = excluded.forks,
			contributors = excluded.contributors,
			female_pct = excluded.female_pct,
			updated_at = excluded.updated_at
	`
	if _, err := q.ExecContext(ctx, query,
		project.ID, project.Stars, project.Forks, project.Contributors,
		project.FemalePct, now); err != nil {
		return fmt.Errorf("failed to upsert project %q: %w", project.ID, err)
	}

	if _, err := q.ExecContext(ctx, "DELETE FROM project_languages WHERE project_id = ?", project.ID); err != nil {
		return fmt.Errorf("failed to clear languages for %q: %w", project.ID, err)
	}
	for _, lang := range project.Languages {
		if _, err := q.ExecContext(ctx,
			"INSERT OR IGNORE INTO project_languages (project_id, language) VALUES (?, ?)",
			project.ID, lang); err != nil {
			return fmt.Errorf("failed to store language %q for %q: %w", lang, project.ID, err)
		}
	}

	if _, err := q.ExecContext(ctx, "DELETE FROM project_core_developers WHERE project_id = ?", project.ID); err != nil {
		return fmt.Errorf("failed to clear core developers for %q: %w", project.ID, err)
	}
	for i, dev := range project.CoreDevelopers {
		if _, err := q.ExecContext(ctx,
			"INSERT OR IGNORE INTO project_core_developers (project_id, position, developer) VALUES (?, ?, ?)",
			project.ID, i, dev); err != nil {
			return fmt.Errorf("failed to store core developer for %q: %w", project.ID, err)
		}
	}

	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertProject(ctx context.Context, project *Project) error {
	return s.upsertProjectWithQuerier(ctx, s.querier(), project)
}

func (s *SQLiteStorage) getProjectWithQuerier(ctx context.Context, q querier, id string) (*Project, error) {
	project := &Project{}
	err := q.QueryRowContext(ctx, `
		SELECT id, stars, forks, contributors, female_pct, updated_at
		FROM projects WHERE id = ?
	`, id).Scan(&project.ID, &project.Stars, &project.Forks, &project.Contributors,
		&project.FemalePct, &project.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %q: %w", id, err)
	}

	byID := map[string]*Project{project.ID: project}
	if err := loadProjectLanguages(ctx, q, byID, id); err != nil {
		return nil, err
	}
	if err := loadProjectCoreDevelopers(ctx, q, byID, id); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *SQLiteStorage) GetProject(ctx context.Context, id string) (*Project, error) {
	return s.getProjectWithQuerier(ctx, s.querier(), id)
}

func (s *SQLiteStorage) listProjectsWithQuerier(ctx context.Context, q querier) ([]*Project, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, stars, forks, contributors, female_pct, updated_at
		FROM projects ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var projects []*Project
	byID := make(map[string]*Project)
	for rows.Next() {
		p := &Project{}
		if err := rows.Scan(&p.ID, &p.Stars, &p.Forks, &p.Contributors, &p.FemalePct, &p.UpdatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// Single connection pool: release the cursor before issuing the next query
	_ = rows.Close()

	if err := loadProjectLanguages(ctx, q, byID, ""); err != nil {
		return nil, err
	}
	if err := loadProjectCoreDevelopers(ctx, q, byID, ""); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *SQLiteStorage) ListProjects(ctx context.Context) ([]*Project, error) {
	return s.listProjectsWithQuerier(ctx, s.querier())
}

// loadProjectLanguages fills Languages for the given projects; an empty id loads all
func loadProjectLanguages(ctx context.Context, q querier, byID map[string]*Project, id string) error {
	query := "SELECT project_id, language FROM project_languages"
	var args []interface{}
	if id != "" {
		query += " WHERE project_id = ?"
		args = append(args, id)
	}
	query += " ORDER BY project_id, language"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load project languages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var pid, lang string
		if err := rows.Scan(&pid, &lang); err != nil {
			return fmt.Errorf("failed to scan project language: %w", err)
		}
		if p, ok := byID[pid]; ok {
			p.Languages = append(p.Languages, lang)
		}
	}
	return rows.Err()
}

// loadProjectCoreDevelopers fills CoreDevelopers in stored order; an empty id loads all
func loadProjectCoreDevelopers(ctx context.Context, q querier, byID map[string]*Project, id string) error {
	query := "SELECT project_id, developer FROM project_core_developers"
	var args []interface{}
	if id != "" {
		query += " WHERE project_id = ?"
		args = append(args, id)
	}
	query += " ORDER BY project_id, position"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load core developers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var pid, dev string
		if err := rows.Scan(&pid, &dev); err != nil {
			return fmt.Errorf("failed to scan core developer: %w", err)
		}
		if p, ok := byID[pid]; ok {
			p.CoreDevelopers = append(p.CoreDevelopers, dev)
		}
	}
	return rows.Err()
}

// Timezone activity operations

func (s *SQLiteStorage) replaceActivityWithQuerier(ctx context.Context, q querier, offsetKey string, entries []types.ActivityEntry) error {
	if offsetKey == "" {
		return fmt.Errorf("timezone activity: %w", ErrEmptyKey)
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM timezone_activity WHERE offset_key = ?", offsetKey); err != nil {
		return fmt.Errorf("failed to clear activity for %s: %w", offsetKey, err)
	}
	for i, e := range entries {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO timezone_activity (offset_key, position, project_path, active_developers)
			VALUES (?, ?, ?, ?)
		`, offsetKey, i, e.ProjectPath, e.ActiveDevelopers); err != nil {
			return fmt.Errorf("failed to store activity for %s: %w", offsetKey, err)
		}
	}
	return nil
}

func (s *SQLiteStorage) ReplaceActivity(ctx context.Context, offsetKey string, entries []types.ActivityEntry) error {
	return s.replaceActivityWithQuerier(ctx, s.querier(), offsetKey, entries)
}

func (s *SQLiteStorage) listActivityWithQuerier(ctx context.Context, q querier) (map[string][]types.ActivityEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT offset_key, project_path, active_developers
		FROM timezone_activity ORDER BY offset_key, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list timezone activity: %w", err)
	}
	defer func() { _ = rows.Close() }()

	activity := make(map[string][]types.ActivityEntry)
	for rows.Next() {
		var key string
		var e types.ActivityEntry
		if err := rows.Scan(&key, &e.ProjectPath, &e.ActiveDevelopers); err != nil {
			return nil, fmt.Errorf("failed to scan timezone activity: %w", err)
		}
		activity[key] = append(activity[key], e)
	}
	return activity, rows.Err()
}

func (s *SQLiteStorage) ListActivity(ctx context.Context) (map[string][]types.ActivityEntry, error) {
	return s.listActivityWithQuerier(ctx, s.querier())
}

// Status operations

func (s *SQLiteStorage) getStatusWithQuerier(ctx context.Context, q querier) (*SnapshotStatus, error) {
	status := &SnapshotStatus{}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM anchors", &status.AnchorsCount},
		{"SELECT COUNT(*) FROM tokens", &status.TokensCount},
		{"SELECT COUNT(*) FROM projects", &status.ProjectsCount},
		{"SELECT COUNT(DISTINCT language) FROM project_languages", &status.LanguagesCount},
		{"SELECT COUNT(DISTINCT offset_key) FROM timezone_activity", &status.TimezoneCount},
	}
	for _, c := range counts {
		if err := q.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to read snapshot status: %w", err)
		}
	}

	var dim sql.NullInt64
	if err := q.QueryRowContext(ctx, "SELECT MAX(dimension) FROM anchors").Scan(&dim); err != nil {
		return nil, fmt.Errorf("failed to read vector dimension: %w", err)
	}
	status.Dimension = int(dim.Int64)

	version, err := currentSchemaVersion(ctx, q)
	if err != nil {
		return nil, err
	}
	status.SchemaVersion = version.String()

	// Calculate database size
	var pageCount, pageSize int
	err = q.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	if err == nil {
		_ = q.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.SizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	status.Health = HealthStatus{
		DatabaseAccessible: true,
		EmbeddingsLoaded:   status.AnchorsCount > 0 && status.TokensCount > 0,
		ProjectsLoaded:     status.ProjectsCount > 0,
	}

	return status, nil
}

func (s *SQLiteStorage) GetStatus(ctx context.Context) (*SnapshotStatus, error) {
	return s.getStatusWithQuerier(ctx, s.querier())
}

// Transaction methods delegate to the storage implementation with the tx querier

func (t *sqliteTx) UpsertAnchor(ctx context.Context, anchor *VectorRecord) error {
	return upsertVectorWithQuerier(ctx, t.querier(), "anchors", "key", anchor)
}

func (t *sqliteTx) ListAnchors(ctx context.Context) ([]*VectorRecord, error) {
	return listVectorsWithQuerier(ctx, t.querier(), "anchors", "key")
}

func (t *sqliteTx) UpsertToken(ctx context.Context, token *VectorRecord) error {
	return upsertVectorWithQuerier(ctx, t.querier(), "tokens", "name", token)
}

func (t *sqliteTx) ListTokens(ctx context.Context) ([]*VectorRecord, error) {
	return listVectorsWithQuerier(ctx, t.querier(), "tokens", "name")
}

func (t *sqliteTx) UpsertProject(ctx context.Context, project *Project) error {
	return t.storage.upsertProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) GetProject(ctx context.Context, id string) (*Project, error) {
	return t.storage.getProjectWithQuerier(ctx, t.querier(), id)
}

func (t *sqliteTx) ListProjects(ctx context.Context) ([]*Project, error) {
	return t.storage.listProjectsWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) ReplaceActivity(ctx context.Context, offsetKey string, entries []types.ActivityEntry) error {
	return t.storage.replaceActivityWithQuerier(ctx, t.querier(), offsetKey, entries)
}

func (t *sqliteTx) ListActivity(ctx context.Context) (map[string][]types.ActivityEntry, error) {
	return t.storage.listActivityWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) GetStatus(ctx context.Context) (*SnapshotStatus, error) {
	return t.storage.getStatusWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) Close() error {
	return fmt.Errorf("cannot close storage from within transaction")
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, fmt.Errorf("nested transactions not supported")
}
