package storage

import (
	"context"
	"time"

	"github.com/dshills/skillspace-mcp/pkg/types"
)

// Storage defines the interface for persisting and reading the skill space snapshot
type Storage interface {
	// Anchor operations (languages, projects, developers)
	UpsertAnchor(ctx context.Context, anchor *VectorRecord) error
	ListAnchors(ctx context.Context) ([]*VectorRecord, error)

	// Token operations (APIs, packages)
	UpsertToken(ctx context.Context, token *VectorRecord) error
	ListTokens(ctx context.Context) ([]*VectorRecord, error)

	// Project operations
	UpsertProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)

	// Timezone activity operations
	ReplaceActivity(ctx context.Context, offsetKey string, entries []types.ActivityEntry) error
	ListActivity(ctx context.Context) (map[string][]types.ActivityEntry, error)

	// Status operations
	GetStatus(ctx context.Context) (*SnapshotStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// VectorRecord is one row of the anchor or token vocabulary.
// Position preserves the export order, which breaks similarity ties.
type VectorRecord struct {
	Key       string
	Position  int
	Vector    []float32
	Dimension int
}

// Project is the persisted form of a project metadata record
type Project struct {
	ID             string
	Stars          int
	Forks          int
	Contributors   int
	FemalePct      float64
	Languages      []string
	CoreDevelopers []string
	UpdatedAt      time.Time
}

// SnapshotStatus contains statistics about the stored snapshot
type SnapshotStatus struct {
	AnchorsCount   int          `json:"anchors_count"`
	TokensCount    int          `json:"tokens_count"`
	ProjectsCount  int          `json:"projects_count"`
	LanguagesCount int          `json:"languages_count"`
	TimezoneCount  int          `json:"timezone_count"`
	Dimension      int          `json:"dimension"`
	SchemaVersion  string       `json:"schema_version"`
	SizeMB         float64      `json:"size_mb"`
	Health         HealthStatus `json:"health"`
}

// HealthStatus represents the health of the snapshot
type HealthStatus struct {
	DatabaseAccessible bool `json:"database_accessible"`
	EmbeddingsLoaded   bool `json:"embeddings_loaded"`
	ProjectsLoaded     bool `json:"projects_loaded"`
}

// ToTypesProject converts a storage Project to types.Project
func (p *Project) ToTypesProject() *types.Project {
	langs := make(map[string]struct{}, len(p.Languages))
	for _, l := range p.Languages {
		langs[l] = struct{}{}
	}
	cores := make([]string, len(p.CoreDevelopers))
	copy(cores, p.CoreDevelopers)

	return &types.Project{
		ID:             p.ID,
		Stars:          p.Stars,
		Forks:          p.Forks,
		Contributors:   p.Contributors,
		FemalePct:      p.FemalePct,
		Languages:      langs,
		CoreDevelopers: cores,
	}
}
