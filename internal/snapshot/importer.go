package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/skillspace-mcp/internal/logging"
	"github.com/dshills/skillspace-mcp/internal/storage"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

var (
	// ErrImportInProgress is returned when another import holds the lock
	ErrImportInProgress = errors.New("import already in progress")
	// ErrNoSources is returned when Sources names no artifact
	ErrNoSources = errors.New("no snapshot artifacts given")
)

// DefaultBatchSize is the number of records committed per transaction
const DefaultBatchSize = 500

// Sources names the exported artifacts to import. Empty paths are skipped.
// Files ending in ".gz" are decompressed.
type Sources struct {
	Projects   string // project metadata, keyed by project identifier
	Embeddings string // anchor and token vectors
	Activity   string // timezone activity buckets
}

// Statistics contains statistics about the import operation
type Statistics struct {
	AnchorsImported  int
	TokensImported   int
	ProjectsImported int
	TimezonesLoaded  int
	EntriesSkipped   int
	Dimension        int
	Duration         time.Duration
}

// Importer loads exported artifacts into storage
type Importer struct {
	storage   storage.Storage
	batchSize int
	lock      ImportLock
	log       zerolog.Logger
}

// NewImporter creates an importer writing to st
func NewImporter(st storage.Storage, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Importer{
		storage:   st,
		batchSize: batchSize,
		log:       logging.Component("importer"),
	}
}

// decoded holds the parsed artifacts before they are written
type decoded struct {
	projects   map[string]projectInfo
	skipped    int // malformed project entries
	embeddings *embeddingExport
	activity   map[string][]activityItem
}

// Import decodes every artifact concurrently, then writes them in batched
// transactions
func (imp *Importer) Import(ctx context.Context, src Sources) (*Statistics, error) {
	if src.Projects == "" && src.Embeddings == "" && src.Activity == "" {
		return nil, ErrNoSources
	}
	if !imp.lock.TryAcquire() {
		return nil, ErrImportInProgress
	}
	defer imp.lock.Release()

	start := time.Now()
	var d decoded

	var g errgroup.Group
	if src.Projects != "" {
		g.Go(func() error {
			raw := make(map[string]json.RawMessage)
			if err := decodeFile(src.Projects, &raw); err != nil {
				return err
			}
			d.projects, d.skipped = imp.decodeProjects(raw)
			return nil
		})
	}
	if src.Embeddings != "" {
		g.Go(func() error {
			var e embeddingExport
			if err := decodeFile(src.Embeddings, &e); err != nil {
				return err
			}
			d.embeddings = &e
			return nil
		})
	}
	if src.Activity != "" {
		g.Go(func() error {
			activity := make(map[string][]activityItem)
			if err := decodeFile(src.Activity, &activity); err != nil {
				return err
			}
			d.activity = activity
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	stats := &Statistics{EntriesSkipped: d.skipped}
	if d.embeddings != nil {
		if err := imp.writeEmbeddings(ctx, d.embeddings, stats); err != nil {
			return nil, err
		}
	}
	if d.projects != nil {
		if err := imp.writeProjects(ctx, d.projects, stats); err != nil {
			return nil, err
		}
	}
	if d.activity != nil {
		if err := imp.writeActivity(ctx, d.activity, stats); err != nil {
			return nil, err
		}
	}

	stats.Duration = time.Since(start)
	imp.log.Info().
		Int("anchors", stats.AnchorsImported).
		Int("tokens", stats.TokensImported).
		Int("projects", stats.ProjectsImported).
		Int("timezones", stats.TimezonesLoaded).
		Int("skipped", stats.EntriesSkipped).
		Dur("duration", stats.Duration).
		Msg("snapshot imported")
	return stats, nil
}

// decodeProjects decodes every project entry, ignoring the "langs" summary.
// Malformed entries are skipped and counted.
func (imp *Importer) decodeProjects(raw map[string]json.RawMessage) (map[string]projectInfo, int) {
	projects := make(map[string]projectInfo, len(raw))
	skipped := 0
	for id, msg := range raw {
		if id == langsKey {
			continue
		}
		var p projectInfo
		if err := json.Unmarshal(msg, &p); err != nil {
			imp.log.Warn().Err(err).Str("project", id).Msg("skipping malformed project")
			skipped++
			continue
		}
		projects[id] = p
	}
	return projects, skipped
}

// inBatches runs fn over n items, committing every batchSize items
func (imp *Importer) inBatches(ctx context.Context, n int, fn func(tx storage.Tx, i int) error) error {
	for lo := 0; lo < n; lo += imp.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		hi := min(lo+imp.batchSize, n)

		tx, err := imp.storage.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		for i := lo; i < hi; i++ {
			if err := fn(tx, i); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit batch: %w", err)
		}
	}
	return nil
}

func (imp *Importer) writeEmbeddings(ctx context.Context, e *embeddingExport, stats *Statistics) error {
	dim := e.Dimension
	if dim <= 0 && len(e.Anchors) > 0 {
		dim = len(e.Anchors[0].Vector)
	}
	if dim <= 0 {
		return fmt.Errorf("embedding export has no dimension")
	}
	stats.Dimension = dim

	valid := func(entries []vectorEntry, kind string) []vectorEntry {
		out := make([]vectorEntry, 0, len(entries))
		for _, v := range entries {
			if v.Key == "" || len(v.Vector) != dim {
				imp.log.Warn().Str("kind", kind).Str("key", v.Key).Int("values", len(v.Vector)).Msg("skipping malformed vector")
				stats.EntriesSkipped++
				continue
			}
			out = append(out, v)
		}
		return out
	}

	anchors := valid(e.Anchors, "anchor")
	err := imp.inBatches(ctx, len(anchors), func(tx storage.Tx, i int) error {
		return tx.UpsertAnchor(ctx, &storage.VectorRecord{Key: anchors[i].Key, Position: i, Vector: anchors[i].Vector, Dimension: dim})
	})
	if err != nil {
		return fmt.Errorf("failed to store anchors: %w", err)
	}
	stats.AnchorsImported = len(anchors)

	tokens := valid(e.Tokens, "token")
	err = imp.inBatches(ctx, len(tokens), func(tx storage.Tx, i int) error {
		return tx.UpsertToken(ctx, &storage.VectorRecord{Key: tokens[i].Key, Position: i, Vector: tokens[i].Vector, Dimension: dim})
	})
	if err != nil {
		return fmt.Errorf("failed to store tokens: %w", err)
	}
	stats.TokensImported = len(tokens)
	return nil
}

func (imp *Importer) writeProjects(ctx context.Context, projects map[string]projectInfo, stats *Statistics) error {
	ids := make([]string, 0, len(projects))
	for id := range projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	err := imp.inBatches(ctx, len(ids), func(tx storage.Tx, i int) error {
		info := projects[ids[i]]
		langs := make([]string, 0, len(info.FileInfo))
		for lang := range info.FileInfo {
			langs = append(langs, lang)
		}
		sort.Strings(langs)

		return tx.UpsertProject(ctx, &storage.Project{
			ID:             ids[i],
			Stars:          int(info.NumStars),
			Forks:          int(info.NumForks),
			Contributors:   int(info.NumAuthors),
			FemalePct:      info.FemalePct,
			Languages:      langs,
			CoreDevelopers: info.Core,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to store projects: %w", err)
	}
	stats.ProjectsImported = len(ids)
	return nil
}

func (imp *Importer) writeActivity(ctx context.Context, activity map[string][]activityItem, stats *Statistics) error {
	keys := make([]string, 0, len(activity))
	for k := range activity {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	err := imp.inBatches(ctx, len(keys), func(tx storage.Tx, i int) error {
		key, err := normalizeOffsetKey(keys[i])
		if err != nil {
			return err
		}
		items := activity[keys[i]]
		entries := make([]types.ActivityEntry, 0, len(items))
		for _, item := range items {
			entries = append(entries, types.ActivityEntry{
				ProjectPath:      item.Path,
				ActiveDevelopers: int(item.Counts["all"]),
			})
		}
		return tx.ReplaceActivity(ctx, key, entries)
	})
	if err != nil {
		return fmt.Errorf("failed to store timezone activity: %w", err)
	}
	stats.TimezonesLoaded = len(keys)
	return nil
}

// normalizeOffsetKey maps dataset keys such as "5.50" or "0.0" onto the
// canonical form produced by types.OffsetKey
func normalizeOffsetKey(key string) (string, error) {
	hours, err := strconv.ParseFloat(key, 64)
	if err != nil {
		return "", fmt.Errorf("%w: bad offset key %q", types.ErrInvalidLocality, key)
	}
	return types.OffsetKey(hours), nil
}
