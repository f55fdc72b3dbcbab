package recommender

import (
	"context"
	"fmt"
	"sort"

	"github.com/dshills/skillspace-mcp/internal/metrics"
	"github.com/dshills/skillspace-mcp/internal/resolver"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

// Ranked is the output of the popularity and locality pipelines
type Ranked struct {
	Rows      []types.ProjectRow
	Inspected int
}

// languageFilter turns a popularity language selection into filter tags.
// "" and "ALL" impose no restriction.
func languageFilter(language string) []string {
	if language == "" || language == types.AllLanguages {
		return nil
	}
	return []string{language}
}

// RankByPopularity orders projects by metric, highest first, ties by
// identifier, and returns the first maxResults that pass filter and resolve.
// filter.Languages is replaced by language.
func RankByPopularity(ctx context.Context, projects types.ProjectIndex, metric types.Metric, language string, maxResults int, res resolver.Resolver, filter Filter) (*Ranked, error) {
	if _, err := metric.Value(&types.Project{}); err != nil {
		return nil, fmt.Errorf("%w: %q", err, metric)
	}
	filter.Languages = languageFilter(language)

	ordered := make([]*types.Project, 0, len(projects))
	for _, p := range projects {
		if p.HasAnyLanguage(filter.Languages) {
			ordered = append(ordered, p)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		vi, _ := metric.Value(ordered[i])
		vj, _ := metric.Value(ordered[j])
		if vi != vj {
			return vi > vj
		}
		return ordered[i].ID < ordered[j].ID
	})

	out := &Ranked{Rows: make([]types.ProjectRow, 0, max(maxResults, 0))}
	for _, p := range ordered {
		if len(out.Rows) >= maxResults {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out.Inspected++

		if reason := filter.admit(p); reason != "" {
			metrics.RecordRejection(reason)
			continue
		}
		url, ok := res.Resolve(ctx, p.ID)
		if !ok {
			metrics.RecordRejection(rejectUnresolved)
			continue
		}
		out.Rows = append(out.Rows, projectRow(url, p))
	}
	return out, nil
}

// RankByLocality walks the activity bucket of offsetKey in stored order,
// which the dataset sorts by active developers. An offset without a bucket
// is a validation error.
func RankByLocality(ctx context.Context, activity map[string][]types.ActivityEntry, offsetKey string, projects types.ProjectIndex, language string, maxResults int, res resolver.Resolver, filter Filter) (*Ranked, error) {
	bucket, ok := activity[offsetKey]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidLocality, offsetKey)
	}
	filter.Languages = languageFilter(language)

	out := &Ranked{Rows: make([]types.ProjectRow, 0, max(maxResults, 0))}
	for _, entry := range bucket {
		if len(out.Rows) >= maxResults {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out.Inspected++

		id := types.ProjectIDFromPath(entry.ProjectPath)
		p, ok := projects[id]
		if !ok {
			metrics.RecordRejection(rejectUnknown)
			continue
		}
		if reason := filter.admit(p); reason != "" {
			metrics.RecordRejection(reason)
			continue
		}
		url, ok := res.Resolve(ctx, id)
		if !ok {
			metrics.RecordRejection(rejectUnresolved)
			continue
		}
		row := projectRow(url, p)
		row.ActiveDevelopers = entry.ActiveDevelopers
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func projectRow(url string, p *types.Project) types.ProjectRow {
	return types.ProjectRow{
		URL:          url,
		Stars:        p.Stars,
		Forks:        p.Forks,
		Contributors: p.Contributors,
		FemalePct:    p.FemalePct,
	}
}
