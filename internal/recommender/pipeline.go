package recommender

import (
	"context"

	"github.com/dshills/skillspace-mcp/internal/metrics"
	"github.com/dshills/skillspace-mcp/internal/resolver"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

// Rejection reasons recorded by the filter pipelines
const (
	rejectNotProject = "not_project"
	rejectExcluded   = "excluded"
	rejectUnknown    = "unknown"
	rejectLanguage   = "language"
	rejectDiversity  = "diversity"
	rejectUnresolved = "unresolved"
)

// Filter holds the accept/reject parameters shared by every pipeline
type Filter struct {
	// Exclude lists project identifiers that are never recommended
	Exclude map[string]struct{}

	// Languages restricts results to projects containing at least one of
	// these tags. Empty means no restriction.
	Languages []string

	// Diversity enables the MinFemalePct threshold
	Diversity    bool
	MinFemalePct float64
}

// NewExcludeSet builds an exclude set from a list of identifiers
func NewExcludeSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (f Filter) excluded(id string) bool {
	_, ok := f.Exclude[id]
	return ok
}

// admit applies the exclude, language and diversity checks to a known
// project and returns the rejection reason, or "" when it passes
func (f Filter) admit(p *types.Project) string {
	if f.excluded(p.ID) {
		return rejectExcluded
	}
	if !p.HasAnyLanguage(f.Languages) {
		return rejectLanguage
	}
	if f.Diversity && p.FemalePct < f.MinFemalePct {
		return rejectDiversity
	}
	return ""
}

// CoreProjects maps core developers to the URLs of accepted projects they
// are core on. Developers are kept in first-seen order.
type CoreProjects struct {
	order    []string
	projects map[string][]string
}

// NewCoreProjects returns an empty mapping
func NewCoreProjects() *CoreProjects {
	return &CoreProjects{projects: make(map[string][]string)}
}

// Add records url for developer
func (c *CoreProjects) Add(developer, url string) {
	if _, ok := c.projects[developer]; !ok {
		c.order = append(c.order, developer)
	}
	c.projects[developer] = append(c.projects[developer], url)
}

// Developers returns developer keys in first-seen order
func (c *CoreProjects) Developers() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Projects returns the URLs recorded for developer
func (c *CoreProjects) Projects(developer string) []string {
	return c.projects[developer]
}

// Len returns the number of developers
func (c *CoreProjects) Len() int {
	return len(c.order)
}

// Recommendations is the output of the similarity pipeline
type Recommendations struct {
	Rows  []types.ProjectRow
	Cores *CoreProjects

	// Inspected counts the candidates examined before the pipeline stopped
	Inspected int
}

// BuildRecommendations walks candidates in order and keeps those that are
// known projects passing filter and resolving to a reachable URL. It stops
// after maxResults accepted rows; accepted rows keep the candidate order.
func BuildRecommendations(ctx context.Context, candidates []types.Candidate, maxResults int, projects types.ProjectIndex, res resolver.Resolver, filter Filter) (*Recommendations, error) {
	out := &Recommendations{
		Rows:  make([]types.ProjectRow, 0, maxResults),
		Cores: NewCoreProjects(),
	}
	if maxResults <= 0 {
		return out, nil
	}

	for _, c := range candidates {
		if len(out.Rows) >= maxResults {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out.Inspected++

		if !types.IsProjectKey(c.Key) {
			metrics.RecordRejection(rejectNotProject)
			continue
		}
		if filter.excluded(c.Key) {
			metrics.RecordRejection(rejectExcluded)
			continue
		}
		p, ok := projects[c.Key]
		if !ok {
			metrics.RecordRejection(rejectUnknown)
			continue
		}
		if reason := filter.admit(p); reason != "" {
			metrics.RecordRejection(reason)
			continue
		}
		url, ok := res.Resolve(ctx, c.Key)
		if !ok {
			metrics.RecordRejection(rejectUnresolved)
			continue
		}

		out.Rows = append(out.Rows, types.ProjectRow{
			URL:          url,
			Similarity:   c.Score,
			Stars:        p.Stars,
			Forks:        p.Forks,
			Contributors: p.Contributors,
			FemalePct:    p.FemalePct,
		})
		for _, dev := range p.CoreDevelopers {
			out.Cores.Add(dev, url)
		}
	}
	return out, nil
}
