package recommender

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/skillspace-mcp/internal/logging"
	"github.com/dshills/skillspace-mcp/internal/metrics"
	"github.com/dshills/skillspace-mcp/internal/resolver"
	"github.com/dshills/skillspace-mcp/internal/skillspace"
	"github.com/dshills/skillspace-mcp/internal/snapshot"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

// Recommendation modes, used as metric labels
const (
	ModeExpertise  = "expertise"
	ModeTransfer   = "transfer"
	ModePopularity = "popularity"
	ModeLocality   = "locality"
)

// DefaultExclude lists snapshot entries that are mirrors, vendored trees or
// personal configuration rather than contributable projects
var DefaultExclude = []string{
	"frioux_dotfiles",
	"auto-program_vendor",
	"Reese-D_my_emacs",
	"bloomberg_chromium.bb",
	"996icu_996.ICU",
	"Jackeagle_kernel_msm-3.18",
	"AdrianDC_aosp_development_sony8960_q",
	"docker-library_commit-warehouse",
}

// SnapshotSource hands out the loaded snapshot
type SnapshotSource interface {
	Get(ctx context.Context) (*snapshot.Snapshot, error)
}

// Options configures a Service
type Options struct {
	// Breadth is the neighbour count of the project search, 0 for
	// skillspace.ProjectSearchBreadth
	Breadth int

	// Exclude replaces DefaultExclude when non-nil
	Exclude []string
}

// Service answers recommendation requests against the loaded snapshot
type Service struct {
	source   SnapshotSource
	resolver resolver.Resolver
	breadth  int
	exclude  map[string]struct{}
	log      zerolog.Logger
}

// New creates a recommendation service
func New(source SnapshotSource, res resolver.Resolver, opts Options) *Service {
	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}
	breadth := opts.Breadth
	if breadth <= 0 {
		breadth = skillspace.ProjectSearchBreadth
	}
	return &Service{
		source:   source,
		resolver: res,
		breadth:  breadth,
		exclude:  NewExcludeSet(exclude),
		log:      logging.Component("recommender"),
	}
}

// RecommendByExpertise composes languages and APIs into a query and returns
// the nearest projects containing at least one of the languages
func (s *Service) RecommendByExpertise(ctx context.Context, req ExpertiseRequest) (resp *Response, err error) {
	start := time.Now()
	defer func() { s.observe(ModeExpertise, start, resp, err) }()

	maxResults, err := resultCount(req.MaxResults)
	if err != nil {
		return nil, err
	}
	filter, err := diversityFilter(req.Diversity, req.MinFemalePct)
	if err != nil {
		return nil, err
	}
	if len(req.Languages) == 0 {
		return nil, types.ErrNoLanguage
	}
	tags, err := types.LanguageTags(req.Languages)
	if err != nil {
		return nil, err
	}

	snap, err := s.source.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot unavailable: %w", err)
	}

	query, err := skillspace.NewComposer(snap.Store).ComposeExpertise(tags, req.APIs)
	if err != nil {
		return nil, err
	}

	filter.Exclude = s.exclude
	filter.Languages = tags
	return s.similarProjects(ctx, snap, query, maxResults, filter, req.Mentors)
}

// RecommendByTransfer recommends destination-language projects for a
// contributor moving from the source language, optionally with APIs of the
// destination ecosystem close to the composed query
func (s *Service) RecommendByTransfer(ctx context.Context, req TransferRequest) (resp *Response, err error) {
	start := time.Now()
	defer func() { s.observe(ModeTransfer, start, resp, err) }()

	maxResults, err := resultCount(req.MaxResults)
	if err != nil {
		return nil, err
	}
	if req.SimilarAPIs < 0 || req.SimilarAPIs > skillspace.MaxSimilarAPIs {
		return nil, fmt.Errorf("%w: similar_apis %d (allowed 0-%d)", types.ErrInvalidResultCount, req.SimilarAPIs, skillspace.MaxSimilarAPIs)
	}
	filter, err := diversityFilter(req.Diversity, req.MinFemalePct)
	if err != nil {
		return nil, err
	}
	source, err := types.LanguageTag(req.Source)
	if err != nil {
		return nil, err
	}
	dest, err := types.LanguageTag(req.Destination)
	if err != nil {
		return nil, err
	}
	if source == dest {
		return nil, types.ErrSameLanguage
	}

	snap, err := s.source.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot unavailable: %w", err)
	}

	query, err := skillspace.NewComposer(snap.Store).ComposeTransfer(source, dest, req.APIs)
	if err != nil {
		return nil, err
	}

	filter.Exclude = s.exclude
	filter.Languages = []string{dest}
	resp, err = s.similarProjects(ctx, snap, query, maxResults, filter, req.Mentors)
	if err != nil {
		return nil, err
	}

	if req.SimilarAPIs > 0 {
		apis, err := skillspace.NewRanker(snap.Store, s.breadth).SimilarAPIs(ctx, query, req.SimilarAPIs)
		if err != nil {
			return nil, err
		}
		resp.APIs = apis
	}
	return resp, nil
}

// similarProjects runs the nearest-neighbour search and the filter pipeline
func (s *Service) similarProjects(ctx context.Context, snap *snapshot.Snapshot, query types.Vector, maxResults int, filter Filter, mentors bool) (*Response, error) {
	candidates, err := skillspace.NewRanker(snap.Store, s.breadth).ProjectCandidates(ctx, query)
	if err != nil {
		return nil, err
	}

	recs, err := BuildRecommendations(ctx, candidates, maxResults, snap.Projects, s.resolver, filter)
	if err != nil {
		return nil, err
	}

	resp := &Response{Projects: recs.Rows, Inspected: recs.Inspected}
	if mentors {
		resp.Mentors = MatchMentors(snap.Store, query, recs.Cores)
	}
	return resp, nil
}

// RecommendByPopularity ranks projects by stars, forks or contributors
func (s *Service) RecommendByPopularity(ctx context.Context, req PopularityRequest) (resp *Response, err error) {
	start := time.Now()
	defer func() { s.observe(ModePopularity, start, resp, err) }()

	maxResults, err := resultCount(req.MaxResults)
	if err != nil {
		return nil, err
	}
	filter, err := diversityFilter(req.Diversity, req.MinFemalePct)
	if err != nil {
		return nil, err
	}
	metric := types.Metric(strings.ToLower(strings.TrimSpace(req.Metric)))
	if metric == "" {
		metric = types.MetricStars
	}

	snap, err := s.source.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot unavailable: %w", err)
	}
	language, err := projectLanguage(snap, req.Language)
	if err != nil {
		return nil, err
	}

	filter.Exclude = s.exclude
	ranked, err := RankByPopularity(ctx, snap.Projects, metric, language, maxResults, s.resolver, filter)
	if err != nil {
		return nil, err
	}
	return &Response{Projects: ranked.Rows, Inspected: ranked.Inspected}, nil
}

// RecommendByLocality ranks projects by developers active in a timezone.
// The timezone is a "UTC+05:30" label or a numeric hour offset.
func (s *Service) RecommendByLocality(ctx context.Context, req LocalityRequest) (resp *Response, err error) {
	start := time.Now()
	defer func() { s.observe(ModeLocality, start, resp, err) }()

	maxResults, err := resultCount(req.MaxResults)
	if err != nil {
		return nil, err
	}
	filter, err := diversityFilter(req.Diversity, req.MinFemalePct)
	if err != nil {
		return nil, err
	}
	hours, err := types.ParseOffset(req.Timezone)
	if err != nil {
		return nil, err
	}

	snap, err := s.source.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot unavailable: %w", err)
	}
	language, err := projectLanguage(snap, req.Language)
	if err != nil {
		return nil, err
	}

	filter.Exclude = s.exclude
	ranked, err := RankByLocality(ctx, snap.Activity, types.OffsetKey(hours), snap.Projects, language, maxResults, s.resolver, filter)
	if err != nil {
		return nil, err
	}
	return &Response{Projects: ranked.Rows, Inspected: ranked.Inspected}, nil
}

// projectLanguage maps a ranking language selection onto a snapshot tag.
// "" and "ALL" select every project; catalogue names map to their tag; any
// other value must be a tag observed in the snapshot.
func projectLanguage(snap *snapshot.Snapshot, language string) (string, error) {
	language = strings.TrimSpace(language)
	if language == "" || strings.EqualFold(language, types.AllLanguages) {
		return types.AllLanguages, nil
	}
	if tag, err := types.LanguageTag(language); err == nil {
		return tag, nil
	}
	if snap.HasLanguage(language) {
		return language, nil
	}
	return "", fmt.Errorf("%w: %s", types.ErrUnknownLanguage, language)
}

// Languages returns the catalogue of languages accepted by the similarity modes
func (s *Service) Languages() []types.Language {
	out := make([]types.Language, len(types.Languages))
	copy(out, types.Languages)
	return out
}

// ProjectLanguages returns "ALL" followed by every language tag observed in
// the snapshot, the choices of the ranking modes
func (s *Service) ProjectLanguages(ctx context.Context) ([]string, error) {
	snap, err := s.source.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot unavailable: %w", err)
	}
	return append([]string{types.AllLanguages}, snap.Languages...), nil
}

// Timezones returns the labels of every offset with activity data, west to east
func (s *Service) Timezones(ctx context.Context) ([]string, error) {
	snap, err := s.source.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot unavailable: %w", err)
	}
	offsets := snap.Timezones()
	labels := make([]string, len(offsets))
	for i, h := range offsets {
		labels[i] = types.OffsetLabel(h)
	}
	return labels, nil
}

func (s *Service) observe(mode string, start time.Time, resp *Response, err error) {
	d := time.Since(start)
	if err != nil {
		metrics.RecordRecommendation(mode, "error", 0, d)
		ev := s.log.Warn()
		if errors.Is(err, context.Canceled) {
			ev = s.log.Debug()
		}
		ev.Err(err).Str("mode", mode).Dur("duration", d).Msg("recommendation failed")
		return
	}
	resp.Duration = d
	metrics.RecordRecommendation(mode, "ok", resp.Inspected, d)
	s.log.Debug().
		Str("mode", mode).
		Int("projects", len(resp.Projects)).
		Int("mentors", len(resp.Mentors)).
		Int("inspected", resp.Inspected).
		Dur("duration", d).
		Msg("recommendation served")
}
