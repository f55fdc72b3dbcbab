package recommender

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/skillspace-mcp/internal/embedding"
	"github.com/dshills/skillspace-mcp/internal/resolver"
	"github.com/dshills/skillspace-mcp/internal/snapshot"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

type staticSource struct {
	snap *snapshot.Snapshot
	err  error
}

func (s staticSource) Get(context.Context) (*snapshot.Snapshot, error) {
	return s.snap, s.err
}

func testSnapshot(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	space, err := embedding.NewSpace(3,
		[]embedding.Entry{
			{Key: "Go", Vector: types.Vector{1, 0, 0}},
			{Key: "PY", Vector: types.Vector{0, 1, 0}},
			{Key: "Rust", Vector: types.Vector{0, 0, 1}},
			{Key: "a_one", Vector: types.Vector{1, 0.1, 0}},
			{Key: "b_two", Vector: types.Vector{0.1, 1, 0}},
			{Key: "c_three", Vector: types.Vector{0.7, 0.7, 0}},
			{Key: "d_four", Vector: types.Vector{0, 0.1, 1}},
			{Key: "ann <ann@x.org>", Vector: types.Vector{1, 0, 0}},
			{Key: "cy <cy@x.org>", Vector: types.Vector{0.5, 0.5, 0}},
		},
		[]embedding.Entry{
			{Key: "net/http", Vector: types.Vector{0.2, 0, 0}},
			{Key: "numpy", Vector: types.Vector{0, 0.2, 0}},
			{Key: "tokio", Vector: types.Vector{0, 0, 0.3}},
		},
	)
	require.NoError(t, err)

	return &snapshot.Snapshot{
		Projects:  testIndex(),
		Languages: []string{"Go", "PY", "Rust"},
		Activity: map[string][]types.ActivityEntry{
			"5.5": {
				{ProjectPath: "github.com/a/one", ActiveDevelopers: 5},
				{ProjectPath: "github.com/unknown/repo", ActiveDevelopers: 4},
				{ProjectPath: "github.com/d/four", ActiveDevelopers: 3},
			},
			"-3.0": {},
		},
		Store: space,
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(staticSource{snap: testSnapshot(t)}, resolver.OfflineResolver{}, Options{Exclude: []string{"bad_project"}})
}

func TestRecommendByExpertise(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.RecommendByExpertise(context.Background(), ExpertiseRequest{
		Languages: []string{"Go"},
		Mentors:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/a/one", "https://github.com/c/three"}, rowURLs(resp.Projects))
	assert.Positive(t, resp.Inspected)
	assert.Positive(t, resp.Duration)

	require.Len(t, resp.Mentors, 2, "placeholder core developers are skipped")
	assert.Equal(t, "ann <ann@x.org>", resp.Mentors[0].Developer)
	assert.Equal(t, []string{"https://github.com/a/one"}, resp.Mentors[0].Projects)
	assert.Equal(t, "cy <cy@x.org>", resp.Mentors[1].Developer)
	assert.Empty(t, resp.APIs)
}

func TestRecommendByExpertiseWithoutMentors(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.RecommendByExpertise(context.Background(), ExpertiseRequest{
		Languages:  []string{"Python", "Go"},
		APIs:       "numpy; net/http",
		MaxResults: 1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 1)
	assert.Nil(t, resp.Mentors)
}

func TestRecommendByExpertiseDiversity(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.RecommendByExpertise(context.Background(), ExpertiseRequest{
		Languages:    []string{"Go"},
		Diversity:    true,
		MinFemalePct: 10,
	})
	require.NoError(t, err, "an emptied result is not an error")
	assert.Empty(t, resp.Projects)
}

func TestRecommendByExpertiseDiversityThresholdIsMonotonic(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	accepted := func(pct float64) []string {
		resp, err := svc.RecommendByExpertise(ctx, ExpertiseRequest{
			Languages:    []string{"Go"},
			Diversity:    true,
			MinFemalePct: pct,
		})
		require.NoError(t, err)
		return rowURLs(resp.Projects)
	}

	// An explicit zero threshold admits every project
	assert.Equal(t, []string{"https://github.com/a/one", "https://github.com/c/three"}, accepted(0))

	prev := accepted(0)
	for _, pct := range []float64{1, 5, 6, 10} {
		cur := accepted(pct)
		assert.Subset(t, prev, cur, "threshold %g", pct)
		prev = cur
	}
	assert.Equal(t, []string{"https://github.com/c/three"}, accepted(6))
	assert.Empty(t, accepted(10))
}

func TestRecommendByExpertiseErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     ExpertiseRequest
		wantErr error
	}{
		{name: "no language", req: ExpertiseRequest{}, wantErr: types.ErrNoLanguage},
		{name: "unknown language", req: ExpertiseRequest{Languages: []string{"COBOL"}}, wantErr: types.ErrUnknownLanguage},
		{name: "missing token", req: ExpertiseRequest{Languages: []string{"Go"}, APIs: "net/http;libZ"}, wantErr: types.ErrMissingToken},
		{name: "too many results", req: ExpertiseRequest{Languages: []string{"Go"}, MaxResults: 21}, wantErr: types.ErrInvalidResultCount},
		{name: "negative results", req: ExpertiseRequest{Languages: []string{"Go"}, MaxResults: -1}, wantErr: types.ErrInvalidResultCount},
		{name: "bad percentage", req: ExpertiseRequest{Languages: []string{"Go"}, Diversity: true, MinFemalePct: 101}, wantErr: types.ErrInvalidPercentage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecommendByExpertise(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var missing *types.MissingTokenError
	_, err := svc.RecommendByExpertise(ctx, ExpertiseRequest{Languages: []string{"Go"}, APIs: "libX;libY"})
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "libX", missing.Token)
}

func TestRecommendByTransfer(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.RecommendByTransfer(context.Background(), TransferRequest{
		Source:      "Go",
		Destination: "Python",
		SimilarAPIs: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/b/two", "https://github.com/c/three"}, rowURLs(resp.Projects))
	require.Len(t, resp.APIs, 2)
	assert.Equal(t, "numpy", resp.APIs[0].API)
	assert.Equal(t, "tokio", resp.APIs[1].API)
}

func TestRecommendByTransferErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecommendByTransfer(ctx, TransferRequest{Source: "Go", Destination: "go"})
	assert.ErrorIs(t, err, types.ErrSameLanguage)

	_, err = svc.RecommendByTransfer(ctx, TransferRequest{Source: "Go", Destination: "PY", SimilarAPIs: 21})
	assert.ErrorIs(t, err, types.ErrInvalidResultCount)

	_, err = svc.RecommendByTransfer(ctx, TransferRequest{Source: "Go", Destination: "PY", APIs: "libZ"})
	assert.ErrorIs(t, err, types.ErrMissingToken)
}

func TestRecommendByPopularity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.RecommendByPopularity(ctx, PopularityRequest{Metric: "Stars", MaxResults: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://github.com/b/two",
		"https://github.com/d/four",
		"https://github.com/c/three",
	}, rowURLs(resp.Projects), "ties break by identifier, excluded ids are skipped")

	resp, err = svc.RecommendByPopularity(ctx, PopularityRequest{Metric: "stars", Language: "Python"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/b/two", "https://github.com/c/three"}, rowURLs(resp.Projects))

	_, err = svc.RecommendByPopularity(ctx, PopularityRequest{Metric: "stars", Language: "Haskell"})
	assert.ErrorIs(t, err, types.ErrUnknownLanguage)

	_, err = svc.RecommendByPopularity(ctx, PopularityRequest{Metric: "watchers"})
	assert.ErrorIs(t, err, types.ErrInvalidMetric)
}

func TestRecommendByLocality(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.RecommendByLocality(ctx, LocalityRequest{Timezone: "UTC+5:30"})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 2)
	assert.Equal(t, "https://github.com/a/one", resp.Projects[0].URL)
	assert.Equal(t, 5, resp.Projects[0].ActiveDevelopers)
	assert.Equal(t, 3, resp.Projects[1].ActiveDevelopers)
	assert.Equal(t, 3, resp.Inspected)

	resp, err = svc.RecommendByLocality(ctx, LocalityRequest{Timezone: "5.5", Language: "Rust"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/d/four"}, rowURLs(resp.Projects))

	_, err = svc.RecommendByLocality(ctx, LocalityRequest{Timezone: "UTC+1:00"})
	assert.ErrorIs(t, err, types.ErrInvalidLocality)

	_, err = svc.RecommendByLocality(ctx, LocalityRequest{Timezone: "mars"})
	assert.ErrorIs(t, err, types.ErrInvalidLocality)
}

func TestCatalogues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.Len(t, svc.Languages(), len(types.Languages))

	langs, err := svc.ProjectLanguages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ALL", "Go", "PY", "Rust"}, langs)

	zones, err := svc.Timezones(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"UTC-3:00", "UTC+5:30"}, zones)
}

func TestSnapshotUnavailable(t *testing.T) {
	boom := errors.New("boom")
	svc := New(staticSource{err: boom}, resolver.OfflineResolver{}, Options{})

	_, err := svc.RecommendByExpertise(context.Background(), ExpertiseRequest{Languages: []string{"Go"}})
	assert.ErrorIs(t, err, boom)
	_, err = svc.Timezones(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestDefaultExcludeApplied(t *testing.T) {
	svc := New(staticSource{snap: testSnapshot(t)}, resolver.OfflineResolver{}, Options{})
	assert.Len(t, svc.exclude, len(DefaultExclude))
	assert.Equal(t, 1000, svc.breadth)
}
