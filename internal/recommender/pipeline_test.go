package recommender

import (
	"context"
	"testing"

	"github.com/dshills/skillspace-mcp/internal/embedding"
	"github.com/dshills/skillspace-mcp/internal/resolver"
	"github.com/dshills/skillspace-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver resolves every id except the ones listed in unresolved and
// records the probe order
type fakeResolver struct {
	unresolved map[string]bool
	probed     []string
}

func (f *fakeResolver) Resolve(ctx context.Context, id string) (string, bool) {
	f.probed = append(f.probed, id)
	if f.unresolved[id] {
		return "", false
	}
	return resolver.CanonicalURL(id), true
}

func project(id string, stars int, femalePct float64, langs []string, cores ...string) *types.Project {
	set := make(map[string]struct{}, len(langs))
	for _, l := range langs {
		set[l] = struct{}{}
	}
	return &types.Project{
		ID:             id,
		Stars:          stars,
		Forks:          stars / 2,
		Contributors:   stars / 10,
		FemalePct:      femalePct,
		Languages:      set,
		CoreDevelopers: cores,
	}
}

func testIndex() types.ProjectIndex {
	return types.ProjectIndex{
		"a_one":       project("a_one", 100, 5, []string{"Go"}, "ann <ann@x.org>", "bot"),
		"b_two":       project("b_two", 300, 10, []string{"PY"}, "ann <ann@x.org>"),
		"c_three":     project("c_three", 200, 9.99, []string{"Go", "PY"}, "cy <cy@x.org>"),
		"d_four":      project("d_four", 300, 50, []string{"Rust"}),
		"bad_project": project("bad_project", 900, 90, []string{"Go"}),
	}
}

func candidates(keys ...string) []types.Candidate {
	out := make([]types.Candidate, len(keys))
	for i, k := range keys {
		out[i] = types.Candidate{Key: k, Score: 1 - float64(i)*0.1}
	}
	return out
}

func rowURLs(rows []types.ProjectRow) []string {
	urls := make([]string, len(rows))
	for i, r := range rows {
		urls[i] = r.URL
	}
	return urls
}

func TestBuildRecommendationsFilters(t *testing.T) {
	ctx := context.Background()
	res := &fakeResolver{unresolved: map[string]bool{"d_four": true}}
	cands := candidates("Go", "bad_project", "<unk>_x", "missing_repo", "b_two", "d_four", "a_one", "c_three")

	out, err := BuildRecommendations(ctx, cands, 10, testIndex(), res, Filter{
		Exclude: NewExcludeSet([]string{"bad_project"}),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://github.com/b/two",
		"https://github.com/a/one",
		"https://github.com/c/three",
	}, rowURLs(out.Rows))
	assert.Equal(t, len(cands), out.Inspected)
	assert.Equal(t, []string{"b_two", "d_four", "a_one", "c_three"}, res.probed, "only surviving candidates are probed")

	first := out.Rows[0]
	assert.Equal(t, 300, first.Stars)
	assert.Equal(t, 150, first.Forks)
	assert.Equal(t, 30, first.Contributors)
	assert.Equal(t, "0.60", first.SimilarityText())
	assert.Equal(t, "10.00%", first.FemalePctText())
}

func TestBuildRecommendationsPreservesOrderAndBound(t *testing.T) {
	ctx := context.Background()
	cands := candidates("c_three", "a_one", "b_two", "d_four")

	out, err := BuildRecommendations(ctx, cands, 2, testIndex(), &fakeResolver{}, Filter{})
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, []string{"https://github.com/c/three", "https://github.com/a/one"}, rowURLs(out.Rows))
	assert.Equal(t, 2, out.Inspected, "stops as soon as the bound is reached")
	assert.Greater(t, out.Rows[0].Similarity, out.Rows[1].Similarity)

	out, err = BuildRecommendations(ctx, cands, 0, testIndex(), &fakeResolver{}, Filter{})
	require.NoError(t, err)
	assert.Empty(t, out.Rows)
}

func TestBuildRecommendationsExcludedTopCandidate(t *testing.T) {
	out, err := BuildRecommendations(context.Background(), candidates("bad_project", "a_one"), 5, testIndex(), &fakeResolver{},
		Filter{Exclude: NewExcludeSet([]string{"bad_project"})})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/a/one"}, rowURLs(out.Rows))
}

func TestBuildRecommendationsLanguage(t *testing.T) {
	ctx := context.Background()
	cands := candidates("a_one", "b_two", "c_three", "d_four")

	out, err := BuildRecommendations(ctx, cands, 10, testIndex(), &fakeResolver{}, Filter{Languages: []string{"PY"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/b/two", "https://github.com/c/three"}, rowURLs(out.Rows))

	out, err = BuildRecommendations(ctx, cands, 10, testIndex(), &fakeResolver{}, Filter{Languages: []string{"Rust", "Go"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/a/one", "https://github.com/c/three", "https://github.com/d/four"}, rowURLs(out.Rows))

	out, err = BuildRecommendations(ctx, cands, 10, testIndex(), &fakeResolver{}, Filter{Languages: []string{"Scala"}})
	require.NoError(t, err)
	assert.Empty(t, out.Rows, "an empty result is valid")
}

func TestBuildRecommendationsDiversityThreshold(t *testing.T) {
	index := types.ProjectIndex{
		"below_bar": project("below_bar", 1, 9.99, nil),
		"at_bar":    project("at_bar", 1, 10.00, nil),
	}
	out, err := BuildRecommendations(context.Background(), candidates("below_bar", "at_bar"), 10, index, &fakeResolver{},
		Filter{Diversity: true, MinFemalePct: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/at/bar"}, rowURLs(out.Rows))
}

func TestDiversityIsMonotonic(t *testing.T) {
	ctx := context.Background()
	cands := candidates("a_one", "b_two", "c_three", "d_four")

	previous := -1
	for _, pct := range []float64{0, 5, 9.99, 10, 11, 50, 51, 100} {
		out, err := BuildRecommendations(ctx, cands, 10, testIndex(), &fakeResolver{}, Filter{Diversity: true, MinFemalePct: pct})
		require.NoError(t, err)
		if previous >= 0 {
			assert.LessOrEqual(t, len(out.Rows), previous, "min %.2f", pct)
		}
		previous = len(out.Rows)
	}
}

func TestBuildRecommendationsCores(t *testing.T) {
	out, err := BuildRecommendations(context.Background(), candidates("a_one", "b_two", "c_three"), 10, testIndex(), &fakeResolver{}, Filter{})
	require.NoError(t, err)

	cores := out.Cores
	assert.Equal(t, []string{"ann <ann@x.org>", "bot", "cy <cy@x.org>"}, cores.Developers())
	assert.Equal(t, []string{"https://github.com/a/one", "https://github.com/b/two"}, cores.Projects("ann <ann@x.org>"))
	assert.Equal(t, 3, cores.Len())
}

func TestBuildRecommendationsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildRecommendations(ctx, candidates("a_one"), 10, testIndex(), &fakeResolver{}, Filter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchMentors(t *testing.T) {
	space, err := embedding.NewSpace(2, []embedding.Entry{
		{Key: "far <far@x.org>", Vector: types.Vector{0, 1}},
		{Key: "near <near@x.org>", Vector: types.Vector{1, 0}},
		{Key: "nodot", Vector: types.Vector{1, 0}},
		{Key: "anon <1+anon@users.noreply.github.com>", Vector: types.Vector{1, 0}},
		{Key: "zero <zero@x.org>", Vector: types.Vector{0, 0}},
		{Key: "tie <tie@x.org>", Vector: types.Vector{0, 1}},
	}, nil)
	require.NoError(t, err)

	cores := NewCoreProjects()
	cores.Add("far <far@x.org>", "https://github.com/a/one")
	cores.Add("nodot", "https://github.com/a/one")
	cores.Add("anon <1+anon@users.noreply.github.com>", "https://github.com/a/one")
	cores.Add("zero <zero@x.org>", "https://github.com/a/one")
	cores.Add("ghost <ghost@x.org>", "https://github.com/a/one")
	cores.Add("near <near@x.org>", "https://github.com/a/one")
	cores.Add("near <near@x.org>", "https://github.com/b/two")
	cores.Add("tie <tie@x.org>", "https://github.com/b/two")

	rows := MatchMentors(space, types.Vector{1, 0}, cores)
	require.Len(t, rows, 3)
	assert.Equal(t, "near <near@x.org>", rows[0].Developer)
	assert.Equal(t, "https://github.com/a/one,https://github.com/b/two", rows[0].ProjectsText())
	assert.InDelta(t, 1.0, rows[0].Similarity, 1e-9)
	assert.Equal(t, "far <far@x.org>", rows[1].Developer, "ties keep first-seen order")
	assert.Equal(t, "tie <tie@x.org>", rows[2].Developer)

	assert.Empty(t, MatchMentors(space, types.Vector{0, 0}, cores), "zero query has no defined similarity")
	assert.Nil(t, MatchMentors(space, types.Vector{1, 0}, nil))
}

func TestMatchMentorsLimit(t *testing.T) {
	var entries []embedding.Entry
	cores := NewCoreProjects()
	for i := 0; i < 15; i++ {
		key := string(rune('a'+i)) + "@x.org"
		entries = append(entries, embedding.Entry{Key: key, Vector: types.Vector{1, float32(i)}})
		cores.Add(key, "https://github.com/a/one")
	}
	space, err := embedding.NewSpace(2, entries, nil)
	require.NoError(t, err)

	rows := MatchMentors(space, types.Vector{1, 0}, cores)
	require.Len(t, rows, MaxMentors)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].Similarity, rows[i].Similarity)
	}
	assert.Equal(t, "a@x.org", rows[0].Developer)
}
