package recommender

import (
	"context"
	"testing"

	"github.com/dshills/skillspace-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankByPopularity(t *testing.T) {
	ctx := context.Background()
	index := testIndex()

	out, err := RankByPopularity(ctx, index, types.MetricStars, types.AllLanguages, 10, &fakeResolver{},
		Filter{Exclude: NewExcludeSet([]string{"bad_project"})})
	require.NoError(t, err)
	// b_two and d_four tie on stars and are ordered by identifier
	assert.Equal(t, []string{
		"https://github.com/b/two",
		"https://github.com/d/four",
		"https://github.com/c/three",
		"https://github.com/a/one",
	}, rowURLs(out.Rows))
	assert.Zero(t, out.Rows[0].Similarity)

	out, err = RankByPopularity(ctx, index, types.MetricStars, "Go", 2, &fakeResolver{}, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/bad/project", "https://github.com/c/three"}, rowURLs(out.Rows))
	assert.Equal(t, 2, out.Inspected)
}

func TestRankByPopularityFilters(t *testing.T) {
	ctx := context.Background()
	res := &fakeResolver{unresolved: map[string]bool{"b_two": true}}

	out, err := RankByPopularity(ctx, testIndex(), types.MetricForks, "", 10, res,
		Filter{Diversity: true, MinFemalePct: 10, Languages: []string{"Scala"}})
	require.NoError(t, err)
	// The language argument replaces filter.Languages; b_two is unresolved
	assert.Equal(t, []string{"https://github.com/bad/project", "https://github.com/d/four"}, rowURLs(out.Rows))
	assert.NotContains(t, res.probed, "c_three", "diversity is checked before probing")
}

func TestRankByPopularityInvalidMetric(t *testing.T) {
	_, err := RankByPopularity(context.Background(), testIndex(), types.Metric("watchers"), "", 10, &fakeResolver{}, Filter{})
	assert.ErrorIs(t, err, types.ErrInvalidMetric)
}

func TestRankByLocality(t *testing.T) {
	ctx := context.Background()
	activity := map[string][]types.ActivityEntry{
		"5.5": {
			{ProjectPath: "github.com/c/three", ActiveDevelopers: 40},
			{ProjectPath: "github.com/unknown/repo", ActiveDevelopers: 30},
			{ProjectPath: "github.com/bad/project", ActiveDevelopers: 20},
			{ProjectPath: "github.com/a/one", ActiveDevelopers: 10},
			{ProjectPath: "github.com/b/two", ActiveDevelopers: 5},
		},
	}

	out, err := RankByLocality(ctx, activity, "5.5", testIndex(), "Go", 10, &fakeResolver{},
		Filter{Exclude: NewExcludeSet([]string{"bad_project"})})
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "https://github.com/c/three", out.Rows[0].URL)
	assert.Equal(t, 40, out.Rows[0].ActiveDevelopers)
	assert.Equal(t, "https://github.com/a/one", out.Rows[1].URL)
	assert.Equal(t, 5, out.Inspected)

	out, err = RankByLocality(ctx, activity, "5.5", testIndex(), types.AllLanguages, 1, &fakeResolver{}, Filter{})
	require.NoError(t, err)
	assert.Len(t, out.Rows, 1)

	_, err = RankByLocality(ctx, activity, "-3.0", testIndex(), "", 10, &fakeResolver{}, Filter{})
	assert.ErrorIs(t, err, types.ErrInvalidLocality)
}

func TestRankByLocalityNonGithubPaths(t *testing.T) {
	index := types.ProjectIndex{
		"gitlab.com_group_repo": project("gitlab.com_group_repo", 1, 0, nil),
	}
	activity := map[string][]types.ActivityEntry{
		"0": {{ProjectPath: "gitlab.com/group/repo", ActiveDevelopers: 3}},
	}
	out, err := RankByLocality(context.Background(), activity, "0", index, "", 10, &fakeResolver{}, Filter{})
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "https://gitlab.com/group/repo", out.Rows[0].URL)
}
