package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Vector
		want    float64
		wantErr error
	}{
		{name: "identical", a: Vector{1, 1, 0}, b: Vector{1, 1, 0}, want: 1},
		{name: "orthogonal", a: Vector{1, 0}, b: Vector{0, 1}, want: 0},
		{name: "opposite", a: Vector{1, 2}, b: Vector{-1, -2}, want: -1},
		{name: "zero query", a: Vector{0, 0}, b: Vector{1, 0}, wantErr: ErrUndefinedSimilarity},
		{name: "zero candidate", a: Vector{1, 0}, b: Vector{0, 0}, wantErr: ErrUndefinedSimilarity},
		{name: "dimension mismatch", a: Vector{1, 0}, b: Vector{1, 0, 0}, wantErr: ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestVectorArithmetic(t *testing.T) {
	v := NewVector(3)
	require.NoError(t, v.Add(Vector{1, 2, 3}))
	require.NoError(t, v.Sub(Vector{1, 0, 1}))
	assert.Equal(t, Vector{0, 2, 2}, v)

	c := v.Clone()
	c[0] = 9
	assert.Equal(t, float32(0), v[0], "clone must not alias")

	assert.ErrorIs(t, v.Add(Vector{1}), ErrDimensionMismatch)
	assert.True(t, NewVector(4).IsZero())
	assert.False(t, v.IsZero())
}

func TestIsProjectKey(t *testing.T) {
	assert.True(t, IsProjectKey("org_repo"))
	assert.True(t, IsProjectKey("gitlab.com_group_repo"))
	assert.False(t, IsProjectKey("Go"))
	assert.False(t, IsProjectKey("<unk>_tag"))
}

func TestIsResolvableDeveloper(t *testing.T) {
	assert.True(t, IsResolvableDeveloper("Jane Doe <jane@example.org>"))
	assert.False(t, IsResolvableDeveloper("placeholder"))
	assert.False(t, IsResolvableDeveloper("bot <123+bot@users.noreply.github.com>"))
}

func TestProjectIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"github.com/golang/go", "golang_go"},
		{"https://github.com/golang/go", "golang_go"},
		{"gitlab.com/group/repo", "gitlab.com_group_repo"},
		{"bitbucket.org/team/repo", "bitbucket.org_team_repo"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectIDFromPath(tt.path))
		})
	}
}

func TestLanguageTag(t *testing.T) {
	tag, err := LanguageTag("Python")
	require.NoError(t, err)
	assert.Equal(t, "PY", tag)

	tag, err = LanguageTag("c/c++")
	require.NoError(t, err)
	assert.Equal(t, "C", tag)

	tag, err = LanguageTag("Typescript")
	require.NoError(t, err)
	assert.Equal(t, "Typescript", tag)

	_, err = LanguageTag("COBOL")
	assert.ErrorIs(t, err, ErrUnknownLanguage)

	tags, err := LanguageTags([]string{"Go", "Rust"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, tags)
}

func TestOffsets(t *testing.T) {
	tests := []struct {
		hours float64
		label string
		key   string
	}{
		{0, "UTC+0:00", "0"},
		{5.5, "UTC+5:30", "5.5"},
		{-3.5, "UTC-3:30", "-3.5"},
		{-8, "UTC-8:00", "-8.0"},
		{5.75, "UTC+5:45", "5.75"},
		{12, "UTC+12:00", "12.0"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.label, OffsetLabel(tt.hours))
			assert.Equal(t, tt.key, OffsetKey(tt.hours))

			parsed, err := ParseOffset(tt.label)
			require.NoError(t, err)
			assert.InDelta(t, tt.hours, parsed, 1e-9)
		})
	}

	v, err := ParseOffset("-3.5")
	require.NoError(t, err)
	assert.Equal(t, -3.5, v)

	_, err = ParseOffset("UTC*5")
	assert.True(t, errors.Is(err, ErrInvalidLocality))
	_, err = ParseOffset("somewhere")
	assert.ErrorIs(t, err, ErrInvalidLocality)
}

func TestRowFormatting(t *testing.T) {
	row := ProjectRow{Similarity: 0.98765, FemalePct: 10}
	assert.Equal(t, "0.99", row.SimilarityText())
	assert.Equal(t, "10.00%", row.FemalePctText())

	m := MentorRow{Projects: []string{"https://github.com/a/b", "https://github.com/c/d"}}
	assert.Equal(t, "https://github.com/a/b,https://github.com/c/d", m.ProjectsText())

	err := error(&MissingTokenError{Token: "libZ"})
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.Contains(t, err.Error(), "libZ")
}

func TestMetricValue(t *testing.T) {
	p := &Project{Stars: 3, Forks: 2, Contributors: 1}
	v, err := MetricStars.Value(p)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	v, err = MetricContributors.Value(p)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	_, err = Metric("watchers").Value(p)
	assert.ErrorIs(t, err, ErrInvalidMetric)
}
