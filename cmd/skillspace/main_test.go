package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/skillspace-mcp/internal/recommender"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Version: dev")
	assert.Contains(t, out.String(), "SQLite Driver:")
}

func TestSplitLanguages(t *testing.T) {
	assert.Equal(t, []string{"Go", "Python", "Rust"}, splitLanguages([]string{"Go,Python", " Rust ", ","}))
	assert.Nil(t, splitLanguages(nil))
}

func TestRenderResponse(t *testing.T) {
	var out bytes.Buffer
	resp := &recommender.Response{
		Projects: []types.ProjectRow{{URL: "https://github.com/a/b", Similarity: 0.91234, Stars: 7, FemalePct: 12.5}},
		Mentors:  []types.MentorRow{{Developer: "ann <ann@example.org>", Projects: []string{"https://github.com/a/b"}, Similarity: 0.5}},
		APIs:     []types.APIRow{{API: "numpy", Similarity: 0.75}},
	}
	require.NoError(t, renderResponse(&out, resp, true))

	s := out.String()
	assert.Contains(t, s, "https://github.com/a/b")
	assert.Contains(t, s, "0.91")
	assert.Contains(t, s, "12.50%")
	assert.Contains(t, s, "ann <ann@example.org>")
	assert.Contains(t, s, "numpy")
	assert.Contains(t, s, "0.75")

	out.Reset()
	require.NoError(t, renderResponse(&out, &recommender.Response{}, false))
	assert.Contains(t, out.String(), "No projects matched")
}

func TestCommandsRegistered(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "http", "import", "expertise", "transfer", "popular", "local", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
