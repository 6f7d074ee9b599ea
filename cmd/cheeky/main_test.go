package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*CLI, error) {
	var cli CLI
	parser, err := newParser(&cli)
	require.NoError(t, err)

	_, err = parser.Parse(args)
	return &cli, err
}

func TestDefaults(t *testing.T) {
	cli, err := parse(t)
	require.NoError(t, err)

	assert.Equal(t, "gpt-3.5-turbo", cli.Model)
	assert.Equal(t, 60, cli.Confidence)
	assert.Equal(t, "main", cli.MainBranch)
	assert.Equal(t, "info", cli.LogLevel)
	assert.Equal(t, 0, cli.MaxRetries)
	assert.Equal(t, 2*time.Minute, cli.Timeout)
	assert.Equal(t, ":memory:", cli.Workspace)
	assert.Equal(t, 4, cli.Jobs)
	assert.Equal(t, "text-embedding-3-small", cli.EmbeddingModelName())
	assert.False(t, cli.Compare)
	assert.NoError(t, cli.Validate())
}

func TestEnvironment(t *testing.T) {
	t.Setenv("URI", "http://localhost:11434/v1")
	t.Setenv("MODEL", "llama3")
	t.Setenv("CONFIDENCE", "75")
	t.Setenv("MAINBRANCH", "develop")
	t.Setenv("IGNORE", "**/*.lock,docs/**")

	cli, err := parse(t)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434/v1", cli.URI)
	assert.Equal(t, "llama3", cli.Model)
	assert.Equal(t, 75, cli.Confidence)
	assert.Equal(t, "develop", cli.MainBranch)
	assert.Equal(t, []string{"**/*.lock", "docs/**"}, cli.Ignore)
}

func TestFlags(t *testing.T) {
	cli, err := parse(t, "--compare", "--commit", "abc123", "--nobreak", "--simulate", "--no-cache")
	require.NoError(t, err)

	opts := cli.Options()
	assert.True(t, opts.Compare)
	assert.Equal(t, "abc123", opts.Commit)
	assert.True(t, opts.NoBreak)
	assert.True(t, opts.Simulate)
	assert.False(t, opts.ShowDiff)
	assert.True(t, cli.NoCache)
}

func TestCompareAndSilentAreExclusive(t *testing.T) {
	_, err := parse(t, "--compare", "--silent")

	assert.Error(t, err)
}
