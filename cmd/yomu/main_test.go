package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/yomu/cmd/yomu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range []string{"summarize", "history", "forget"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_URLsDefaultToSummarize(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli,
		kong.Writers(&bytes.Buffer{}, &bytes.Buffer{}),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"https://example.com/a", "https://example.com/b"})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, cli.Summarize.URLs)
	assert.Equal(t, 5, cli.Summarize.Concurrency)
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "yomu")
	})

	t.Run("no arguments", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()

		err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Error(t, err)
	})

	t.Run("history on a new database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		m := main.NewMain()
		m.DBPath = filepath.Join(dir, "data", "history.db")
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(),
			[]string{"--config", filepath.Join(dir, "config.yaml"), "history"},
			stdout, &bytes.Buffer{},
		)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No articles found")
		_, statErr := os.Stat(m.DBPath)
		assert.NoError(t, statErr)
	})

	t.Run("rejects a malformed config", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("provider: [gemini"), 0o600))

		m := main.NewMain()
		m.DBPath = filepath.Join(dir, "history.db")

		err := m.Run(context.Background(), []string{"--config", path, "history"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Error(t, err)
	})
}
