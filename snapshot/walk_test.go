package snapshot_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tc-cache/tc-cache/snapshot"
)

func TestWalkProducesSortedEntries(t *testing.T) {
	root := buildTree(t)

	entries, err := snapshot.Walk(context.Background(), []string{root})
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}

	require.True(t, sort.StringsAreSorted(paths))

	var sawRootDir bool

	for _, e := range entries {
		if e.Path == root {
			require.Equal(t, snapshot.KindDir, e.Type)

			sawRootDir = true
		}
	}

	require.True(t, sawRootDir)
}

func TestWalkEmptyRootCreatesEntry(t *testing.T) {
	root := filepath.Join(t.TempDir(), "x")
	require.NoError(t, os.MkdirAll(root, 0o755))

	entries, err := snapshot.Walk(context.Background(), []string{root})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, snapshot.KindDir, entries[0].Type)
}
