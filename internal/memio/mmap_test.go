package memio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tc-cache/tc-cache/internal/memio"
)

func TestReadMapWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	m, err := memio.ReadMap(path, 0)
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, "hello world", string(m.Bytes()))
}

func TestReadMapTruncatedLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	m, err := memio.ReadMap(path, 5)
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, "hello", string(m.Bytes()))
}
