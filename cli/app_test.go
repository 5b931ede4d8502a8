package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tc-cache/tc-cache/cli"
)

// setNoRemoteEnv makes cienv.Resolve succeed via the generic fallback
// with no usable remote, so pull/push never attempt network I/O.
func setNoRemoteEnv(t *testing.T) {
	t.Helper()

	os.Unsetenv("TEAMCITY_BUILD_PROPERTIES_FILE")
	t.Setenv("TC_CACHE_PROJECT_ID", "proj")
	t.Setenv("TC_CACHE_UPLOAD", "false")
	t.Setenv("TC_CACHE_REMOTE_URL", "")
}

func TestRunPullThenPush(t *testing.T) {
	setNoRemoteEnv(t)

	home := t.TempDir()
	root := filepath.Join(t.TempDir(), "cache-root")

	err := cli.New().Run([]string{"-d", home, "pull", root})
	require.NoError(t, err)
	require.DirExists(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))

	err = cli.New().Run([]string{"-d", home, "push"})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(home, "snapshot.snappy"))
}

func TestRunPullWithPrefixAndKeyOverrides(t *testing.T) {
	setNoRemoteEnv(t)

	home := t.TempDir()
	root := filepath.Join(t.TempDir(), "cache-root")

	err := cli.New().Run([]string{"-d", home, "pull", "-p", "override-prefix", "-k", "override-key", root})
	require.NoError(t, err)
	require.DirExists(t, root)
}

func TestRunUnknownCommandFails(t *testing.T) {
	err := cli.New().Run([]string{"bogus"})
	require.Error(t, err)
}

func TestRunPullMissingDirArgFails(t *testing.T) {
	err := cli.New().Run([]string{"pull"})
	require.Error(t, err)
}
