package cienv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tc-cache/tc-cache/cienv"
)

const propsContent = `
# comment
env.TEAMCITY_VERSION=2018.1.3 (build 58658)
teamcity.serverUrl=http://localhost:8111
teamcity.project.id=Github_Example_Example
teamcity.build.branch.is_default=true
tc.cache.remote.url=s3\://bucket/prefix
`

func writePropsFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "build.properties")
	require.NoError(t, os.WriteFile(path, []byte(propsContent), 0o644))

	return path
}

func TestTeamCityFromPath(t *testing.T) {
	path := writePropsFile(t)

	svc, ok := cienv.NewTeamCityFromPath(path)
	require.True(t, ok)
	require.Equal(t, "Github_Example_Example", svc.ProjectID())
	require.True(t, svc.IsUploadable())
	require.Equal(t, "s3://bucket/prefix", svc.RemoteURL())
	require.Equal(t, "TeamCity 2018.1.3 (build 58658) at http://localhost:8111", svc.String())
}

func TestTeamCityMissingKeyIsNotApplicable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.properties")
	require.NoError(t, os.WriteFile(path, []byte("teamcity.serverUrl=http://x\n"), 0o644))

	_, ok := cienv.NewTeamCityFromPath(path)
	require.False(t, ok)
}

func TestGenericFromEnv(t *testing.T) {
	t.Setenv("TC_CACHE_PROJECT_ID", "projectId")
	t.Setenv("TC_CACHE_UPLOAD", "1")
	t.Setenv("TC_CACHE_REMOTE_URL", "http://example.com")

	svc, ok := cienv.GenericFromEnv()
	require.True(t, ok)
	require.Equal(t, "projectId", svc.ProjectID())
	require.True(t, svc.IsUploadable())
	require.Equal(t, "Env(project=projectId, upload=true, remote_url=http://example.com)", svc.String())
}

func TestResolveFallsBackToGeneric(t *testing.T) {
	os.Unsetenv("TEAMCITY_BUILD_PROPERTIES_FILE")
	t.Setenv("TC_CACHE_PROJECT_ID", "projectId")
	t.Setenv("TC_CACHE_UPLOAD", "true")
	t.Setenv("TC_CACHE_REMOTE_URL", "http://example.com")

	svc, err := cienv.Resolve("")
	require.NoError(t, err)
	require.Equal(t, "projectId", svc.ProjectID())
}

func TestResolveUnrecognized(t *testing.T) {
	os.Unsetenv("TEAMCITY_BUILD_PROPERTIES_FILE")
	os.Unsetenv("TC_CACHE_PROJECT_ID")
	os.Unsetenv("TC_CACHE_UPLOAD")
	os.Unsetenv("TC_CACHE_REMOTE_URL")

	_, err := cienv.Resolve("")
	require.Error(t, err)
}
