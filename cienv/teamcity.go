package cienv

import (
	"fmt"
	"os"
	"strings"

	"github.com/tc-cache/tc-cache/internal/errs"
)

const (
	teamCityVersionProp        = "env.TEAMCITY_VERSION"
	teamCityServerURLProp      = "teamcity.serverUrl"
	projectIDProp              = "teamcity.project.id"
	buildBranchIsDefaultProp   = "teamcity.build.branch.is_default"
	cacheRemoteURLProp         = "tc.cache.remote.url"
	teamCityBuildPropsFileEnv  = "TEAMCITY_BUILD_PROPERTIES_FILE"
)

// TeamCity is the Service backed by a TeamCity build-properties file.
type TeamCity struct {
	name             string
	projectID        string
	isDefaultBranch  bool
	remoteURL        string
}

// TeamCityFromEnv resolves the property-file path from
// TEAMCITY_BUILD_PROPERTIES_FILE and parses it, per §6.
func TeamCityFromEnv() (*TeamCity, bool) {
	path, ok := os.LookupEnv(teamCityBuildPropsFileEnv)
	if !ok {
		return nil, false
	}

	return NewTeamCityFromPath(path)
}

// NewTeamCityFromPath parses a TeamCity build-properties file at path.
func NewTeamCityFromPath(path string) (*TeamCity, bool) {
	if _, err := os.Stat(path); err != nil {
		return nil, false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	return newTeamCityFromProps(string(content))
}

func newTeamCityFromProps(content string) (*TeamCity, bool) {
	props := parseProps(content)

	version, ok := props[teamCityVersionProp]
	if !ok {
		return nil, false
	}

	serverURL, ok := props[teamCityServerURLProp]
	if !ok {
		return nil, false
	}

	projectID, ok := props[projectIDProp]
	if !ok {
		return nil, false
	}

	remoteURL, ok := props[cacheRemoteURLProp]
	if !ok {
		return nil, false
	}

	return &TeamCity{
		name:            fmt.Sprintf("%s at %s", version, serverURL),
		projectID:       projectID,
		isDefaultBranch: props[buildBranchIsDefaultProp] == "true",
		remoteURL:       remoteURL,
	}, true
}

func (t *TeamCity) ProjectID() string    { return t.projectID }
func (t *TeamCity) IsUploadable() bool   { return t.isDefaultBranch }
func (t *TeamCity) RemoteURL() string    { return t.remoteURL }
func (t *TeamCity) String() string       { return "TeamCity " + t.name }

// parseProps parses key=value lines, skipping '#' comments, and
// unescaping "\:" to ":" and "\=" to "=" in values, matching the
// TeamCity build-agent property-file format.
func parseProps(content string) map[string]string {
	props := make(map[string]string)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		value = strings.ReplaceAll(value, `\:`, ":")
		value = strings.ReplaceAll(value, `\=`, "=")

		if key == "" || value == "" {
			continue
		}

		props[key] = value
	}

	return props
}

func errUnrecognized() error {
	return errs.UnrecognizedService("no CI environment matched (TeamCity property file absent/incomplete, generic env vars unset)")
}
