package cienv

import (
	"fmt"
	"os"
)

const (
	genericProjectIDEnv = "TC_CACHE_PROJECT_ID"
	genericUploadEnv    = "TC_CACHE_UPLOAD"
	genericRemoteURLEnv = "TC_CACHE_REMOTE_URL"
)

// Generic is the environment-variable-driven Service fallback,
// supplemented from original_source/src/services/generic.rs: it lets
// tc-cache run under any CI (or locally) without a TeamCity-specific
// property file.
type Generic struct {
	projectID string
	upload    bool
	remoteURL string
}

// GenericFromEnv is available when all three TC_CACHE_* variables are set.
func GenericFromEnv() (*Generic, bool) {
	projectID, ok := os.LookupEnv(genericProjectIDEnv)
	if !ok {
		return nil, false
	}

	upload, ok := os.LookupEnv(genericUploadEnv)
	if !ok {
		return nil, false
	}

	remoteURL, ok := os.LookupEnv(genericRemoteURLEnv)
	if !ok {
		return nil, false
	}

	return &Generic{
		projectID: projectID,
		upload:    upload == "1" || upload == "true",
		remoteURL: remoteURL,
	}, true
}

func (g *Generic) ProjectID() string  { return g.projectID }
func (g *Generic) IsUploadable() bool { return g.upload }
func (g *Generic) RemoteURL() string  { return g.remoteURL }
func (g *Generic) String() string {
	return fmt.Sprintf("Env(project=%s, upload=%t, remote_url=%s)", g.projectID, g.upload, g.remoteURL)
}
