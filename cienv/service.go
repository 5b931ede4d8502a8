// Package cienv implements the CI-environment adapter (C12): resolving
// a Service (TeamCity property file, or a generic env-var fallback)
// into the project id / uploadability / remote URL inputs to the
// storage descriptor. Grounded on
// original_source/src/services/{mod,teamcity,generic}.rs, which the
// distilled spec.md compresses into "property-file parsing"; both
// implementations are carried forward as a supplemented feature.
package cienv

import "fmt"

// Service is a CI-environment source of project identity and upload
// eligibility.
type Service interface {
	ProjectID() string
	IsUploadable() bool
	RemoteURL() string
	fmt.Stringer
}

// Resolve tries TeamCity first (if buildPropsPath names a readable
// property file, then the file named by TEAMCITY_BUILD_PROPERTIES_FILE),
// then the generic environment-variable fallback.
// Neither applying is a fatal UnrecognizedService error, matching
// spec.md §7.
func Resolve(buildPropsPath string) (Service, error) {
	if buildPropsPath != "" {
		if svc, ok := NewTeamCityFromPath(buildPropsPath); ok {
			return svc, nil
		}
	}

	if svc, ok := TeamCityFromEnv(); ok {
		return svc, nil
	}

	if svc, ok := GenericFromEnv(); ok {
		return svc, nil
	}

	return nil, errUnrecognized()
}
